package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var bannerLines = []string{
	"██████   ██████  ██████   ██████  ████████ ███████ ██    ██ ███████ ███████",
	"██   ██ ██    ██ ██   ██ ██    ██    ██    ██      ██    ██    ███     ███ ",
	"██████  ██    ██ ██████  ██    ██    ██    █████   ██    ██   ███     ███  ",
	"██   ██ ██    ██ ██   ██ ██    ██    ██    ██      ██    ██  ███     ███   ",
	"██   ██  ██████  ██████   ██████     ██    ██       ██████  ███████ ███████",
	"___________________________________________________________________________",
}

func printBanner(w io.Writer) {
	green := color.New(color.FgGreen)
	for _, line := range bannerLines {
		fmt.Fprintln(w, green.Sprint(line))
	}
	fmt.Fprintln(w, color.New(color.FgMagenta, color.Underline).Sprintf("robotfuzz v%s", version))
}
