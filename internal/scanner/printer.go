package scanner

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"robotfuzz/internal/signature"
)

const rowFormat = "%-10s %-10s %-10s %-10s %-12s %-50s"

var rule = strings.Repeat("=", 94)

var (
	successRow  = color.New(color.FgGreen, color.Bold)
	redirectRow = color.New(color.FgYellow, color.Bold)
	badRow      = color.New(color.FgMagenta, color.Bold)
	clientRow   = color.New(color.FgCyan, color.Bold)
	serverRow   = color.New(color.FgRed, color.Bold)
	otherRow    = color.New(color.FgWhite, color.Bold)
)

// PrintHeader writes the results table header.
func PrintHeader(w io.Writer) {
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, strings.TrimRight(fmt.Sprintf(rowFormat, "ID", "Response", "Lines", "Words", "Chars", "Payload"), " "))
	fmt.Fprintln(w, rule)
}

// FormatRow renders one result line without color.
func FormatRow(id, status int, sig signature.Signature, payload string) string {
	return fmt.Sprintf(rowFormat,
		fmt.Sprintf("%06d", id),
		strconv.Itoa(status),
		strconv.Itoa(sig.Lines),
		strconv.Itoa(sig.Words),
		strconv.Itoa(sig.Chars),
		payload,
	)
}

// StatusColor picks the row color for an HTTP status code.
func StatusColor(status int) *color.Color {
	switch {
	case status >= 200 && status <= 299:
		return successRow
	case status >= 300 && status <= 399:
		return redirectRow
	case status == 400:
		return badRow
	case status >= 401 && status <= 499:
		return clientRow
	case status >= 500 && status <= 599:
		return serverRow
	default:
		return otherRow
	}
}

// ColorRow applies the status bucket color to a formatted row.
func ColorRow(status int, row string) string {
	return StatusColor(status).Sprint(row)
}
