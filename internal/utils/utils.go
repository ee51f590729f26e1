package utils

import (
	"bufio"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
)

var (
	SuccessColor = color.New(color.FgGreen).SprintFunc()
	WarningColor = color.New(color.FgYellow).SprintFunc()
	ErrorColor   = color.New(color.FgRed).SprintFunc()
	InfoColor    = color.New(color.FgCyan).SprintFunc()
)

// maxLineSize bounds a single wordlist entry.
const maxLineSize = 1024 * 1024

// PrintSuccess formats and prints a success message.
func PrintSuccess(msg string) {
	fmt.Fprintf(color.Output, "[%s] %s\n", SuccessColor("SUCCESS"), msg)
}

// PrintWarning formats and prints a warning message.
func PrintWarning(msg string) {
	fmt.Fprintf(color.Output, "[%s] %s\n", WarningColor("WARNING"), msg)
}

// PrintError formats and prints an error message.
func PrintError(msg string) {
	fmt.Fprintf(color.Output, "[%s] %s\n", ErrorColor("ERROR"), msg)
}

// PrintInfo formats and prints an informational message.
func PrintInfo(msg string) {
	fmt.Fprintf(color.Output, "[%s] %s\n", InfoColor("INFO"), msg)
}

// ReadLines reads a file and returns its lines as a slice of strings.
// Empty lines are kept; a trailing carriage return is dropped.
func ReadLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

// ReadWordlist resolves path to an absolute, symlink-free location, checks that it
// is a regular file and returns its lines.
func ReadWordlist(path string) ([]string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("error resolving path '%s': %w", path, err)
	}
	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("error resolving path '%s': %w", path, err)
	}
	info, err := os.Stat(canonical)
	if err != nil {
		return nil, fmt.Errorf("error resolving path '%s': %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("path is not a file: %s", canonical)
	}
	lines, err := ReadLines(canonical)
	if err != nil {
		return nil, fmt.Errorf("error reading wordlist file: %w", err)
	}
	return lines, nil
}

// GenerateCurlCommand creates a reproducible curl command from a request.
func GenerateCurlCommand(req *http.Request) string {
	var command strings.Builder
	command.WriteString("curl -X ")
	command.WriteString(req.Method)
	command.WriteString(fmt.Sprintf(" '%s'", req.URL.String()))

	keys := make([]string, 0, len(req.Header))
	for key := range req.Header {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		// Host header is added by curl automatically
		if key == "Host" {
			continue
		}
		for _, value := range req.Header[key] {
			command.WriteString(fmt.Sprintf(" -H '%s: %s'", key, value))
		}
	}

	if req.URL.Scheme == "https" {
		command.WriteString(" -k")
	}

	return command.String()
}
