// Package output provides terminal output formatting utilities for the
// gnosisvpn-release CLI. Diagnostics go to stderr through slog; this package
// only writes user-facing results to stdout.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// GetTerminalWidth returns the terminal width, defaulting to 80 if unavailable.
func GetTerminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// PrintSeparator prints a dim rule with a centered label, used to frame the
// rendered changelog when it is echoed to the terminal.
func PrintSeparator(out io.Writer, label string) {
	magenta := color.New(color.FgMagenta, color.Faint).SprintFunc()

	label = " " + label + " "
	lineLen := (GetTerminalWidth() - len(label)) / 2
	if lineLen < 3 {
		lineLen = 3
	}

	line := strings.Repeat("─", lineLen)
	fmt.Fprintf(out, "%s%s%s\n", magenta(line), magenta(label), magenta(line))
}

// PrintSuccess prints a green checkmark followed by message.
func PrintSuccess(out io.Writer, message string) {
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", green("✓"), cyan(message))
}

// ComponentCount is one line of the run summary.
type ComponentCount struct {
	Component string
	Entries   int
	// Skipped is set when the component had no release window.
	Skipped bool
}

// PrintSummary prints the number of entries collected per component.
func PrintSummary(out io.Writer, counts []ComponentCount) {
	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	total := 0
	for _, c := range counts {
		total += c.Entries
		if c.Skipped {
			fmt.Fprintf(out, "  %-10s %s\n", c.Component, dim("skipped (no release window)"))
			continue
		}
		fmt.Fprintf(out, "  %-10s %d\n", c.Component, c.Entries)
	}
	fmt.Fprintf(out, "  %-10s %s\n", "Total", bold(total))
}
