package errors

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

var (
	// Color functions with auto-detection for terminal support.
	errorLabel  = color.New(color.FgRed, color.Bold).SprintFunc()
	errorMsg    = color.New(color.FgRed).SprintFunc()
	fixLabel    = color.New(color.FgGreen, color.Bold).SprintFunc()
	usageLabel  = color.New(color.FgCyan, color.Bold).SprintFunc()
	usageText   = color.New(color.FgCyan).SprintFunc()
	bullet      = color.New(color.FgGreen).SprintFunc()
	categoryFmt = color.New(color.FgYellow).SprintFunc()
)

// FormatError formats a CLIError for display in the terminal.
// It uses colors when available and falls back to plain text otherwise.
func FormatError(err *CLIError) string {
	if err == nil {
		return ""
	}
	return formatError(err, !color.NoColor)
}

// FormatErrorPlain formats a CLIError without colors.
func FormatErrorPlain(err *CLIError) string {
	if err == nil {
		return ""
	}
	return formatError(err, false)
}

// styler applies a color function only when colors are enabled.
type styler bool

func (s styler) apply(fn func(a ...interface{}) string, text string) string {
	if s {
		return fn(text)
	}
	return text
}

func formatError(err *CLIError, useColors bool) string {
	style := styler(useColors)
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s [%s]: %s\n",
		style.apply(errorLabel, "Error"),
		style.apply(categoryFmt, err.Category.String()),
		style.apply(errorMsg, err.Message))

	if err.Usage != "" {
		fmt.Fprintf(&sb, "\n%s%s\n", style.apply(usageLabel, "Usage: "), style.apply(usageText, err.Usage))
	}

	if len(err.Remediation) > 0 {
		fmt.Fprintf(&sb, "\n%s\n", style.apply(fixLabel, "To fix this:"))
		for _, step := range err.Remediation {
			fmt.Fprintf(&sb, "  %s %s\n", style.apply(bullet, "•"), step)
		}
	}

	return sb.String()
}

// FprintError prints a formatted CLIError to the given writer. Colors are
// only used when w is a terminal.
func FprintError(w io.Writer, err *CLIError) {
	if err == nil {
		return
	}
	if isTerminal(w) {
		fmt.Fprint(w, FormatError(err))
		return
	}
	fmt.Fprint(w, FormatErrorPlain(err))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
