package changelog

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// Params carries the format-specific inputs shared by the renderers.
type Params struct {
	// Version is the package version being released.
	Version string
	// Updates lists upstream component version changes (GitHub format only).
	Updates []VersionUpdate
	// Now stamps the Debian trailer. Zero means time.Now().
	Now time.Time
}

func (p Params) now() time.Time {
	if p.Now.IsZero() {
		return time.Now()
	}
	return p.Now
}

// Render writes entries in the requested format.
func Render(w io.Writer, format Format, entries []Entry, p Params) error {
	switch format {
	case FormatGitHub:
		return RenderGitHub(w, entries, p.Updates)
	case FormatDebian:
		return RenderDebian(w, entries, p.Version, p.now())
	case FormatRPM:
		return RenderRPM(w, entries, p.Version)
	case FormatJSON:
		return RenderJSON(w, entries)
	default:
		return &UnsupportedFormatError{Format: string(format)}
	}
}

// RenderString is a convenience function that renders to a string.
func RenderString(format Format, entries []Entry, p Params) (string, error) {
	var b strings.Builder
	if err := Render(&b, format, entries, p); err != nil {
		return "", fmt.Errorf("rendering %s changelog: %w", format, err)
	}
	return b.String(), nil
}

// writeLines writes each line followed by a newline.
func writeLines(w io.Writer, lines ...string) error {
	for _, line := range lines {
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return err
		}
	}
	return nil
}
