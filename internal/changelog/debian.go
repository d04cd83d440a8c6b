package changelog

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/mod/semver"
)

const (
	debianPackage    = "gnosisvpn"
	debianMaintainer = "GnosisVPN (Gnosis VPN) <tech@hoprnet.org>"
	// debianLineWidth is the maximum width of an entry line.
	debianLineWidth = 80
	// debianDateLayout is RFC 2822 with a numeric zero offset; the date is
	// always converted to UTC first.
	debianDateLayout = "Mon, 02 Jan 2006 15:04:05 +0000"
)

var (
	unstableLabelPattern = regexp.MustCompile(`(?i)experimental|breaking`)
	versionCorePattern   = regexp.MustCompile(`^v?(\d+)\.(\d+)\.(\d+)`)
)

// RenderDebian writes a single debian/changelog stanza for version.
func RenderDebian(w io.Writer, entries []Entry, version string, now time.Time) error {
	header := fmt.Sprintf("%s (%s) %s; urgency=%s",
		debianPackage, version, DebianDistribution(version, entries), DebianUrgency(version))
	if err := writeLines(w, header, ""); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, e := range entries {
		if err := writeLines(w, debianEntryLine(e)); err != nil {
			return fmt.Errorf("writing entry #%s: %w", e.ID, err)
		}
	}

	trailer := fmt.Sprintf(" -- %s  %s", debianMaintainer, now.UTC().Format(debianDateLayout))
	if err := writeLines(w, "", trailer); err != nil {
		return fmt.Errorf("writing trailer: %w", err)
	}
	return nil
}

// DebianDistribution returns unstable for release candidates, MAJOR.MINOR.0
// releases, or when any entry carries an experimental/breaking label.
func DebianDistribution(version string, entries []Entry) Distribution {
	for _, e := range entries {
		if unstableLabelPattern.MatchString(e.Labels) {
			return DistributionUnstable
		}
	}

	if strings.Contains(version, "-rc.") {
		return DistributionUnstable
	}

	v := parseVersion(version)
	if v.patch == "0" && v.prerelease == "" {
		return DistributionUnstable
	}
	return DistributionStable
}

// DebianUrgency returns optional for release candidates and patch-zero
// versions, medium otherwise.
func DebianUrgency(version string) Urgency {
	if strings.Contains(version, "-rc.") {
		return UrgencyOptional
	}
	if parseVersion(version).patch == "0" {
		return UrgencyOptional
	}
	return UrgencyMedium
}

// debianEntryLine formats an entry, shortening the title with "..." so the
// line fits debianLineWidth. The title keeps at least one character.
func debianEntryLine(e Entry) string {
	suffix := fmt.Sprintf(" by @%s in #%s", e.Author, e.ID)
	line := "  * " + e.Title + suffix

	lineLen := utf8.RuneCountInString(line)
	if lineLen <= debianLineWidth {
		return line
	}

	titleLen := utf8.RuneCountInString(e.Title)
	keep := debianLineWidth - (lineLen - titleLen) - 3
	if keep < 1 {
		keep = 1
	}

	title := []rune(e.Title)
	if keep > len(title) {
		keep = len(title)
	}
	return "  * " + string(title[:keep]) + "..." + suffix
}

// packageVersion is the subset of a semantic version the Debian rules use.
type packageVersion struct {
	major, minor, patch string
	prerelease          string
}

// parseVersion splits a package version such as "1.4.0-rc.2+build.17".
// Build metadata is ignored. Anything following the numeric core of a
// version that is not valid semver is kept as its pre-release part.
func parseVersion(version string) packageVersion {
	m := versionCorePattern.FindStringSubmatch(version)
	if m == nil {
		return packageVersion{}
	}

	v := packageVersion{major: m[1], minor: m[2], patch: m[3]}
	if sv := "v" + strings.TrimPrefix(version, "v"); semver.IsValid(sv) {
		v.prerelease = semver.Prerelease(sv)
	} else {
		v.prerelease = version[len(m[0]):]
	}
	return v
}
