package changelog

import (
	"fmt"
	"strings"
)

// Component identifies the repository an entry was fetched from.
type Component string

const (
	ComponentClient    Component = "Client"
	ComponentApp       Component = "App"
	ComponentInstaller Component = "Installer"
)

// Components returns the components in fetch order.
func Components() []Component {
	return []Component{ComponentClient, ComponentApp, ComponentInstaller}
}

// Entry represents one merged pull request, normalized for rendering.
// ID, Title and Author are never empty for an emitted entry. Date is always a
// calendar day (YYYY-MM-DD) and Type is lowercase and non-empty.
type Entry struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Labels    string    `json:"labels"`
	State     string    `json:"state"`
	Date      string    `json:"date"`
	Type      string    `json:"changelog_type"`
	Component Component `json:"component"`
}

// Section is a GitHub release-notes section. Sections render in declaration order.
type Section int

const (
	SectionFeatures Section = iota
	SectionFixes
	SectionRefactor
	SectionAutomation
	SectionDocumentation
	SectionOther
)

// Sections returns all sections in rendering order.
func Sections() []Section {
	return []Section{
		SectionFeatures,
		SectionFixes,
		SectionRefactor,
		SectionAutomation,
		SectionDocumentation,
		SectionOther,
	}
}

// String returns the section heading.
func (s Section) String() string {
	switch s {
	case SectionFeatures:
		return "New Features"
	case SectionFixes:
		return "Fixes"
	case SectionRefactor:
		return "Refactor"
	case SectionAutomation:
		return "Automation"
	case SectionDocumentation:
		return "Documentation"
	default:
		return "Other"
	}
}

// SectionFor maps a changelog type to its GitHub section.
func SectionFor(changelogType string) Section {
	switch changelogType {
	case "feat", "feature":
		return SectionFeatures
	case "fix", "bugfix":
		return SectionFixes
	case "refactor":
		return SectionRefactor
	case "ci", "cd", "chore":
		return SectionAutomation
	case "docs", "documentation":
		return SectionDocumentation
	default:
		return SectionOther
	}
}

// Format selects a renderer.
type Format string

const (
	FormatGitHub Format = "github"
	FormatDebian Format = "debian"
	FormatJSON   Format = "json"
	FormatRPM    Format = "rpm"
)

// Formats returns the supported output formats.
func Formats() []Format {
	return []Format{FormatGitHub, FormatDebian, FormatJSON, FormatRPM}
}

// UnsupportedFormatError is returned by ParseFormat for unknown names.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	names := make([]string, 0, len(Formats()))
	for _, f := range Formats() {
		names = append(names, string(f))
	}
	return fmt.Sprintf("unsupported format %q (supported: %s)", e.Format, strings.Join(names, ", "))
}

// ParseFormat validates a format name. Matching ignores case and surrounding space.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", &UnsupportedFormatError{Format: s}
}

// DefaultFilename returns the artifact file name used when no output path is given.
func (f Format) DefaultFilename() string {
	switch f {
	case FormatDebian:
		return "changelog"
	case FormatJSON:
		return "changelog.json"
	case FormatRPM:
		return "changelog.rpm"
	default:
		return "changelog.md"
	}
}

// Distribution is the Debian changelog distribution field.
type Distribution string

const (
	DistributionStable   Distribution = "stable"
	DistributionUnstable Distribution = "unstable"
)

// Urgency is the Debian changelog urgency field.
type Urgency string

const (
	UrgencyOptional Urgency = "optional"
	UrgencyMedium   Urgency = "medium"
)

// VersionUpdate describes a component version change between two releases.
type VersionUpdate struct {
	Component Component
	// Repository is the "owner/name" slug used to build tag links.
	Repository string
	Previous   string
	Current    string
}

// Changed returns true if the previous and current versions differ.
func (u VersionUpdate) Changed() bool {
	return u.Previous != u.Current
}
