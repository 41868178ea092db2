package report

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownSection is returned for --omit names that are not report sections.
	ErrUnknownSection = errors.New("unknown report section")
	// ErrUnknownFormat is returned for unsupported output formats.
	ErrUnknownFormat = errors.New("unknown output format")
)

// Section identifies a block of the final report.
type Section string

const (
	SectionTime           Section = "time"
	SectionMemory         Section = "memory"
	SectionDistribution   Section = "distribution"
	SectionSystemInfo     Section = "system_info"
	SectionAdditionalInfo Section = "additional_info"
)

// AllSections lists every section in print order.
var AllSections = []Section{
	SectionTime,
	SectionMemory,
	SectionDistribution,
	SectionSystemInfo,
	SectionAdditionalInfo,
}

var sectionTitles = map[Section]string{
	SectionTime:           "Time Statistics",
	SectionMemory:         "Memory Usage",
	SectionDistribution:   "Latency Distribution",
	SectionSystemInfo:     "System Information",
	SectionAdditionalInfo: "Additional Information",
}

// Title is the header printed above the section.
func (s Section) Title() string {
	return sectionTitles[s]
}

// SectionSet is the set of sections to show.
type SectionSet map[Section]bool

// AllSectionsSet shows every section.
func AllSectionsSet() SectionSet {
	set := make(SectionSet, len(AllSections))
	for _, s := range AllSections {
		set[s] = true
	}
	return set
}

// ParseOmit starts from every section and removes the named ones. Blank
// entries are ignored; unknown names are an error.
func ParseOmit(names []string) (SectionSet, error) {
	set := AllSectionsSet()
	for _, raw := range names {
		for _, name := range strings.Split(raw, ",") {
			name = strings.ToLower(strings.TrimSpace(name))
			if name == "" {
				continue
			}
			sec := Section(name)
			if _, ok := sectionTitles[sec]; !ok {
				return nil, fmt.Errorf("%w: %q (valid: %s)", ErrUnknownSection, name, sectionNames())
			}
			delete(set, sec)
		}
	}
	return set, nil
}

// Has reports whether sec is shown.
func (s SectionSet) Has(sec Section) bool {
	return s[sec]
}

func sectionNames() string {
	names := make([]string, len(AllSections))
	for i, s := range AllSections {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// Format selects how the report is rendered.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name. Empty means text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q (want text, json or yaml)", ErrUnknownFormat, s)
}
