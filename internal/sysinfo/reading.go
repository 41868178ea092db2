package sysinfo

import (
	"errors"
	"io/fs"
	"strings"
)

// Placeholder values shown when a metric cannot be read.
const (
	PlaceholderPermission  = "Permission Denied"
	PlaceholderUnavailable = "Not available"
	PlaceholderNA          = "N/A"
)

// errUnsupported marks metrics the current platform cannot provide.
var errUnsupported = errors.New("not supported on this platform")

// Reading is the tagged result of one metric probe.
type Reading struct {
	Available bool   `json:"available" yaml:"available"`
	Value     string `json:"value,omitempty" yaml:"value,omitempty"`
	Reason    string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Available wraps a successfully read value.
func Available(value string) Reading {
	return Reading{Available: true, Value: value}
}

// Unavailable records that a metric could not be read; reason is what the
// report shows in its place.
func Unavailable(reason string) Reading {
	return Reading{Reason: reason}
}

// String renders the value or its placeholder.
func (r Reading) String() string {
	if r.Available {
		return r.Value
	}
	return r.Reason
}

// Line is a labelled reading in a report section.
type Line struct {
	Label   string  `json:"label" yaml:"label"`
	Reading Reading `json:"reading" yaml:"reading"`
}

// placeholderFor maps a probe error to the text shown in the report.
func placeholderFor(err error, fallback string) string {
	if errors.Is(err, fs.ErrPermission) {
		return PlaceholderPermission
	}
	// gopsutil flattens some syscall errors into plain strings.
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "permission denied") || strings.Contains(msg, "access is denied") {
		return PlaceholderPermission
	}
	return fallback
}
