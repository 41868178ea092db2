package workload

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownIntensity is returned for intensity names outside low/medium/high.
var ErrUnknownIntensity = errors.New("unknown intensity")

// Intensity is a named workload-size tier.
type Intensity string

const (
	IntensityLow    Intensity = "low"
	IntensityMedium Intensity = "medium"
	IntensityHigh   Intensity = "high"
)

// DefaultIntensity is used when no intensity is configured.
const DefaultIntensity = IntensityHigh

// ParseIntensity converts a user supplied name to an Intensity.
// An empty string yields DefaultIntensity.
func ParseIntensity(s string) (Intensity, error) {
	switch Intensity(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultIntensity, nil
	case IntensityLow:
		return IntensityLow, nil
	case IntensityMedium:
		return IntensityMedium, nil
	case IntensityHigh:
		return IntensityHigh, nil
	}
	return "", fmt.Errorf("%w: %q (want low, medium or high)", ErrUnknownIntensity, s)
}

// Rounds returns how many times the digest chain is applied per invocation.
func (i Intensity) Rounds() int {
	switch i {
	case IntensityLow:
		return 100
	case IntensityHigh:
		return 10000
	default:
		return 1000
	}
}

func (i Intensity) String() string {
	return string(i)
}
