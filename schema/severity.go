package schema

import (
	"fmt"
	"strings"
)

// Severity is the blocking strength of a finding.
// The zero value is SeverityNone, the weakest.
type Severity int

// Severities in increasing blocking strength.
const (
	SeverityNone Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
)

// AllSeverities lists every severity from most to least severe.
var AllSeverities = []Severity{SeverityError, SeverityWarning, SeverityInfo, SeverityNone}

var severityNames = map[Severity]string{
	SeverityNone:    "None",
	SeverityInfo:    "Info",
	SeverityWarning: "Warning",
	SeverityError:   "Error",
}

// String returns the display name used in reports.
func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

// Compare returns -1, 0 or +1 when s is less, equally or more severe than other.
func (s Severity) Compare(other Severity) int {
	switch {
	case s < other:
		return -1
	case s > other:
		return 1
	default:
		return 0
	}
}

// MoreSevere reports whether s blocks strictly harder than other.
func (s Severity) MoreSevere(other Severity) bool {
	return s.Compare(other) > 0
}

// AtLeast reports whether s is as severe as other or more.
func (s Severity) AtLeast(other Severity) bool {
	return s.Compare(other) >= 0
}

// Valid reports whether s is one of the four declared severities.
func (s Severity) Valid() bool {
	_, ok := severityNames[s]
	return ok
}

// ParseSeverity parses a severity name, case-insensitively.
// "warn" is accepted as an alias for warning.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return SeverityError, nil
	case "warning", "warn":
		return SeverityWarning, nil
	case "info":
		return SeverityInfo, nil
	case "none", "":
		return SeverityNone, nil
	default:
		return SeverityNone, fmt.Errorf("invalid severity %q (expected error, warning, info or none)", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("cannot marshal %s", s)
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
