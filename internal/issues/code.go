// Package issues builds issue codes and localized findings from the issue catalog.
package issues

import (
	"fmt"
	"regexp"
	"strings"
)

// MaxNumber is the largest number an issue code can carry.
const MaxNumber = 999

var inlineCodePattern = regexp.MustCompile(`^\[(.+?)\]\s*(.+)$`)

// Code returns the issue code of the n-th issue of the named check.
// The first dotted segment of the name is dropped and every remaining segment
// is converted from snake_case to UpperCamelCase.
//
//	Code("mapping.lane.speed_limit_validity", 1) == "Lane.SpeedLimitValidity-001"
func Code(name string, n int) (string, error) {
	if n < 0 || n > MaxNumber {
		return "", fmt.Errorf("issue number %d out of range [0, %d]", n, MaxNumber)
	}
	if _, rest, ok := strings.Cut(name, "."); ok {
		name = rest
	}
	segments := strings.Split(name, ".")
	for i, seg := range segments {
		segments[i] = snakeToUpperCamel(seg)
	}
	return fmt.Sprintf("%s-%03d", strings.Join(segments, "."), n), nil
}

// SplitCode separates an inline "[Code] message" into its code and message.
// Messages without an inline code are returned unchanged with an empty code.
func SplitCode(message string) (code, text string) {
	m := inlineCodePattern.FindStringSubmatch(message)
	if m == nil {
		return "", message
	}
	return m[1], m[2]
}

func snakeToUpperCamel(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	upperNext := true
	for _, r := range s {
		if r == '_' {
			upperNext = true
			continue
		}
		if upperNext {
			b.WriteString(strings.ToUpper(string(r)))
			upperNext = false
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
