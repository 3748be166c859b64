package issues

import (
	"regexp"
)

var placeholderPattern = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)

// Format replaces every {key} placeholder of template with subs[key].
// Placeholders without a substitution are left as they are.
func Format(template string, subs map[string]string) string {
	if len(subs) == 0 {
		return template
	}
	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		key := match[1 : len(match)-1]
		if v, ok := subs[key]; ok {
			return v
		}
		return match
	})
}
