package core

import "github.com/tier4/mapvalidator/schema"

// MaxSeverity returns the most severe finding severity, or SeverityNone for no findings.
func MaxSeverity(findings []schema.Finding) schema.Severity {
	worst := schema.SeverityNone
	for _, f := range findings {
		if f.Severity.MoreSevere(worst) {
			worst = f.Severity
		}
	}
	return worst
}

// PassPolicy decides whether a check passed from its post-filter findings.
type PassPolicy struct {
	// Cutoff is the weakest severity that fails a check.
	Cutoff schema.Severity
}

// DefaultPassPolicy fails a check on any warning or error.
var DefaultPassPolicy = PassPolicy{Cutoff: schema.SeverityWarning}

// Passed reports whether every finding is strictly below the cutoff.
func (p PassPolicy) Passed(findings []schema.Finding) bool {
	cutoff := p.Cutoff
	if cutoff == schema.SeverityNone {
		cutoff = DefaultPassPolicy.Cutoff
	}
	return !MaxSeverity(findings).AtLeast(cutoff)
}
