package core

import (
	"fmt"
	"slices"
	"strings"

	"github.com/tier4/mapvalidator/schema"
)

// Blocks reports whether a prerequisite that ended at sev keeps its dependent from running.
// ERROR always blocks; WARNING blocks unless the edge forgives it.
func Blocks(sev schema.Severity, forgiveWarning bool) bool {
	switch sev {
	case schema.SeverityError:
		return true
	case schema.SeverityWarning:
		return !forgiveWarning
	default:
		return false
	}
}

// Gate returns the sorted names of the prerequisites of spec that block it.
// severityOf must report the final severity of every prerequisite.
func Gate(spec schema.CheckSpec, severityOf func(name string) schema.Severity) []string {
	var blocking []string
	for _, edge := range spec.Prerequisites {
		if Blocks(severityOf(edge.Prerequisite), edge.ForgiveWarning) {
			blocking = append(blocking, edge.Prerequisite)
		}
	}
	slices.Sort(blocking)
	return slices.Compact(blocking)
}

func gatedFinding(check string, blocking []string) schema.Finding {
	return schema.Finding{
		Severity:    schema.SeverityError,
		SubjectKind: schema.PrimitiveSubject,
		Code:        schema.PrerequisitesFailedCode,
		Message:     fmt.Sprintf("Prerequisites (%s) didn't pass for requirement %s.", strings.Join(blocking, ", "), check),
	}
}

func invalidPrerequisitesFinding() schema.Finding {
	return schema.Finding{
		Severity:    schema.SeverityError,
		SubjectKind: schema.PrimitiveSubject,
		Code:        schema.InvalidPrerequisitesCode,
		Message:     "Prerequisites don't exist OR they are making a loop.",
	}
}

func checkFailedFinding(err error) schema.Finding {
	return schema.Finding{
		Severity:    schema.SeverityError,
		SubjectKind: schema.PrimitiveSubject,
		Code:        schema.CheckFailedCode,
		Message:     fmt.Sprintf("Check could not complete: %v", err),
	}
}

func cancelledFinding(err error) schema.Finding {
	return schema.Finding{
		Severity:    schema.SeverityError,
		SubjectKind: schema.PrimitiveSubject,
		Code:        schema.RunCancelledCode,
		Message:     fmt.Sprintf("Check did not run: %v", err),
	}
}
