package core

import (
	"cmp"
	"slices"

	"github.com/tier4/mapvalidator/schema"
)

// Aggregate folds per-check outcomes into the run report.
// A group passes when all of its checks passed. Totals count the findings of
// every distinct check once, even when the check belongs to several groups.
func Aggregate(set schema.RequirementSet, outcomes map[string]*schema.CheckOutcome) schema.RunReport {
	report := schema.RunReport{
		Version: set.Version,
		Groups:  make([]schema.GroupReport, 0, len(set.Groups)),
		Passed:  true,
	}

	for _, group := range set.Groups {
		gr := schema.GroupReport{ID: group.ID, Passed: true, Checks: make([]schema.CheckOutcome, 0, len(group.Checks))}
		for _, name := range group.Checks {
			outcome := outcomeOrMissing(outcomes, name)
			gr.Checks = append(gr.Checks, outcome)
			gr.Passed = gr.Passed && outcome.Passed
		}
		report.Passed = report.Passed && gr.Passed
		report.Groups = append(report.Groups, gr)
	}

	for _, name := range set.CheckNames() {
		outcome := outcomeOrMissing(outcomes, name)
		report.Outcomes = append(report.Outcomes, outcome)
		report.ErrorCount += outcome.Count(schema.SeverityError)
		report.WarningCount += outcome.Count(schema.SeverityWarning)
		report.InfoCount += outcome.Count(schema.SeverityInfo)
	}
	slices.SortFunc(report.Outcomes, func(a, b schema.CheckOutcome) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return report
}

// outcomeOrMissing returns the outcome of name. A missing outcome means the
// runner never reached the check, which is reported as a failure.
func outcomeOrMissing(outcomes map[string]*schema.CheckOutcome, name string) schema.CheckOutcome {
	if o, ok := outcomes[name]; ok && o != nil {
		return *o
	}
	return schema.CheckOutcome{Name: name, Status: schema.CancelledStatus, MaxSeverity: schema.SeverityError}
}
