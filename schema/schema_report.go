package schema

// CheckOutcome is the final state of one check in one run.
// It is written exactly once by the runner.
type CheckOutcome struct {
	Name        string      `json:"name"`
	Status      CheckStatus `json:"status"`
	MaxSeverity Severity    `json:"max_severity"`
	Passed      bool        `json:"passed"`
	Findings    []Finding   `json:"issues,omitempty"`
	Excluded    int         `json:"excluded,omitempty"` // findings dropped by the exclusion filter
}

// Count returns how many findings of exactly the given severity the outcome holds.
func (o CheckOutcome) Count(sev Severity) int {
	n := 0
	for _, f := range o.Findings {
		if f.Severity == sev {
			n++
		}
	}
	return n
}

// GroupReport is the pass/fail of one requirement and its checks, in declaration order.
type GroupReport struct {
	ID     string         `json:"id"`
	Passed bool           `json:"passed"`
	Checks []CheckOutcome `json:"validators"`
}

// RunReport is the single, complete result of one validation run.
type RunReport struct {
	Version      string         `json:"version,omitempty"`
	Groups       []GroupReport  `json:"requirements"`
	Outcomes     []CheckOutcome `json:"-"` // one per distinct check, sorted by name
	WarningCount int            `json:"warning_count"`
	ErrorCount   int            `json:"error_count"`
	InfoCount    int            `json:"info_count"`
	Passed       bool           `json:"passed"`
}

// Outcome returns the outcome of the named check.
func (r RunReport) Outcome(name string) (CheckOutcome, bool) {
	for _, o := range r.Outcomes {
		if o.Name == name {
			return o, true
		}
	}
	return CheckOutcome{}, false
}

// Group returns the report of the group with the given id.
func (r RunReport) Group(id string) (GroupReport, bool) {
	for _, g := range r.Groups {
		if g.ID == id {
			return g, true
		}
	}
	return GroupReport{}, false
}

// FailedGroups returns the ids of the groups that did not pass.
func (r RunReport) FailedGroups() []string {
	var ids []string
	for _, g := range r.Groups {
		if !g.Passed {
			ids = append(ids, g.ID)
		}
	}
	return ids
}

// Summary condenses the report for run history.
func (r RunReport) Summary() RunSummary {
	return RunSummary{
		Passed:       r.Passed,
		TotalGroups:  len(r.Groups),
		FailedGroups: len(r.FailedGroups()),
		TotalChecks:  len(r.Outcomes),
		WarningCount: r.WarningCount,
		ErrorCount:   r.ErrorCount,
	}
}

// RunSummary holds the totals of a run stored with its history record.
type RunSummary struct {
	Passed       bool
	TotalGroups  int
	FailedGroups int
	TotalChecks  int
	WarningCount int
	ErrorCount   int
}

// ValidationInfo describes the inputs and the tool of a run in the results document.
type ValidationInfo struct {
	TargetMap       string              `json:"target_map"`
	MapRequirements MapRequirementsInfo `json:"map_requirements"`
	Validator       ValidatorInfo       `json:"validator"`
}

// MapRequirementsInfo names the requirements document of a run.
type MapRequirementsInfo struct {
	Filename string `json:"filename"`
	Version  string `json:"version"`
}

// ValidatorInfo names the tool that produced the results.
type ValidatorInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}
