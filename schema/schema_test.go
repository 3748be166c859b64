package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverityOrdering(t *testing.T) {
	assert.True(t, SeverityError.MoreSevere(SeverityWarning))
	assert.True(t, SeverityWarning.MoreSevere(SeverityInfo))
	assert.True(t, SeverityInfo.MoreSevere(SeverityNone))
	assert.False(t, SeverityWarning.MoreSevere(SeverityWarning))
	assert.True(t, SeverityWarning.AtLeast(SeverityWarning))
	assert.False(t, SeverityInfo.AtLeast(SeverityWarning))
	assert.Equal(t, 0, SeverityError.Compare(SeverityError))
	assert.Equal(t, -1, SeverityNone.Compare(SeverityInfo))
}

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in      string
		want    Severity
		wantErr bool
	}{
		{"error", SeverityError, false},
		{"ERROR", SeverityError, false},
		{" warn ", SeverityWarning, false},
		{"Warning", SeverityWarning, false},
		{"info", SeverityInfo, false},
		{"", SeverityNone, false},
		{"fatal", SeverityNone, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSeverity(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSeverityText(t *testing.T) {
	data, err := json.Marshal(Finding{Severity: SeverityWarning, SubjectKind: PointSubject, SubjectID: 3, Message: "m"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"severity":"Warning","primitive":"point","id":3,"message":"m"}`, string(data))

	var f Finding
	require.NoError(t, json.Unmarshal([]byte(`{"severity":"Error"}`), &f))
	assert.Equal(t, SeverityError, f.Severity)

	_, err = Severity(9).MarshalText()
	assert.Error(t, err)
	assert.Equal(t, "Severity(9)", Severity(9).String())
	assert.False(t, Severity(9).Valid())
}

func TestCheckParameters(t *testing.T) {
	params := Parameters{
		"a": {"max": 120, "ratio": 0.5, "name": "x", "strict": true, "whole": float64(3)},
	}
	a := params.For("a")
	assert.Equal(t, 120.0, a.Float("max", 0))
	assert.Equal(t, 0.5, a.Float("ratio", 0))
	assert.Equal(t, 3, a.Int("whole", 0))
	assert.Equal(t, 7, a.Int("ratio", 7))
	assert.Equal(t, "x", a.String("name", ""))
	assert.True(t, a.Bool("strict", false))
	assert.Equal(t, 1.5, a.Float("missing", 1.5))

	missing := params.For("b")
	assert.NotNil(t, missing)
	assert.Equal(t, "d", missing.String("name", "d"))
}

func TestCheckSpecSameEdges(t *testing.T) {
	a := CheckSpec{Name: "c", Prerequisites: []PrerequisiteEdge{
		{Dependent: "c", Prerequisite: "x"},
		{Dependent: "c", Prerequisite: "y", ForgiveWarning: true},
	}}
	b := CheckSpec{Name: "c", Prerequisites: []PrerequisiteEdge{
		{Dependent: "c", Prerequisite: "y", ForgiveWarning: true},
		{Dependent: "c", Prerequisite: "x"},
	}}
	assert.True(t, a.SameEdges(b))

	b.Prerequisites[0].ForgiveWarning = false
	assert.False(t, a.SameEdges(b))
	assert.False(t, a.SameEdges(CheckSpec{Name: "c"}))
}

func TestRequirementSetSpec(t *testing.T) {
	set := RequirementSet{Specs: []CheckSpec{{Name: "a"}, {Name: "b"}, {Name: "d"}}}
	spec, ok := set.Spec("b")
	assert.True(t, ok)
	assert.Equal(t, "b", spec.Name)
	_, ok = set.Spec("c")
	assert.False(t, ok)
	assert.Equal(t, []string{"a", "b", "d"}, set.CheckNames())
}

func TestRunReportHelpers(t *testing.T) {
	report := RunReport{
		Groups: []GroupReport{{ID: "g1", Passed: true}, {ID: "g2"}},
		Outcomes: []CheckOutcome{
			{Name: "a", Findings: []Finding{{Severity: SeverityWarning}, {Severity: SeverityWarning}, {Severity: SeverityError}}},
			{Name: "b"},
		},
		WarningCount: 2,
		ErrorCount:   1,
	}

	o, ok := report.Outcome("a")
	require.True(t, ok)
	assert.Equal(t, 2, o.Count(SeverityWarning))
	assert.Equal(t, 1, o.Count(SeverityError))
	_, ok = report.Outcome("z")
	assert.False(t, ok)

	_, ok = report.Group("g2")
	assert.True(t, ok)
	assert.Equal(t, []string{"g2"}, report.FailedGroups())
	assert.Equal(t, RunSummary{TotalGroups: 2, FailedGroups: 1, TotalChecks: 2, WarningCount: 2, ErrorCount: 1}, report.Summary())

	assert.True(t, ExclusionEntry{}.Global())
	assert.False(t, ExclusionEntry{Checks: []string{"a"}}.Global())
	assert.False(t, ExclusionEntry{Checks: []string{}}.Global())
}
