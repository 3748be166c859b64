// Package schema has the models and constants shared by all parts of mapvalidator.
package schema

import (
	"cmp"
	"slices"
)

// Finding is one reported problem on one subject of the map.
type Finding struct {
	Severity    Severity    `json:"severity"`
	SubjectKind SubjectKind `json:"primitive"`
	SubjectID   int64       `json:"id"`
	Code        string      `json:"issue_code,omitempty"`
	Message     string      `json:"message"`
}

// PrerequisiteEdge is declared by Dependent: it should only run after Prerequisite.
type PrerequisiteEdge struct {
	Dependent      string
	Prerequisite   string
	ForgiveWarning bool // a WARNING on Prerequisite does not block Dependent
}

// CheckSpec is a check name together with the prerequisites it declares.
type CheckSpec struct {
	Name          string
	Prerequisites []PrerequisiteEdge
}

// SameEdges reports whether both specs declare the same prerequisite set.
func (c CheckSpec) SameEdges(other CheckSpec) bool {
	if len(c.Prerequisites) != len(other.Prerequisites) {
		return false
	}
	key := func(e PrerequisiteEdge) string {
		if e.ForgiveWarning {
			return e.Prerequisite + "\x00forgive"
		}
		return e.Prerequisite
	}
	a := make([]string, 0, len(c.Prerequisites))
	b := make([]string, 0, len(other.Prerequisites))
	for i := range c.Prerequisites {
		a = append(a, key(c.Prerequisites[i]))
		b = append(b, key(other.Prerequisites[i]))
	}
	slices.Sort(a)
	slices.Sort(b)
	return slices.Equal(a, b)
}

// Group is a requirement: an ordered list of checks reported together.
type Group struct {
	ID     string
	Checks []string
}

// RequirementSet is the parsed check registry input of one run.
// Specs holds one entry per distinct check name, sorted by name.
type RequirementSet struct {
	Version  string
	Filename string
	Groups   []Group
	Specs    []CheckSpec
}

// CheckNames returns the names of all declared checks, sorted.
func (r RequirementSet) CheckNames() []string {
	names := make([]string, 0, len(r.Specs))
	for _, spec := range r.Specs {
		names = append(names, spec.Name)
	}
	return names
}

// Spec returns the declaration of the named check.
func (r RequirementSet) Spec(name string) (CheckSpec, bool) {
	i, found := slices.BinarySearchFunc(r.Specs, name, func(s CheckSpec, n string) int {
		return cmp.Compare(s.Name, n)
	})
	if !found {
		return CheckSpec{}, false
	}
	return r.Specs[i], true
}

// ExclusionEntry removes findings about one subject, globally or for some checks only.
type ExclusionEntry struct {
	SubjectKind SubjectKind
	SubjectID   int64
	Checks      []string // nil means every check; empty means none
}

// Global reports whether the entry applies to every check.
func (e ExclusionEntry) Global() bool {
	return e.Checks == nil
}

// CheckInfo describes one registered check.
type CheckInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
