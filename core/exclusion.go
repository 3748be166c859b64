package core

import (
	"fmt"

	"github.com/tier4/mapvalidator/schema"
)

type subjectKey struct {
	kind schema.SubjectKind
	id   int64
}

// ExclusionFilter drops findings about subjects listed in an exclusion list.
// A nil filter keeps everything.
type ExclusionFilter struct {
	global map[subjectKey]struct{}
	scoped map[string]map[subjectKey]struct{}
}

// NewExclusionFilter validates the entries against the known checks and subject kinds.
func NewExclusionFilter(entries []schema.ExclusionEntry, knownChecks []string) (*ExclusionFilter, error) {
	known := make(map[string]struct{}, len(knownChecks))
	for _, name := range knownChecks {
		known[name] = struct{}{}
	}

	f := &ExclusionFilter{
		global: make(map[subjectKey]struct{}),
		scoped: make(map[string]map[subjectKey]struct{}),
	}
	for i, entry := range entries {
		if _, ok := schema.ValidSubjectKinds[entry.SubjectKind]; !ok {
			return nil, fmt.Errorf("exclusion entry %d: %w %q", i, ErrUnknownSubjectKind, entry.SubjectKind)
		}
		key := subjectKey{kind: entry.SubjectKind, id: entry.SubjectID}
		if entry.Global() {
			f.global[key] = struct{}{}
			continue
		}
		for _, check := range entry.Checks {
			if _, ok := known[check]; !ok {
				return nil, fmt.Errorf("exclusion entry %d: %w %q", i, ErrUnknownCheck, check)
			}
			if f.scoped[check] == nil {
				f.scoped[check] = make(map[subjectKey]struct{})
			}
			f.scoped[check][key] = struct{}{}
		}
	}
	return f, nil
}

// Excludes reports whether a finding of check about the given subject is dropped.
func (f *ExclusionFilter) Excludes(check string, kind schema.SubjectKind, id int64) bool {
	if f == nil {
		return false
	}
	key := subjectKey{kind: kind, id: id}
	if _, ok := f.global[key]; ok {
		return true
	}
	_, ok := f.scoped[check][key]
	return ok
}

// Apply returns the findings of check that survive the filter and how many were dropped.
// The input slice is not modified.
func (f *ExclusionFilter) Apply(check string, findings []schema.Finding) ([]schema.Finding, int) {
	if f == nil || len(findings) == 0 {
		return findings, 0
	}
	kept := make([]schema.Finding, 0, len(findings))
	for _, finding := range findings {
		if f.Excludes(check, finding.SubjectKind, finding.SubjectID) {
			continue
		}
		kept = append(kept, finding)
	}
	return kept, len(findings) - len(kept)
}

// Len returns the number of distinct (check, subject) exclusions.
func (f *ExclusionFilter) Len() int {
	if f == nil {
		return 0
	}
	n := len(f.global)
	for _, subjects := range f.scoped {
		n += len(subjects)
	}
	return n
}
