package core

import (
	"context"
	"errors"
	"sync"

	"github.com/tier4/mapvalidator/internal/mapdata"
	"github.com/tier4/mapvalidator/schema"
)

// fakeChecks is a contract.CheckRunner with canned results.
type fakeChecks struct {
	findings map[string][]schema.Finding
	errs     map[string]error
	panics   map[string]bool
	onRun    func(name string)

	mu    sync.Mutex
	calls []string
}

func newFakeChecks(names ...string) *fakeChecks {
	f := &fakeChecks{
		findings: make(map[string][]schema.Finding),
		errs:     make(map[string]error),
		panics:   make(map[string]bool),
	}
	for _, n := range names {
		f.findings[n] = nil
	}
	return f
}

func (f *fakeChecks) HasCheck(name string) bool {
	_, ok := f.findings[name]
	return ok
}

func (f *fakeChecks) RunCheck(_ context.Context, name string, _ *mapdata.Map) ([]schema.Finding, error) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()
	if f.onRun != nil {
		f.onRun(name)
	}
	if f.panics[name] {
		panic("boom")
	}
	if err := f.errs[name]; err != nil {
		return nil, err
	}
	return f.findings[name], nil
}

func (f *fakeChecks) called(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c == name {
			return true
		}
	}
	return false
}

var errCheckBroken = errors.New("check broken")

func finding(sev schema.Severity, kind schema.SubjectKind, id int64) schema.Finding {
	return schema.Finding{Severity: sev, SubjectKind: kind, SubjectID: id, Code: "Test.Finding-001", Message: "test finding"}
}

func spec(name string, prereqs ...schema.PrerequisiteEdge) schema.CheckSpec {
	for i := range prereqs {
		prereqs[i].Dependent = name
	}
	return schema.CheckSpec{Name: name, Prerequisites: prereqs}
}

func needs(name string) schema.PrerequisiteEdge {
	return schema.PrerequisiteEdge{Prerequisite: name}
}

func forgiving(name string) schema.PrerequisiteEdge {
	return schema.PrerequisiteEdge{Prerequisite: name, ForgiveWarning: true}
}

// singleGroup builds a set with one group per spec, named after the check.
func singleGroup(specs ...schema.CheckSpec) schema.RequirementSet {
	b := NewRequirementSetBuilder("1.0.0", "test.json")
	for _, s := range specs {
		b.AddGroup("group."+s.Name, s)
	}
	set, err := b.Build()
	if err != nil {
		panic(err)
	}
	return set
}
