package core

import (
	"cmp"
	"fmt"
	"maps"
	"slices"

	"github.com/tier4/mapvalidator/internal/loader"
	"github.com/tier4/mapvalidator/schema"
)

// RequirementSetBuilder assembles a RequirementSet group by group.
// The first invalid declaration is kept and reported by Build.
type RequirementSetBuilder struct {
	version  string
	filename string
	groups   []schema.Group
	groupIDs map[string]struct{}
	specs    map[string]schema.CheckSpec
	err      error
}

// NewRequirementSetBuilder creates a builder for a requirements document.
func NewRequirementSetBuilder(version, filename string) *RequirementSetBuilder {
	return &RequirementSetBuilder{
		version:  version,
		filename: filename,
		groupIDs: make(map[string]struct{}),
		specs:    make(map[string]schema.CheckSpec),
	}
}

// AddGroup declares a requirement and its checks, in order.
// A check already declared by another requirement must repeat the same prerequisites.
func (b *RequirementSetBuilder) AddGroup(id string, checks ...schema.CheckSpec) *RequirementSetBuilder {
	if b.err != nil {
		return b
	}
	if id == "" {
		b.err = fmt.Errorf("%w: requirement without id", ErrInvalidDeclaration)
		return b
	}
	if _, dup := b.groupIDs[id]; dup {
		b.err = fmt.Errorf("%w: %q", ErrDuplicateGroup, id)
		return b
	}
	b.groupIDs[id] = struct{}{}

	group := schema.Group{ID: id, Checks: make([]string, 0, len(checks))}
	inGroup := make(map[string]struct{}, len(checks))
	for _, check := range checks {
		spec, err := normalizeSpec(check)
		if err != nil {
			b.err = fmt.Errorf("requirement %q: %w", id, err)
			return b
		}
		if _, dup := inGroup[spec.Name]; dup {
			b.err = fmt.Errorf("requirement %q: %w: %q is listed twice", id, ErrInvalidDeclaration, spec.Name)
			return b
		}
		inGroup[spec.Name] = struct{}{}

		if prev, seen := b.specs[spec.Name]; seen && !prev.SameEdges(spec) {
			b.err = fmt.Errorf("requirement %q: %w: %q declares different prerequisites elsewhere", id, ErrConflictingDeclaration, spec.Name)
			return b
		}
		if _, seen := b.specs[spec.Name]; !seen {
			b.specs[spec.Name] = spec
		}
		group.Checks = append(group.Checks, spec.Name)
	}
	b.groups = append(b.groups, group)
	return b
}

// Build returns the assembled set with its specs sorted by name.
func (b *RequirementSetBuilder) Build() (schema.RequirementSet, error) {
	if b.err != nil {
		return schema.RequirementSet{}, b.err
	}
	specs := slices.SortedFunc(maps.Values(b.specs), func(a, c schema.CheckSpec) int {
		return cmp.Compare(a.Name, c.Name)
	})
	return schema.RequirementSet{
		Version:  b.version,
		Filename: b.filename,
		Groups:   b.groups,
		Specs:    specs,
	}, nil
}

// RequirementSetFromDocument validates a requirements document and builds its set.
func RequirementSetFromDocument(doc *loader.RequirementsDocument) (schema.RequirementSet, error) {
	b := NewRequirementSetBuilder(doc.Version, doc.Filename)
	for _, req := range doc.Requirements {
		specs := make([]schema.CheckSpec, 0, len(req.Validators))
		for _, v := range req.Validators {
			spec := schema.CheckSpec{Name: v.Name}
			for _, p := range v.Prerequisites {
				spec.Prerequisites = append(spec.Prerequisites, schema.PrerequisiteEdge{
					Prerequisite:   p.Name,
					ForgiveWarning: p.ForgiveWarnings,
				})
			}
			specs = append(specs, spec)
		}
		b.AddGroup(req.ID, specs...)
	}
	set, err := b.Build()
	if err != nil {
		return set, fmt.Errorf("%s: %w", doc.Filename, err)
	}
	return set, nil
}

// AdHocRequirementSet puts every named check in its own group, without prerequisites.
func AdHocRequirementSet(names []string) schema.RequirementSet {
	b := NewRequirementSetBuilder("", "")
	for _, name := range names {
		b.AddGroup(name, schema.CheckSpec{Name: name})
	}
	set, _ := b.Build()
	return set
}

// normalizeSpec fills in the dependent of every edge and drops repeated edges.
func normalizeSpec(spec schema.CheckSpec) (schema.CheckSpec, error) {
	if spec.Name == "" {
		return spec, fmt.Errorf("%w: check without name", ErrInvalidDeclaration)
	}
	out := schema.CheckSpec{Name: spec.Name, Prerequisites: make([]schema.PrerequisiteEdge, 0, len(spec.Prerequisites))}
	seen := make(map[string]bool, len(spec.Prerequisites))
	for _, edge := range spec.Prerequisites {
		if edge.Prerequisite == "" {
			return spec, fmt.Errorf("%w: %q has a prerequisite without name", ErrInvalidDeclaration, spec.Name)
		}
		if forgive, dup := seen[edge.Prerequisite]; dup {
			if forgive != edge.ForgiveWarning {
				return spec, fmt.Errorf("%w: %q lists %q twice with different forgive_warnings", ErrConflictingDeclaration, spec.Name, edge.Prerequisite)
			}
			continue
		}
		seen[edge.Prerequisite] = edge.ForgiveWarning
		out.Prerequisites = append(out.Prerequisites, schema.PrerequisiteEdge{
			Dependent:      spec.Name,
			Prerequisite:   edge.Prerequisite,
			ForgiveWarning: edge.ForgiveWarning,
		})
	}
	return out, nil
}
