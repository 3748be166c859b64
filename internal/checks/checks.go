// Package checks holds the registry of map checks and the built-in Lanelet2 checks.
package checks

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"regexp"
	"slices"

	"github.com/tier4/mapvalidator/internal/contract"
	"github.com/tier4/mapvalidator/internal/issues"
	"github.com/tier4/mapvalidator/internal/mapdata"
	"github.com/tier4/mapvalidator/schema"
)

// ErrUnknownCheck is returned when running a name that was never registered.
var ErrUnknownCheck = errors.New("unknown check")

// Check is one named, independent validation over a map.
type Check struct {
	Name        string
	Description string
	Run         func(env *Env)
}

// Env is what a check sees while it runs.
type Env struct {
	Ctx    context.Context
	Map    *mapdata.Map
	Params schema.CheckParameters

	name     string
	catalog  *issues.Catalog
	findings []schema.Finding
	err      error
}

// Issue reports the n-th issue of the running check about subject id.
// The severity, subject kind and message come from the issue catalog.
func (e *Env) Issue(n int, id int64, subs map[string]string) {
	if e.err != nil {
		return
	}
	code, err := issues.Code(e.name, n)
	if err != nil {
		e.err = err
		return
	}
	finding, err := e.catalog.Construct(code, id, subs)
	if err != nil {
		e.err = err
		return
	}
	e.findings = append(e.findings, finding)
}

// Registry maps check names to their implementation.
type Registry struct {
	checks map[string]Check
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{checks: make(map[string]Check)}
}

// Register adds a check. Names must be unique and non-empty.
func (r *Registry) Register(c Check) error {
	if c.Name == "" || c.Run == nil {
		return fmt.Errorf("check %q needs a name and a run function", c.Name)
	}
	if _, dup := r.checks[c.Name]; dup {
		return fmt.Errorf("check %q is already registered", c.Name)
	}
	r.checks[c.Name] = c
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(c Check) {
	if err := r.Register(c); err != nil {
		panic(err)
	}
}

// Names returns every registered name, sorted.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.checks))
}

// Match returns the sorted names matching filter. A nil filter matches everything.
func (r *Registry) Match(filter *regexp.Regexp) []string {
	var names []string
	for _, name := range r.Names() {
		if filter == nil || filter.MatchString(name) {
			names = append(names, name)
		}
	}
	return names
}

// Get returns the check registered under name.
func (r *Registry) Get(name string) (Check, bool) {
	c, ok := r.checks[name]
	return c, ok
}

// Describe returns the description of the named check.
func (r *Registry) Describe(name string) (string, bool) {
	c, ok := r.checks[name]
	return c.Description, ok
}

// Runner binds a registry to an issue catalog and check parameters.
type Runner struct {
	registry *Registry
	catalog  *issues.Catalog
	params   schema.Parameters
}

var _ contract.CheckRunner = &Runner{}

// Runner returns a runner that renders findings with catalog.
func (r *Registry) Runner(catalog *issues.Catalog, params schema.Parameters) *Runner {
	return &Runner{registry: r, catalog: catalog, params: params}
}

// HasCheck reports whether name is registered.
func (r *Runner) HasCheck(name string) bool {
	_, ok := r.registry.checks[name]
	return ok
}

// RunCheck runs the named check against m.
func (r *Runner) RunCheck(ctx context.Context, name string, m *mapdata.Map) ([]schema.Finding, error) {
	c, ok := r.registry.checks[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCheck, name)
	}
	env := &Env{
		Ctx:     ctx,
		Map:     m,
		Params:  r.params.For(name),
		name:    name,
		catalog: r.catalog,
	}
	c.Run(env)
	if env.err != nil {
		return nil, env.err
	}
	return env.findings, nil
}
