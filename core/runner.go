package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tier4/mapvalidator/internal/contract"
	"github.com/tier4/mapvalidator/internal/logctx"
	"github.com/tier4/mapvalidator/internal/mapdata"
	"github.com/tier4/mapvalidator/schema"
)

// RunOptions tune a Runner.
type RunOptions struct {
	Workers int              // checks run concurrently inside one level; 1 or less runs serially
	Policy  PassPolicy       // zero value means DefaultPassPolicy
	Filter  *ExclusionFilter // nil keeps every finding
}

// Runner drives one validation run: schedule, gate, invoke, filter, track and report.
type Runner struct {
	checks contract.CheckRunner
	opts   RunOptions
}

// NewRunner creates a runner invoking checks through the given runner.
func NewRunner(checks contract.CheckRunner, opts RunOptions) *Runner {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Policy.Cutoff == schema.SeverityNone {
		opts.Policy = DefaultPassPolicy
	}
	return &Runner{checks: checks, opts: opts}
}

// Run validates m against every check of set and returns the complete report.
// Configuration errors are returned before any check runs. When ctx is cancelled,
// checks that did not start are reported as failed and ctx.Err() is returned
// together with the report.
func (r *Runner) Run(ctx context.Context, set schema.RequirementSet, m *mapdata.Map) (schema.RunReport, error) {
	logger := logctx.FromContext(ctx)

	for _, name := range set.CheckNames() {
		if !r.checks.HasCheck(name) {
			return schema.RunReport{}, fmt.Errorf("%w: %q", ErrUnimplementedCheck, name)
		}
	}

	plan := Schedule(BuildGraph(set.Specs))
	logger.Debug("scheduled checks", "levels", len(plan.Levels), "runnable", len(plan.Order), "failed", plan.Failed)

	outcomes := make(map[string]*schema.CheckOutcome, len(plan.Order)+len(plan.Failed))
	for _, name := range plan.Failed {
		finding := invalidPrerequisitesFinding()
		outcomes[name] = &schema.CheckOutcome{
			Name:        name,
			Status:      schema.InvalidStatus,
			MaxSeverity: finding.Severity,
			Findings:    []schema.Finding{finding},
		}
	}

	severityOf := func(name string) schema.Severity {
		if o, ok := outcomes[name]; ok {
			return o.MaxSeverity
		}
		return schema.SeverityError
	}

	var runErr error
	for i, level := range plan.Levels {
		if err := ctx.Err(); err != nil {
			runErr = err
			for _, rest := range plan.Levels[i:] {
				for _, name := range rest {
					outcomes[name] = cancelledOutcome(name, err)
				}
			}
			logger.Warn("run cancelled", "level", i, "error", err)
			break
		}
		results := r.runLevel(ctx, set, m, level, severityOf)
		for j, name := range level {
			outcomes[name] = &results[j]
		}
	}
	if runErr == nil {
		runErr = ctx.Err()
	}

	return Aggregate(set, outcomes), runErr
}

// runLevel runs the checks of one level and returns their outcomes in level order.
// Every worker writes only its own cell of the result slice.
func (r *Runner) runLevel(ctx context.Context, set schema.RequirementSet, m *mapdata.Map, level []string, severityOf func(string) schema.Severity) []schema.CheckOutcome {
	results := make([]schema.CheckOutcome, len(level))
	workers := min(r.opts.Workers, len(level))
	if workers <= 1 {
		for i, name := range level {
			results[i] = r.runOne(ctx, set, m, name, severityOf)
		}
		return results
	}

	jobs := make(chan int, len(level))
	var wg sync.WaitGroup
	for range workers {
		wg.Go(func() {
			for i := range jobs {
				results[i] = r.runOne(ctx, set, m, level[i], severityOf)
			}
		})
	}
	for i := range level {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return results
}

// runOne gates, invokes, filters and tracks a single check.
func (r *Runner) runOne(ctx context.Context, set schema.RequirementSet, m *mapdata.Map, name string, severityOf func(string) schema.Severity) schema.CheckOutcome {
	logger := logctx.FromContext(ctx)

	if err := ctx.Err(); err != nil {
		return *cancelledOutcome(name, err)
	}

	spec, _ := set.Spec(name)
	if blocking := Gate(spec, severityOf); len(blocking) > 0 {
		logger.Debug("check gated", "check", name, "blocking", blocking)
		finding := gatedFinding(name, blocking)
		return schema.CheckOutcome{
			Name:        name,
			Status:      schema.GatedStatus,
			MaxSeverity: finding.Severity,
			Findings:    []schema.Finding{finding},
		}
	}

	start := time.Now()
	findings, err := r.invoke(ctx, name, m)
	if err != nil {
		logger.Warn("check failed", "check", name, "error", err)
		finding := checkFailedFinding(err)
		return schema.CheckOutcome{
			Name:        name,
			Status:      schema.RanStatus,
			MaxSeverity: finding.Severity,
			Findings:    []schema.Finding{finding},
		}
	}

	kept, dropped := r.opts.Filter.Apply(name, findings)
	logger.Debug("check finished", "check", name, "findings", len(kept), "excluded", dropped, "elapsed", time.Since(start))
	return schema.CheckOutcome{
		Name:        name,
		Status:      schema.RanStatus,
		MaxSeverity: MaxSeverity(kept),
		Passed:      r.opts.Policy.Passed(kept),
		Findings:    kept,
		Excluded:    dropped,
	}
}

// invoke calls the check and turns a panic into an error.
func (r *Runner) invoke(ctx context.Context, name string, m *mapdata.Map) (findings []schema.Finding, err error) {
	defer func() {
		if p := recover(); p != nil {
			findings = nil
			err = fmt.Errorf("panic in %s: %v", name, p)
		}
	}()
	return r.checks.RunCheck(ctx, name, m)
}

func cancelledOutcome(name string, err error) *schema.CheckOutcome {
	finding := cancelledFinding(err)
	return &schema.CheckOutcome{
		Name:        name,
		Status:      schema.CancelledStatus,
		MaxSeverity: finding.Severity,
		Findings:    []schema.Finding{finding},
	}
}
