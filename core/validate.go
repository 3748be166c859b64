package core

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/tier4/mapvalidator/internal/checks"
	"github.com/tier4/mapvalidator/internal/contract"
	"github.com/tier4/mapvalidator/internal/history"
	"github.com/tier4/mapvalidator/internal/issues"
	"github.com/tier4/mapvalidator/internal/loader"
	"github.com/tier4/mapvalidator/internal/logctx"
	"github.com/tier4/mapvalidator/internal/mapdata"
	"github.com/tier4/mapvalidator/internal/outwriter"
	"github.com/tier4/mapvalidator/schema"
)

// ValidationResult is everything one validation run produced.
type ValidationResult struct {
	Report          schema.RunReport
	Set             schema.RequirementSet
	Info            schema.ValidationInfo
	LoadingFindings []schema.Finding
}

// validationInputs are the documents a run is configured with, loaded and checked.
type validationInputs struct {
	runner *checks.Runner
	set    schema.RequirementSet
	filter *ExclusionFilter
}

// ExecuteValidation validates the configured map and prints the report.
// It returns ErrValidationFailed when at least one requirement did not pass.
func ExecuteValidation(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	result, duration, err := GetValidationResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	if err := outwriter.NewOutWriter().WriteReport(result.Report, result.Set, result.Info, cfg, duration); err != nil {
		return err
	}
	if !result.Report.Passed {
		return ErrValidationFailed
	}
	return nil
}

// GetValidationResults loads every input of the run, validates the map and records
// the run in history when a store is configured. Nothing but the header and the
// loading findings is printed.
func GetValidationResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (*ValidationResult, time.Duration, error) {
	start := time.Now()
	logger := logctx.FromContext(ctx)

	inputs, err := loadValidationInputs(cfg)
	if err != nil {
		return nil, 0, err
	}

	info := schema.ValidationInfo{
		TargetMap:       contract.ShortMapName(cfg.MapPath),
		MapRequirements: schema.MapRequirementsInfo{Filename: inputs.set.Filename, Version: inputs.set.Version},
		Validator:       schema.ValidatorInfo{Name: contract.AppName, Version: contract.AppVersion},
	}
	ow := outwriter.NewOutWriter()
	if !shouldSuppressHeader(ctx) && cfg.Output == schema.TextOut {
		ow.WriteHeader(info, cfg)
	}

	m, loadingFindings, err := mapdata.Load(cfg.MapPath)
	if err != nil {
		return nil, 0, err
	}
	logger.Debug("map loaded", "path", cfg.MapPath, "primitives", m.Size(), "loading_findings", len(loadingFindings))
	if !shouldSuppressHeader(ctx) {
		if err := ow.WriteLoadingFindings(loadingFindings, cfg); err != nil {
			return nil, 0, err
		}
	}

	var store contract.HistoryStore
	if mgr != nil {
		store = mgr.GetHistoryStore()
	}
	var runID int64
	if store != nil {
		configParams := map[string]any{
			history.MapFileParam:      cfg.MapPath,
			history.RequirementsParam: requirementsLabel(inputs.set),
			"fail_on":                 cfg.FailOn.String(),
			"checks":                  len(inputs.set.Specs),
			"workers":                 cfg.Workers,
			"exclusions":              inputs.filter.Len(),
		}
		runID, err = store.BeginRun(start, configParams)
		if err != nil {
			contract.LogWarn("Run history initialization failed", err)
		} else if runID > 0 {
			ctx = logctx.WithLogger(ctx, logger.With("run_id", runID))
		}
	}

	runner := NewRunner(inputs.runner, RunOptions{
		Workers: cfg.Workers,
		Policy:  PassPolicy{Cutoff: cfg.FailOn},
		Filter:  inputs.filter,
	})
	report, runErr := runner.Run(ctx, inputs.set, m)
	if runErr != nil && !errors.Is(runErr, context.Canceled) && !errors.Is(runErr, context.DeadlineExceeded) {
		return nil, 0, runErr
	}

	if store != nil && runID > 0 {
		recordRun(store, runID, report)
	}
	if runErr != nil {
		return nil, 0, runErr
	}

	return &ValidationResult{
		Report:          report,
		Set:             inputs.set,
		Info:            info,
		LoadingFindings: loadingFindings,
	}, time.Since(start), nil
}

// recordRun stores every outcome and closes the run. Failures only warn.
func recordRun(store contract.HistoryStore, runID int64, report schema.RunReport) {
	for _, outcome := range report.Outcomes {
		if err := store.RecordCheck(runID, outcome); err != nil {
			contract.LogWarn("Failed to record check in run history", err)
			break
		}
	}
	if err := store.EndRun(runID, time.Now(), report.Summary()); err != nil {
		contract.LogWarn("Failed to finalize run history", err)
	}
}

func requirementsLabel(set schema.RequirementSet) string {
	if set.Filename == "" {
		return "ad-hoc"
	}
	return set.Filename
}

// loadValidationInputs reads the catalog, parameters, requirements and exclusions of cfg.
func loadValidationInputs(cfg *contract.Config) (*validationInputs, error) {
	catalog, err := loadCatalog(cfg)
	if err != nil {
		return nil, err
	}

	params := cfg.Parameters
	if cfg.ParametersPath != "" {
		fromFile, err := loader.LoadParameters(cfg.ParametersPath)
		if err != nil {
			return nil, err
		}
		params = loader.MergeParameters(params, fromFile)
	}

	registry := checks.Builtin()

	var set schema.RequirementSet
	if cfg.RequirementsPath != "" {
		doc, err := loader.LoadRequirements(cfg.RequirementsPath)
		if err != nil {
			return nil, err
		}
		if set, err = RequirementSetFromDocument(doc); err != nil {
			return nil, err
		}
	} else {
		names := registry.Match(cfg.CheckFilter)
		if len(names) == 0 {
			return nil, fmt.Errorf("no checks found matching to '%s'", cfg.CheckFilter)
		}
		set = AdHocRequirementSet(names)
	}

	var entries []schema.ExclusionEntry
	if cfg.ExclusionsPath != "" {
		if entries, err = loader.LoadExclusions(cfg.ExclusionsPath); err != nil {
			return nil, err
		}
	}
	known := append(registry.Names(), set.CheckNames()...)
	slices.Sort(known)
	filter, err := NewExclusionFilter(entries, slices.Compact(known))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(cfg.ExclusionsPath), err)
	}

	return &validationInputs{
		runner: registry.Runner(catalog, params),
		set:    set,
		filter: filter,
	}, nil
}

// loadCatalog returns the configured issue catalog in the configured language.
func loadCatalog(cfg *contract.Config) (*issues.Catalog, error) {
	catalog := issues.Default()
	if cfg.IssuesInfoPath != "" {
		var err error
		if catalog, err = issues.LoadFile(cfg.IssuesInfoPath); err != nil {
			return nil, err
		}
	}
	lang := cfg.Language
	if lang == "" {
		lang = issues.DefaultLanguage
	}
	return catalog.WithLanguage(lang), nil
}

// ListChecks returns the built-in checks matching the configured filter.
func ListChecks(cfg *contract.Config) []schema.CheckInfo {
	registry := checks.Builtin()
	names := registry.Match(cfg.CheckFilter)
	out := make([]schema.CheckInfo, 0, len(names))
	for _, name := range names {
		desc, _ := registry.Describe(name)
		out = append(out, schema.CheckInfo{Name: name, Description: desc})
	}
	return out
}

// ExecuteListChecks prints the built-in checks matching the configured filter.
func ExecuteListChecks(_ context.Context, cfg *contract.Config) error {
	return outwriter.NewOutWriter().WriteChecks(ListChecks(cfg), cfg)
}

// ExplainIssue returns the catalog entry of code.
func ExplainIssue(cfg *contract.Config, code string) (issues.Entry, error) {
	catalog, err := loadCatalog(cfg)
	if err != nil {
		return issues.Entry{}, err
	}
	entry, ok := catalog.Lookup(code)
	if !ok {
		return issues.Entry{}, fmt.Errorf("unknown issue code %q", code)
	}
	return entry, nil
}

// ExecuteHistoryRuns prints every recorded run.
func ExecuteHistoryRuns(_ context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	store := mgr.GetHistoryStore()
	if store == nil {
		return errors.New("run history is not initialized")
	}
	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	return outwriter.NewOutWriter().WriteRuns(runs, cfg)
}
