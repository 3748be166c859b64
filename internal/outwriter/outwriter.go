// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/tier4/mapvalidator/internal/contract"
	"github.com/tier4/mapvalidator/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteReport prints the results of a validation run using the configured output format.
func (ow *OutWriter) WriteReport(report schema.RunReport, set schema.RequirementSet, info schema.ValidationInfo, cfg *contract.Config, duration time.Duration) error {
	return PrintReport(report, set, info, cfg, duration)
}

// WriteLoadingFindings prints the problems found while reading the map.
func (ow *OutWriter) WriteLoadingFindings(findings []schema.Finding, cfg *contract.Config) error {
	return PrintLoadingFindings(findings, cfg)
}

// WriteHeader prints the short header shown before a text report.
func (ow *OutWriter) WriteHeader(info schema.ValidationInfo, cfg *contract.Config) {
	PrintValidationHeader(info, cfg)
}

// WriteChecks prints the registered checks using the configured output format.
func (ow *OutWriter) WriteChecks(checks []schema.CheckInfo, cfg *contract.Config) error {
	return PrintChecks(checks, cfg)
}

// WriteRuns prints recorded validation runs using the configured output format.
func (ow *OutWriter) WriteRuns(runs []schema.RunRecord, cfg *contract.Config) error {
	return PrintRuns(runs, cfg)
}
