// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/tier4/mapvalidator/internal/mapdata"
	"github.com/tier4/mapvalidator/schema"
)

// CheckRunner invokes one named check against a map.
// This allows the orchestration core to be tested without real checks.
type CheckRunner interface {
	// RunCheck returns the raw findings of the named check.
	// An error is a failure of the check itself, not a finding about the map.
	RunCheck(ctx context.Context, name string, m *mapdata.Map) ([]schema.Finding, error)

	// HasCheck reports whether an implementation is registered under name.
	HasCheck(name string) bool
}

// StoreManager defines the interface for managing history stores.
// This allows the history layer to be mocked for testing.
type StoreManager interface {
	GetHistoryStore() HistoryStore
}

// HistoryStore defines the interface for tracking validation runs and their findings.
type HistoryStore interface {
	// BeginRun creates a new run and returns its unique ID
	BeginRun(startTime time.Time, configParams map[string]any) (int64, error)

	// RecordCheck stores the outcome of one check and its findings
	RecordCheck(runID int64, outcome schema.CheckOutcome) error

	// EndRun updates the run with completion data
	EndRun(runID int64, endTime time.Time, summary schema.RunSummary) error

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// GetAllRuns returns every recorded run, oldest first
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllFindings returns every recorded finding, ordered by run
	GetAllFindings() ([]schema.FindingRecord, error)

	// Close closes the underlying connection
	Close() error
}
