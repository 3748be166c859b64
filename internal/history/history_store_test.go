package history

import (
	"bytes"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tier4/mapvalidator/schema"
)

func newSQLiteStore(t *testing.T) *HistoryStoreImpl {
	t.Helper()
	store, err := NewHistoryStore(schema.SQLiteBackend, filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store.(*HistoryStoreImpl)
}

func sampleOutcome() schema.CheckOutcome {
	return schema.CheckOutcome{
		Name:        "mapping.lane.lanelet_bounds",
		Status:      schema.RanStatus,
		MaxSeverity: schema.SeverityError,
		Findings: []schema.Finding{
			{Severity: schema.SeverityError, SubjectKind: schema.LaneletSubject, SubjectID: 42, Code: "Lane.LaneletBounds-001", Message: "left bound missing"},
			{Severity: schema.SeverityWarning, SubjectKind: schema.LaneletSubject, SubjectID: 43, Code: "Lane.LaneletBounds-002", Message: "right bound missing"},
		},
	}
}

func TestHistoryStore_RunLifecycle(t *testing.T) {
	store := newSQLiteStore(t)

	start := time.Now().Add(-3 * time.Second)
	runID, err := store.BeginRun(start, map[string]any{
		MapFileParam:      "maps/lanelet2_map.osm",
		RequirementsParam: "autoware_requirement_set.json",
		"workers":         4,
	})
	require.NoError(t, err)
	assert.Greater(t, runID, int64(0))

	require.NoError(t, store.RecordCheck(runID, sampleOutcome()))
	require.NoError(t, store.RecordCheck(runID, schema.CheckOutcome{Name: "clean", Status: schema.RanStatus, Passed: true}))
	require.NoError(t, store.EndRun(runID, start.Add(3*time.Second), schema.RunSummary{
		Passed: false, TotalChecks: 2, WarningCount: 1, ErrorCount: 1,
	}))

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	run := runs[0]
	assert.Equal(t, runID, run.RunID)
	assert.Equal(t, "maps/lanelet2_map.osm", run.MapFile)
	assert.Equal(t, "autoware_requirement_set.json", run.Requirements)
	require.NotNil(t, run.Passed)
	assert.False(t, *run.Passed)
	require.NotNil(t, run.DurationMs)
	assert.Equal(t, int64(3000), *run.DurationMs)
	require.NotNil(t, run.EndTime)
	assert.Equal(t, int32(2), *run.TotalChecks)
	assert.JSONEq(t, `{"map_file":"maps/lanelet2_map.osm","requirements":"autoware_requirement_set.json","workers":4}`, *run.ConfigParams)

	findings, err := store.GetAllFindings()
	require.NoError(t, err)
	require.Len(t, findings, 2)
	assert.Equal(t, schema.FindingRecord{
		RunID: runID, CheckName: "mapping.lane.lanelet_bounds", CheckStatus: "ran", Severity: "Error",
		SubjectKind: "lanelet", SubjectID: 42, Code: "Lane.LaneletBounds-001", Message: "left bound missing",
	}, findings[0])

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, 1, status.TotalRuns)
	assert.Equal(t, 1, status.FailedRuns)
	assert.Equal(t, runID, status.LastRunID)
	assert.Equal(t, int64(2), status.TotalFindings)
	assert.Equal(t, int64(1), status.TableSizes[runsTable])
	assert.WithinDuration(t, start, status.OldestRunTime, time.Millisecond)
}

func TestHistoryStore_UnfinishedRun(t *testing.T) {
	store := newSQLiteStore(t)
	_, err := store.BeginRun(time.Now(), nil)
	require.NoError(t, err)

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Nil(t, runs[0].EndTime)
	assert.Nil(t, runs[0].Passed)
	assert.Nil(t, runs[0].DurationMs)
}

func TestHistoryStore_EndUnknownRun(t *testing.T) {
	store := newSQLiteStore(t)
	err := store.EndRun(99, time.Now(), schema.RunSummary{})
	assert.Error(t, err)
}

func TestHistoryStore_NoneBackend(t *testing.T) {
	store, err := NewHistoryStore(schema.NoneBackend, "")
	require.NoError(t, err)

	runID, err := store.BeginRun(time.Now(), map[string]any{"a": 1})
	require.NoError(t, err)
	assert.Zero(t, runID)
	assert.NoError(t, store.RecordCheck(runID, sampleOutcome()))
	assert.NoError(t, store.EndRun(runID, time.Now(), schema.RunSummary{}))

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)

	runs, err := store.GetAllRuns()
	assert.NoError(t, err)
	assert.Nil(t, runs)
	assert.NoError(t, store.Close())
}

func TestHistoryStore_UnsupportedBackend(t *testing.T) {
	_, err := NewHistoryStore("oracle", "")
	assert.Error(t, err)
}

func TestInitStores(t *testing.T) {
	initOnce = sync.Once{}  // Reset for test
	closeOnce = sync.Once{} // Reset for test
	Manager = &StoreManager{}

	dbPath := filepath.Join(t.TempDir(), "history.db")
	require.NoError(t, InitStores(schema.SQLiteBackend, dbPath))
	require.NoError(t, InitStores(schema.SQLiteBackend, dbPath))
	assert.NotNil(t, Manager.GetHistoryStore())

	CloseStores()
	CloseStores()

	require.NoError(t, ClearHistory(schema.SQLiteBackend, dbPath, ""))
	assert.NoFileExists(t, dbPath)
	assert.NoError(t, ClearHistory(schema.SQLiteBackend, dbPath, ""))
	assert.Error(t, ClearHistory(schema.SQLiteBackend, "", ""))
	assert.NoError(t, ClearHistory(schema.NoneBackend, "", ""))
	assert.Error(t, ClearHistory("oracle", "", ""))
}

func TestExecuteHistoryExport(t *testing.T) {
	store := newSQLiteStore(t)
	var out bytes.Buffer
	prefix := filepath.Join(t.TempDir(), "export")

	err := ExecuteHistoryExport(&out, store, prefix)
	assert.ErrorContains(t, err, "no run history")

	runID, err := store.BeginRun(time.Now(), nil)
	require.NoError(t, err)
	require.NoError(t, store.RecordCheck(runID, sampleOutcome()))

	require.NoError(t, ExecuteHistoryExport(&out, store, prefix))
	assert.FileExists(t, prefix+RunsExportSuffix)
	assert.FileExists(t, prefix+FindingsExportSuffix)
	assert.Contains(t, out.String(), "Exported 2 findings")

	assert.Error(t, ExecuteHistoryExport(&out, store, ""))
	assert.Error(t, ExecuteHistoryExport(&out, nil, prefix))
}

func TestExecuteHistoryExport_StoreErrors(t *testing.T) {
	store := &MockHistoryStore{}
	store.On("GetStatus").Return(schema.HistoryStatus{Backend: "mysql", TotalRuns: 1}, nil)
	store.On("GetAllRuns").Return(nil, assert.AnError)

	err := ExecuteHistoryExport(&bytes.Buffer{}, store, filepath.Join(t.TempDir(), "x"))
	assert.ErrorIs(t, err, assert.AnError)
	store.AssertExpectations(t)
}

func TestPrintHistoryStatus(t *testing.T) {
	var out bytes.Buffer
	PrintHistoryStatus(&out, schema.HistoryStatus{Backend: "none"})
	assert.Equal(t, "History Backend: none\nConnected: false\n", out.String())

	out.Reset()
	PrintHistoryStatus(&out, schema.HistoryStatus{
		Backend: "sqlite", Connected: true, TotalRuns: 2, FailedRuns: 1, LastRunID: 2,
		TableSizes: map[string]int64{findingsTable: 5, runsTable: 2},
	})
	text := out.String()
	assert.Contains(t, text, "Failed Runs: 1")
	assert.Less(t, bytes.Index(out.Bytes(), []byte(findingsTable)), bytes.Index(out.Bytes(), []byte(runsTable+":")))
}

func TestMockStoreManager(t *testing.T) {
	store := &MockHistoryStore{}
	mgr := &MockStoreManager{}
	mgr.On("GetHistoryStore").Return(store)
	store.On("BeginRun", mock.Anything, mock.Anything).Return(int64(7), nil)

	id, err := mgr.GetHistoryStore().BeginRun(time.Now(), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	mgr.AssertExpectations(t)
}
