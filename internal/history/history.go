// Package history records validation runs and their findings in a SQL database.
package history

import (
	"fmt"
	"sync"

	"github.com/tier4/mapvalidator/internal/contract"
	"github.com/tier4/mapvalidator/schema"
)

// Table names for run history.
const (
	runsTable     = "mapvalidator_runs"
	findingsTable = "mapvalidator_findings"
)

// StoreManager holds the history store of the process.
type StoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	history      contract.HistoryStore
}

var _ contract.StoreManager = &StoreManager{} // Compile-time check

// GetHistoryStore returns the history store, or nil when history is not initialized.
func (mgr *StoreManager) GetHistoryStore() contract.HistoryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.history
}

// quoteTableName quotes a table name for the backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf("`%s`", name)
	default: // SQLite and PostgreSQL
		return fmt.Sprintf("\"%s\"", name)
	}
}

// placeholders returns n bind parameters for the backend, starting at 1.
func placeholders(backend schema.DatabaseBackend, n int) []string {
	out := make([]string, n)
	for i := range out {
		if backend == schema.PostgreSQLBackend {
			out[i] = fmt.Sprintf("$%d", i+1)
		} else {
			out[i] = "?"
		}
	}
	return out
}
