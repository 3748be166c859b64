package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for run history.
	DatabaseBackend string

	// SubjectKind represents the kind of map primitive a finding refers to.
	SubjectKind string

	// CheckStatus represents how a check reached its outcome.
	CheckStatus string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All history backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none" // default
)

// All subject kinds a finding or an exclusion entry may carry.
const (
	PointSubject             SubjectKind = "point"
	LineStringSubject        SubjectKind = "linestring"
	PolygonSubject           SubjectKind = "polygon"
	LaneletSubject           SubjectKind = "lanelet"
	AreaSubject              SubjectKind = "area"
	RegulatoryElementSubject SubjectKind = "regulatory element"
	PrimitiveSubject         SubjectKind = "primitive" // generic, used by synthetic findings
)

// All check statuses.
const (
	RanStatus       CheckStatus = "ran"
	GatedStatus     CheckStatus = "gated"
	InvalidStatus   CheckStatus = "invalid"
	CancelledStatus CheckStatus = "cancelled"
)

// Codes of findings synthesized by the orchestrator itself.
const (
	InvalidPrerequisitesCode = "invalid-prerequisites"
	PrerequisitesFailedCode  = "prerequisites-failed"
	CheckFailedCode          = "check-failed"
	RunCancelledCode         = "run-cancelled"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid history backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidSubjectKinds is the closed set of subject kinds.
var ValidSubjectKinds = map[SubjectKind]struct{}{
	PointSubject:             {},
	LineStringSubject:        {},
	PolygonSubject:           {},
	LaneletSubject:           {},
	AreaSubject:              {},
	RegulatoryElementSubject: {},
	PrimitiveSubject:         {},
}

// ValidLanguages lists the message locales shipped with the issue catalog.
var ValidLanguages = map[string]struct{}{
	"en": {},
	"ja": {},
}
