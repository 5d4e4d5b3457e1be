package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching and run history.
	DatabaseBackend string

	// QueryKind identifies which aggregation produced a result set.
	QueryKind string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none" // default for the response cache
)

// All query kinds supported.
const (
	FilesByCommitQuery        QueryKind = "files_by_commit"
	FilesByCommitAndFileQuery QueryKind = "files_by_commit_and_file"
	ProjectByCommitQuery      QueryKind = "project_by_commit"
	ProjectPerCommitQuery     QueryKind = "project_per_commit"
)

// Metric names as they appear on the wire.
const (
	MetricCBO  = "cbo"
	MetricDIT  = "dit"
	MetricWMC  = "wmc"
	MetricRFC  = "rfc"
	MetricLCOM = "lcom"
	MetricNOCC = "nocc"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
