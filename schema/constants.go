package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching and history.
	DatabaseBackend string

	// ComparisonType represents how the headline delta is displayed.
	ComparisonType string

	// Direction represents the sign of a period-over-period change.
	Direction string

	// DatasetFormat represents the encoding of an input dataset.
	DatasetFormat string
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
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All comparison types supported.
const (
	PercentageComparison ComparisonType = "percentage" // default
	AbsoluteComparison   ComparisonType = "absolute"
)

// All directions of change.
const (
	UpDirection   Direction = "up"
	DownDirection Direction = "down"
	FlatDirection Direction = "flat"
)

// All dataset formats supported.
const (
	AutoFormat DatasetFormat = "auto" // default, picked from the file extension
	JSONFormat DatasetFormat = "json"
	CSVFormat  DatasetFormat = "csv"
)

// Arrows shown next to the headline change.
const (
	UpArrow   = "▲"
	DownArrow = "▼"
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

// ValidComparisonTypes lists all valid comparison types.
var ValidComparisonTypes = map[ComparisonType]struct{}{
	PercentageComparison: {},
	AbsoluteComparison:   {},
}

// ValidDatasetFormats lists all valid dataset formats.
var ValidDatasetFormats = map[DatasetFormat]struct{}{
	AutoFormat: {},
	JSONFormat: {},
	CSVFormat:  {},
}
