package config

// Analysis defaults.
const (
	DefaultRevision      = "HEAD"
	DefaultWorkers       = 0
	DefaultExclude       = ""
	DefaultExcludeVendor = false
	DefaultIdentity      = "name"
)

// Blame defaults.
const (
	DefaultBlameBinary      = "git"
	DefaultDetectCopies     = true
	DefaultIgnoreWhitespace = true
)

// Report defaults.
const (
	DefaultFormat  = "text"
	DefaultView    = "authors"
	DefaultLimit   = 0
	DefaultNoColor = false
)

// Logging and observability defaults.
const (
	DefaultLogLevel     = "info"
	DefaultLogJSON      = false
	DefaultOTLPEndpoint = ""
	DefaultOTLPInsecure = false
	DefaultSampleRatio  = 1.0
	DefaultMetricsAddr  = ""
)

// Accepted enumerated values.
var (
	Formats    = []string{"text", "table", "json", "yaml", "plot"}
	Views      = []string{"authors", "files", "matrix", "languages"}
	Identities = []string{"name", "email"}
	LogLevels  = []string{"debug", "info", "warn", "error"}
)
