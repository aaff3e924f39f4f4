package logger

// Accepted level names; anything else falls back to info
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

const (
	FormatJSON = "json"
	FormatText = "text"
)

// Environments that enable source locations in log records
var sourceEnvironments = map[string]bool{
	"dev":         true,
	"development": true,
	"local":       true,
}

// Keys attached to every record
const (
	AttrKeyService     = "service"
	AttrKeyVersion     = "version"
	AttrKeyEnvironment = "environment"
	AttrKeyRequestID   = "request_id"
)
