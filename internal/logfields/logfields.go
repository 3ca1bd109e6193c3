package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyAppID      = "app_id"
	KeyJobID      = "job_id"
	KeyPlatform   = "platform"
	KeyStack      = "stack"
	KeyState      = "state"
	KeyAttempt    = "attempt"
	KeyPath       = "path"
	KeyEndpoint   = "endpoint"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func AppID(id string) slog.Attr       { return slog.String(KeyAppID, id) }
func JobID(id int64) slog.Attr        { return slog.Int64(KeyJobID, id) }
func Platform(p string) slog.Attr     { return slog.String(KeyPlatform, p) }
func Stack(name string) slog.Attr     { return slog.String(KeyStack, name) }
func State(s string) slog.Attr        { return slog.String(KeyState, s) }
func Attempt(n int) slog.Attr         { return slog.Int(KeyAttempt, n) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Endpoint(e string) slog.Attr     { return slog.String(KeyEndpoint, e) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
