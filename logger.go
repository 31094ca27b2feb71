package memocache

// Fields carries structured context for a log line. The engine uses these
// keys: "key" (storage key or scan prefix), "err", "type" (Go type of the
// value or destination), "func" (memoized function name), "prefix" and
// "removed" on bust, "default_ttl" on init.
type Fields map[string]any

// Logger receives the engine's diagnostics. Store and codec failures are
// logged at Error, refused busts and unhashable arguments at Warn, lifecycle
// events at Info, store-level rejections at Debug.
//
// Adapters live in log/zap, log/logrus and log/slog.
type Logger interface {
	Debug(msg string, f Fields)
	Info(msg string, f Fields)
	Warn(msg string, f Fields)
	Error(msg string, f Fields)
}

// NopLogger discards everything. It is used when Options.Logger is nil.
type NopLogger struct{}

var _ Logger = NopLogger{}

func (NopLogger) Debug(string, Fields) {}
func (NopLogger) Info(string, Fields)  {}
func (NopLogger) Warn(string, Fields)  {}
func (NopLogger) Error(string, Fields) {}
