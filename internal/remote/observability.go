package remote

import "github.com/alexanderramin/grantdesk/internal/logger"

// RequestEvent records metadata about one HTTP exchange.
type RequestEvent struct {
	Method     string
	Path       string
	StatusCode int
	Attempts   int
	LatencyMs  int64
	Success    bool
	ErrorCode  string
}

// Observer receives events about remote calls.
type Observer interface {
	OnRequestComplete(event RequestEvent)
}

// LogObserver writes request events to a structured logger.
type LogObserver struct {
	log *logger.Logger
}

func NewLogObserver(log *logger.Logger) *LogObserver {
	return &LogObserver{log: log}
}

func (o *LogObserver) OnRequestComplete(e RequestEvent) {
	kv := []interface{}{
		"method", e.Method,
		"path", e.Path,
		"status", e.StatusCode,
		"attempts", e.Attempts,
		"latency_ms", e.LatencyMs,
	}
	if e.Success {
		o.log.Debug("remote_call", kv...)
		return
	}
	o.log.Warn("remote_call", append(kv, "error_code", e.ErrorCode)...)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnRequestComplete(RequestEvent) {}
