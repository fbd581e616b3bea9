// Package journal
package journal

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Event represents a journaled decision.
type Event struct {
	Time        time.Time
	Type        string // e.g., "validation", "adjustment", "derivation", "order"
	Level       string // "debug", "info", "warn", "error"
	Description string
	Data        map[string]any
}

// Recorder receives every validation, adjustment and derivation decision.
// It is injected into each component; there is no process-wide sink.
type Recorder interface {
	Record(ctx context.Context, e Event)
}

// ZapRecorder writes events as structured log entries.
type ZapRecorder struct {
	log *zap.Logger
}

func NewZapRecorder(log *zap.Logger) *ZapRecorder {
	return &ZapRecorder{log: log}
}

func (r *ZapRecorder) Record(_ context.Context, e Event) {
	if e.Time.IsZero() {
		e.Time = time.Now().UTC()
	}
	fields := []zap.Field{
		zap.String("event", e.Type),
		zap.Time("at", e.Time),
	}
	for k, v := range e.Data {
		fields = append(fields, zap.Any(k, v))
	}
	switch e.Level {
	case "debug":
		r.log.Debug(e.Description, fields...)
	case "warn":
		r.log.Warn(e.Description, fields...)
	case "error":
		r.log.Error(e.Description, fields...)
	default:
		r.log.Info(e.Description, fields...)
	}
}

// MemoryRecorder collects events for inspection in tests.
type MemoryRecorder struct {
	Events []Event
}

func (r *MemoryRecorder) Record(_ context.Context, e Event) {
	r.Events = append(r.Events, e)
}

// Descriptions returns the recorded descriptions in order.
func (r *MemoryRecorder) Descriptions() []string {
	out := make([]string, 0, len(r.Events))
	for _, e := range r.Events {
		out = append(out, e.Description)
	}
	return out
}
