package service

import (
	"context"
	"time"

	"github.com/alexanderramin/grantdesk/internal/logger"
)

// UseCaseEvent captures lightweight execution telemetry for a service use case.
type UseCaseEvent struct {
	Name      string
	Duration  time.Duration
	Success   bool
	Err       error
	Fields    map[string]any
	StartedAt time.Time
}

// UseCaseObserver receives use-case execution events.
type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

// NoopUseCaseObserver ignores all events.
type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

type logUseCaseObserver struct {
	log *logger.Logger
}

// NewLogUseCaseObserver writes use-case events to log. A nil logger yields
// a no-op observer.
func NewLogUseCaseObserver(log *logger.Logger) UseCaseObserver {
	if log == nil {
		return NoopUseCaseObserver{}
	}
	return &logUseCaseObserver{log: log}
}

func (o *logUseCaseObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	kv := make([]interface{}, 0, 8+len(event.Fields)*2)
	kv = append(kv,
		"use_case", event.Name,
		"duration_ms", event.Duration.Milliseconds(),
		"success", event.Success,
	)
	for k, v := range event.Fields {
		kv = append(kv, k, v)
	}
	if event.Err != nil {
		o.log.Warn("service_use_case", append(kv, "error", event.Err.Error())...)
		return
	}
	o.log.Info("service_use_case", kv...)
}

func useCaseObserverOrNoop(observers []UseCaseObserver) UseCaseObserver {
	for _, obs := range observers {
		if obs != nil {
			return obs
		}
	}
	return NoopUseCaseObserver{}
}

// observe reports a use case once it finishes. Call it deferred with a
// pointer to the named error result.
func observe(ctx context.Context, obs UseCaseObserver, name string, startedAt time.Time, fields map[string]any, err *error) {
	var e error
	if err != nil {
		e = *err
	}
	obs.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   e == nil,
		Err:       e,
		Fields:    fields,
	})
}
