package audit

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aryan0dhankhar/giftexchange/internal/domain"
	"github.com/aryan0dhankhar/giftexchange/internal/reliability/circuitbreaker"
)

// Event is one recorded command outcome
type Event struct {
	Action     string    `json:"action"`
	Resource   string    `json:"resource"`
	ResourceID string    `json:"resource_id"`
	ActorID    string    `json:"actor_id"`
	Status     string    `json:"status"`
	Details    string    `json:"details"`
	RequestID  string    `json:"request_id"`
	Timestamp  time.Time `json:"timestamp"`
}

// Sink receives audit events in addition to the structured log
type Sink interface {
	Publish(ctx context.Context, event Event) error
}

const publishTimeout = 2 * time.Second

type Logger struct {
	logger  *slog.Logger
	sink    Sink
	breaker *circuitbreaker.CircuitBreaker
	now     func() time.Time
}

// NewLogger creates an audit logger. sink may be nil.
func NewLogger(logger *slog.Logger, sink Sink) *Logger {
	if logger == nil {
		logger = slog.Default()
	}
	breaker := circuitbreaker.NewCircuitBreaker(5, 2, 30*time.Second)
	breaker.SetStateChangeCallback(func(from, to circuitbreaker.State) {
		logger.Warn("audit sink circuit changed",
			slog.String("from", from.String()),
			slog.String("to", to.String()),
		)
	})
	return &Logger{
		logger:  logger,
		sink:    sink,
		breaker: breaker,
		now:     time.Now,
	}
}

func (al *Logger) LogAction(ctx context.Context, actorID, action, resource, resourceID, status, details string) {
	event := Event{
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		ActorID:    actorID,
		Status:     status,
		Details:    details,
		RequestID:  domain.RequestIDFromContext(ctx),
		Timestamp:  al.now(),
	}

	al.logger.Info("audit",
		slog.String("action", event.Action),
		slog.String("resource", event.Resource),
		slog.String("resource_id", event.ResourceID),
		slog.String("actor_id", event.ActorID),
		slog.String("status", event.Status),
		slog.String("details", event.Details),
		slog.String("request_id", event.RequestID),
		slog.Time("timestamp", event.Timestamp),
	)

	if al.sink == nil {
		return
	}

	err := al.breaker.Execute(func() error {
		pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
		defer cancel()
		return al.sink.Publish(pubCtx, event)
	})
	if err != nil && !errors.Is(err, circuitbreaker.ErrOpen) {
		al.logger.Error("failed to publish audit event",
			slog.String("action", event.Action),
			slog.String("error", err.Error()),
		)
	}
}

// LogOutcome records a command result, deriving status and details from err.
func (al *Logger) LogOutcome(ctx context.Context, actorID, action, resource, resourceID string, err error) {
	if err != nil {
		al.LogAction(ctx, actorID, action, resource, resourceID, string(domain.KindOf(err)), err.Error())
		return
	}
	al.LogAction(ctx, actorID, action, resource, resourceID, "success", "")
}
