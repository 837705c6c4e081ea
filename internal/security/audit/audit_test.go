package audit

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryan0dhankhar/giftexchange/internal/domain"
	"github.com/aryan0dhankhar/giftexchange/internal/reliability/circuitbreaker"
)

type countingSink struct {
	err    error
	calls  int
	events []Event
}

func (s *countingSink) Publish(_ context.Context, e Event) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, e)
	return nil
}

func TestLogOutcome_Success(t *testing.T) {
	sink := &countingSink{}
	l := NewLogger(slog.New(slog.DiscardHandler), sink)
	fixed := time.Date(2024, 12, 24, 18, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return fixed }

	ctx := domain.WithRequestID(context.Background(), "req-1")
	l.LogOutcome(ctx, "0", "create_group", "group", "3", nil)

	require.Len(t, sink.events, 1)
	assert.Equal(t, Event{
		Action:     "create_group",
		Resource:   "group",
		ResourceID: "3",
		ActorID:    "0",
		Status:     "success",
		RequestID:  "req-1",
		Timestamp:  fixed,
	}, sink.events[0])
}

func TestLogOutcome_Failure(t *testing.T) {
	sink := &countingSink{}
	l := NewLogger(slog.New(slog.DiscardHandler), sink)

	l.LogOutcome(context.Background(), "1", "demote_admin", "group", "0", domain.ErrAuthorization("not an admin"))

	require.Len(t, sink.events, 1)
	assert.Equal(t, "authorization", sink.events[0].Status)
	assert.Equal(t, "not an admin", sink.events[0].Details)
}

func TestLogAction_BreakerOpensOnSinkFailures(t *testing.T) {
	sink := &countingSink{err: errors.New("connection refused")}
	l := NewLogger(slog.New(slog.DiscardHandler), sink)

	for i := 0; i < 10; i++ {
		l.LogAction(context.Background(), "0", "create_user", "user", "0", "success", "")
	}

	assert.Equal(t, 5, sink.calls)
	assert.Equal(t, circuitbreaker.StateOpen, l.breaker.GetState())
}

func TestLogAction_NilSink(t *testing.T) {
	l := NewLogger(slog.New(slog.DiscardHandler), nil)
	assert.NotPanics(t, func() {
		l.LogOutcome(context.Background(), "0", "create_user", "user", "0", nil)
	})
}
