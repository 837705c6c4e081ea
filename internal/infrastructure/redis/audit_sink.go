package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aryan0dhankhar/giftexchange/internal/security/audit"
)

// DefaultStreamMaxLen bounds the audit stream length
const DefaultStreamMaxLen = 10000

// streamWriter is the subset of Client used by AuditSink
type streamWriter interface {
	XAdd(ctx context.Context, stream string, maxLen int64, values map[string]interface{}) error
}

// AuditSink publishes audit events to a Redis stream
type AuditSink struct {
	client streamWriter
	stream string
	maxLen int64
}

// NewAuditSink creates a sink writing to the given stream
func NewAuditSink(client *Client, stream string) *AuditSink {
	return &AuditSink{client: client, stream: stream, maxLen: DefaultStreamMaxLen}
}

// Publish implements audit.Sink
func (s *AuditSink) Publish(ctx context.Context, event audit.Event) error {
	values, err := eventValues(event)
	if err != nil {
		return err
	}
	if err := s.client.XAdd(ctx, s.stream, s.maxLen, values); err != nil {
		return fmt.Errorf("failed to append audit event: %w", err)
	}
	return nil
}

func eventValues(event audit.Event) (map[string]interface{}, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal audit event: %w", err)
	}
	return map[string]interface{}{
		"action": event.Action,
		"status": event.Status,
		"event":  string(payload),
	}, nil
}
