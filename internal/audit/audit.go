// Package audit consumes account lifecycle events from the Redis stream and
// writes them to the operational log. The audit trail survives cache
// invalidation and account deletion.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/Pravin1821/Secure-Online-Transaction-System/internal/events"
)

type Logger struct{}

func NewLogger() *Logger {
	return &Logger{}
}

// HandleAccountEvent is the Redis stream subscriber handler.
func (l *Logger) HandleAccountEvent(ctx context.Context, event events.Event) error {
	data, err := json.Marshal(event.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event data: %w", event.Type, err)
	}

	switch event.Type {
	case events.AccountRegistered, events.AccountUpdated, events.AccountDeleted,
		events.AccountRoleChanged, events.AccountStatusChanged:
		log.Printf("audit: %s at %s: %s", event.Type, event.Timestamp.Format("2006-01-02T15:04:05Z07:00"), data)
	default:
		log.Printf("audit: unrecognised event %s: %s", event.Type, data)
	}
	return nil
}
