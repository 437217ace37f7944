package usecase

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/healthfirst/homecare/internal/core/domain"
	"github.com/healthfirst/homecare/internal/core/ports"
)

// syncNotifier publishes document-store sync events. Failures are logged and
// never reach the caller.
type syncNotifier struct {
	publisher ports.SyncPublisher
}

func (n syncNotifier) notify(ctx context.Context, kind domain.SyncKind, entityID, userID string, payload any) {
	if n.publisher == nil {
		return
	}
	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			slog.Warn("sync_event_failed", "kind", kind, "entity_id", entityID, "error", err)
			return
		}
		raw = b
	}
	event := domain.SyncEvent{
		ID:        uuid.NewString(),
		Kind:      kind,
		EntityID:  entityID,
		UserID:    userID,
		Payload:   raw,
		CreatedAt: time.Now().UTC(),
	}
	if err := n.publisher.PublishSync(ctx, event); err != nil {
		slog.Warn("sync_event_failed", "kind", kind, "entity_id", entityID, "error", err)
	}
}

func timeNow() time.Time { return time.Now().UTC() }
