package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Routing keys of saved view change events.
const (
	EventSavedViewCreated = "saved_view.created"
	EventSavedViewUpdated = "saved_view.updated"
	EventSavedViewDeleted = "saved_view.deleted"
)

// EventPublisher delivers change events after a mutation commits.
type EventPublisher interface {
	PublishJSON(ctx context.Context, routingKey string, v any) error
}

// SavedViewEvent is the body of a change event. Ids are global references.
type SavedViewEvent struct {
	Type       string    `json:"type"`
	ViewIDs    []string  `json:"viewIds"`
	ProjectID  string    `json:"projectId,omitempty"`
	OwnerID    string    `json:"ownerId"`
	Name       string    `json:"name,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// publish sends ev when a publisher is configured. The mutation is already committed, so a
// failure is only logged.
func publish(ctx context.Context, p EventPublisher, log *zap.Logger, ev SavedViewEvent) {
	if p == nil {
		return
	}
	ev.OccurredAt = time.Now().UTC()
	if err := p.PublishJSON(ctx, ev.Type, ev); err != nil {
		log.Sugar().Warnw("publish saved view event failed", "type", ev.Type, "viewIds", ev.ViewIDs, "err", err)
	}
}
