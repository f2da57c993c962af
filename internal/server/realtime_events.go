package server

import (
	"context"
	"log"

	"cirqls/internal/notifications"
)

// publishEvent routes a push event to its recipient. With Redis available
// the event goes through pub/sub so it reaches subscribers on any instance;
// the local hub re-delivers it from the subscription. Without Redis the
// local hub is the only reach we have.
//
// Delivery is best-effort and at-most-once: an offline recipient catches up
// from durable storage (unread messages and comments), never from a replay.
func (s *Server) publishEvent(ctx context.Context, event notifications.Event) {
	if s.notifier != nil {
		if err := s.notifier.PublishEvent(ctx, event); err != nil {
			log.Printf("failed to publish %s event for user %d: %v", event.Type, event.RecipientID, err)
		}
		return
	}
	s.hub.Publish(event)
}
