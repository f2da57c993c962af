// Package notifications provides real-time delivery of messages and
// notifications to connected clients.
package notifications

import "encoding/json"

// Wire-level event types pushed over the subscription channel.
const (
	EventNewMessage      = "new_message"
	EventNewNotification = "new_notification"
)

// Notification kinds carried inside a new_notification event.
const (
	KindComment  = "comment"
	KindReaction = "reaction"
)

// Event is a push addressed to exactly one recipient. Delivery is
// at-most-once and best-effort: if the recipient has no live connection the
// event is dropped, and durable storage stays the gateway's job.
type Event struct {
	Type        string      `json:"type"`
	Kind        string      `json:"kind,omitempty"`
	RecipientID uint        `json:"-"`
	Payload     interface{} `json:"payload"`
}

// NewMessageEvent builds a direct-message push for a recipient.
func NewMessageEvent(recipientID uint, payload interface{}) Event {
	return Event{
		Type:        EventNewMessage,
		RecipientID: recipientID,
		Payload:     payload,
	}
}

// NewNotificationEvent builds a comment/reaction push for a recipient.
func NewNotificationEvent(recipientID uint, kind string, payload interface{}) Event {
	return Event{
		Type:        EventNewNotification,
		Kind:        kind,
		RecipientID: recipientID,
		Payload:     payload,
	}
}

// Marshal renders the event envelope for the wire.
func (e Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}
