package notifications

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"cirqls/internal/models"
	"cirqls/internal/observability"

	"github.com/gofiber/websocket/v2"
)

// Max total connections across all users.
const maxTotalConns = 10000

// TokenVerifier resolves a bearer credential to a user id. Implemented by the
// auth service; the hub never inspects tokens itself.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (uint, error)
}

// Hub is the process-wide registry of live authenticated subscribers, keyed
// by user id. One registration per user: a reconnect replaces the previous
// one (last-registered wins). All mutation goes through a single mutex.
type Hub struct {
	mu       sync.Mutex
	conns    map[uint]*Client
	verifier TokenVerifier
	shutdown chan struct{}
}

// NewHub creates a Hub that authenticates handshakes with the given verifier.
func NewHub(verifier TokenVerifier) *Hub {
	return &Hub{
		conns:    make(map[uint]*Client),
		verifier: verifier,
		shutdown: make(chan struct{}),
	}
}

// Register performs the connection handshake: the token is resolved through
// the credential-verification collaborator and, on success, the connection is
// bound to that user and added to the registry. An authentication failure is
// terminal for the connection; the registry is never touched.
func (h *Hub) Register(ctx context.Context, conn *websocket.Conn, token string) (*Client, error) {
	if h.verifier == nil {
		return nil, errors.New("hub has no token verifier")
	}

	userID, err := h.verifier.Verify(ctx, token)
	if err != nil {
		return nil, models.NewAuthenticationError("Invalid subscription credential")
	}

	h.mu.Lock()
	if len(h.conns) >= maxTotalConns {
		h.mu.Unlock()
		return nil, errors.New("server connection limit reached")
	}

	client := newClient(h, conn, userID)
	replaced := h.conns[userID]
	h.conns[userID] = client
	h.mu.Unlock()

	if replaced != nil {
		closeClientConn(replaced, websocket.ClosePolicyViolation, "Replaced by newer connection")
	}

	observability.WebSocketConnections.Inc()
	return client, nil
}

// Unregister removes a client from the registry. Idempotent, and a stale
// client (already replaced by a newer registration for the same user) never
// evicts its successor.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	current, ok := h.conns[client.UserID]
	if ok && current == client {
		delete(h.conns, client.UserID)
	}
	h.mu.Unlock()

	if ok && current == client {
		observability.WebSocketConnections.Dec()
	}
}

// Publish forwards an event to the recipient's live connection, if any.
// No subscriber is not an error: it is expected steady state, the event is
// dropped and the caller relies on durable storage for catch-up.
func (h *Hub) Publish(event Event) bool {
	payload, err := event.Marshal()
	if err != nil {
		log.Printf("failed to marshal %s event: %v", event.Type, err)
		return false
	}
	return h.deliver(event.RecipientID, payload)
}

func (h *Hub) deliver(userID uint, payload []byte) bool {
	h.mu.Lock()
	client, ok := h.conns[userID]
	h.mu.Unlock()

	if !ok {
		return false
	}
	client.TrySend(payload)
	observability.WebSocketEventsDelivered.Inc()
	return true
}

// IsOnline reports whether a user currently has a registered connection.
func (h *Hub) IsOnline(userID uint) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.conns[userID]
	return ok
}

// StartWiring subscribes the hub to the Redis event channels so pushes
// published by any process reach subscribers registered here.
func (h *Hub) StartWiring(ctx context.Context, n *Notifier) error {
	return n.StartPatternSubscriber(ctx, func(channel, payload string) {
		if !strings.HasPrefix(channel, userChannelPrefix) {
			log.Printf("invalid event channel: %s", channel)
			return
		}
		var userID uint
		if _, err := fmt.Sscanf(channel, userChannelPrefix+"%d", &userID); err != nil {
			log.Printf("invalid event channel: %s", channel)
			return
		}
		h.deliver(userID, []byte(payload))
	})
}

// Shutdown gracefully closes all registered connections.
func (h *Hub) Shutdown(_ context.Context) error {
	close(h.shutdown)

	h.mu.Lock()
	conns := h.conns
	h.conns = make(map[uint]*Client)
	h.mu.Unlock()

	for _, client := range conns {
		closeClientConn(client, websocket.CloseGoingAway, "Server shutting down")
		observability.WebSocketConnections.Dec()
	}

	return nil
}

func closeClientConn(client *Client, code int, reason string) {
	if client.Conn == nil {
		return
	}
	if err := client.Conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason)); err != nil {
		log.Printf("failed to write close message for user %d: %v", client.UserID, err)
	}
	if err := client.Conn.Close(); err != nil {
		log.Printf("failed to close websocket for user %d: %v", client.UserID, err)
	}
}
