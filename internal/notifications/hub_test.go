package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"cirqls/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testEventuallyTimeout = time.Second
	testPollInterval      = 10 * time.Millisecond
)

// verifierStub resolves tokens of the form "user-<id>" from a fixed table.
type verifierStub struct {
	users map[string]uint
}

func (v *verifierStub) Verify(_ context.Context, token string) (uint, error) {
	if id, ok := v.users[token]; ok {
		return id, nil
	}
	return 0, errors.New("unknown token")
}

func newTestHub() *Hub {
	return NewHub(&verifierStub{users: map[string]uint{
		"token-a": 10,
		"token-b": 20,
	}})
}

func receive(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case raw := <-c.Send:
		var ev Event
		require.NoError(t, json.Unmarshal(raw, &ev))
		return ev
	case <-time.After(testEventuallyTimeout):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestHub_RegisterAndPublish(t *testing.T) {
	hub := newTestHub()
	ctx := context.Background()

	client, err := hub.Register(ctx, nil, "token-a")
	require.NoError(t, err)
	assert.Equal(t, uint(10), client.UserID)
	assert.True(t, hub.IsOnline(10))

	delivered := hub.Publish(NewMessageEvent(10, map[string]string{"message": "hi"}))
	assert.True(t, delivered)

	ev := receive(t, client)
	assert.Equal(t, EventNewMessage, ev.Type)

	_ = hub.Shutdown(ctx)
}

func TestHub_PublishWithoutSubscriberIsDropped(t *testing.T) {
	hub := newTestHub()

	delivered := hub.Publish(NewNotificationEvent(99, KindComment, nil))
	assert.False(t, delivered)
	assert.False(t, hub.IsOnline(99))

	_ = hub.Shutdown(context.Background())
}

func TestHub_PublishTargetsExactRecipient(t *testing.T) {
	hub := newTestHub()
	ctx := context.Background()

	clientA, err := hub.Register(ctx, nil, "token-a")
	require.NoError(t, err)
	clientB, err := hub.Register(ctx, nil, "token-b")
	require.NoError(t, err)

	assert.True(t, hub.Publish(NewMessageEvent(10, "for A")))

	ev := receive(t, clientA)
	assert.Equal(t, EventNewMessage, ev.Type)
	assert.Empty(t, clientB.Send)

	_ = hub.Shutdown(ctx)
}

func TestHub_LastRegisteredWins(t *testing.T) {
	hub := newTestHub()
	ctx := context.Background()

	first, err := hub.Register(ctx, nil, "token-a")
	require.NoError(t, err)
	second, err := hub.Register(ctx, nil, "token-a")
	require.NoError(t, err)

	assert.True(t, hub.Publish(NewMessageEvent(10, "latest")))
	assert.Empty(t, first.Send)
	receive(t, second)

	// The replaced client's unregister must not evict its successor.
	hub.Unregister(first)
	assert.True(t, hub.IsOnline(10))

	_ = hub.Shutdown(ctx)
}

func TestHub_AuthenticationFailureIsTerminal(t *testing.T) {
	hub := newTestHub()

	client, err := hub.Register(context.Background(), nil, "bogus")
	require.Error(t, err)
	assert.Nil(t, client)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeUnauthenticated, appErr.Code)
	assert.False(t, hub.IsOnline(10))

	_ = hub.Shutdown(context.Background())
}

func TestHub_UnregisterIsIdempotent(t *testing.T) {
	hub := newTestHub()
	ctx := context.Background()

	client, err := hub.Register(ctx, nil, "token-a")
	require.NoError(t, err)

	hub.Unregister(client)
	hub.Unregister(client)
	assert.False(t, hub.IsOnline(10))

	_ = hub.Shutdown(ctx)
}

func TestHub_PerRecipientPublishOrder(t *testing.T) {
	hub := newTestHub()
	ctx := context.Background()

	client, err := hub.Register(ctx, nil, "token-a")
	require.NoError(t, err)

	for i := 1; i <= 5; i++ {
		require.True(t, hub.Publish(NewMessageEvent(10, i)))
	}
	for i := 1; i <= 5; i++ {
		ev := receive(t, client)
		assert.Equal(t, float64(i), ev.Payload)
	}

	_ = hub.Shutdown(ctx)
}

func TestHub_RedisWiringDeliversCrossProcessEvents(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := newTestHub()
	notifier := NewNotifier(rdb)
	require.NoError(t, hub.StartWiring(ctx, notifier))

	client, err := hub.Register(ctx, nil, "token-a")
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		if err := notifier.PublishEvent(ctx, NewNotificationEvent(10, KindReaction, nil)); err != nil {
			return false
		}
		select {
		case raw := <-client.Send:
			var ev Event
			return json.Unmarshal(raw, &ev) == nil && ev.Type == EventNewNotification
		default:
			return false
		}
	}, testEventuallyTimeout, testPollInterval)

	_ = hub.Shutdown(ctx)
}
