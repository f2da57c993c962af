package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Key builders. Every Redis key the application writes is minted here so the
// inventory of what lives in the cache stays in one place.
const (
	feedKeyPrefix     = "feed:"
	postKeyPrefix     = "post:"
	commentsKeyPrefix = "comments:post:"
	ticketKeyPrefix   = "ws:ticket:"
	denylistKeyPrefix = "jwt:denylist:"
)

const (
	FeedTTL      = 30 * time.Second
	PostTTL      = 5 * time.Minute
	CommentsTTL  = 1 * time.Minute
	TicketTTL    = 30 * time.Second
	DenylistOpen = 24 * time.Hour
)

func FeedKey(scope string, userID uint, mode string) string {
	return fmt.Sprintf("%s%s:%d:%s", feedKeyPrefix, scope, userID, mode)
}

func PostKey(postID uint) string {
	return fmt.Sprintf("%s%d", postKeyPrefix, postID)
}

func CommentsKey(postID uint) string {
	return fmt.Sprintf("%s%d", commentsKeyPrefix, postID)
}

func TicketKey(ticket string) string {
	return ticketKeyPrefix + ticket
}

func DenylistKey(jti string) string {
	return denylistKeyPrefix + jti
}

// GetJSON reads a cached value into dest. Returns false on a miss, on a
// decode failure, or when Redis is unavailable; callers fall through to the
// database in all three cases.
func GetJSON(ctx context.Context, key string, dest interface{}) bool {
	client := GetClient()
	if client == nil {
		return false
	}
	raw, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		// A corrupt entry is worse than a miss; drop it.
		client.Del(ctx, key)
		return false
	}
	return true
}

// SetJSON writes a value under key with the given TTL. Failures are
// swallowed: the cache is an accelerator, never a dependency.
func SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	client := GetClient()
	if client == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	client.Set(ctx, key, raw, ttl)
}

// Invalidate removes the given keys. Safe to call with no client.
func Invalidate(ctx context.Context, keys ...string) {
	client := GetClient()
	if client == nil || len(keys) == 0 {
		return
	}
	client.Del(ctx, keys...)
}

// InvalidatePost drops the cached post and its comment tree after a write.
func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID), CommentsKey(postID))
}

// IssueTicket stores a single-use websocket handshake ticket bound to a user.
func IssueTicket(ctx context.Context, ticket string, userID uint) error {
	client := GetClient()
	if client == nil {
		return redis.ErrClosed
	}
	return client.Set(ctx, TicketKey(ticket), userID, TicketTTL).Err()
}

// RedeemTicket atomically fetches and deletes a ticket, returning the bound
// user ID. A second redemption of the same ticket fails.
func RedeemTicket(ctx context.Context, ticket string) (uint, error) {
	client := GetClient()
	if client == nil {
		return 0, redis.ErrClosed
	}
	val, err := client.GetDel(ctx, TicketKey(ticket)).Uint64()
	if err != nil {
		return 0, err
	}
	return uint(val), nil
}

// DenyToken records a revoked JWT ID until the token would have expired anyway.
func DenyToken(ctx context.Context, jti string, until time.Duration) {
	client := GetClient()
	if client == nil {
		return
	}
	if until <= 0 {
		until = DenylistOpen
	}
	client.Set(ctx, DenylistKey(jti), 1, until)
}

// IsTokenDenied reports whether a JWT ID has been revoked. Redis being down
// fails open: an unreachable denylist must not lock every user out.
func IsTokenDenied(ctx context.Context, jti string) bool {
	client := GetClient()
	if client == nil {
		return false
	}
	n, err := client.Exists(ctx, DenylistKey(jti)).Result()
	if err != nil {
		return false
	}
	return n > 0
}
