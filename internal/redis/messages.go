package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/rueidis"
	"go.uber.org/zap"
)

// MessageTTL is how long cached message content is retained.
const MessageTTL = 603800

// ErrMessageNotCached is returned when a message is absent from the cache,
// either never seen or already expired.
var ErrMessageNotCached = errors.New("message not cached")

// CachedMessage is a message body held for edit and delete audit lines.
type CachedMessage struct {
	UserID  uint64
	Content string
}

// MessageCache stores recent message content in Redis keyed by guild,
// channel and message ID.
type MessageCache struct {
	client rueidis.Client
	logger *zap.Logger
}

// NewMessageCache creates a MessageCache.
func NewMessageCache(client rueidis.Client, logger *zap.Logger) *MessageCache {
	return &MessageCache{
		client: client,
		logger: logger.Named("message_cache"),
	}
}

func messageKey(guildID, channelID, messageID uint64) string {
	return fmt.Sprintf("message:%d:%d:%d", guildID, channelID, messageID)
}

// Store caches a message body with the standard TTL, replacing any
// previous body for the same message.
func (c *MessageCache) Store(
	ctx context.Context, guildID, channelID, messageID, userID uint64, content string,
) error {
	key := messageKey(guildID, channelID, messageID)
	value := fmt.Sprintf("%d:%s", userID, content)

	err := c.client.Do(ctx, c.client.B().Setex().
		Key(key).
		Seconds(MessageTTL).
		Value(value).
		Build()).Error()
	if err != nil {
		return fmt.Errorf("failed to cache message: %w", err)
	}

	return nil
}

// Get fetches a cached message body. Returns ErrMessageNotCached when the
// message is unknown.
func (c *MessageCache) Get(
	ctx context.Context, guildID, channelID, messageID uint64,
) (*CachedMessage, error) {
	key := messageKey(guildID, channelID, messageID)

	value, err := c.client.Do(ctx, c.client.B().Get().Key(key).Build()).ToString()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, ErrMessageNotCached
		}

		return nil, fmt.Errorf("failed to get cached message: %w", err)
	}

	// Value is "userID:content"; the content may itself contain colons
	idPart, content, found := strings.Cut(value, ":")
	if !found {
		return nil, fmt.Errorf("malformed cached message for %s", key)
	}

	userID, err := strconv.ParseUint(idPart, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("malformed cached message author for %s: %w", key, err)
	}

	return &CachedMessage{UserID: userID, Content: content}, nil
}
