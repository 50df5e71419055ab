package services

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// PresenceService keeps online presence and per-thread unread counters
// in Redis so any server instance sees the same view.
//
// Keys:
//   - <prefix>:presence:<userId>      -> "online", expires after TTL
//   - <prefix>:unread:<userId>:<threadId> -> counter
type PresenceService struct {
	Client *redis.Client
	Prefix string
	TTL    time.Duration
}

// NewPresenceService wires a presence store with a 5 minute TTL.
func NewPresenceService(client *redis.Client, prefix string) *PresenceService {
	return &PresenceService{Client: client, Prefix: prefix, TTL: 5 * time.Minute}
}

func (s *PresenceService) presenceKey(userID string) string {
	return fmt.Sprintf("%s:presence:%s", s.Prefix, userID)
}

func (s *PresenceService) unreadKey(userID, threadID string) string {
	return fmt.Sprintf("%s:unread:%s:%s", s.Prefix, userID, threadID)
}

// SetOnline marks the user online until the TTL lapses or SetOffline
// is called. Sockets refresh this on every join.
func (s *PresenceService) SetOnline(ctx context.Context, userID string) error {
	return s.Client.Set(ctx, s.presenceKey(userID), "online", s.TTL).Err()
}

// SetOffline clears the user's presence.
func (s *PresenceService) SetOffline(ctx context.Context, userID string) error {
	return s.Client.Del(ctx, s.presenceKey(userID)).Err()
}

// IsOnline reports current presence.
func (s *PresenceService) IsOnline(ctx context.Context, userID string) (bool, error) {
	n, err := s.Client.Exists(ctx, s.presenceKey(userID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// IncrUnread bumps the unread counter for a user and thread.
func (s *PresenceService) IncrUnread(ctx context.Context, userID, threadID string) error {
	return s.Client.Incr(ctx, s.unreadKey(userID, threadID)).Err()
}

// ResetUnread clears the unread counter for a user and thread.
func (s *PresenceService) ResetUnread(ctx context.Context, userID, threadID string) error {
	return s.Client.Del(ctx, s.unreadKey(userID, threadID)).Err()
}

// GetUnread reads the unread counter; a missing key is zero.
func (s *PresenceService) GetUnread(ctx context.Context, userID, threadID string) (int, error) {
	n, err := s.Client.Get(ctx, s.unreadKey(userID, threadID)).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return n, nil
}
