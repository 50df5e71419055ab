package services

import (
	"context"
	"log"
	"sync"

	"thriveup_server/events"
	"thriveup_server/models"
)

// lastMessageSource is the slice of ChatService the cache needs.
type lastMessageSource interface {
	GetLastMessage(ctx context.Context, threadID string) (*models.Message, error)
	UnreadCount(ctx context.Context, threadID, userID string) (int, error)
}

// ContactEntry is the cached view of one contact's conversation.
type ContactEntry struct {
	ContactID   string         `json:"contactId"`
	LastMessage models.Message `json:"lastMessage"`
	UnreadCount int            `json:"unreadCount"`
}

// LastMessageCache holds, per contact of one user, the most recent
// message and an unread count. It has two independent update paths: a
// pull-based batch refresh and a push path fed by the event bus. Both
// funnel through applyIfNewer, so whichever path reports the greater
// timestamp wins and the paths converge.
type LastMessageCache struct {
	userID string
	chat   lastMessageSource

	mu      sync.RWMutex
	entries map[string]ContactEntry

	sub  *events.Subscription
	done chan struct{}
}

// NewLastMessageCache builds a cache for one user and, when a bus is
// given, starts consuming stored-message events until Close.
func NewLastMessageCache(userID string, chat lastMessageSource, bus *events.Bus) *LastMessageCache {
	c := &LastMessageCache{
		userID:  userID,
		chat:    chat,
		entries: make(map[string]ContactEntry),
		done:    make(chan struct{}),
	}

	if bus != nil {
		c.sub = bus.Subscribe(events.TopicMessageStored, 64)
		go c.consume()
	}
	return c
}

func (c *LastMessageCache) consume() {
	defer close(c.done)
	for ev := range c.sub.C {
		stored, ok := ev.(events.MessageStored)
		if !ok {
			continue
		}

		contact := ""
		mine := false
		for _, p := range stored.Participants {
			if p == c.userID {
				mine = true
			} else {
				contact = p
			}
		}
		if !mine || contact == "" {
			continue
		}

		unreadDelta := 0
		if stored.Message.SenderID != c.userID {
			unreadDelta = 1
		}
		c.applyIfNewer(contact, stored.Message, unreadDelta)
	}
}

// Refresh fans out one last-message fetch per contact and waits for
// the whole batch. Individual failures are logged and skipped; the
// join always completes, leaving failed contacts at their previous
// cached value.
func (c *LastMessageCache) Refresh(ctx context.Context, contacts []string) map[string]ContactEntry {
	var wg sync.WaitGroup
	for _, contact := range contacts {
		contact := contact
		wg.Add(1)
		go func() {
			defer wg.Done()

			threadID := ResolveThreadID(c.userID, contact)
			last, err := c.chat.GetLastMessage(ctx, threadID)
			if err != nil {
				log.Printf("⚠️ Skipping last-message refresh for %s: %v", contact, err)
				return
			}
			if last == nil {
				return
			}

			unread, err := c.chat.UnreadCount(ctx, threadID, c.userID)
			if err != nil {
				log.Printf("⚠️ Failed to count unread for %s: %v", contact, err)
				unread = 0
			}
			c.applySnapshot(contact, *last, unread)
		}()
	}
	wg.Wait()

	return c.Snapshot()
}

// applySnapshot installs a batch-refresh result: the authoritative
// unread count replaces any accumulated delta, but an older message
// never displaces a newer one.
func (c *LastMessageCache) applySnapshot(contact string, message models.Message, unread int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	existing, ok := c.entries[contact]
	if ok && existing.LastMessage.CreatedAt > message.CreatedAt {
		return
	}
	c.entries[contact] = ContactEntry{ContactID: contact, LastMessage: message, UnreadCount: unread}
}

// applyIfNewer installs a pushed message when its timestamp is at
// least as recent as the cached one, bumping the unread count.
func (c *LastMessageCache) applyIfNewer(contact string, message models.Message, unreadDelta int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	existing, ok := c.entries[contact]
	if ok && existing.LastMessage.CreatedAt > message.CreatedAt {
		return
	}
	if ok && existing.LastMessage.MessageID == message.MessageID {
		// A batch refresh already counted this exact message; adding
		// the delta again would double count it.
		return
	}

	entry := ContactEntry{ContactID: contact, LastMessage: message}
	if ok {
		entry.UnreadCount = existing.UnreadCount
	}
	entry.UnreadCount += unreadDelta
	c.entries[contact] = entry
}

// Get returns the cached entry for one contact.
func (c *LastMessageCache) Get(contact string) (ContactEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[contact]
	return entry, ok
}

// Snapshot copies the whole cache.
func (c *LastMessageCache) Snapshot() map[string]ContactEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]ContactEntry, len(c.entries))
	for k, v := range c.entries {
		out[k] = v
	}
	return out
}

// Close cancels the bus subscription and waits for the consumer to
// drain.
func (c *LastMessageCache) Close() {
	if c.sub == nil {
		return
	}
	c.sub.Cancel()
	<-c.done
}

// LastMessageCacheManager hands out one cache per user, created
// lazily on first use.
type LastMessageCacheManager struct {
	chat *ChatService
	bus  *events.Bus

	mu     sync.Mutex
	caches map[string]*LastMessageCache
}

// NewLastMessageCacheManager builds an empty manager.
func NewLastMessageCacheManager(chat *ChatService, bus *events.Bus) *LastMessageCacheManager {
	return &LastMessageCacheManager{
		chat:   chat,
		bus:    bus,
		caches: make(map[string]*LastMessageCache),
	}
}

// ForUser returns the user's cache, creating it on first call.
func (m *LastMessageCacheManager) ForUser(userID string) *LastMessageCache {
	m.mu.Lock()
	defer m.mu.Unlock()

	if cache, ok := m.caches[userID]; ok {
		return cache
	}
	cache := NewLastMessageCache(userID, m.chat, m.bus)
	m.caches[userID] = cache
	return cache
}

// Close tears down every cache.
func (m *LastMessageCacheManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, cache := range m.caches {
		cache.Close()
	}
	m.caches = make(map[string]*LastMessageCache)
}
