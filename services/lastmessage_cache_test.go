package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"thriveup_server/events"
	"thriveup_server/models"
)

func seedDirectMessage(t *testing.T, fake *fakeDynamo, threadID, createdAt, senderID string, unread bool) {
	t.Helper()
	msg := models.Message{
		ThreadID:  threadID,
		CreatedAt: createdAt,
		MessageID: threadID + "/" + createdAt,
		SenderID:  senderID,
		Content:   "msg at " + createdAt,
		IsUnread:  unread,
	}
	if err := fake.PutItem(context.Background(), models.MessagesTable, msg); err != nil {
		t.Fatalf("seed message: %v", err)
	}
}

func TestRefreshFansOutPerContact(t *testing.T) {
	fake := newFakeDynamo()
	chat := newChatService(fake, nil)
	cache := NewLastMessageCache("alice", chat, nil)

	seedDirectMessage(t, fake, "alice_bob", "2026-03-01T09:00:00.000Z", "bob", true)
	seedDirectMessage(t, fake, "alice_bob", "2026-03-01T09:00:01.000Z", "bob", true)
	seedDirectMessage(t, fake, "alice_carol", "2026-03-01T08:00:00.000Z", "alice", false)

	entries := cache.Refresh(context.Background(), []string{"bob", "carol", "dave"})

	bob, ok := entries["bob"]
	if !ok {
		t.Fatal("missing entry for bob")
	}
	if bob.LastMessage.CreatedAt != "2026-03-01T09:00:01.000Z" {
		t.Fatalf("bob last message = %q, want the newest", bob.LastMessage.CreatedAt)
	}
	if bob.UnreadCount != 2 {
		t.Fatalf("bob unread = %d, want 2", bob.UnreadCount)
	}

	carol, ok := entries["carol"]
	if !ok {
		t.Fatal("missing entry for carol")
	}
	if carol.UnreadCount != 0 {
		t.Fatalf("carol unread = %d, own sent messages never count", carol.UnreadCount)
	}

	// No conversation with dave, so no entry.
	if _, ok := entries["dave"]; ok {
		t.Fatal("dave has no thread, entry must be absent")
	}
}

func TestRefreshToleratesPartialFailure(t *testing.T) {
	fake := newFakeDynamo()
	chat := newChatService(fake, nil)
	cache := NewLastMessageCache("alice", chat, nil)

	seedDirectMessage(t, fake, "alice_bob", "2026-03-01T09:00:00.000Z", "bob", true)
	seedDirectMessage(t, fake, "alice_carol", "2026-03-01T09:00:00.000Z", "carol", true)

	// Make every query for carol's thread fail; the batch must still
	// complete and deliver bob's entry.
	fake.failOnValue["alice_carol"] = errors.New("backend unavailable")

	entries := cache.Refresh(context.Background(), []string{"bob", "carol"})
	if _, ok := entries["bob"]; !ok {
		t.Fatal("bob's refresh must survive carol's failure")
	}
	if _, ok := entries["carol"]; ok {
		t.Fatal("carol's entry must be absent after a failed fetch")
	}

	// Once the backend recovers, the failed contact catches up while
	// bob's entry is left at its cached value.
	delete(fake.failOnValue, "alice_carol")
	entries = cache.Refresh(context.Background(), []string{"bob", "carol"})
	if entries["carol"].LastMessage.CreatedAt != "2026-03-01T09:00:00.000Z" {
		t.Fatalf("carol entry = %+v after recovery", entries["carol"])
	}
}

func TestPushAndPullConverge(t *testing.T) {
	fake := newFakeDynamo()
	bus := events.NewBus()
	chat := newChatService(fake, bus)
	cache := NewLastMessageCache("alice", chat, bus)
	defer cache.Close()

	seedDirectMessage(t, fake, "alice_bob", "2026-03-01T09:00:00.000Z", "bob", true)
	cache.Refresh(context.Background(), []string{"bob"})

	// Push a newer message through the bus.
	newer := models.Message{
		ThreadID:  "alice_bob",
		CreatedAt: "2026-03-01T09:00:05.000Z",
		MessageID: "pushed",
		SenderID:  "bob",
		IsUnread:  true,
	}
	bus.Publish(events.MessageStored{
		ThreadID:     "alice_bob",
		Participants: []string{"alice", "bob"},
		Message:      newer,
	})

	waitForEntry(t, cache, "bob", "2026-03-01T09:00:05.000Z")
	entry, _ := cache.Get("bob")
	if entry.UnreadCount != 2 {
		t.Fatalf("unread = %d, want snapshot 1 plus pushed 1", entry.UnreadCount)
	}

	// A stale refresh result must not displace the pushed message: the
	// store still returns the old row until the write lands, but the
	// cache keeps whichever timestamp is greater.
	cache.applySnapshot("bob", models.Message{
		ThreadID:  "alice_bob",
		CreatedAt: "2026-03-01T09:00:00.000Z",
		MessageID: "stale",
		SenderID:  "bob",
	}, 1)
	entry, _ = cache.Get("bob")
	if entry.LastMessage.MessageID != "pushed" {
		t.Fatalf("stale snapshot displaced pushed message: %+v", entry.LastMessage)
	}
}

func TestOwnMessagesDoNotCountUnread(t *testing.T) {
	fake := newFakeDynamo()
	bus := events.NewBus()
	chat := newChatService(fake, bus)
	cache := NewLastMessageCache("alice", chat, bus)
	defer cache.Close()

	bus.Publish(events.MessageStored{
		ThreadID:     "alice_bob",
		Participants: []string{"alice", "bob"},
		Message: models.Message{
			ThreadID:  "alice_bob",
			CreatedAt: "2026-03-01T09:00:00.000Z",
			MessageID: "mine",
			SenderID:  "alice",
		},
	})

	waitForEntry(t, cache, "bob", "2026-03-01T09:00:00.000Z")
	entry, _ := cache.Get("bob")
	if entry.UnreadCount != 0 {
		t.Fatalf("unread = %d, own messages never count", entry.UnreadCount)
	}
}

func TestCacheIgnoresOtherUsersThreads(t *testing.T) {
	fake := newFakeDynamo()
	bus := events.NewBus()
	chat := newChatService(fake, bus)
	cache := NewLastMessageCache("alice", chat, bus)
	defer cache.Close()

	bus.Publish(events.MessageStored{
		ThreadID:     "bob_carol",
		Participants: []string{"bob", "carol"},
		Message: models.Message{
			ThreadID:  "bob_carol",
			CreatedAt: "2026-03-01T09:00:00.000Z",
			MessageID: "other",
			SenderID:  "bob",
		},
	})

	// Give the consumer a moment, then confirm nothing landed.
	time.Sleep(50 * time.Millisecond)
	if snapshot := cache.Snapshot(); len(snapshot) != 0 {
		t.Fatalf("cache picked up a foreign thread: %+v", snapshot)
	}
}

func TestManagerReusesCaches(t *testing.T) {
	fake := newFakeDynamo()
	bus := events.NewBus()
	chat := newChatService(fake, bus)
	manager := NewLastMessageCacheManager(chat, bus)
	defer manager.Close()

	first := manager.ForUser("alice")
	second := manager.ForUser("alice")
	if first != second {
		t.Fatal("manager must hand out one cache per user")
	}
	if manager.ForUser("bob") == first {
		t.Fatal("different users must not share a cache")
	}
}

func waitForEntry(t *testing.T, cache *LastMessageCache, contact, createdAt string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if entry, ok := cache.Get(contact); ok && entry.LastMessage.CreatedAt == createdAt {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("cache never reached %s@%s", contact, createdAt)
}

func TestPushedDuplicateOfRefreshedMessageNotRecounted(t *testing.T) {
	fake := newFakeDynamo()
	bus := events.NewBus()
	chat := newChatService(fake, bus)
	cache := NewLastMessageCache("alice", chat, bus)
	defer cache.Close()

	seedDirectMessage(t, fake, "alice_bob", "2026-03-01T09:00:00.000Z", "bob", true)
	cache.Refresh(context.Background(), []string{"bob"})

	// The bus event for the message the refresh just counted arrives
	// late. Its delta must not land on top of the authoritative count.
	duplicate := models.Message{
		ThreadID:  "alice_bob",
		CreatedAt: "2026-03-01T09:00:00.000Z",
		MessageID: "alice_bob/2026-03-01T09:00:00.000Z",
		SenderID:  "bob",
		IsUnread:  true,
	}
	bus.Publish(events.MessageStored{
		ThreadID:     "alice_bob",
		Participants: []string{"alice", "bob"},
		Message:      duplicate,
	})

	// A genuinely new message behind it proves the duplicate was
	// processed and skipped: deliveries are handled in order.
	newer := duplicate
	newer.CreatedAt = "2026-03-01T09:00:01.000Z"
	newer.MessageID = "alice_bob/2026-03-01T09:00:01.000Z"
	bus.Publish(events.MessageStored{
		ThreadID:     "alice_bob",
		Participants: []string{"alice", "bob"},
		Message:      newer,
	})

	waitForEntry(t, cache, "bob", "2026-03-01T09:00:01.000Z")
	entry, _ := cache.Get("bob")
	if entry.UnreadCount != 2 {
		t.Fatalf("unread = %d, want 2 (duplicate must not count twice)", entry.UnreadCount)
	}
}
