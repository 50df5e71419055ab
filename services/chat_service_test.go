package services

import (
	"context"
	"errors"
	"testing"

	"thriveup_server/events"
	"thriveup_server/models"
)

func newChatService(fake *fakeDynamo, bus *events.Bus) *ChatService {
	return &ChatService{
		Dynamo:  fake,
		Threads: &ThreadService{Dynamo: fake},
		Bus:     bus,
	}
}

func TestSendMessageCreatesThreadAndPublishes(t *testing.T) {
	fake := newFakeDynamo()
	bus := events.NewBus()
	svc := newChatService(fake, bus)
	ctx := context.Background()

	sub := bus.Subscribe(events.TopicMessageStored, 1)
	defer sub.Cancel()

	stored, err := svc.SendMessage(ctx, "bob", "alice", models.Message{Content: "hi"})
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if stored.ThreadID != "alice_bob" {
		t.Fatalf("ThreadID = %q, want alice_bob", stored.ThreadID)
	}
	if stored.MessageID == "" || stored.CreatedAt == "" {
		t.Fatal("message id and timestamp must be assigned on store")
	}
	if !stored.IsUnread {
		t.Fatal("new messages start unread")
	}

	// The thread was created as a side effect of the first message.
	if _, err := svc.Threads.GetThread(ctx, "alice_bob"); err != nil {
		t.Fatalf("thread missing after first message: %v", err)
	}

	ev := <-sub.C
	msgEvent, ok := ev.(events.MessageStored)
	if !ok {
		t.Fatalf("published event has type %T", ev)
	}
	if msgEvent.Message.MessageID != stored.MessageID {
		t.Fatalf("event carries message %q, want %q", msgEvent.Message.MessageID, stored.MessageID)
	}
	if len(msgEvent.Participants) != 2 {
		t.Fatalf("event participants = %v", msgEvent.Participants)
	}
}

func TestGetMessagesOldestToNewest(t *testing.T) {
	fake := newFakeDynamo()
	svc := newChatService(fake, nil)
	ctx := context.Background()

	// Insert out of order on purpose.
	timestamps := []string{
		"2026-02-01T10:00:02.000Z",
		"2026-02-01T10:00:00.000Z",
		"2026-02-01T10:00:01.000Z",
	}
	for i, ts := range timestamps {
		msg := models.Message{
			ThreadID:  "alice_bob",
			CreatedAt: ts,
			MessageID: string(rune('a' + i)),
			SenderID:  "alice",
			Content:   ts,
		}
		if err := fake.PutItem(ctx, models.MessagesTable, msg); err != nil {
			t.Fatalf("seed message: %v", err)
		}
	}

	messages, err := svc.GetMessagesByThreadID(ctx, "alice_bob", 50)
	if err != nil {
		t.Fatalf("GetMessagesByThreadID: %v", err)
	}
	if len(messages) != 3 {
		t.Fatalf("got %d messages, want 3", len(messages))
	}
	for i := 1; i < len(messages); i++ {
		if messages[i-1].CreatedAt > messages[i].CreatedAt {
			t.Fatalf("messages out of order at %d: %q > %q", i, messages[i-1].CreatedAt, messages[i].CreatedAt)
		}
	}
}

func TestGetMessagesLimitKeepsNewest(t *testing.T) {
	fake := newFakeDynamo()
	svc := newChatService(fake, nil)
	ctx := context.Background()

	for _, ts := range []string{
		"2026-02-01T10:00:00.000Z",
		"2026-02-01T10:00:01.000Z",
		"2026-02-01T10:00:02.000Z",
	} {
		msg := models.Message{ThreadID: "alice_bob", CreatedAt: ts, MessageID: ts, SenderID: "alice"}
		if err := fake.PutItem(ctx, models.MessagesTable, msg); err != nil {
			t.Fatalf("seed message: %v", err)
		}
	}

	messages, err := svc.GetMessagesByThreadID(ctx, "alice_bob", 2)
	if err != nil {
		t.Fatalf("GetMessagesByThreadID: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(messages))
	}
	// The limit trims the oldest, not the newest.
	if messages[0].CreatedAt != "2026-02-01T10:00:01.000Z" {
		t.Fatalf("oldest kept message is %q", messages[0].CreatedAt)
	}
	if messages[1].CreatedAt != "2026-02-01T10:00:02.000Z" {
		t.Fatalf("newest message is %q", messages[1].CreatedAt)
	}
}

func TestGetLastMessage(t *testing.T) {
	fake := newFakeDynamo()
	svc := newChatService(fake, nil)
	ctx := context.Background()

	last, err := svc.GetLastMessage(ctx, "alice_bob")
	if err != nil {
		t.Fatalf("GetLastMessage on empty thread: %v", err)
	}
	if last != nil {
		t.Fatalf("empty thread returned %+v", last)
	}

	for _, ts := range []string{"2026-02-01T10:00:00.000Z", "2026-02-01T10:00:05.000Z"} {
		msg := models.Message{ThreadID: "alice_bob", CreatedAt: ts, MessageID: ts, SenderID: "alice"}
		if err := fake.PutItem(ctx, models.MessagesTable, msg); err != nil {
			t.Fatalf("seed message: %v", err)
		}
	}

	last, err = svc.GetLastMessage(ctx, "alice_bob")
	if err != nil {
		t.Fatalf("GetLastMessage: %v", err)
	}
	if last == nil || last.CreatedAt != "2026-02-01T10:00:05.000Z" {
		t.Fatalf("last message = %+v, want the newest", last)
	}
}

func TestMarkMessagesAsRead(t *testing.T) {
	fake := newFakeDynamo()
	svc := newChatService(fake, nil)
	ctx := context.Background()

	if _, err := svc.Threads.FetchOrCreateThread(ctx, "alice", "bob"); err != nil {
		t.Fatalf("FetchOrCreateThread: %v", err)
	}

	seed := []models.Message{
		{ThreadID: "alice_bob", CreatedAt: "2026-02-01T10:00:00.000Z", MessageID: "m1", SenderID: "alice", IsUnread: true},
		{ThreadID: "alice_bob", CreatedAt: "2026-02-01T10:00:01.000Z", MessageID: "m2", SenderID: "alice", IsUnread: true},
		{ThreadID: "alice_bob", CreatedAt: "2026-02-01T10:00:02.000Z", MessageID: "m3", SenderID: "bob", IsUnread: true},
	}
	for _, msg := range seed {
		if err := fake.PutItem(ctx, models.MessagesTable, msg); err != nil {
			t.Fatalf("seed message: %v", err)
		}
	}

	if count, _ := svc.UnreadCount(ctx, "alice_bob", "bob"); count != 2 {
		t.Fatalf("unread before = %d, want 2", count)
	}

	if err := svc.MarkMessagesAsRead(ctx, "alice_bob", "bob"); err != nil {
		t.Fatalf("MarkMessagesAsRead: %v", err)
	}

	// Bob's incoming messages are read now; his own message is not
	// touched and still counts as unread for alice.
	if count, _ := svc.UnreadCount(ctx, "alice_bob", "bob"); count != 0 {
		t.Fatalf("unread after = %d, want 0", count)
	}
	if count, _ := svc.UnreadCount(ctx, "alice_bob", "alice"); count != 1 {
		t.Fatalf("alice's unread = %d, want 1", count)
	}
}

func TestThreadReadsRequireParticipant(t *testing.T) {
	fake := newFakeDynamo()
	svc := newChatService(fake, nil)
	ctx := context.Background()

	if _, err := svc.SendMessage(ctx, "bob", "alice", models.Message{Content: "hi"}); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	// An outsider can neither read the thread nor mark it read.
	if _, err := svc.GetMessagesForUser(ctx, "alice_bob", "mallory", 50); !errors.Is(err, ErrNotParticipant) {
		t.Fatalf("outsider read err = %v, want ErrNotParticipant", err)
	}
	if err := svc.MarkMessagesAsRead(ctx, "alice_bob", "mallory"); !errors.Is(err, ErrNotParticipant) {
		t.Fatalf("outsider mark-read err = %v, want ErrNotParticipant", err)
	}
	if count, _ := svc.UnreadCount(ctx, "alice_bob", "alice"); count != 1 {
		t.Fatalf("unread = %d after rejected mark-read, want 1", count)
	}

	// A missing thread surfaces as not-found, not as a silent empty read.
	if _, err := svc.GetMessagesForUser(ctx, "alice_carol", "alice", 50); !errors.Is(err, ErrThreadNotFound) {
		t.Fatalf("missing thread err = %v, want ErrThreadNotFound", err)
	}

	// Participants still read normally.
	messages, err := svc.GetMessagesForUser(ctx, "alice_bob", "alice", 50)
	if err != nil {
		t.Fatalf("GetMessagesForUser: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("got %d messages, want 1", len(messages))
	}
}
