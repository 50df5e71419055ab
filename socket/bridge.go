package socket

import (
	"context"
	"log"
	"sync"

	"thriveup_server/events"
	"thriveup_server/livefeed"
	"thriveup_server/models"
)

// Broadcaster is the slice of the socket.io server the bridge needs.
type Broadcaster interface {
	BroadcastToRoom(namespace string, room, event string, args ...interface{}) bool
}

// threadHistory and groupHistory are the read slices of the chat
// services the room feeds pull from.
type threadHistory interface {
	GetMessagesByThreadID(ctx context.Context, threadID string, limit int) ([]models.Message, error)
}

type groupHistory interface {
	GetMessagesByGroupID(ctx context.Context, groupID string, limit int) ([]models.GroupMessage, error)
}

// Bridge connects the event bus to socket.io rooms. Every active room
// owns one live collection that mirrors the room's message feed; bus
// events are applied as diffs and each resulting ordered snapshot is
// broadcast to the room. When the last connection leaves a room its
// feed subscription is canceled, so no feed outlives its observers.
type Bridge struct {
	Server Broadcaster
	Bus    *events.Bus
	Chat   threadHistory
	Groups groupHistory

	mu          sync.Mutex
	threadRooms map[string]*feedRoom[models.Message]
	groupRooms  map[string]*feedRoom[models.GroupMessage]
	conns       map[string][]roomRef

	msgSub   *events.Subscription
	groupSub *events.Subscription
}

type feedRoom[T any] struct {
	refs int
	feed *livefeed.Collection[T]
	sub  *livefeed.Subscription
}

type roomRef struct {
	group bool
	id    string
}

// NewBridge builds an idle bridge; call Run to start consuming events.
func NewBridge(server Broadcaster, bus *events.Bus, chat threadHistory, groups groupHistory) *Bridge {
	return &Bridge{
		Server:      server,
		Bus:         bus,
		Chat:        chat,
		Groups:      groups,
		threadRooms: make(map[string]*feedRoom[models.Message]),
		groupRooms:  make(map[string]*feedRoom[models.GroupMessage]),
		conns:       make(map[string][]roomRef),
	}
}

// Run consumes stored-message events until the context is canceled.
func (b *Bridge) Run(ctx context.Context) {
	b.msgSub = b.Bus.Subscribe(events.TopicMessageStored, 64)
	b.groupSub = b.Bus.Subscribe(events.TopicGroupMessageStored, 64)

	go func() {
		defer b.msgSub.Cancel()
		defer b.groupSub.Cancel()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-b.msgSub.C:
				if !ok {
					return
				}
				if stored, ok := ev.(events.MessageStored); ok {
					b.onThreadMessage(stored)
				}
			case ev, ok := <-b.groupSub.C:
				if !ok {
					return
				}
				if stored, ok := ev.(events.GroupMessageStored); ok {
					b.onGroupMessage(stored)
				}
			}
		}
	}()
}

func (b *Bridge) onThreadMessage(stored events.MessageStored) {
	b.Server.BroadcastToRoom("/", stored.ThreadID, "newMessage", stored.Message)

	b.mu.Lock()
	room := b.threadRooms[stored.ThreadID]
	b.mu.Unlock()
	if room != nil {
		room.feed.Apply(stored.Message)
	}
}

func (b *Bridge) onGroupMessage(stored events.GroupMessageStored) {
	b.Server.BroadcastToRoom("/", stored.GroupID, "newGroupMessage", stored.Message)

	b.mu.Lock()
	room := b.groupRooms[stored.GroupID]
	b.mu.Unlock()
	if room != nil {
		room.feed.Apply(stored.Message)
	}
}

// JoinThread registers a connection in a direct-chat room, creating
// the room's feed on first join. Direct chat reconciles with a full
// reload, the way the thread screens always re-pulled the whole list.
func (b *Bridge) JoinThread(connID, threadID string) {
	b.mu.Lock()
	room := b.threadRooms[threadID]
	if room == nil {
		feed := livefeed.New(livefeed.Config[models.Message]{
			Fetch: func(ctx context.Context) ([]models.Message, error) {
				return b.Chat.GetMessagesByThreadID(ctx, threadID, 50)
			},
			Key:       func(m models.Message) string { return m.MessageID },
			SortKey:   func(m models.Message) string { return m.CreatedAt },
			Strategy:  livefeed.FullReload,
			Direction: livefeed.Ascending,
		})
		sub := feed.Subscribe(func(items []models.Message) {
			b.Server.BroadcastToRoom("/", threadID, "messages", items)
		})
		room = &feedRoom[models.Message]{feed: feed, sub: sub}
		b.threadRooms[threadID] = room
	}
	room.refs++
	b.conns[connID] = append(b.conns[connID], roomRef{id: threadID})
	b.mu.Unlock()

	if err := room.feed.Refresh(context.Background()); err != nil {
		log.Printf("❌ Failed to refresh thread feed %s: %v", threadID, err)
	}
}

// JoinGroup registers a connection in a group room. Group chat
// reconciles by diff-append: existing items stay, new ones merge in
// timestamp order.
func (b *Bridge) JoinGroup(connID, groupID string) {
	b.mu.Lock()
	room := b.groupRooms[groupID]
	if room == nil {
		feed := livefeed.New(livefeed.Config[models.GroupMessage]{
			Fetch: func(ctx context.Context) ([]models.GroupMessage, error) {
				return b.Groups.GetMessagesByGroupID(ctx, groupID, 50)
			},
			Key:       func(m models.GroupMessage) string { return m.MessageID },
			SortKey:   func(m models.GroupMessage) string { return m.CreatedAt },
			Strategy:  livefeed.DiffAppend,
			Direction: livefeed.Ascending,
		})
		sub := feed.Subscribe(func(items []models.GroupMessage) {
			b.Server.BroadcastToRoom("/", groupID, "messages", items)
		})
		room = &feedRoom[models.GroupMessage]{feed: feed, sub: sub}
		b.groupRooms[groupID] = room
	}
	room.refs++
	b.conns[connID] = append(b.conns[connID], roomRef{group: true, id: groupID})
	b.mu.Unlock()

	if err := room.feed.Refresh(context.Background()); err != nil {
		log.Printf("❌ Failed to refresh group feed %s: %v", groupID, err)
	}
}

// LeaveThread drops a connection from a direct-chat room.
func (b *Bridge) LeaveThread(connID, threadID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dropRefLocked(connID, roomRef{id: threadID})
}

// LeaveGroup drops a connection from a group room.
func (b *Bridge) LeaveGroup(connID, groupID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dropRefLocked(connID, roomRef{group: true, id: groupID})
}

// DropConn releases every room the connection had joined.
func (b *Bridge) DropConn(connID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ref := range b.conns[connID] {
		b.releaseLocked(ref)
	}
	delete(b.conns, connID)
}

func (b *Bridge) dropRefLocked(connID string, ref roomRef) {
	refs := b.conns[connID]
	for i, r := range refs {
		if r == ref {
			b.conns[connID] = append(refs[:i], refs[i+1:]...)
			b.releaseLocked(ref)
			return
		}
	}
}

func (b *Bridge) releaseLocked(ref roomRef) {
	if ref.group {
		if room := b.groupRooms[ref.id]; room != nil {
			room.refs--
			if room.refs <= 0 {
				room.sub.Cancel()
				delete(b.groupRooms, ref.id)
			}
		}
		return
	}
	if room := b.threadRooms[ref.id]; room != nil {
		room.refs--
		if room.refs <= 0 {
			room.sub.Cancel()
			delete(b.threadRooms, ref.id)
		}
	}
}
