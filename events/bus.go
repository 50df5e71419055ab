// Package events is a typed in-process event bus. It replaces the
// string-keyed broadcast notifications the mobile client used to make
// unrelated screens reload: publishers emit concrete event values and
// subscribers receive them on a channel they can cancel.
package events

import (
	"log"
	"sync"

	"thriveup_server/models"
)

// Topic names, one per event type.
const (
	TopicMessageStored      = "message.stored"
	TopicGroupMessageStored = "group_message.stored"
	TopicFriendshipFormed   = "friendship.formed"
	TopicTeamMemberJoined   = "team.member_joined"
)

// Event is implemented by every value published on the bus.
type Event interface {
	Topic() string
}

// MessageStored fires after a direct message is persisted.
type MessageStored struct {
	ThreadID     string
	Participants []string
	Message      models.Message
}

func (MessageStored) Topic() string { return TopicMessageStored }

// GroupMessageStored fires after a group message is persisted.
type GroupMessageStored struct {
	GroupID string
	Message models.GroupMessage
}

func (GroupMessageStored) Topic() string { return TopicGroupMessageStored }

// FriendshipFormed fires after a friend request is accepted.
type FriendshipFormed struct {
	UserID   string
	FriendID string
}

func (FriendshipFormed) Topic() string { return TopicFriendshipFormed }

// TeamMemberJoined fires after a team join request is accepted.
type TeamMemberJoined struct {
	TeamID string
	UserID string
}

func (TeamMemberJoined) Topic() string { return TopicTeamMemberJoined }

// Subscription is a live feed of events for one topic. Cancel must be
// called when the owner goes away or the feed leaks.
type Subscription struct {
	C      <-chan Event
	ch     chan Event
	cancel func()
	once   sync.Once
}

// Cancel detaches the subscription and closes its channel.
func (s *Subscription) Cancel() {
	s.once.Do(s.cancel)
}

// Bus routes published events to topic subscribers.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string]map[int]*Subscription
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[string]map[int]*Subscription)}
}

// Subscribe registers interest in a topic. The channel is buffered;
// a subscriber that stops draining loses events rather than blocking
// publishers.
func (b *Bus) Subscribe(topic string, buffer int) *Subscription {
	if buffer <= 0 {
		buffer = 16
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++

	ch := make(chan Event, buffer)
	sub := &Subscription{C: ch, ch: ch}
	sub.cancel = func() {
		b.mu.Lock()
		if m, ok := b.subs[topic]; ok {
			delete(m, id)
		}
		b.mu.Unlock()
		close(ch)
	}

	if b.subs[topic] == nil {
		b.subs[topic] = make(map[int]*Subscription)
	}
	b.subs[topic][id] = sub
	return sub
}

// Publish delivers an event to every subscriber of its topic. Delivery
// is non-blocking: a full subscriber buffer drops the event.
func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subs[ev.Topic()] {
		select {
		case sub.ch <- ev:
		default:
			log.Printf("⚠️ Dropping %s event for slow subscriber", ev.Topic())
		}
	}
}
