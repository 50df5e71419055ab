package socket

import (
	"context"
	"log"

	"thriveup_server/services"

	socketio "github.com/googollee/go-socket.io"
)

// joinPayload is what clients send on "join" / "joinGroup".
type joinPayload struct {
	UserID   string `json:"userId"`
	ThreadID string `json:"threadId"`
	GroupID  string `json:"groupId"`
}

// NewSocketServer wires the socket.io event handlers. The connection
// context carries the user id from the first join so the disconnect
// handler can flip presence back to offline.
func NewSocketServer(bridge *Bridge, presence *services.PresenceService) *socketio.Server {
	server := socketio.NewServer(nil)

	server.OnConnect("/", func(s socketio.Conn) error {
		s.SetContext("")
		log.Println("✅ Socket connected:", s.ID())
		return nil
	})

	server.OnEvent("/", "join", func(s socketio.Conn, payload joinPayload) {
		if payload.ThreadID == "" {
			return
		}
		s.Join(payload.ThreadID)
		bridge.JoinThread(s.ID(), payload.ThreadID)
		markOnline(s, presence, payload.UserID)
		log.Printf("👥 %s joined thread %s", payload.UserID, payload.ThreadID)
	})

	server.OnEvent("/", "joinGroup", func(s socketio.Conn, payload joinPayload) {
		if payload.GroupID == "" {
			return
		}
		s.Join(payload.GroupID)
		bridge.JoinGroup(s.ID(), payload.GroupID)
		markOnline(s, presence, payload.UserID)
		log.Printf("👥 %s joined group %s", payload.UserID, payload.GroupID)
	})

	server.OnEvent("/", "leave", func(s socketio.Conn, payload joinPayload) {
		if payload.ThreadID != "" {
			s.Leave(payload.ThreadID)
			bridge.LeaveThread(s.ID(), payload.ThreadID)
		}
		if payload.GroupID != "" {
			s.Leave(payload.GroupID)
			bridge.LeaveGroup(s.ID(), payload.GroupID)
		}
	})

	server.OnError("/", func(s socketio.Conn, err error) {
		log.Println("⚠️ Socket error:", err)
	})

	server.OnDisconnect("/", func(s socketio.Conn, reason string) {
		bridge.DropConn(s.ID())
		if userID, ok := s.Context().(string); ok && userID != "" {
			if err := presence.SetOffline(context.Background(), userID); err != nil {
				log.Printf("⚠️ Failed to mark %s offline: %v", userID, err)
			}
		}
		log.Println("❌ Socket disconnected:", s.ID(), reason)
	})

	return server
}

func markOnline(s socketio.Conn, presence *services.PresenceService, userID string) {
	if userID == "" {
		return
	}
	s.SetContext(userID)
	if err := presence.SetOnline(context.Background(), userID); err != nil {
		log.Printf("⚠️ Failed to mark %s online: %v", userID, err)
	}
}
