package routes

import (
	"net/http"

	"thriveup_server/controllers"

	"github.com/gorilla/mux"
)

// RegisterChatRoutes wires direct chat endpoints.
func RegisterChatRoutes(r *mux.Router, controller *controllers.ChatController) {
	chat := r.PathPrefix("/api/chat").Subrouter()

	chat.HandleFunc("/message", controller.HandleSendMessage).Methods(http.MethodPost)
	chat.HandleFunc("/messages", controller.HandleGetMessages).Methods(http.MethodGet)
	chat.HandleFunc("/messages/read", controller.HandleMarkMessagesAsRead).Methods(http.MethodPost)
	chat.HandleFunc("/thread", controller.HandleResolveThread).Methods(http.MethodPost)
	chat.HandleFunc("/lastMessages", controller.HandleGetLastMessages).Methods(http.MethodPost)
}
