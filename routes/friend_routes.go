package routes

import (
	"net/http"

	"thriveup_server/controllers"

	"github.com/gorilla/mux"
)

// RegisterFriendRoutes wires the friend request lifecycle endpoints.
func RegisterFriendRoutes(r *mux.Router, controller *controllers.FriendController) {
	friends := r.PathPrefix("/api/friends").Subrouter()

	friends.HandleFunc("/request", controller.HandleSendRequest).Methods(http.MethodPost)
	friends.HandleFunc("/requests/pending", controller.HandleGetPendingRequests).Methods(http.MethodGet)
	friends.HandleFunc("/requests/sent", controller.HandleGetSentRequests).Methods(http.MethodGet)
	friends.HandleFunc("/request/accept", controller.HandleAcceptRequest).Methods(http.MethodPost)
	friends.HandleFunc("/request/reject", controller.HandleRejectRequest).Methods(http.MethodPost)
	friends.HandleFunc("", controller.HandleListFriends).Methods(http.MethodGet)
}
