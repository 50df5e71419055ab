package routes

import (
	"net/http"

	"thriveup_server/controllers"

	"github.com/gorilla/mux"
)

// RegisterGroupRoutes wires group chat endpoints.
func RegisterGroupRoutes(r *mux.Router, controller *controllers.GroupController) {
	groups := r.PathPrefix("/api/groups").Subrouter()

	groups.HandleFunc("", controller.HandleCreateGroup).Methods(http.MethodPost)
	groups.HandleFunc("/{groupId}", controller.HandleGetGroup).Methods(http.MethodGet)
	groups.HandleFunc("/{groupId}/members", controller.HandleAddMember).Methods(http.MethodPost)
	groups.HandleFunc("/{groupId}/members", controller.HandleGetMembers).Methods(http.MethodGet)
	groups.HandleFunc("/{groupId}/messages", controller.HandleSendGroupMessage).Methods(http.MethodPost)
	groups.HandleFunc("/{groupId}/messages", controller.HandleGetGroupMessages).Methods(http.MethodGet)
	groups.HandleFunc("/{groupId}/messages/last", controller.HandleGetGroupLastMessage).Methods(http.MethodGet)
	groups.HandleFunc("/{groupId}/members/permission", controller.HandleUpdateMemberPermission).Methods(http.MethodPatch)
	groups.HandleFunc("/{groupId}/chatSetting", controller.HandleUpdateChatSetting).Methods(http.MethodPatch)
}
