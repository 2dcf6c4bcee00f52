package handlers

import (
	"github.com/gorilla/mux"

	"github.com/markjakearzadon/mindcare-gobackend/internal/models"
	"github.com/markjakearzadon/mindcare-gobackend/internal/services"
)

type UserHandler struct {
	crudHandler[models.User]
}

func NewUserHandler(service *services.UserService, rs *Responder) *UserHandler {
	return &UserHandler{crudHandler[models.User]{
		rs:     rs,
		noun:   "User",
		create: service.CreateUser,
		list:   service.UserList,
		get:    service.GetUser,
		update: service.UpdateUser,
		remove: service.DeleteUser,
	}}
}

// Register mounts /users and /users/{id}.
func (h *UserHandler) Register(router *mux.Router, deleteGuards ...mux.MiddlewareFunc) {
	h.mount(router, "/users", deleteGuards...)
}
