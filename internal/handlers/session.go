package handlers

import (
	"github.com/gorilla/mux"

	"github.com/markjakearzadon/mindcare-gobackend/internal/models"
	"github.com/markjakearzadon/mindcare-gobackend/internal/services"
)

type SessionHandler struct {
	crudHandler[models.Session]
}

func NewSessionHandler(service *services.SessionService, rs *Responder) *SessionHandler {
	return &SessionHandler{crudHandler[models.Session]{
		rs:     rs,
		noun:   "Session",
		create: service.CreateSession,
		list:   service.SessionList,
		get:    service.GetSession,
		update: service.UpdateSession,
		remove: service.DeleteSession,
	}}
}

// Register mounts /session and /session/{id}.
func (h *SessionHandler) Register(router *mux.Router, deleteGuards ...mux.MiddlewareFunc) {
	h.mount(router, "/session", deleteGuards...)
}
