package handlers

import (
	"github.com/gorilla/mux"

	"github.com/markjakearzadon/mindcare-gobackend/internal/models"
	"github.com/markjakearzadon/mindcare-gobackend/internal/services"
)

type TherapistHandler struct {
	crudHandler[models.Therapist]
}

func NewTherapistHandler(service *services.TherapistService, rs *Responder) *TherapistHandler {
	return &TherapistHandler{crudHandler[models.Therapist]{
		rs:     rs,
		noun:   "Therapist",
		create: service.CreateTherapist,
		list:   service.TherapistList,
		get:    service.GetTherapist,
		update: service.UpdateTherapist,
		remove: service.DeleteTherapist,
	}}
}

func (h *TherapistHandler) Register(router *mux.Router, deleteGuards ...mux.MiddlewareFunc) {
	h.mount(router, "/therapists", deleteGuards...)
}
