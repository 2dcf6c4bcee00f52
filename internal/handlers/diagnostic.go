package handlers

import (
	"github.com/gorilla/mux"

	"github.com/markjakearzadon/mindcare-gobackend/internal/models"
	"github.com/markjakearzadon/mindcare-gobackend/internal/services"
)

type DiagnosticHandler struct {
	crudHandler[models.Diagnostic]
}

func NewDiagnosticHandler(service *services.DiagnosticService, rs *Responder) *DiagnosticHandler {
	return &DiagnosticHandler{crudHandler[models.Diagnostic]{
		rs:     rs,
		noun:   "Diagnostic",
		create: service.CreateDiagnostic,
		list:   service.DiagnosticList,
		get:    service.GetDiagnostic,
		update: service.UpdateDiagnostic,
		remove: service.DeleteDiagnostic,
	}}
}

func (h *DiagnosticHandler) Register(router *mux.Router, deleteGuards ...mux.MiddlewareFunc) {
	h.mount(router, "/diagnostics", deleteGuards...)
}
