package handlers

import (
	"github.com/gorilla/mux"

	"github.com/markjakearzadon/mindcare-gobackend/internal/models"
	"github.com/markjakearzadon/mindcare-gobackend/internal/services"
)

// ResourceHandler serves the self-help library.
type ResourceHandler struct {
	crudHandler[models.Resource]
}

func NewResourceHandler(service *services.ResourceService, rs *Responder) *ResourceHandler {
	return &ResourceHandler{crudHandler[models.Resource]{
		rs:     rs,
		noun:   "Resource",
		create: service.CreateResource,
		list:   service.ResourceList,
		get:    service.GetResource,
		update: service.UpdateResource,
		remove: service.DeleteResource,
	}}
}

// Register mounts /resources and /resources/{id}.
func (h *ResourceHandler) Register(router *mux.Router, deleteGuards ...mux.MiddlewareFunc) {
	h.mount(router, "/resources", deleteGuards...)
}
