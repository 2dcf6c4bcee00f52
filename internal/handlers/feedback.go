package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/markjakearzadon/mindcare-gobackend/internal/models"
	"github.com/markjakearzadon/mindcare-gobackend/internal/services"
)

type FeedbackHandler struct {
	crudHandler[models.Feedback]
	service *services.FeedbackService
}

func NewFeedbackHandler(service *services.FeedbackService, rs *Responder) *FeedbackHandler {
	return &FeedbackHandler{crudHandler[models.Feedback]{
		rs:     rs,
		noun:   "Feedback",
		create: service.CreateFeedback,
		list:   service.FeedbackList,
		get:    service.GetFeedback,
		update: service.UpdateFeedback,
		remove: service.DeleteFeedback,
	}, service}
}

// Register mounts /feedback, /feedback/{id} and /feedback/session/{sessionId}.
func (h *FeedbackHandler) Register(router *mux.Router, deleteGuards ...mux.MiddlewareFunc) {
	h.mount(router, "/feedback", deleteGuards...)
	router.HandleFunc("/feedback/session/{sessionId}", h.ForSession).Methods(http.MethodGet)
}

// ForSession handles GET /feedback/session/{sessionId}
func (h *FeedbackHandler) ForSession(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r, "sessionId")
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	items, err := h.service.FeedbackForSession(r.Context(), id)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, http.StatusOK, arrayJSON(items))
}
