package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/markjakearzadon/mindcare-gobackend/internal/services"
)

type MeetLinkHandler struct {
	service *services.MeetLinkService
	rs      *Responder
}

func NewMeetLinkHandler(service *services.MeetLinkService, rs *Responder) *MeetLinkHandler {
	return &MeetLinkHandler{service: service, rs: rs}
}

func (h *MeetLinkHandler) Register(router *mux.Router) {
	router.HandleFunc("/send-meet-link", h.Send).Methods(http.MethodPost)
}

// Send handles POST /send-meet-link
func (h *MeetLinkHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req services.MeetLinkRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}

	email, err := h.service.Send(r.Context(), req)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, http.StatusOK, map[string]string{"success": "Meet link sent to " + email})
}
