package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/markjakearzadon/mindcare-gobackend/internal/apperr"
	"github.com/markjakearzadon/mindcare-gobackend/internal/mpesa"
	"github.com/markjakearzadon/mindcare-gobackend/internal/services"
)

type MpesaHandler struct {
	service *services.MpesaService
	rs      *Responder
}

func NewMpesaHandler(service *services.MpesaService, rs *Responder) *MpesaHandler {
	return &MpesaHandler{service: service, rs: rs}
}

func (h *MpesaHandler) Register(router *mux.Router) {
	router.HandleFunc("/initiate", h.Initiate).Methods(http.MethodPost)
	router.HandleFunc("/callback", h.Callback).Methods(http.MethodPost)
	router.HandleFunc("/transaction/{checkoutRequestId}", h.GetTransaction).Methods(http.MethodGet)
	router.HandleFunc("/transactions", h.GetTransactions).Methods(http.MethodGet)
}

// Initiate handles POST /initiate
func (h *MpesaHandler) Initiate(w http.ResponseWriter, r *http.Request) {
	var req services.STKPushRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}

	push, issues := services.ValidateSTKPush(req)
	if issues != nil {
		h.rs.Error(w, r, apperr.InvalidErr("Validation error", issues))
		return
	}

	acc, err := h.service.InitiatePayment(r.Context(), *push)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}

	h.rs.JSON(w, http.StatusOK, envelope{
		Success: true,
		Message: "STK Push initiated successfully",
		Data:    acc.Raw,
	})
}

// Callback handles POST /callback
func (h *MpesaHandler) Callback(w http.ResponseWriter, r *http.Request) {
	var cb mpesa.Callback
	if err := decodeJSON(w, r, &cb); err != nil {
		h.rs.Error(w, r, apperr.InvalidErr("Invalid callback data format", errFields(err)))
		return
	}

	stk, issues := services.ValidateCallback(cb)
	if issues != nil {
		h.rs.Error(w, r, apperr.InvalidErr("Invalid callback data format", issues))
		return
	}

	if err := h.service.ProcessCallback(r.Context(), stk); err != nil {
		h.rs.logger.ErrorContext(r.Context(), "callback processing failed", "err", err)
		h.rs.JSON(w, http.StatusInternalServerError, envelope{Success: false, Message: "Failed to process callback"})
		return
	}

	h.rs.JSON(w, http.StatusOK, envelope{Success: true, Message: "Callback processed successfully"})
}

// GetTransaction handles GET /transaction/{checkoutRequestId}
func (h *MpesaHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(mux.Vars(r)["checkoutRequestId"])
	if id == "" {
		h.rs.Error(w, r, apperr.InvalidErr("Checkout request ID is required", nil))
		return
	}

	tx, err := h.service.GetTransaction(r.Context(), id)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, http.StatusOK, envelope{Success: true, Data: tx})
}

// GetTransactions handles GET /transactions
func (h *MpesaHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := h.service.ListTransactions(r.Context())
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	// always an array, never null
	h.rs.JSON(w, http.StatusOK, struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}{Success: true, Data: arrayJSON(txs)})
}

func errFields(err error) []apperr.FieldIssue {
	if ae, ok := apperr.As(err); ok {
		return ae.Fields
	}
	return []apperr.FieldIssue{{Field: "_", Message: err.Error()}}
}

func arrayJSON(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil || string(b) == "null" {
		return json.RawMessage("[]")
	}
	return b
}
