package handlers

import (
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/markjakearzadon/mindcare-gobackend/internal/apperr"
	"github.com/markjakearzadon/mindcare-gobackend/internal/models"
	"github.com/markjakearzadon/mindcare-gobackend/internal/services"
)

const maxWebhookBytes = 64 << 10

type PaymentHandler struct {
	crudHandler[models.Payment]
	stripe *services.StripeService
}

func NewPaymentHandler(payments *services.PaymentService, stripe *services.StripeService, rs *Responder) *PaymentHandler {
	return &PaymentHandler{
		crudHandler: crudHandler[models.Payment]{
			rs:     rs,
			noun:   "Payment",
			create: payments.CreatePayment,
			list:   payments.PaymentList,
			get:    payments.GetPayment,
			update: payments.UpdatePayment,
			remove: payments.DeletePayment,
		},
		stripe: stripe,
	}
}

func (h *PaymentHandler) Register(router *mux.Router) {
	h.mount(router, "/payments")
	router.HandleFunc("/create-payment-intent", h.CreatePaymentIntent).Methods(http.MethodPost)
	router.HandleFunc("/webhook", h.Webhook).Methods(http.MethodPost)
}

// CreatePaymentIntent handles POST /create-payment-intent
func (h *PaymentHandler) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	var req services.PaymentIntentRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}

	secret, err := h.stripe.CreatePaymentIntent(r.Context(), req)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, http.StatusOK, map[string]string{"clientSecret": secret})
}

// Webhook handles POST /webhook. The raw body is needed for the signature check.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBytes))
	if err != nil {
		h.rs.Error(w, r, apperr.InvalidErr("Invalid webhook payload", nil))
		return
	}

	if err := h.stripe.HandleWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature")); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, http.StatusOK, map[string]bool{"received": true})
}
