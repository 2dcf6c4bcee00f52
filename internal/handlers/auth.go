package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/markjakearzadon/mindcare-gobackend/internal/models"
	"github.com/markjakearzadon/mindcare-gobackend/internal/services"
)

type AuthHandler struct {
	service *services.AuthService
	rs      *Responder
}

func NewAuthHandler(service *services.AuthService, rs *Responder) *AuthHandler {
	return &AuthHandler{service: service, rs: rs}
}

func (h *AuthHandler) Register(router *mux.Router) {
	router.HandleFunc("/auth/register", h.SignUp).Methods(http.MethodPost)
	router.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)
}

// SignUp handles POST /auth/register
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}

	user, err := h.service.Register(r.Context(), req)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, http.StatusCreated, user)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req services.LoginRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}

	token, user, err := h.service.Login(r.Context(), req)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, http.StatusOK, struct {
		Token string       `json:"token"`
		User  *models.User `json:"user"`
	}{token, user})
}
