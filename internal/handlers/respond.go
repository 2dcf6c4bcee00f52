package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/markjakearzadon/mindcare-gobackend/internal/apperr"
	"github.com/markjakearzadon/mindcare-gobackend/internal/validation"
)

const maxBodyBytes = 1 << 20

// envelope is the JSON shape of every error and of the payment endpoints.
type envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Data    any                 `json:"data,omitempty"`
	Error   string              `json:"error,omitempty"`
	Issues  []apperr.FieldIssue `json:"issues,omitempty"`
	Stack   string              `json:"stack,omitempty"`
}

// Responder writes JSON bodies and turns errors into status codes.
type Responder struct {
	logger *slog.Logger
	dev    bool
}

func NewResponder(logger *slog.Logger, dev bool) *Responder {
	return &Responder{logger: logger, dev: dev}
}

func (rs *Responder) JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		rs.logger.Error("failed to encode response", "err", err)
	}
}

func (rs *Responder) Error(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.HTTPStatus(err)
	body := envelope{Success: false, Message: apperr.PublicMessage(err)}

	if ae, ok := apperr.As(err); ok && len(ae.Fields) > 0 {
		body.Error = validation.Summary(ae.Fields)
		body.Issues = ae.Fields
	}

	if status >= http.StatusInternalServerError {
		rs.logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "status", status, "err", err)
		if rs.dev {
			body.Error = err.Error()
			body.Stack = string(debug.Stack())
		}
	}
	rs.JSON(w, status, body)
}

// decodeJSON reads a single JSON document into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.InvalidErr("Invalid request body", []apperr.FieldIssue{{Field: "_", Message: "body is empty"}})
		}
		return apperr.InvalidErr("Invalid request body", []apperr.FieldIssue{{Field: "_", Message: err.Error()}})
	}
	return nil
}

// decodeAndValidate decodes dst and runs its struct tags.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := decodeJSON(w, r, dst); err != nil {
		return err
	}
	if issues := validation.Struct(dst); len(issues) > 0 {
		return apperr.InvalidErr("Validation error", issues)
	}
	return nil
}

func objectIDParam(r *http.Request, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)[name])
	if err != nil {
		return primitive.NilObjectID, apperr.InvalidErr("Invalid ID", []apperr.FieldIssue{{Field: name, Message: "Invalid id"}})
	}
	return id, nil
}

// limitParam reads ?limit=n. Zero means no limit.
func limitParam(r *http.Request) (int64, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return 0, apperr.InvalidErr("Invalid limit", []apperr.FieldIssue{{Field: "limit", Message: "Must be a non-negative integer"}})
	}
	return n, nil
}
