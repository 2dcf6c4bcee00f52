package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	Invalid        Kind = "invalid"
	NotFound       Kind = "not_found"
	Unauthorized   Kind = "unauthorized"
	Forbidden      Kind = "forbidden"
	Conflict       Kind = "conflict"
	GatewayAuth    Kind = "gateway_auth"
	GatewayRequest Kind = "gateway_request"
	Persistence    Kind = "persistence"
	Internal       Kind = "internal"
)

const genericMessage = "Internal server error"

// FieldIssue is one failing field of a request body.
type FieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type AppError struct {
	Kind      Kind
	PublicMsg string
	Fields    []FieldIssue
	Err       error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	if e.PublicMsg != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.PublicMsg)
	}
	return string(e.Kind)
}

func (e *AppError) Unwrap() error { return e.Err }

func InvalidErr(publicMsg string, fields []FieldIssue) *AppError {
	return &AppError{Kind: Invalid, PublicMsg: publicMsg, Fields: fields}
}

func NotFoundErr(publicMsg string) *AppError {
	return &AppError{Kind: NotFound, PublicMsg: publicMsg}
}

func UnauthorizedErr(publicMsg string) *AppError {
	return &AppError{Kind: Unauthorized, PublicMsg: publicMsg}
}

func ForbiddenErr(publicMsg string) *AppError {
	return &AppError{Kind: Forbidden, PublicMsg: publicMsg}
}

func ConflictErr(publicMsg string) *AppError {
	return &AppError{Kind: Conflict, PublicMsg: publicMsg}
}

// GatewayAuthErr hides the token failure behind the generic message.
func GatewayAuthErr(err error) *AppError {
	return &AppError{Kind: GatewayAuth, Err: err}
}

// GatewayRequestErr passes the provider's message through to the client.
func GatewayRequestErr(providerMsg string, err error) *AppError {
	return &AppError{Kind: GatewayRequest, PublicMsg: providerMsg, Err: err}
}

func PersistenceErr(err error) *AppError {
	return &AppError{Kind: Persistence, Err: err}
}

// Wrap marks err as internal (500) without a public message.
func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	if ae, ok := As(err); ok {
		return ae
	}
	return &AppError{Kind: Internal, Err: err}
}

func As(err error) (*AppError, bool) {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

func IsKind(err error, kind Kind) bool {
	ae, ok := As(err)
	return ok && ae.Kind == kind
}

func HTTPStatus(err error) int {
	if ae, ok := As(err); ok {
		switch ae.Kind {
		case Invalid:
			return http.StatusBadRequest
		case Unauthorized:
			return http.StatusUnauthorized
		case Forbidden:
			return http.StatusForbidden
		case NotFound:
			return http.StatusNotFound
		case Conflict:
			return http.StatusConflict
		}
	}
	return http.StatusInternalServerError
}

func PublicMessage(err error) string {
	if ae, ok := As(err); ok && ae.PublicMsg != "" {
		return ae.PublicMsg
	}
	return genericMessage
}
