package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// crudHandler serves the five plain JSON endpoints of a Mongo resource.
type crudHandler[T any] struct {
	rs     *Responder
	noun   string
	create func(context.Context, *T) (*T, error)
	list   func(context.Context, int64) ([]T, error)
	get    func(context.Context, primitive.ObjectID) (*T, error)
	update func(context.Context, primitive.ObjectID, *T) (*T, error)
	remove func(context.Context, primitive.ObjectID) error
}

// mount registers base and base/{id}. guards wrap DELETE only.
func (h *crudHandler[T]) mount(router *mux.Router, base string, guards ...mux.MiddlewareFunc) {
	router.HandleFunc(base, h.Create).Methods(http.MethodPost)
	router.HandleFunc(base, h.List).Methods(http.MethodGet)
	router.HandleFunc(base+"/{id}", h.Get).Methods(http.MethodGet)
	router.HandleFunc(base+"/{id}", h.Update).Methods(http.MethodPut)

	var del http.Handler = http.HandlerFunc(h.Delete)
	for i := len(guards) - 1; i >= 0; i-- {
		del = guards[i](del)
	}
	router.Handle(base+"/{id}", del).Methods(http.MethodDelete)
}

func (h *crudHandler[T]) Create(w http.ResponseWriter, r *http.Request) {
	var in T
	if err := decodeAndValidate(w, r, &in); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	out, err := h.create(r.Context(), &in)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, http.StatusCreated, out)
}

func (h *crudHandler[T]) List(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	items, err := h.list(r.Context(), limit)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, http.StatusOK, arrayJSON(items))
}

func (h *crudHandler[T]) Get(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r, "id")
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	out, err := h.get(r.Context(), id)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, http.StatusOK, out)
}

func (h *crudHandler[T]) Update(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r, "id")
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	var in T
	if err := decodeAndValidate(w, r, &in); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	out, err := h.update(r.Context(), id, &in)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, http.StatusOK, out)
}

func (h *crudHandler[T]) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r, "id")
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	if err := h.remove(r.Context(), id); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, http.StatusOK, map[string]string{"message": h.noun + " deleted successfully"})
}
