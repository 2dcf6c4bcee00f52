package handlers

import (
	"github.com/gorilla/mux"

	"github.com/markjakearzadon/mindcare-gobackend/internal/models"
	"github.com/markjakearzadon/mindcare-gobackend/internal/services"
)

type BookingHandler struct {
	crudHandler[models.Booking]
}

func NewBookingHandler(service *services.BookingService, rs *Responder) *BookingHandler {
	return &BookingHandler{crudHandler[models.Booking]{
		rs:     rs,
		noun:   "Booking",
		create: service.CreateBooking,
		list:   service.BookingList,
		get:    service.GetBooking,
		update: service.UpdateBooking,
		remove: service.DeleteBooking,
	}}
}

func (h *BookingHandler) Register(router *mux.Router, deleteGuards ...mux.MiddlewareFunc) {
	h.mount(router, "/bookings", deleteGuards...)
}
