package handler

import "github.com/julienschmidt/httprouter"

// API groups the room and booking endpoints behind one router.
type API struct {
	rooms    *RoomHandler
	bookings *BookingHandler
}

func NewAPI(rooms *RoomHandler, bookings *BookingHandler) *API {
	return &API{
		rooms:    rooms,
		bookings: bookings,
	}
}

func (a *API) RegisterRoutes(router *httprouter.Router) {
	a.rooms.RegisterRoutes(router)
	a.bookings.RegisterRoutes(router)
}
