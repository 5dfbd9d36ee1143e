package handler

import (
	"net/http"
	"time"

	"roombook/internal/rooms/service"
	httputil "roombook/pkg/http"
	"roombook/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type AvailabilityResponse struct {
	RoomID    string `json:"room_id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Available bool   `json:"available"`
}

type RoomHandler struct {
	rooms        service.RoomService
	reservations service.ReservationService
	log          *logger.Logger
}

func NewRoomHandler(rooms service.RoomService, reservations service.ReservationService, log *logger.Logger) *RoomHandler {
	return &RoomHandler{
		rooms:        rooms,
		reservations: reservations,
		log:          log,
	}
}

func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	tenantID, err := httputil.ExtractTenantID(r)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	rooms, err := h.rooms.List(r.Context(), tenantID)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WriteSuccess(w, rooms); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "operation", "WriteSuccess", "error", err)
	}
}

func (h *RoomHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	tenantID, err := httputil.ExtractTenantID(r)
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	room, err := h.rooms.GetByID(r.Context(), tenantID, ps.ByName("roomId"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, room); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

// Available lists the tenant's rooms with no reservation overlapping the
// requested window.
func (h *RoomHandler) Available(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	tenantID, err := httputil.ExtractTenantID(r)
	if err != nil {
		h.writeError(w, "Available", err)
		return
	}

	start, err := httputil.RequireTimeParam(r, "start_time")
	if err != nil {
		h.writeError(w, "Available", err)
		return
	}
	end, err := httputil.RequireTimeParam(r, "end_time")
	if err != nil {
		h.writeError(w, "Available", err)
		return
	}

	rooms, err := h.reservations.AvailableRooms(r.Context(), tenantID, start, end)
	if err != nil {
		h.writeError(w, "Available", err)
		return
	}

	if err := httputil.WriteSuccess(w, rooms); err != nil {
		h.log.Error("failed to write success response", "handler", "Available", "operation", "WriteSuccess", "error", err)
	}
}

func (h *RoomHandler) CheckAvailability(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	tenantID, err := httputil.ExtractTenantID(r)
	if err != nil {
		h.writeError(w, "CheckAvailability", err)
		return
	}

	start, err := httputil.RequireTimeParam(r, "start_time")
	if err != nil {
		h.writeError(w, "CheckAvailability", err)
		return
	}
	end, err := httputil.RequireTimeParam(r, "end_time")
	if err != nil {
		h.writeError(w, "CheckAvailability", err)
		return
	}

	roomID := ps.ByName("roomId")
	conflict, err := h.reservations.HasConflict(r.Context(), tenantID, roomID, start, end)
	if err != nil {
		h.writeError(w, "CheckAvailability", err)
		return
	}

	if err := httputil.WriteSuccess(w, AvailabilityResponse{
		RoomID:    roomID,
		StartTime: start.UTC().Format(time.RFC3339),
		EndTime:   end.UTC().Format(time.RFC3339),
		Available: !conflict,
	}); err != nil {
		h.log.Error("failed to write success response", "handler", "CheckAvailability", "operation", "WriteSuccess", "error", err)
	}
}

func (h *RoomHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *RoomHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/rooms", h.List)
	router.GET("/api/v1/rooms/available", h.Available)
	router.GET("/api/v1/rooms/id/:roomId", h.GetByID)
	router.GET("/api/v1/rooms/id/:roomId/availability", h.CheckAvailability)
}
