package handler

import (
	"encoding/json"
	"net/http"

	"roombook/internal/rooms/service"
	apperrors "roombook/pkg/errors"
	httputil "roombook/pkg/http"
	"roombook/pkg/logger"
	"roombook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	service service.ReservationService
	log     *logger.Logger
}

func NewBookingHandler(service service.ReservationService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

func (h *BookingHandler) Book(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	tenantID, err := httputil.ExtractTenantID(r)
	if err != nil {
		h.writeError(w, "Book", err)
		return
	}

	var req model.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeInvalidBody(w, "Book")
		return
	}

	reservation, err := h.service.BookRoom(r.Context(), tenantID, ps.ByName("roomId"), &req)
	if err != nil {
		h.writeError(w, "Book", err)
		return
	}

	if err := httputil.WriteCreated(w, reservation); err != nil {
		h.log.Error("failed to write created response", "handler", "Book", "operation", "WriteCreated", "error", err)
	}
}

// List returns the tenant's bookings, optionally narrowed by start_time,
// end_time and room_id.
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	tenantID, err := httputil.ExtractTenantID(r)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	start, err := httputil.ParseTimeParam(r, "start_time")
	if err != nil {
		h.writeError(w, "List", err)
		return
	}
	end, err := httputil.ParseTimeParam(r, "end_time")
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	reservations, err := h.service.ListBookings(r.Context(), tenantID, model.ReservationFilter{
		StartTime: start,
		EndTime:   end,
		RoomID:    r.URL.Query().Get("room_id"),
	})
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WriteSuccess(w, reservations); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	tenantID, err := httputil.ExtractTenantID(r)
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	reservation, err := h.service.GetByID(r.Context(), tenantID, ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, reservation); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	tenantID, err := httputil.ExtractTenantID(r)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	var update model.ReservationUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.writeInvalidBody(w, "Update")
		return
	}

	reservation, err := h.service.Update(r.Context(), tenantID, ps.ByName("id"), &update)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, reservation); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	tenantID, err := httputil.ExtractTenantID(r)
	if err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	if err := h.service.Delete(r.Context(), tenantID, ps.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *BookingHandler) writeInvalidBody(w http.ResponseWriter, handler string) {
	if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
		Error: "Invalid request body",
		Code:  apperrors.CodeInvalidInput,
	}); writeErr != nil {
		h.log.Error("failed to write JSON response", "handler", handler, "operation", "WriteJSON", "error", writeErr)
	}
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/rooms/id/:roomId/book", h.Book)
	router.GET("/api/v1/bookings", h.List)
	router.GET("/api/v1/bookings/id/:id", h.GetByID)
	router.PATCH("/api/v1/bookings/id/:id", h.Update)
	router.DELETE("/api/v1/bookings/id/:id", h.Delete)
}
