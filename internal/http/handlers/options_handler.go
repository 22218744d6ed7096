package handlers

import (
	"net/http"

	"github.com/diagnosis/clinic-bookings/internal/http/response"
	"github.com/diagnosis/clinic-bookings/internal/service"
	"github.com/diagnosis/clinic-bookings/internal/utils"
	"github.com/diagnosis/clinic-bookings/pkg/logger"
)

type OptionsHandler struct {
	Svc service.BookingService
}

func NewOptionsHandler(svc service.BookingService) *OptionsHandler {
	return &OptionsHandler{Svc: svc}
}

// List serves the appointment catalog with availability narrowed for the
// queried date. Without a date no slots are taken, so the catalog comes back
// unmodified.
func (h *OptionsHandler) List(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date != "" && !utils.IsValidDate(date) {
		response.BadRequest(w, "date must be YYYY-MM-DD")
		return
	}

	options, err := h.Svc.AvailabilityOn(r.Context(), date)
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to compute availability", "error", err, "date", date)
		response.InternalError(w, "error loading appointment options")
		return
	}

	response.WriteJSON(w, http.StatusOK, options)
}
