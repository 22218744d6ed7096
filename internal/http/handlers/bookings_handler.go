package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/diagnosis/clinic-bookings/internal/domain"
	mw "github.com/diagnosis/clinic-bookings/internal/http/middleware"
	"github.com/diagnosis/clinic-bookings/internal/http/response"
	"github.com/diagnosis/clinic-bookings/internal/service"
	"github.com/diagnosis/clinic-bookings/internal/utils"
	"github.com/diagnosis/clinic-bookings/pkg/logger"
)

type BookingsHandler struct {
	Svc   service.BookingService
	Users service.UserService
}

func NewBookingsHandler(svc service.BookingService, users service.UserService) *BookingsHandler {
	return &BookingsHandler{Svc: svc, Users: users}
}

func (h *BookingsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in domain.BookingReq
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}

	in.Email = utils.NormalizeEmail(in.Email)
	in.Phone = utils.NormalizePhone(in.Phone)
	if in.Treatment == "" || in.Patient == "" || in.Slot == "" {
		response.BadRequest(w, "treatment, patient and slot are required")
		return
	}
	if !utils.IsValidEmail(in.Email) {
		response.BadRequest(w, "invalid email")
		return
	}
	if !utils.IsValidDate(in.AppointmentDate) {
		response.BadRequest(w, "appointment_date must be YYYY-MM-DD")
		return
	}

	result, err := h.Svc.Admit(r.Context(), &in)
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to admit booking", "error", err)
		response.InternalError(w, "error creating booking")
		return
	}

	status := http.StatusCreated
	if !result.Acknowledged {
		// Duplicate is an observable outcome, not an error status.
		status = http.StatusOK
	}
	response.WriteJSON(w, status, result)
}

// List returns the requester's bookings. The email query must match the
// verified token claim.
func (h *BookingsHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := mw.Claims(r)
	email := utils.NormalizeEmail(r.URL.Query().Get("email"))
	if email == "" {
		response.BadRequest(w, "email is required")
		return
	}
	if claims == nil || utils.NormalizeEmail(claims.Email) != email {
		response.Forbidden(w, "forbidden access")
		return
	}

	bookings, err := h.Svc.ListByEmail(r.Context(), email)
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to list bookings", "error", err)
		response.InternalError(w, "error listing bookings")
		return
	}
	response.WriteJSON(w, http.StatusOK, bookings)
}

func (h *BookingsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid id")
		return
	}

	claims := mw.Claims(r)
	if claims == nil {
		response.Unauthorized(w, "unauthorized access")
		return
	}
	requester := utils.NormalizeEmail(claims.Email)

	admin, err := h.Users.IsAdmin(r.Context(), requester)
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to load account", "error", err)
		response.InternalError(w, "error loading account")
		return
	}

	switch err := h.Svc.Cancel(r.Context(), id, requester, admin); {
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(w, "booking not found")
	case errors.Is(err, service.ErrForbidden):
		response.Forbidden(w, "forbidden access")
	case err != nil:
		logger.ErrorContext(r.Context(), "Failed to cancel booking", "error", err, "id", id)
		response.InternalError(w, "error cancelling booking")
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}
