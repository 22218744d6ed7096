package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	mw "github.com/diagnosis/clinic-bookings/internal/http/middleware"
	"github.com/diagnosis/clinic-bookings/internal/http/response"
	"github.com/diagnosis/clinic-bookings/internal/service"
	"github.com/diagnosis/clinic-bookings/internal/utils"
	"github.com/diagnosis/clinic-bookings/pkg/logger"
)

type UsersHandler struct {
	Svc service.UserService
}

func NewUsersHandler(svc service.UserService) *UsersHandler {
	return &UsersHandler{Svc: svc}
}

func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.Svc.List(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to list users", "error", err)
		response.InternalError(w, "error listing users")
		return
	}
	response.WriteJSON(w, http.StatusOK, users)
}

// Create registers an account on first sign-in. Re-posting an existing email
// is a no-op upsert, so clients can call it unconditionally after sign-in.
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}

	in.Email = utils.NormalizeEmail(in.Email)
	if !utils.IsValidEmail(in.Email) {
		response.BadRequest(w, "invalid email")
		return
	}

	u, err := h.Svc.Upsert(r.Context(), in.Email, in.Name)
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to upsert user", "error", err)
		response.InternalError(w, "error creating user")
		return
	}
	response.WriteJSON(w, http.StatusCreated, u)
}

// IsAdmin is an unauthenticated role probe used by clients to decide which
// dashboard to render. It grants nothing by itself.
func (h *UsersHandler) IsAdmin(w http.ResponseWriter, r *http.Request) {
	email := utils.NormalizeEmail(chi.URLParam(r, "email"))

	admin, err := h.Svc.IsAdmin(r.Context(), email)
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to check role", "error", err)
		response.InternalError(w, "error loading account")
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]bool{"isAdmin": admin})
}

func (h *UsersHandler) Elevate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid id")
		return
	}

	claims := mw.Claims(r)
	promotedBy := ""
	if claims != nil {
		promotedBy = utils.NormalizeEmail(claims.Email)
	}

	switch err := h.Svc.Elevate(r.Context(), id, promotedBy); {
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(w, "user not found")
	case err != nil:
		logger.ErrorContext(r.Context(), "Failed to elevate user", "error", err, "id", id)
		response.InternalError(w, "error updating user")
	default:
		response.WriteJSON(w, http.StatusOK, map[string]string{"message": "user promoted to admin"})
	}
}
