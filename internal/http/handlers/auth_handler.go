package handlers

import (
	"net/http"

	"github.com/diagnosis/clinic-bookings/internal/http/response"
	"github.com/diagnosis/clinic-bookings/internal/platform/auth"
	"github.com/diagnosis/clinic-bookings/internal/service"
	"github.com/diagnosis/clinic-bookings/internal/utils"
	"github.com/diagnosis/clinic-bookings/pkg/logger"
)

type AuthHandler struct {
	Users  service.UserService
	Tokens *auth.Manager
}

func NewAuthHandler(users service.UserService, tokens *auth.Manager) *AuthHandler {
	return &AuthHandler{Users: users, Tokens: tokens}
}

type tokenResponse struct {
	AccessToken string `json:"accessToken"`
}

// IssueToken hands a signed token to a known account. Unknown emails get a
// Forbidden status with an empty token, so clients can tell sign-up is
// needed without leaking which accounts exist through error shapes.
func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	email := utils.NormalizeEmail(r.URL.Query().Get("email"))
	if !utils.IsValidEmail(email) {
		response.BadRequest(w, "invalid email")
		return
	}

	u, err := h.Users.FindByEmail(r.Context(), email)
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to look up account", "error", err)
		response.InternalError(w, "error loading account")
		return
	}
	if u == nil {
		response.WriteJSON(w, http.StatusForbidden, tokenResponse{AccessToken: ""})
		return
	}

	token, err := h.Tokens.Issue(u.Email)
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to sign token", "error", err)
		response.InternalError(w, "error issuing token")
		return
	}
	response.WriteJSON(w, http.StatusOK, tokenResponse{AccessToken: token})
}
