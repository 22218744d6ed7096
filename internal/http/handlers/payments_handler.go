package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/diagnosis/clinic-bookings/internal/domain"
	"github.com/diagnosis/clinic-bookings/internal/http/response"
	"github.com/diagnosis/clinic-bookings/internal/service"
	"github.com/diagnosis/clinic-bookings/pkg/logger"
)

type PaymentsHandler struct {
	Svc service.PaymentService
}

func NewPaymentsHandler(svc service.PaymentService) *PaymentsHandler {
	return &PaymentsHandler{Svc: svc}
}

func (h *PaymentsHandler) Record(w http.ResponseWriter, r *http.Request) {
	var in domain.PaymentReq
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}
	if in.BookingID <= 0 || in.TransactionID == "" || in.AmountCents <= 0 {
		response.BadRequest(w, "booking_id, transaction_id and amount_cents are required")
		return
	}

	p, err := h.Svc.Record(r.Context(), &in)
	if errors.Is(err, service.ErrNotFound) {
		response.NotFound(w, "booking not found")
		return
	}
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to record payment", "error", err, "booking_id", in.BookingID)
		response.InternalError(w, "error recording payment")
		return
	}
	response.WriteJSON(w, http.StatusCreated, p)
}

func (h *PaymentsHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Price int64 `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}
	if in.Price <= 0 {
		response.BadRequest(w, "price must be positive")
		return
	}

	secret, err := h.Svc.CreateIntent(r.Context(), in.Price)
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to create payment intent", "error", err)
		response.InternalError(w, "error creating payment intent")
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]string{"clientSecret": secret})
}
