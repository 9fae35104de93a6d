package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/helpbridge/helpbridge/internal/application"
	"github.com/helpbridge/helpbridge/internal/contracts"
)

func (h *Handlers) createOrder(w http.ResponseWriter, r *http.Request) {
	var req contracts.CreateOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	order, err := h.svc.CreateOrder(r.Context(), req.CampaignID, req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (h *Handlers) verifyPayment(w http.ResponseWriter, r *http.Request) {
	var req contracts.VerifyPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	result, err := h.svc.VerifyAndSettle(r.Context(), application.VerifyPaymentInput{
		OrderID:    req.OrderID,
		PaymentID:  req.PaymentID,
		Signature:  req.Signature,
		CampaignID: req.CampaignID,
		Amount:     req.Amount,
		DonorID:    req.DonorID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contracts.VerifyPaymentResponse{
		Settled:        true,
		AlreadySettled: result.AlreadySettled,
		DonationID:     result.Donation.DonationID,
	})
}

func (h *Handlers) getDonationByOrder(w http.ResponseWriter, r *http.Request) {
	row, err := h.svc.GetDonationByOrderID(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (h *Handlers) listDonorDonations(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.ListDonationsByDonor(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
