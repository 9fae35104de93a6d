package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/helpbridge/helpbridge/internal/application"
	"github.com/helpbridge/helpbridge/internal/contracts"
	"github.com/helpbridge/helpbridge/internal/domain"
	"github.com/helpbridge/helpbridge/internal/ports"
)

func (h *Handlers) createCampaign(w http.ResponseWriter, r *http.Request) {
	var req contracts.CreateCampaignRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	row, err := h.svc.CreateCampaign(r.Context(), application.CreateCampaignInput{
		OrganizationID: req.OrganizationID,
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		TargetAmount:   req.TargetAmount,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, row)
}

func (h *Handlers) getCampaign(w http.ResponseWriter, r *http.Request) {
	row, err := h.svc.GetCampaign(r.Context(), chi.URLParam(r, "campaignID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (h *Handlers) listCampaigns(w http.ResponseWriter, r *http.Request) {
	filter := ports.CampaignFilter{
		OrganizationID: r.URL.Query().Get("organization_id"),
		Status:         domain.CampaignStatus(r.URL.Query().Get("status")),
	}
	rows, err := h.svc.ListCampaigns(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *Handlers) completeCampaign(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.CompleteCampaign(r.Context(), chi.URLParam(r, "campaignID")); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "campaign completed")
}

func (h *Handlers) directDonation(w http.ResponseWriter, r *http.Request) {
	var req contracts.DirectDonationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	row, err := h.svc.Donate(r.Context(), chi.URLParam(r, "campaignID"), req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (h *Handlers) listCampaignDonations(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.ListDonationsByCampaign(r.Context(), chi.URLParam(r, "campaignID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
