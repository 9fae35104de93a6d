package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/helpbridge/helpbridge/internal/application"
	"github.com/helpbridge/helpbridge/internal/contracts"
	"github.com/helpbridge/helpbridge/internal/domain"
)

func (h *Handlers) registerIdentity(w http.ResponseWriter, r *http.Request) {
	var req contracts.RegisterIdentityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	row, err := h.svc.RegisterIdentity(r.Context(), application.RegisterIdentityInput{
		Role:           req.Role,
		FullName:       req.FullName,
		Email:          req.Email,
		Password:       req.Password,
		Phone:          req.Phone,
		City:           req.City,
		IDProofPath:    req.IDProofPath,
		Availability:   req.Availability,
		RegistrationNo: req.RegistrationNo,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, row)
}

func (h *Handlers) getIdentity(w http.ResponseWriter, r *http.Request) {
	row, err := h.svc.GetIdentity(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (h *Handlers) listIdentities(w http.ResponseWriter, r *http.Request) {
	role := strings.ToUpper(r.URL.Query().Get("role"))
	if role == "" {
		writeError(w, r, fmt.Errorf("%w: role query parameter is required", domain.ErrInvalidInput))
		return
	}
	rows, err := h.svc.ListIdentitiesByRole(r.Context(), domain.Role(role), r.URL.Query().Get("city"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *Handlers) listVolunteers(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.ListVolunteers(r.Context(), r.URL.Query().Get("city"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *Handlers) approveIdentity(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ApproveIdentity(r.Context(), chi.URLParam(r, "userID")); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "identity approved")
}

func (h *Handlers) rejectIdentity(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RejectIdentity(r.Context(), chi.URLParam(r, "userID")); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "identity rejected")
}

func (h *Handlers) dashboardSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.DashboardSummary(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handlers) listNotifications(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.ListNotifications(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
