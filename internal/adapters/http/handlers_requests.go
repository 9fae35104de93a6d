package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/helpbridge/helpbridge/internal/application"
	"github.com/helpbridge/helpbridge/internal/contracts"
	"github.com/helpbridge/helpbridge/internal/domain"
)

func (h *Handlers) createRequest(w http.ResponseWriter, r *http.Request) {
	var req contracts.CreateRequestRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	row, err := h.svc.CreateRequest(r.Context(), application.CreateRequestInput{
		RequesterID: req.RequesterID,
		Description: req.Description,
		RequestDate: req.RequestDate,
		RequestTime: req.RequestTime,
		City:        req.City,
		Location:    req.Location,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, row)
}

func (h *Handlers) getRequest(w http.ResponseWriter, r *http.Request) {
	row, err := h.svc.GetRequest(r.Context(), chi.URLParam(r, "requestID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (h *Handlers) deleteRequest(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteRequest(r.Context(), chi.URLParam(r, "requestID")); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "request deleted")
}

func (h *Handlers) assignVolunteer(w http.ResponseWriter, r *http.Request) {
	var req contracts.AssignVolunteerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	row, err := h.svc.AssignVolunteer(r.Context(), chi.URLParam(r, "requestID"), req.VolunteerID, req.OrganizationID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (h *Handlers) volunteerAccept(w http.ResponseWriter, r *http.Request) {
	row, err := h.svc.VolunteerAccept(r.Context(), chi.URLParam(r, "requestID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (h *Handlers) rejectAssignment(w http.ResponseWriter, r *http.Request) {
	row, err := h.svc.RejectAssignment(r.Context(), chi.URLParam(r, "requestID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (h *Handlers) organizationAccept(w http.ResponseWriter, r *http.Request) {
	var req contracts.OrganizationAcceptRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	row, err := h.svc.AcceptByOrganization(r.Context(), chi.URLParam(r, "requestID"), req.OrganizationID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (h *Handlers) completeRequest(w http.ResponseWriter, r *http.Request) {
	row, err := h.svc.Complete(r.Context(), chi.URLParam(r, "requestID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (h *Handlers) submitFeedback(w http.ResponseWriter, r *http.Request) {
	var req contracts.FeedbackRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	row, err := h.svc.SubmitFeedback(r.Context(), chi.URLParam(r, "requestID"), req.Feedback)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (h *Handlers) allocateFunds(w http.ResponseWriter, r *http.Request) {
	var req contracts.AllocateFundsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	row, err := h.svc.AllocateFunds(r.Context(), chi.URLParam(r, "requestID"), req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (h *Handlers) listNearbyRequests(w http.ResponseWriter, r *http.Request) {
	city := r.URL.Query().Get("city")
	if city == "" {
		writeError(w, r, fmt.Errorf("%w: city query parameter is required", domain.ErrInvalidInput))
		return
	}
	rows, err := h.svc.ListNearbyRequests(r.Context(), city)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *Handlers) listRequesterRequests(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.ListRequestsByRequester(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *Handlers) listVolunteerRequests(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.ListRequestsByVolunteer(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *Handlers) listOrganizationRequests(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.ListRequestsForOrganization(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
