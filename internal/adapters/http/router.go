package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/helpbridge/helpbridge/internal/application"
)

// Handlers binds the HTTP surface to the application service.
type Handlers struct {
	svc    *application.Service
	ready  func() error
	logger *slog.Logger
}

// NewRouter builds the chi router. ready is polled by the readiness probe and
// may be nil when the process has no external dependencies to check.
func NewRouter(svc *application.Service, ready func() error, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handlers{svc: svc, ready: ready, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(CallerIdentity)
	r.Use(RequestLogger(logger))

	r.Get("/healthz", h.healthz)
	r.Get("/readyz", h.readyz)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/requests", func(r chi.Router) {
			r.Post("/", h.createRequest)
			r.Get("/nearby", h.listNearbyRequests)
			r.Route("/{requestID}", func(r chi.Router) {
				r.Get("/", h.getRequest)
				r.Delete("/", h.deleteRequest)
				r.Post("/assign", h.assignVolunteer)
				r.Post("/accept", h.volunteerAccept)
				r.Post("/reject", h.rejectAssignment)
				r.Post("/organization-accept", h.organizationAccept)
				r.Post("/complete", h.completeRequest)
				r.Post("/feedback", h.submitFeedback)
				r.Post("/funds", h.allocateFunds)
			})
		})

		r.Route("/campaigns", func(r chi.Router) {
			r.Post("/", h.createCampaign)
			r.Get("/", h.listCampaigns)
			r.Route("/{campaignID}", func(r chi.Router) {
				r.Get("/", h.getCampaign)
				r.Post("/complete", h.completeCampaign)
				r.Post("/donations", h.directDonation)
				r.Get("/donations", h.listCampaignDonations)
			})
		})

		r.Route("/payments", func(r chi.Router) {
			r.Post("/orders", h.createOrder)
			r.Post("/verify", h.verifyPayment)
			r.Get("/orders/{orderID}/donation", h.getDonationByOrder)
		})

		r.Route("/identities", func(r chi.Router) {
			r.Post("/", h.registerIdentity)
			r.Get("/", h.listIdentities)
			r.Route("/{userID}", func(r chi.Router) {
				r.Get("/", h.getIdentity)
				r.Post("/approve", h.approveIdentity)
				r.Post("/reject", h.rejectIdentity)
				r.Get("/notifications", h.listNotifications)
			})
		})

		r.Get("/volunteers", h.listVolunteers)
		r.Get("/requesters/{userID}/requests", h.listRequesterRequests)
		r.Get("/volunteers/{userID}/requests", h.listVolunteerRequests)
		r.Get("/organizations/{userID}/requests", h.listOrganizationRequests)
		r.Get("/donors/{userID}/donations", h.listDonorDonations)
		r.Get("/admin/dashboard", h.dashboardSummary)
	})

	return r
}

func (h *Handlers) healthz(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusOK, "ok")
}

func (h *Handlers) readyz(w http.ResponseWriter, _ *http.Request) {
	if h.ready != nil {
		if err := h.ready(); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: errorDetail{
				Code:    "not_ready",
				Message: err.Error(),
			}})
			return
		}
	}
	writeMessage(w, http.StatusOK, "ready")
}
