package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/helpbridge/helpbridge/internal/adapters/memory"
	"github.com/helpbridge/helpbridge/internal/application"
	"github.com/helpbridge/helpbridge/internal/domain"
)

type staticHasher struct{}

func (staticHasher) Hash(plain string) (string, error) { return "#" + plain, nil }

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	repos := memory.NewRepositories()
	svc := application.NewService(application.Dependencies{
		Requests:      repos.Requests,
		Campaigns:     repos.Campaigns,
		Donations:     repos.Donations,
		Identities:    repos.Identities,
		Notifications: repos.Notifications,
		Outbox:        repos.Outbox,
		Orders:        memory.NewPendingOrderStore(),
		Hasher:        staticHasher{},
	})
	server := httptest.NewServer(NewRouter(svc, nil, nil))
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealthEndpoints(t *testing.T) {
	server := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		resp, err := http.Get(server.URL + path)
		if err != nil {
			t.Fatalf("get %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s status = %d, want 200", path, resp.StatusCode)
		}
	}
}

func TestReadyzReportsFailure(t *testing.T) {
	repos := memory.NewRepositories()
	svc := application.NewService(application.Dependencies{
		Requests: repos.Requests, Campaigns: repos.Campaigns, Donations: repos.Donations,
		Identities: repos.Identities, Notifications: repos.Notifications, Outbox: repos.Outbox,
		Hasher: staticHasher{},
	})
	server := httptest.NewServer(NewRouter(svc, func() error { return errors.New("db down") }, nil))
	defer server.Close()

	resp, err := http.Get(server.URL + "/readyz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", resp.StatusCode)
	}
}

func TestCreateAndFetchRequest(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/v1/requests", map[string]string{
		"requester_id": "user-1",
		"description":  "Need groceries delivered",
		"city":         "Mumbai",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}
	var created domain.ServiceRequest
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Status != domain.RequestStatusPending {
		t.Fatalf("status = %s, want PENDING", created.Status)
	}

	get, err := http.Get(server.URL + "/v1/requests/" + created.RequestID)
	if err != nil {
		t.Fatal(err)
	}
	defer get.Body.Close()
	if get.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d, want 200", get.StatusCode)
	}
}

func TestErrorMapping(t *testing.T) {
	server := newTestServer(t)

	// Unknown resource -> 404.
	resp, err := http.Get(server.URL + "/v1/requests/does-not-exist")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}

	// Validation failure -> 400.
	resp = postJSON(t, server.URL+"/v1/requests", map[string]string{"requester_id": ""})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}

	// Malformed body -> 400.
	bad, err := http.Post(server.URL+"/v1/requests", "application/json", bytes.NewReader([]byte("{not json")))
	if err != nil {
		t.Fatal(err)
	}
	bad.Body.Close()
	if bad.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", bad.StatusCode)
	}

	// Invalid transition -> 409.
	created := postJSON(t, server.URL+"/v1/requests", map[string]string{
		"requester_id": "user-1",
		"description":  "Need a ride to the clinic",
	})
	var row domain.ServiceRequest
	if err := json.NewDecoder(created.Body).Decode(&row); err != nil {
		t.Fatalf("decode: %v", err)
	}
	resp = postJSON(t, server.URL+"/v1/requests/"+row.RequestID+"/accept", map[string]string{})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("accept on PENDING status = %d, want 409", resp.StatusCode)
	}
}

func TestPaymentFlowOverHTTP(t *testing.T) {
	server := newTestServer(t)

	org := postJSON(t, server.URL+"/v1/identities", map[string]string{
		"role":      "ORGANIZATION",
		"full_name": "Seva Trust",
		"email":     "seva@example.com",
		"password":  "secret",
		"city":      "Mumbai",
	})
	var orgRow domain.Identity
	if err := json.NewDecoder(org.Body).Decode(&orgRow); err != nil {
		t.Fatalf("decode org: %v", err)
	}

	campaign := postJSON(t, server.URL+"/v1/campaigns", map[string]any{
		"organization_id": orgRow.UserID,
		"title":           "Winter Relief Fund",
		"target_amount":   10000,
	})
	var campaignRow domain.Campaign
	if err := json.NewDecoder(campaign.Body).Decode(&campaignRow); err != nil {
		t.Fatalf("decode campaign: %v", err)
	}

	orderResp := postJSON(t, server.URL+"/v1/payments/orders", map[string]any{
		"campaign_id": campaignRow.CampaignID,
		"amount":      500.0,
	})
	if orderResp.StatusCode != http.StatusCreated {
		t.Fatalf("order status = %d, want 201", orderResp.StatusCode)
	}
	var order domain.PaymentOrder
	if err := json.NewDecoder(orderResp.Body).Decode(&order); err != nil {
		t.Fatalf("decode order: %v", err)
	}
	if !order.Mock || order.AmountMinor != 50000 {
		t.Fatalf("order = %+v, want mock with 50000 minor units", order)
	}

	verify := func() map[string]any {
		resp := postJSON(t, server.URL+"/v1/payments/verify", map[string]any{
			"order_id":    order.OrderID,
			"payment_id":  "pay_test_1",
			"campaign_id": campaignRow.CampaignID,
			"amount":      500.0,
		})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("verify status = %d, want 200", resp.StatusCode)
		}
		var out map[string]any
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			t.Fatalf("decode verify: %v", err)
		}
		return out
	}

	first := verify()
	if first["already_settled"] != false {
		t.Fatalf("first verify = %+v", first)
	}
	second := verify()
	if second["already_settled"] != true {
		t.Fatalf("replay verify = %+v", second)
	}
}
