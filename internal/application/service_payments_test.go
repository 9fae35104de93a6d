package application_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/helpbridge/helpbridge/internal/application"
	"github.com/helpbridge/helpbridge/internal/domain"
)

// fakeGateway verifies signatures the same way the live client does, against
// a fixed secret, without any transport.
type fakeGateway struct {
	secret  string
	nextID  string
	created int
}

func (g *fakeGateway) Configured() bool { return true }

func (g *fakeGateway) CreateOrder(_ context.Context, amountMinor int64, currency, _ string) (domain.PaymentOrder, error) {
	g.created++
	return domain.PaymentOrder{
		OrderID:     g.nextID,
		AmountMinor: amountMinor,
		Currency:    currency,
		Status:      "created",
	}, nil
}

func (g *fakeGateway) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(g.secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil)) == signature
}

func sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestCreateOrderMockWhenGatewayUnconfigured(t *testing.T) {
	f := newFixture(t, nil)
	org := f.register(t, "ORGANIZATION", "Seva Trust", "seva@example.com", "Mumbai")
	campaign := f.createCampaign(t, org.UserID)

	order, err := f.svc.CreateOrder(context.Background(), campaign.CampaignID, 500.0)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if !strings.HasPrefix(order.OrderID, domain.MockOrderPrefix) {
		t.Fatalf("order id = %q, want mock prefix", order.OrderID)
	}
	if !order.Mock {
		t.Fatal("order not flagged mock")
	}
	if order.AmountMinor != 50000 {
		t.Fatalf("amount minor = %d, want 50000", order.AmountMinor)
	}
	if order.Currency != "INR" {
		t.Fatalf("currency = %q, want INR", order.Currency)
	}
}

func TestCreateOrderRoundsMinorUnitsDown(t *testing.T) {
	f := newFixture(t, nil)
	org := f.register(t, "ORGANIZATION", "Seva Trust", "seva@example.com", "Mumbai")
	campaign := f.createCampaign(t, org.UserID)

	order, err := f.svc.CreateOrder(context.Background(), campaign.CampaignID, 10.999)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if order.AmountMinor != 1099 {
		t.Fatalf("amount minor = %d, want 1099", order.AmountMinor)
	}
}

func TestCreateOrderRejectsBadAmount(t *testing.T) {
	f := newFixture(t, nil)
	for _, amount := range []float64{0, -5} {
		if _, err := f.svc.CreateOrder(context.Background(), "campaign-1", amount); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("amount %v err = %v, want ErrInvalidInput", amount, err)
		}
	}
}

func TestVerifyAndSettleMockOrderIsIdempotent(t *testing.T) {
	f := newFixture(t, nil)
	org := f.register(t, "ORGANIZATION", "Seva Trust", "seva@example.com", "Mumbai")
	donor := f.register(t, "DONOR", "Priya Nair", "priya@example.com", "Mumbai")
	campaign := f.createCampaign(t, org.UserID)

	order, err := f.svc.CreateOrder(context.Background(), campaign.CampaignID, 500.0)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	input := application.VerifyPaymentInput{
		OrderID:    order.OrderID,
		PaymentID:  "pay_test_1",
		CampaignID: campaign.CampaignID,
		Amount:     500.0,
		DonorID:    donor.UserID,
	}
	first, err := f.svc.VerifyAndSettle(context.Background(), input)
	if err != nil {
		t.Fatalf("first settle: %v", err)
	}
	if first.AlreadySettled {
		t.Fatal("first settlement reported as replay")
	}

	second, err := f.svc.VerifyAndSettle(context.Background(), input)
	if err != nil {
		t.Fatalf("second settle: %v", err)
	}
	if !second.AlreadySettled {
		t.Fatal("replay not reported as already settled")
	}
	if second.Donation.DonationID != first.Donation.DonationID {
		t.Fatalf("replay returned a different donation: %s vs %s", second.Donation.DonationID, first.Donation.DonationID)
	}

	got, err := f.svc.GetCampaign(context.Background(), campaign.CampaignID)
	if err != nil {
		t.Fatalf("get campaign: %v", err)
	}
	if got.CollectedAmount != 500.0 {
		t.Fatalf("collected = %v, want exactly one credit of 500", got.CollectedAmount)
	}
	rows, err := f.svc.ListDonationsByCampaign(context.Background(), campaign.CampaignID)
	if err != nil {
		t.Fatalf("list donations: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("donations = %d, want 1", len(rows))
	}
}

func TestVerifyAndSettleConcurrentCallsCreditOnce(t *testing.T) {
	f := newFixture(t, nil)
	org := f.register(t, "ORGANIZATION", "Seva Trust", "seva@example.com", "Mumbai")
	campaign := f.createCampaign(t, org.UserID)

	order, err := f.svc.CreateOrder(context.Background(), campaign.CampaignID, 500.0)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	input := application.VerifyPaymentInput{
		OrderID:    order.OrderID,
		PaymentID:  "pay_test_1",
		CampaignID: campaign.CampaignID,
		Amount:     500.0,
	}

	const callers = 16
	var wg sync.WaitGroup
	results := make(chan application.SettlementResult, callers)
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := f.svc.VerifyAndSettle(context.Background(), input)
			if err != nil {
				errs <- err
				return
			}
			results <- out
		}()
	}
	wg.Wait()
	close(results)
	close(errs)

	for err := range errs {
		t.Fatalf("settle: %v", err)
	}
	settled := 0
	for out := range results {
		if !out.AlreadySettled {
			settled++
		}
	}
	if settled != 1 {
		t.Fatalf("fresh settlements = %d, want exactly 1 of %d callers", settled, callers)
	}

	got, err := f.svc.GetCampaign(context.Background(), campaign.CampaignID)
	if err != nil {
		t.Fatalf("get campaign: %v", err)
	}
	if got.CollectedAmount != 500.0 {
		t.Fatalf("collected = %v, want one credit of 500", got.CollectedAmount)
	}
	rows, err := f.svc.ListDonationsByCampaign(context.Background(), campaign.CampaignID)
	if err != nil {
		t.Fatalf("list donations: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("donations = %d, want 1", len(rows))
	}
}

func TestVerifyAndSettleRejectsInvalidSignature(t *testing.T) {
	gw := &fakeGateway{secret: "test-secret", nextID: "order_live_1"}
	f := newFixture(t, gw)
	org := f.register(t, "ORGANIZATION", "Seva Trust", "seva@example.com", "Mumbai")
	campaign := f.createCampaign(t, org.UserID)

	order, err := f.svc.CreateOrder(context.Background(), campaign.CampaignID, 250.0)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	_, err = f.svc.VerifyAndSettle(context.Background(), application.VerifyPaymentInput{
		OrderID:    order.OrderID,
		PaymentID:  "pay_test_1",
		Signature:  "deadbeef",
		CampaignID: campaign.CampaignID,
		Amount:     250.0,
	})
	if !errors.Is(err, domain.ErrVerificationFailed) {
		t.Fatalf("err = %v, want ErrVerificationFailed", err)
	}

	got, _ := f.svc.GetCampaign(context.Background(), campaign.CampaignID)
	if got.CollectedAmount != 0 {
		t.Fatalf("collected = %v, want no credit after failed verification", got.CollectedAmount)
	}
	rows, _ := f.svc.ListDonationsByCampaign(context.Background(), campaign.CampaignID)
	if len(rows) != 0 {
		t.Fatalf("donations = %d, want none", len(rows))
	}
}

func TestVerifyAndSettleAcceptsValidSignature(t *testing.T) {
	gw := &fakeGateway{secret: "test-secret", nextID: "order_live_2"}
	f := newFixture(t, gw)
	org := f.register(t, "ORGANIZATION", "Seva Trust", "seva@example.com", "Mumbai")
	campaign := f.createCampaign(t, org.UserID)

	order, err := f.svc.CreateOrder(context.Background(), campaign.CampaignID, 250.0)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	result, err := f.svc.VerifyAndSettle(context.Background(), application.VerifyPaymentInput{
		OrderID:    order.OrderID,
		PaymentID:  "pay_test_2",
		Signature:  sign("test-secret", order.OrderID, "pay_test_2"),
		CampaignID: campaign.CampaignID,
		Amount:     250.0,
	})
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if result.Donation.Status != domain.DonationStatusSuccess {
		t.Fatalf("status = %s, want SUCCESS", result.Donation.Status)
	}

	got, _ := f.svc.GetCampaign(context.Background(), campaign.CampaignID)
	if got.CollectedAmount != 250.0 {
		t.Fatalf("collected = %v, want 250", got.CollectedAmount)
	}
}

func TestVerifyAndSettleLiveOrderWithoutGateway(t *testing.T) {
	f := newFixture(t, nil)
	org := f.register(t, "ORGANIZATION", "Seva Trust", "seva@example.com", "Mumbai")
	campaign := f.createCampaign(t, org.UserID)

	// A non-mock order id cannot be verified when no gateway is configured.
	_, err := f.svc.VerifyAndSettle(context.Background(), application.VerifyPaymentInput{
		OrderID:    "order_live_orphan",
		PaymentID:  "pay_test_1",
		Signature:  "irrelevant",
		CampaignID: campaign.CampaignID,
		Amount:     100.0,
	})
	if !errors.Is(err, domain.ErrVerificationFailed) {
		t.Fatalf("err = %v, want ErrVerificationFailed", err)
	}
}

func TestVerifyAndSettleCrossChecksPendingOrder(t *testing.T) {
	f := newFixture(t, nil)
	org := f.register(t, "ORGANIZATION", "Seva Trust", "seva@example.com", "Mumbai")
	campaignA := f.createCampaign(t, org.UserID)
	campaignB := f.createCampaign(t, org.UserID)

	order, err := f.svc.CreateOrder(context.Background(), campaignA.CampaignID, 500.0)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	// Settling an order created for campaign A against campaign B trips the
	// cached-descriptor cross-check.
	_, err = f.svc.VerifyAndSettle(context.Background(), application.VerifyPaymentInput{
		OrderID:    order.OrderID,
		PaymentID:  "pay_test_1",
		CampaignID: campaignB.CampaignID,
		Amount:     500.0,
	})
	if !errors.Is(err, domain.ErrVerificationFailed) {
		t.Fatalf("campaign mismatch err = %v, want ErrVerificationFailed", err)
	}

	_, err = f.svc.VerifyAndSettle(context.Background(), application.VerifyPaymentInput{
		OrderID:    order.OrderID,
		PaymentID:  "pay_test_1",
		CampaignID: campaignA.CampaignID,
		Amount:     750.0,
	})
	if !errors.Is(err, domain.ErrVerificationFailed) {
		t.Fatalf("amount mismatch err = %v, want ErrVerificationFailed", err)
	}
}

func TestVerifyAndSettleUnknownCampaign(t *testing.T) {
	f := newFixture(t, nil)
	order, err := f.svc.CreateOrder(context.Background(), "ghost-campaign", 100.0)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	_, err = f.svc.VerifyAndSettle(context.Background(), application.VerifyPaymentInput{
		OrderID:    order.OrderID,
		PaymentID:  "pay_test_1",
		CampaignID: "ghost-campaign",
		Amount:     100.0,
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
