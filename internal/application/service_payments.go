package application

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/helpbridge/helpbridge/internal/contracts"
	"github.com/helpbridge/helpbridge/internal/domain"
)

type SettlementResult struct {
	Donation       domain.Donation
	AlreadySettled bool
}

// CreateOrder issues a payment order for a campaign donation. When no live
// gateway credentials are configured a deterministic mock order is returned
// instead, flagged mock=true. Nothing is written to the donation ledger here;
// a Donation record exists only after successful verification.
func (s *Service) CreateOrder(ctx context.Context, campaignID string, amount float64) (domain.PaymentOrder, error) {
	campaignID = strings.TrimSpace(campaignID)
	if campaignID == "" {
		return domain.PaymentOrder{}, domain.ErrInvalidInput
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return domain.PaymentOrder{}, domain.ErrInvalidInput
	}
	now := s.nowFn()
	minor := minorUnits(amount)

	var order domain.PaymentOrder
	if s.gateway == nil || !s.gateway.Configured() {
		order = domain.PaymentOrder{
			OrderID:     domain.MockOrderPrefix + uuid.NewString(),
			AmountMinor: minor,
			Currency:    s.cfg.Currency,
			Status:      "created",
			Mock:        true,
		}
	} else {
		receipt := fmt.Sprintf("receipt_%s_%d", campaignID, now.UnixMilli())
		created, err := s.gateway.CreateOrder(ctx, minor, s.cfg.Currency, receipt)
		if err != nil {
			return domain.PaymentOrder{}, err
		}
		order = created
	}
	order.CampaignID = campaignID
	order.Amount = amount
	order.AmountMinor = minor
	order.CreatedAt = now

	if s.orders != nil {
		// Descriptor cache only; losing it degrades the settlement cross-check,
		// not correctness.
		_ = s.orders.Save(ctx, order, s.cfg.PendingOrderTTL)
	}
	return order, nil
}

// VerifyAndSettle validates a payment confirmation and settles it exactly once
// per gateway order id. Repeated or concurrent calls with the same order id
// credit the campaign at most once; replays report success as already settled.
func (s *Service) VerifyAndSettle(ctx context.Context, input VerifyPaymentInput) (SettlementResult, error) {
	input.OrderID = strings.TrimSpace(input.OrderID)
	input.CampaignID = strings.TrimSpace(input.CampaignID)
	input.DonorID = strings.TrimSpace(input.DonorID)
	if input.OrderID == "" || input.CampaignID == "" {
		return SettlementResult{}, domain.ErrInvalidInput
	}
	if math.IsNaN(input.Amount) || math.IsInf(input.Amount, 0) || input.Amount <= 0 {
		return SettlementResult{}, domain.ErrInvalidInput
	}

	if err := s.verifyProof(ctx, input); err != nil {
		return SettlementResult{}, err
	}

	// Fast-path replay check before opening the settlement transaction. The
	// unique order-id constraint inside Settle closes the remaining race.
	existing, err := s.donations.GetByOrderID(ctx, input.OrderID)
	if err == nil {
		return SettlementResult{Donation: existing, AlreadySettled: true}, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return SettlementResult{}, err
	}

	if _, err := s.campaigns.GetByID(ctx, input.CampaignID); err != nil {
		return SettlementResult{}, err
	}

	now := s.nowFn()
	donation := domain.Donation{
		DonationID:       uuid.NewString(),
		CampaignID:       input.CampaignID,
		DonorID:          input.DonorID,
		Amount:           input.Amount,
		GatewayOrderID:   input.OrderID,
		GatewayPaymentID: input.PaymentID,
		Status:           domain.DonationStatusSuccess,
		DonatedAt:        now,
	}
	settled, alreadySettled, err := s.donations.Settle(ctx, donation)
	if err != nil {
		return SettlementResult{}, err
	}
	if alreadySettled {
		return SettlementResult{Donation: settled, AlreadySettled: true}, nil
	}

	if err := s.enqueueEvent(ctx, domain.EventDonationSettled, contracts.EventClassDomain, settled.CampaignID, contracts.DonationSettledPayload{
		DonationID:     settled.DonationID,
		CampaignID:     settled.CampaignID,
		DonorID:        settled.DonorID,
		Amount:         settled.Amount,
		GatewayOrderID: settled.GatewayOrderID,
		SettledAt:      now.Format(time.RFC3339),
	}); err != nil {
		return SettlementResult{}, err
	}
	s.thankDonor(ctx, settled)
	return SettlementResult{Donation: settled}, nil
}

func (s *Service) verifyProof(ctx context.Context, input VerifyPaymentInput) error {
	if !domain.IsMockOrderID(input.OrderID) {
		if s.gateway == nil || !s.gateway.Configured() {
			return domain.ErrVerificationFailed
		}
		if !s.gateway.VerifySignature(input.OrderID, input.PaymentID, input.Signature) {
			return domain.ErrVerificationFailed
		}
	}
	if s.orders == nil {
		return nil
	}
	// Cross-check against the cached descriptor while it is still live. A
	// cache miss is tolerated: callbacks may arrive after the TTL.
	pending, err := s.orders.Get(ctx, input.OrderID)
	if err != nil || pending == nil {
		return nil
	}
	if pending.CampaignID != input.CampaignID || pending.AmountMinor != minorUnits(input.Amount) {
		return domain.ErrVerificationFailed
	}
	return nil
}

func (s *Service) thankDonor(ctx context.Context, donation domain.Donation) {
	if donation.DonorID == "" {
		return
	}
	donor, err := s.identities.GetByID(ctx, donation.DonorID)
	if err != nil {
		return
	}
	body := fmt.Sprintf("Dear %s,\n\nThank you for your donation of %.2f. Your contribution has been recorded.\n\nBest Regards,\nHelpBridge Team",
		donor.FullName, donation.Amount)
	s.requestNotification(ctx, donor.Email, "Donation Received", body, "", "")
	s.notifyInApp(ctx, donor.UserID, fmt.Sprintf("Your donation of %.2f was received.", donation.Amount))
}

func (s *Service) GetDonationByOrderID(ctx context.Context, orderID string) (domain.Donation, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return domain.Donation{}, domain.ErrInvalidInput
	}
	return s.donations.GetByOrderID(ctx, orderID)
}

func (s *Service) ListDonationsByCampaign(ctx context.Context, campaignID string) ([]domain.Donation, error) {
	if strings.TrimSpace(campaignID) == "" {
		return nil, domain.ErrInvalidInput
	}
	return s.donations.ListByCampaign(ctx, campaignID)
}

func (s *Service) ListDonationsByDonor(ctx context.Context, donorID string) ([]domain.Donation, error) {
	if strings.TrimSpace(donorID) == "" {
		return nil, domain.ErrInvalidInput
	}
	return s.donations.ListByDonor(ctx, donorID)
}

// minorUnits converts a major-unit amount to minor currency units, rounding
// down (500.0 -> 50000).
func minorUnits(amount float64) int64 {
	return int64(math.Floor(amount * 100))
}
