package domain

import "time"

type DonationStatus string

const (
	DonationStatusSuccess DonationStatus = "SUCCESS"
	DonationStatusFailed  DonationStatus = "FAILED"
)

// MockOrderPrefix marks synthetic orders issued when no live gateway
// credentials are configured. Settlement treats them as pre-verified.
const MockOrderPrefix = "order_mock_"

// Donation records one externally verified transfer against a campaign.
// GatewayOrderID is globally unique and is the idempotence anchor for settlement.
type Donation struct {
	DonationID       string         `json:"donation_id"`
	CampaignID       string         `json:"campaign_id"`
	DonorID          string         `json:"donor_id,omitempty"`
	Amount           float64        `json:"amount"`
	GatewayOrderID   string         `json:"gateway_order_id"`
	GatewayPaymentID string         `json:"gateway_payment_id,omitempty"`
	Status           DonationStatus `json:"status"`
	DonatedAt        time.Time      `json:"donated_at"`
}

// PaymentOrder is the gateway order descriptor returned at order-creation time.
// AmountMinor is the charge amount in minor currency units, rounded down.
type PaymentOrder struct {
	OrderID     string    `json:"order_id"`
	CampaignID  string    `json:"campaign_id"`
	Amount      float64   `json:"amount"`
	AmountMinor int64     `json:"amount_minor"`
	Currency    string    `json:"currency"`
	Status      string    `json:"status"`
	Mock        bool      `json:"mock"`
	CreatedAt   time.Time `json:"created_at"`
}

func (o PaymentOrder) IsMock() bool {
	return o.Mock || isMockOrderID(o.OrderID)
}

func IsMockOrderID(orderID string) bool {
	return isMockOrderID(orderID)
}

func isMockOrderID(orderID string) bool {
	return len(orderID) > len(MockOrderPrefix) && orderID[:len(MockOrderPrefix)] == MockOrderPrefix
}
