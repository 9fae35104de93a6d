package ports

import (
	"context"
	"time"

	"github.com/helpbridge/helpbridge/internal/domain"
)

// PaymentGateway creates payment orders and validates signed confirmations.
// Implementations must bound their calls with a timeout and map transport
// failures to domain.ErrGatewayUnavailable.
type PaymentGateway interface {
	Configured() bool
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (domain.PaymentOrder, error)
	VerifySignature(orderID, paymentID, signature string) bool
}

// PendingOrderStore caches order descriptors between order creation and
// settlement. Entries expire; a miss is not an error.
type PendingOrderStore interface {
	Save(ctx context.Context, order domain.PaymentOrder, ttl time.Duration) error
	Get(ctx context.Context, orderID string) (*domain.PaymentOrder, error)
}

// Notifier delivers a single outbound message. Errors are logged by callers
// and never propagated into the mutation that requested the notification.
type Notifier interface {
	Notify(ctx context.Context, recipient, subject, body, attachmentPath string) error
}

// DocumentStore resolves stored document references against the configured
// root. The root is explicit configuration, not process-wide state.
type DocumentStore interface {
	Resolve(relPath string) (absPath string, ok bool)
}

// PasswordHasher derives the stored credential hash at registration. Login
// verification happens outside this service, so the port has no compare side.
type PasswordHasher interface {
	Hash(plain string) (string, error)
}
