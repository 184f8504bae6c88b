package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	ordertypes "github.com/loziogigio/vinc-pim-sub014/internal/domains/orders/application/types"
)

// normalizedPaymentInput is the canonical form hashed for idempotency checks.
// The idempotency key itself is excluded.
type normalizedPaymentInput struct {
	OrderID    string     `json:"orderId"`
	Amount     string     `json:"amount"`
	Method     string     `json:"method"`
	Reference  string     `json:"reference,omitempty"`
	Notes      string     `json:"notes,omitempty"`
	Confirmed  *bool      `json:"confirmed,omitempty"`
	RecordedAt *time.Time `json:"recordedAt,omitempty"`
}

// FingerprintPayment builds a deterministic hash of the record-payment request.
func FingerprintPayment(orderID string, input ordertypes.PaymentInput) (string, error) {
	normalized := normalizedPaymentInput{
		OrderID:    orderID,
		Amount:     input.Amount.String(),
		Method:     input.Method,
		Reference:  input.Reference,
		Notes:      input.Notes,
		Confirmed:  input.Confirmed,
		RecordedAt: input.RecordedAt,
	}
	payload, err := json.Marshal(normalized)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
