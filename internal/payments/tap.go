package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Event is the Tap charge notification delivered to the payment webhook.
// Amounts arrive in the smallest currency unit (halalas).
type Event struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`

	Reference struct {
		Order string `json:"order"`
	} `json:"reference"`

	Metadata struct {
		SlotID *uint `json:"slot_id"`
	} `json:"metadata"`
}

const StatusCaptured = "CAPTURED"

func (e *Event) Captured() bool {
	return e.Status == StatusCaptured
}

// AmountMajor converts the smallest-unit amount to the major currency unit.
func (e *Event) AmountMajor() float64 {
	return float64(e.Amount) / 100
}

// VerifySignature checks the x-tap-signature header: a hex HMAC-SHA256 of
// the raw request body. An empty secret disables verification (dev only).
func VerifySignature(secret string, body []byte, signature string) bool {
	if secret == "" {
		return true
	}
	if signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
