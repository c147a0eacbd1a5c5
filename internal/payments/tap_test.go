package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"testing"
)

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	secret := "whsec_test"
	body := []byte(`{"id":"chg_1","status":"CAPTURED"}`)

	if !VerifySignature(secret, body, sign(secret, body)) {
		t.Error("valid signature rejected")
	}
	if VerifySignature(secret, body, sign("other", body)) {
		t.Error("wrong-secret signature accepted")
	}
	if VerifySignature(secret, body, "") {
		t.Error("empty signature accepted")
	}
	if VerifySignature(secret, []byte(`{"tampered":true}`), sign(secret, body)) {
		t.Error("tampered body accepted")
	}
}

func TestVerifySignatureDisabledWithoutSecret(t *testing.T) {
	if !VerifySignature("", []byte("anything"), "") {
		t.Error("verification should pass when no secret is configured")
	}
}

func TestEventParsing(t *testing.T) {
	raw := []byte(`{
		"id": "chg_TS02A5420241433Mr271134",
		"status": "CAPTURED",
		"amount": 14900,
		"currency": "SAR",
		"reference": {"order": "ORD-20260301-123456"},
		"metadata": {"slot_id": 42}
	}`)

	var e Event
	if err := json.Unmarshal(raw, &e); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !e.Captured() {
		t.Error("captured event not recognized")
	}
	if e.Reference.Order != "ORD-20260301-123456" {
		t.Errorf("order reference = %q", e.Reference.Order)
	}
	if e.AmountMajor() != 149.00 {
		t.Errorf("major amount = %v, want 149", e.AmountMajor())
	}
	if e.Metadata.SlotID == nil || *e.Metadata.SlotID != 42 {
		t.Errorf("slot id = %v", e.Metadata.SlotID)
	}
}

func TestEventNonCapture(t *testing.T) {
	for _, status := range []string{"INITIATED", "DECLINED", "REFUNDED", ""} {
		e := Event{Status: status}
		if e.Captured() {
			t.Errorf("status %q treated as captured", status)
		}
	}
}
