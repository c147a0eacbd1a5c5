package voucher

import (
	"strings"
	"testing"
	"time"

	"github.com/memberx/deals-api/internal/models"
)

func activeVoucher(now time.Time) *models.Voucher {
	return &models.Voucher{
		ID:         1,
		Code:       "TESTCODE12",
		Status:     string(StatusActive),
		ValidFrom:  now.Add(-time.Hour),
		ValidUntil: now.Add(24 * time.Hour),
	}
}

func TestRedeemableActive(t *testing.T) {
	now := time.Now()
	if err := Redeemable(activeVoucher(now), now); err != nil {
		t.Fatalf("active voucher not redeemable: %v", err)
	}
}

func TestRedeemableTaxonomy(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		mutate  func(v *models.Voucher)
		wantErr error
	}{
		{
			name:    "redeemed",
			mutate:  func(v *models.Voucher) { v.Status = string(StatusRedeemed) },
			wantErr: ErrAlreadyRedeemed,
		},
		{
			name:    "cancelled",
			mutate:  func(v *models.Voucher) { v.Status = string(StatusCancelled) },
			wantErr: ErrCancelled,
		},
		{
			name:    "expired status",
			mutate:  func(v *models.Voucher) { v.Status = string(StatusExpired) },
			wantErr: ErrExpired,
		},
		{
			name:    "past window",
			mutate:  func(v *models.Voucher) { v.ValidUntil = now.Add(-time.Minute) },
			wantErr: ErrExpired,
		},
		{
			name:    "before window",
			mutate:  func(v *models.Voucher) { v.ValidFrom = now.Add(time.Hour) },
			wantErr: ErrExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := activeVoucher(now)
			tt.mutate(v)
			if err := Redeemable(v, now); err != tt.wantErr {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// A voucher redeemed long ago whose window has since lapsed must still report
// already_redeemed, not expired.
func TestRedeemableStatusBeforeWindow(t *testing.T) {
	now := time.Now()
	v := activeVoucher(now)
	v.Status = string(StatusRedeemed)
	v.ValidUntil = now.Add(-time.Hour)

	if err := Redeemable(v, now); err != ErrAlreadyRedeemed {
		t.Fatalf("got %v, want ErrAlreadyRedeemed", err)
	}
}

func TestFailureReason(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrNotFound, "not_found"},
		{ErrAlreadyRedeemed, "already_redeemed"},
		{ErrExpired, "expired"},
		{ErrCancelled, "cancelled"},
		{ErrAlreadyIssued, "error"},
	}

	for _, tt := range tests {
		if got := FailureReason(tt.err); got != tt.want {
			t.Errorf("FailureReason(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestNewCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code := NewCode()
		if len(code) != codeLength {
			t.Fatalf("code %q has wrong length", code)
		}
		for _, ch := range code {
			if !strings.ContainsRune(codeCharset, ch) {
				t.Errorf("code %q contains %q outside the alphabet", code, ch)
			}
		}
		seen[code] = true
	}
	if len(seen) < 100 {
		t.Fatalf("got %d distinct codes out of 100", len(seen))
	}
}
