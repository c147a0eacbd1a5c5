package voucher

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/memberx/deals-api/internal/audit"
	domain "github.com/memberx/deals-api/internal/domain/voucher"
	"github.com/memberx/deals-api/internal/httperr"
	"github.com/memberx/deals-api/internal/models"
)

// ======================================================
// FAKES
// ======================================================

type fakeVoucherRepo struct {
	mu       sync.Mutex
	orders   map[uint]*models.Order
	claims   map[uint]string // orderID -> eventID
	byCode   map[string]*models.Voucher
	byID     map[uint]*models.Voucher
	attempts []models.RedemptionAttempt
	nextID   uint

	// when set, CreateBatch fails and persists nothing, like a store
	// rolling the transaction back
	batchErr error
}

func newFakeVoucherRepo(orders ...*models.Order) *fakeVoucherRepo {
	r := &fakeVoucherRepo{
		orders: make(map[uint]*models.Order),
		claims: make(map[uint]string),
		byCode: make(map[string]*models.Voucher),
		byID:   make(map[uint]*models.Voucher),
	}
	for _, o := range orders {
		r.orders[o.ID] = o
	}
	return r
}

func (r *fakeVoucherRepo) GetOrder(_ context.Context, orderID uint) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[orderID]
	if !ok {
		return nil, errors.New("not found")
	}
	return o, nil
}

// CreateBatch is all-or-nothing under the lock, like the store's single
// transaction: on failure neither the claim nor any voucher survives.
func (r *fakeVoucherRepo) CreateBatch(_ context.Context, orderID uint, eventID string, vouchers []models.Voucher) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, claimed := r.claims[orderID]; claimed {
		return domain.ErrAlreadyIssued
	}
	if r.batchErr != nil {
		return r.batchErr
	}

	r.claims[orderID] = eventID
	for i := range vouchers {
		r.nextID++
		vouchers[i].ID = r.nextID
		cp := vouchers[i]
		r.byCode[cp.Code] = &cp
		r.byID[cp.ID] = &cp
	}
	return nil
}

func (r *fakeVoucherRepo) ListByOrder(_ context.Context, orderID uint) ([]models.Voucher, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Voucher
	for _, v := range r.byID {
		if v.OrderID == orderID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (r *fakeVoucherRepo) CodeExists(_ context.Context, code string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.byCode[code]
	return ok, nil
}

func (r *fakeVoucherRepo) GetByCode(_ context.Context, code string) (*models.Voucher, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.byCode[code]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

// MarkRedeemed mirrors the store's single conditional update: the status
// moves ACTIVE -> REDEEMED under the lock and only one caller wins.
func (r *fakeVoucherRepo) MarkRedeemed(_ context.Context, voucherID uint, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.byID[voucherID]
	if !ok || v.Status != string(domain.StatusActive) {
		return false, nil
	}

	v.Status = string(domain.StatusRedeemed)
	v.RedeemedAt = &now
	return true, nil
}

func (r *fakeVoucherRepo) RecordAttempt(_ context.Context, a *models.RedemptionAttempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts = append(r.attempts, *a)
	return nil
}

var _ domain.Repository = (*fakeVoucherRepo)(nil)

type fakeMailer struct {
	mu            sync.Mutex
	vouchers      int
	confirmations int
}

func (m *fakeMailer) SendVoucher(string, *models.Voucher) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vouchers++
	return nil
}

func (m *fakeMailer) SendOrderConfirmation(string, *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.confirmations++
	return nil
}

func confirmedOrder() *models.Order {
	return &models.Order{
		ID:            10,
		OrderNumber:   "ORD-20260301-000001",
		Status:        "CONFIRMED",
		CustomerEmail: "sara@example.com",
		Items: []models.OrderItem{
			{ID: 1, OrderID: 10, ListingID: 1, Quantity: 2},
			{ID: 2, OrderID: 10, ListingID: 2, Quantity: 1},
		},
	}
}

func testDispatcher() *audit.Dispatcher {
	return audit.NewDispatcher(nil)
}

// ======================================================
// ISSUE
// ======================================================

func TestIssueMintsPerUnit(t *testing.T) {
	repo := newFakeVoucherRepo(confirmedOrder())
	mail := &fakeMailer{}
	uc := NewIssue(repo, mail, testDispatcher(), 60)

	vouchers, fresh, err := uc.Execute(context.Background(), 10, "evt_1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if !fresh {
		t.Fatal("first issuance reported as replay")
	}

	// 2 + 1 units
	if len(vouchers) != 3 {
		t.Fatalf("expected 3 vouchers, got %d", len(vouchers))
	}

	codes := make(map[string]bool)
	for _, v := range vouchers {
		if v.Status != string(domain.StatusActive) {
			t.Errorf("voucher %s status=%s", v.Code, v.Status)
		}
		if v.OrderID != 10 {
			t.Errorf("voucher %s bound to order %d", v.Code, v.OrderID)
		}
		wantUntil := v.ValidFrom.AddDate(0, 0, 60)
		if !v.ValidUntil.Equal(wantUntil) {
			t.Errorf("voucher %s validUntil=%v, want %v", v.Code, v.ValidUntil, wantUntil)
		}
		codes[v.Code] = true
	}
	if len(codes) != 3 {
		t.Errorf("codes not unique: %v", codes)
	}

	if mail.vouchers != 3 || mail.confirmations != 1 {
		t.Errorf("emails: vouchers=%d confirmations=%d", mail.vouchers, mail.confirmations)
	}
}

func TestIssueReplayIsNoOp(t *testing.T) {
	repo := newFakeVoucherRepo(confirmedOrder())
	mail := &fakeMailer{}
	uc := NewIssue(repo, mail, testDispatcher(), 60)

	first, fresh, err := uc.Execute(context.Background(), 10, "evt_1")
	if err != nil || !fresh {
		t.Fatalf("first issue: fresh=%v err=%v", fresh, err)
	}

	// same event redelivered
	second, fresh, err := uc.Execute(context.Background(), 10, "evt_1")
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if fresh {
		t.Fatal("replay reported as fresh")
	}
	if len(second) != len(first) {
		t.Fatalf("replay returned %d vouchers, want %d", len(second), len(first))
	}

	if len(repo.byID) != 3 {
		t.Fatalf("replay minted vouchers, repo holds %d", len(repo.byID))
	}
	if mail.vouchers != 3 {
		t.Errorf("replay re-sent emails: %d", mail.vouchers)
	}
}

func TestIssueConcurrentDeliveriesMintOnce(t *testing.T) {
	repo := newFakeVoucherRepo(confirmedOrder())
	uc := NewIssue(repo, &fakeMailer{}, testDispatcher(), 60)

	const deliveries = 10
	var wg sync.WaitGroup
	freshCount := make([]bool, deliveries)

	for i := 0; i < deliveries; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, fresh, err := uc.Execute(context.Background(), 10, "evt_1")
			if err != nil {
				t.Errorf("delivery %d: %v", i, err)
			}
			freshCount[i] = fresh
		}(i)
	}
	wg.Wait()

	var wins int
	for _, fresh := range freshCount {
		if fresh {
			wins++
		}
	}
	if wins != 1 {
		t.Errorf("fresh issuances=%d, want 1", wins)
	}
	if len(repo.byID) != 3 {
		t.Errorf("repo holds %d vouchers, want 3", len(repo.byID))
	}
}

// A store failure during minting must leave no claim behind; the provider's
// next delivery then issues the complete set instead of forever returning a
// short one.
func TestIssueFailedMintLeavesNoClaim(t *testing.T) {
	repo := newFakeVoucherRepo(confirmedOrder())
	mail := &fakeMailer{}
	uc := NewIssue(repo, mail, testDispatcher(), 60)

	repo.batchErr = errors.New("store down")

	if _, _, err := uc.Execute(context.Background(), 10, "evt_1"); err == nil {
		t.Fatal("issue succeeded against a failing store")
	}
	if len(repo.claims) != 0 || len(repo.byID) != 0 {
		t.Fatalf("failed issue persisted: claims=%d vouchers=%d",
			len(repo.claims), len(repo.byID))
	}
	if mail.vouchers != 0 {
		t.Fatalf("failed issue sent %d emails", mail.vouchers)
	}

	// store recovers; the retried delivery mints the full set
	repo.batchErr = nil

	vouchers, fresh, err := uc.Execute(context.Background(), 10, "evt_1")
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if !fresh {
		t.Fatal("retry after failed mint reported as replay")
	}
	if len(vouchers) != 3 {
		t.Fatalf("retry issued %d vouchers, want 3", len(vouchers))
	}
	if len(repo.byID) != 3 {
		t.Fatalf("repo holds %d vouchers, want 3", len(repo.byID))
	}
}

func TestIssueRequiresConfirmedOrder(t *testing.T) {
	order := confirmedOrder()
	order.Status = "PENDING"

	uc := NewIssue(newFakeVoucherRepo(order), &fakeMailer{}, testDispatcher(), 60)

	_, _, err := uc.Execute(context.Background(), 10, "evt_1")
	if !httperr.IsBusiness(err, "order_not_confirmed") {
		t.Fatalf("got %v, want order_not_confirmed", err)
	}
}

func TestIssueUnknownOrder(t *testing.T) {
	uc := NewIssue(newFakeVoucherRepo(), &fakeMailer{}, testDispatcher(), 60)

	_, _, err := uc.Execute(context.Background(), 99, "evt_1")
	if !httperr.IsBusiness(err, "order_not_found") {
		t.Fatalf("got %v, want order_not_found", err)
	}
}

// ======================================================
// REDEEM
// ======================================================

func issuedRepo(t *testing.T) (*fakeVoucherRepo, models.Voucher) {
	t.Helper()

	repo := newFakeVoucherRepo(confirmedOrder())
	uc := NewIssue(repo, &fakeMailer{}, testDispatcher(), 60)

	vouchers, _, err := uc.Execute(context.Background(), 10, "evt_1")
	if err != nil {
		t.Fatalf("setup issue: %v", err)
	}
	return repo, vouchers[0]
}

func TestRedeem(t *testing.T) {
	repo, v := issuedRepo(t)
	uc := NewRedeem(repo, testDispatcher())

	redeemed, err := uc.Execute(context.Background(), v.Code, 5)
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if redeemed.Status != string(domain.StatusRedeemed) || redeemed.RedeemedAt == nil {
		t.Errorf("voucher not redeemed: status=%s", redeemed.Status)
	}

	if len(repo.attempts) != 1 {
		t.Fatalf("attempts=%d, want 1", len(repo.attempts))
	}
	a := repo.attempts[0]
	if !a.Success || a.StaffID != 5 || a.Code != v.Code {
		t.Errorf("attempt row: %+v", a)
	}
	if a.VoucherID == nil || *a.VoucherID != v.ID {
		t.Errorf("attempt voucherID=%v, want %d", a.VoucherID, v.ID)
	}
}

func TestRedeemTwice(t *testing.T) {
	repo, v := issuedRepo(t)
	uc := NewRedeem(repo, testDispatcher())

	if _, err := uc.Execute(context.Background(), v.Code, 5); err != nil {
		t.Fatalf("first redeem: %v", err)
	}

	_, err := uc.Execute(context.Background(), v.Code, 6)
	if !errors.Is(err, domain.ErrAlreadyRedeemed) {
		t.Fatalf("second redeem: got %v, want ErrAlreadyRedeemed", err)
	}

	if len(repo.attempts) != 2 {
		t.Fatalf("attempts=%d, want 2", len(repo.attempts))
	}
	second := repo.attempts[1]
	if second.Success || second.Reason != "already_redeemed" {
		t.Errorf("second attempt: %+v", second)
	}
}

func TestRedeemUnknownCodeStillRecorded(t *testing.T) {
	repo, _ := issuedRepo(t)
	uc := NewRedeem(repo, testDispatcher())

	_, err := uc.Execute(context.Background(), "NOSUCHCODE", 5)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}

	if len(repo.attempts) != 1 {
		t.Fatalf("attempts=%d, want 1", len(repo.attempts))
	}
	a := repo.attempts[0]
	if a.Success || a.Reason != "not_found" || a.VoucherID != nil {
		t.Errorf("attempt row: %+v", a)
	}
	if a.Code != "NOSUCHCODE" {
		t.Errorf("attempt code=%q", a.Code)
	}
}

func TestRedeemExpiredVoucher(t *testing.T) {
	repo, v := issuedRepo(t)
	uc := NewRedeem(repo, testDispatcher())

	repo.mu.Lock()
	repo.byCode[v.Code].ValidUntil = time.Now().Add(-time.Hour)
	repo.mu.Unlock()

	_, err := uc.Execute(context.Background(), v.Code, 5)
	if !errors.Is(err, domain.ErrExpired) {
		t.Fatalf("got %v, want ErrExpired", err)
	}

	if len(repo.attempts) != 1 || repo.attempts[0].Reason != "expired" {
		t.Fatalf("attempts: %+v", repo.attempts)
	}

	// the voucher itself is untouched
	stored, _ := repo.GetByCode(context.Background(), v.Code)
	if stored.Status != string(domain.StatusActive) {
		t.Errorf("failed redeem mutated status to %s", stored.Status)
	}
}

// Exactly-once under contention: N staff race on one code, one wins, and
// every attempt leaves its row.
func TestRedeemConcurrentExactlyOnce(t *testing.T) {
	repo, v := issuedRepo(t)
	uc := NewRedeem(repo, testDispatcher())

	const attempts = 10
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.Execute(context.Background(), v.Code, uint(i+1))
		}(i)
	}
	wg.Wait()

	var successes, duplicates int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, domain.ErrAlreadyRedeemed):
			duplicates++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	if successes != 1 {
		t.Errorf("successes=%d, want exactly 1", successes)
	}
	if duplicates != attempts-1 {
		t.Errorf("duplicates=%d, want %d", duplicates, attempts-1)
	}

	if len(repo.attempts) != attempts {
		t.Errorf("attempt rows=%d, want %d", len(repo.attempts), attempts)
	}

	var successRows int
	for _, a := range repo.attempts {
		if a.Success {
			successRows++
		}
	}
	if successRows != 1 {
		t.Errorf("successful attempt rows=%d, want 1", successRows)
	}
}
