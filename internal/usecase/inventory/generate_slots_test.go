package inventory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/memberx/deals-api/internal/audit"
	domain "github.com/memberx/deals-api/internal/domain/inventory"
	"github.com/memberx/deals-api/internal/httperr"
	"github.com/memberx/deals-api/internal/models"
)

type fakeInventoryRepo struct {
	mu    sync.Mutex
	rules map[uint]*models.SlotRule
	slots []models.TimeSlot
}

func newFakeInventoryRepo(rules ...*models.SlotRule) *fakeInventoryRepo {
	r := &fakeInventoryRepo{rules: make(map[uint]*models.SlotRule)}
	for _, rule := range rules {
		r.rules[rule.ID] = rule
	}
	return r
}

func (r *fakeInventoryRepo) GetRule(_ context.Context, ruleID uint) (*models.SlotRule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rule, ok := r.rules[ruleID]
	if !ok {
		return nil, errors.New("not found")
	}
	return rule, nil
}

func (r *fakeInventoryRepo) CountSlotsAt(_ context.Context, ruleID uint, starts []time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, s := range r.slots {
		if s.RuleID != ruleID {
			continue
		}
		for _, at := range starts {
			if s.StartsAt.Equal(at) {
				count++
			}
		}
	}
	return count, nil
}

// CreateSlots mirrors the store's unique (rule, starts_at) index: a batch
// colliding with an existing slot fails whole as a duplicate generation.
func (r *fakeInventoryRepo) CreateSlots(_ context.Context, slots []models.TimeSlot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range slots {
		for _, have := range r.slots {
			if have.RuleID == s.RuleID && have.StartsAt.Equal(s.StartsAt) {
				return domain.ErrDuplicateGeneration
			}
		}
	}

	r.slots = append(r.slots, slots...)
	return nil
}

var _ domain.Repository = (*fakeInventoryRepo)(nil)

func weekdayRule() *models.SlotRule {
	return &models.SlotRule{
		ID:              7,
		ListingID:       3,
		DaysOfWeek:      "0,1,2,3,4",
		StartTime:       "18:00",
		EndTime:         "20:00",
		IntervalMinutes: 60,
		Capacity:        8,
		EffectiveFrom:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EffectiveUntil:  time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		IsActive:        true,
	}
}

func generateUC(repo domain.Repository) *GenerateSlots {
	return NewGenerateSlots(repo, audit.NewDispatcher(nil), time.UTC)
}

func TestGenerateSlots(t *testing.T) {
	repo := newFakeInventoryRepo(weekdayRule())
	uc := generateUC(repo)

	slots, err := uc.Execute(context.Background(), GenerateSlotsInput{
		RuleID: 7,
		From:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		To:     time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	// 5 weekdays x 2 windows
	if len(slots) != 10 {
		t.Fatalf("expected 10 slots, got %d", len(slots))
	}
	for _, s := range slots {
		if s.Capacity != 8 || s.Booked != 0 {
			t.Errorf("slot %v has capacity=%d booked=%d", s.StartsAt, s.Capacity, s.Booked)
		}
		if s.RuleID != 7 {
			t.Errorf("slot %v bound to rule %d", s.StartsAt, s.RuleID)
		}
	}
	if len(repo.slots) != 10 {
		t.Fatalf("repo holds %d slots", len(repo.slots))
	}
}

func TestGenerateSlotsDuplicateRangeRejected(t *testing.T) {
	repo := newFakeInventoryRepo(weekdayRule())
	uc := generateUC(repo)

	in := GenerateSlotsInput{
		RuleID: 7,
		From:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		To:     time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC),
	}

	if _, err := uc.Execute(context.Background(), in); err != nil {
		t.Fatalf("first generate: %v", err)
	}

	_, err := uc.Execute(context.Background(), in)
	if !errors.Is(err, domain.ErrDuplicateGeneration) {
		t.Fatalf("second generate: got %v, want ErrDuplicateGeneration", err)
	}
	if len(repo.slots) != 10 {
		t.Fatalf("duplicate generation wrote slots, repo holds %d", len(repo.slots))
	}
}

func TestGenerateSlotsOverlappingRangeRejectedWhole(t *testing.T) {
	repo := newFakeInventoryRepo(weekdayRule())
	uc := generateUC(repo)

	if _, err := uc.Execute(context.Background(), GenerateSlotsInput{
		RuleID: 7,
		From:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		To:     time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("first generate: %v", err)
	}

	// The second range only partially overlaps; it must still fail whole,
	// leaving the non-overlapping days ungenerated.
	before := len(repo.slots)
	_, err := uc.Execute(context.Background(), GenerateSlotsInput{
		RuleID: 7,
		From:   time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
		To:     time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, domain.ErrDuplicateGeneration) {
		t.Fatalf("overlapping generate: got %v", err)
	}
	if len(repo.slots) != before {
		t.Fatalf("overlapping generation wrote %d slots", len(repo.slots)-before)
	}
}

// Two generations of the same range racing past the pre-insert overlap
// check must not both succeed: the loser gets duplicate_generation, never a
// bare store error, and the range is populated exactly once.
func TestGenerateSlotsConcurrentSameRange(t *testing.T) {
	for iter := 0; iter < 100; iter++ {
		repo := newFakeInventoryRepo(weekdayRule())
		uc := generateUC(repo)

		in := GenerateSlotsInput{
			RuleID: 7,
			From:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			To:     time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC),
		}

		errs := make(chan error, 2)
		start := make(chan struct{})
		var wg sync.WaitGroup
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				_, err := uc.Execute(context.Background(), in)
				errs <- err
			}()
		}
		close(start)
		wg.Wait()
		close(errs)

		var won, dup int
		for err := range errs {
			switch {
			case err == nil:
				won++
			case errors.Is(err, domain.ErrDuplicateGeneration):
				dup++
			default:
				t.Fatalf("concurrent generate: unexpected error %v", err)
			}
		}
		if won != 1 || dup != 1 {
			t.Fatalf("got %d winners and %d duplicates, want 1 and 1", won, dup)
		}
		if len(repo.slots) != 10 {
			t.Fatalf("repo holds %d slots after racing generations, want 10", len(repo.slots))
		}
	}
}

func TestGenerateSlotsExpiredWindowYieldsNothing(t *testing.T) {
	rule := weekdayRule()
	rule.EffectiveUntil = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	uc := generateUC(newFakeInventoryRepo(rule))

	slots, err := uc.Execute(context.Background(), GenerateSlotsInput{
		RuleID: 7,
		From:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		To:     time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("generate past effective window: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("expected no slots, got %d", len(slots))
	}
}

func TestGenerateSlotsInactiveRule(t *testing.T) {
	rule := weekdayRule()
	rule.IsActive = false

	uc := generateUC(newFakeInventoryRepo(rule))

	_, err := uc.Execute(context.Background(), GenerateSlotsInput{
		RuleID: 7,
		From:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		To:     time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC),
	})
	if !httperr.IsBusiness(err, "rule_inactive") {
		t.Fatalf("got %v, want rule_inactive", err)
	}
}

func TestGenerateSlotsUnknownRule(t *testing.T) {
	uc := generateUC(newFakeInventoryRepo())

	_, err := uc.Execute(context.Background(), GenerateSlotsInput{RuleID: 99})
	if !httperr.IsBusiness(err, "rule_not_found") {
		t.Fatalf("got %v, want rule_not_found", err)
	}
}
