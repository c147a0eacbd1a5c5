package inventory

import (
	"context"
	"time"

	"github.com/memberx/deals-api/internal/audit"
	domain "github.com/memberx/deals-api/internal/domain/inventory"
	"github.com/memberx/deals-api/internal/httperr"
	"github.com/memberx/deals-api/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type GenerateSlotsInput struct {
	RuleID uint
	From   time.Time
	To     time.Time

	ActorID uint
}

// ======================================================
// USE CASE
// ======================================================

type GenerateSlots struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	loc   *time.Location
}

func NewGenerateSlots(
	repo domain.Repository,
	audit *audit.Dispatcher,
	loc *time.Location,
) *GenerateSlots {
	return &GenerateSlots{
		repo:  repo,
		audit: audit,
		loc:   loc,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *GenerateSlots) Execute(
	ctx context.Context,
	in GenerateSlotsInput,
) ([]models.TimeSlot, error) {

	rule, err := uc.repo.GetRule(ctx, in.RuleID)
	if err != nil {
		return nil, httperr.ErrBusiness("rule_not_found")
	}

	if !rule.IsActive {
		return nil, httperr.ErrBusiness("rule_inactive")
	}

	// A rule whose effective window ended before the requested range yields
	// zero slots; that is not an error.
	windows := domain.ExpandRule(rule, in.From, in.To, uc.loc)
	if len(windows) == 0 {
		return []models.TimeSlot{}, nil
	}

	starts := make([]time.Time, len(windows))
	for i, w := range windows {
		starts[i] = w.Start
	}

	// Overlapping a previous generation run is rejected outright rather than
	// skipped or upserted, so a double-submitted range is always visible to
	// the operator.
	existing, err := uc.repo.CountSlotsAt(ctx, rule.ID, starts)
	if err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, domain.ErrDuplicateGeneration
	}

	slots := make([]models.TimeSlot, len(windows))
	for i, w := range windows {
		slots[i] = models.TimeSlot{
			RuleID:   rule.ID,
			StartsAt: w.Start,
			EndsAt:   w.End,
			Capacity: rule.Capacity,
			Booked:   0,
		}
	}

	if err := uc.repo.CreateSlots(ctx, slots); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.ActorID,
		Action:   "slots_generated",
		Entity:   "slot_rule",
		EntityID: &rule.ID,
		Metadata: map[string]any{
			"from":  in.From,
			"to":    in.To,
			"count": len(slots),
		},
	})

	return slots, nil
}
