package inventory

import (
	"context"
	"time"

	"github.com/memberx/deals-api/internal/httperr"
	"github.com/memberx/deals-api/internal/models"
)

// Regenerating over an already-populated range is reported, never silently
// skipped or overwritten.
var ErrDuplicateGeneration = httperr.ErrBusiness("duplicate_generation")

type Repository interface {
	GetRule(
		ctx context.Context,
		ruleID uint,
	) (*models.SlotRule, error)

	// CountSlotsAt reports how many slots already exist for the rule at any
	// of the given start timestamps.
	CountSlotsAt(
		ctx context.Context,
		ruleID uint,
		starts []time.Time,
	) (int64, error)

	// CreateSlots persists the generated set whole. A collision with an
	// existing (rule, start) pair, racing past CountSlotsAt, is returned as
	// ErrDuplicateGeneration with nothing persisted.
	CreateSlots(
		ctx context.Context,
		slots []models.TimeSlot,
	) error
}
