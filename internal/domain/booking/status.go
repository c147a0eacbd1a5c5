package booking

import "github.com/memberx/deals-api/internal/httperr"

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
	StatusCompleted Status = "COMPLETED"
	StatusNoShow    Status = "NO_SHOW"
)

var (
	ErrCapacityExceeded = httperr.ErrBusiness("capacity_exceeded")
	ErrSlotUnavailable  = httperr.ErrBusiness("slot_unavailable")
)

// CANCELLED, COMPLETED and NO_SHOW are terminal; only a CONFIRMED booking
// can move anywhere.
func CanCancel(current Status) error {
	if current != StatusConfirmed && current != StatusPending {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func CanComplete(current Status) error {
	if current != StatusConfirmed {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func CanMarkNoShow(current Status) error {
	if current != StatusConfirmed {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}
