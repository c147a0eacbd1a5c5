package models

import "time"

// TimeSlot is one concrete bookable window generated from a SlotRule.
// Invariant: 0 <= booked <= capacity. Blocked slots never accept bookings.
type TimeSlot struct {
	ID     uint     `gorm:"primaryKey" json:"id"`
	RuleID uint     `gorm:"index:idx_slot_rule_start,unique" json:"rule_id"`
	Rule   SlotRule `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"rule"`

	StartsAt time.Time `gorm:"index:idx_slot_rule_start,unique" json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`

	Capacity int  `gorm:"not null" json:"capacity"`
	Booked   int  `gorm:"not null;default:0" json:"booked"`
	Blocked  bool `gorm:"default:false" json:"blocked"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *TimeSlot) Remaining() int {
	return s.Capacity - s.Booked
}
