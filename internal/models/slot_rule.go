package models

import "time"

// SlotRule is a recurring availability template for one listing. Slots are
// materialized from it by the inventory generator; rules are soft-deactivated,
// never deleted, while slots still reference them.
type SlotRule struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	ListingID uint    `gorm:"index" json:"listing_id"`
	Listing   Listing `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"listing"`

	NameAr string `gorm:"size:150" json:"name_ar"`
	NameEn string `gorm:"size:150" json:"name_en"`

	// Comma-separated weekdays, 0=Sunday .. 6=Saturday, e.g. "0,1,2,3,4".
	DaysOfWeek string `gorm:"size:20;not null" json:"days_of_week"`

	StartTime       string `gorm:"size:5;not null" json:"start_time"` // "18:00"
	EndTime         string `gorm:"size:5;not null" json:"end_time"`   // "23:00"
	IntervalMinutes int    `gorm:"not null" json:"interval_minutes"`
	Capacity        int    `gorm:"not null" json:"capacity"`

	EffectiveFrom  time.Time `json:"effective_from"`
	EffectiveUntil time.Time `json:"effective_until"`

	IsActive bool `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
