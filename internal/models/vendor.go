package models

import "time"

// Vendor is the partner business behind one or more listings.
type Vendor struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Slug string `gorm:"size:100;uniqueIndex;not null" json:"slug"`

	NameAr string `gorm:"size:150;not null" json:"name_ar"`
	NameEn string `gorm:"size:150;not null" json:"name_en"`

	Phone   string `gorm:"size:20" json:"phone"`
	Email   string `gorm:"size:100" json:"email"`
	Address string `gorm:"size:255" json:"address"`

	IsActive bool `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
