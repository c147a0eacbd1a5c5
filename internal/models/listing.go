package models

import "time"

type Listing struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Slug string `gorm:"size:150;uniqueIndex;not null" json:"slug"`

	CityID     uint     `json:"city_id"`
	City       City     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"city"`
	CategoryID uint     `json:"category_id"`
	Category   Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"category"`
	VendorID   uint     `json:"vendor_id"`
	Vendor     Vendor   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"vendor"`

	TitleAr string `gorm:"size:200;not null" json:"title_ar"`
	TitleEn string `gorm:"size:200;not null" json:"title_en"`
	DescAr  string `gorm:"type:text" json:"desc_ar"`
	DescEn  string `gorm:"type:text" json:"desc_en"`

	PriceOriginal float64 `json:"price_original"`
	PriceSale     float64 `json:"price_sale"`
	DiscountPct   int     `json:"discount_pct"`

	// DRAFT -> PENDING_REVIEW -> LIVE -> ENDED
	Status string `gorm:"size:20;default:'DRAFT'" json:"status"`

	StartsAt *time.Time `json:"starts_at"`
	EndsAt   *time.Time `json:"ends_at"`

	BookingEnabled bool `gorm:"default:false" json:"booking_enabled"`
	RequiresSlot   bool `gorm:"default:false" json:"requires_slot"`
	IsActive       bool `gorm:"default:true" json:"is_active"`

	Assets []ListingAsset `json:"assets,omitempty"`

	PublishedAt *time.Time `json:"published_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type ListingAsset struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	ListingID uint `gorm:"index" json:"listing_id"`

	Type  string `gorm:"size:20;default:'IMAGE'" json:"type"`
	URL   string `gorm:"size:500;not null" json:"url"`
	AltAr string `gorm:"size:200" json:"alt_ar"`
	AltEn string `gorm:"size:200" json:"alt_en"`
	Order int    `json:"order"`

	CreatedAt time.Time `json:"created_at"`
}
