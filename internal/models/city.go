package models

import "time"

type City struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Slug string `gorm:"size:50;uniqueIndex;not null" json:"slug"`

	NameAr string `gorm:"size:100;not null" json:"name_ar"`
	NameEn string `gorm:"size:100;not null" json:"name_en"`

	IsActive bool `gorm:"default:true" json:"is_active"`
	Order    int  `json:"order"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
