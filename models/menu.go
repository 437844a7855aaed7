package models

import "time"

type MenuItem struct {
	ID          uint         `gorm:"primaryKey"`
	CategoryID  uint         `gorm:"not null"`
	Category    MenuCategory `gorm:"foreignKey:CategoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Name        string       `gorm:"type:varchar(200); not null"`
	Price       float64      `gorm:"type:decimal(10,2); not null"`
	Description string       `gorm:"type:text"`
	ImageUrl    *string      `gorm:"type:varchar(500)"`
	IsAvailable bool         `gorm:"not null;default:true"`
	CreatedAt   time.Time    `gorm:"not null"`
	UpdatedAt   time.Time    `gorm:"not null"`
}
