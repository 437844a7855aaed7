package models

import "time"

type Table struct {
	ID          uint      `gorm:"primaryKey"`
	TableNumber string    `gorm:"type:varchar(50);not null"`
	Capacity    int       `gorm:"not null"`
	IsActive    bool      `gorm:"not null;default:true"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}
