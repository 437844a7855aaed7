package models

import "time"

type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
)

// Valid reports whether s is one of the three known statuses.
func (s ReservationStatus) Valid() bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusCancelled
}

// Terminal reports whether s can never change again. Confirmed and
// cancelled reservations stay that way.
func (s ReservationStatus) Terminal() bool {
	return s == StatusConfirmed || s == StatusCancelled
}

type Reservation struct {
	ID              uint    `gorm:"primaryKey"`
	UserID          *uint   `gorm:"index"`
	User            *User   `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	GuestName       *string `gorm:"type:varchar(100)"`
	TableID         uint    `gorm:"not null;index:idx_reservations_table_date"`
	Table           Table   `gorm:"foreignKey:TableID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	ReservationDate time.Time `gorm:"not null;index:idx_reservations_table_date"`
	PartySize       int       `gorm:"not null"`
	Status          ReservationStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	SpecialRequest  *string   `gorm:"type:text"`
	CreatedAt       time.Time `gorm:"not null"`
	UpdatedAt       time.Time `gorm:"not null"`
}

// IsOwnedBy reports whether the reservation belongs to the given registered
// user. Guest reservations belong to nobody.
func (r *Reservation) IsOwnedBy(userID uint) bool {
	return r.UserID != nil && *r.UserID == userID
}

// BookerName returns a display name for whoever holds the reservation.
func (r *Reservation) BookerName() string {
	if r.User != nil {
		return r.User.Name
	}
	if r.GuestName != nil {
		return *r.GuestName
	}
	return "Unknown"
}

// Booker identifies who a reservation is for: either a registered user or a
// guest name entered by an admin for walk-in/phone bookings. Exactly one of
// the two is ever set; the constructors below are the only way to build one.
type Booker struct {
	userID    *uint
	guestName *string
}

func RegisteredBooker(userID uint) Booker {
	return Booker{userID: &userID}
}

func GuestBooker(name string) Booker {
	return Booker{guestName: &name}
}

func (b Booker) IsGuest() bool {
	return b.guestName != nil
}

// Apply stamps the booker onto a reservation, clearing the other variant.
func (b Booker) Apply(r *Reservation) {
	r.UserID = b.userID
	r.GuestName = b.guestName
}
