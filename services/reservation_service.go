package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/restobook/restobook/models"
	"github.com/restobook/restobook/utils"
	"gorm.io/gorm"
)

// Actor is the authenticated identity behind a request, as decoded from the
// JWT by the auth middleware.
type Actor struct {
	UserID uint
	Role   string
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// canMutate is the single ownership policy for Edit and Cancel: the owning
// customer or any admin.
func canMutate(actor Actor, r *models.Reservation) bool {
	if actor.IsAdmin() {
		return true
	}
	return r.IsOwnedBy(actor.UserID)
}

// assignmentRetries bounds how often a failed check-and-insert is re-run.
// Each retry repeats the full assignment in a fresh transaction; the raw
// insert is never repeated on its own.
const assignmentRetries = 3

// ReservationService owns the reservation state machine:
// pending -> confirmed | cancelled, both terminal, only pending mutable.
type ReservationService struct {
	DB       *gorm.DB
	Engine   *AssignmentEngine
	Mailer   *Mailer
	validate *validator.Validate
}

func NewReservationService(db *gorm.DB) *ReservationService {
	return &ReservationService{
		DB:       db,
		Engine:   NewAssignmentEngine(db),
		validate: validator.New(),
	}
}

type CreateInput struct {
	Date           time.Time `validate:"required"`
	PartySize      int       `validate:"required,min=1"`
	SpecialRequest *string
	GuestName      string // admin bookings only
}

type AdminOverrides struct {
	TableID   uint                     // 0 keeps the current table
	Status    models.ReservationStatus // empty keeps the current status
	GuestName string                   // empty keeps the current booker
}

type EditInput struct {
	Date           time.Time `validate:"required"`
	PartySize      int       `validate:"required,min=1"`
	SpecialRequest *string
	Admin          *AdminOverrides
}

// Create books a table for the party. Admin actors book on behalf of a named
// guest; customers book as themselves. Assignment and insert run in one
// transaction so concurrent requests cannot both take the last table.
func (rs *ReservationService) Create(actor Actor, in CreateInput) (*models.Reservation, error) {
	if err := rs.validate.Struct(in); err != nil {
		return nil, invalidInput(err)
	}

	var booker models.Booker
	if actor.IsAdmin() {
		if strings.TrimSpace(in.GuestName) == "" {
			return nil, &ValidationError{Field: "guest_name", Message: "guest name is required for admin bookings"}
		}
		booker = models.GuestBooker(strings.TrimSpace(in.GuestName))
	} else {
		booker = models.RegisteredBooker(actor.UserID)
	}

	var created *models.Reservation
	err := rs.withAssignmentRetry(func(tx *gorm.DB) error {
		table, err := rs.Engine.FindBestAvailableTable(tx, in.Date, in.PartySize)
		if err != nil {
			return err
		}

		r := &models.Reservation{
			TableID:         table.ID,
			ReservationDate: in.Date,
			PartySize:       in.PartySize,
			SpecialRequest:  in.SpecialRequest,
			Status:          models.StatusPending,
		}
		booker.Apply(r)

		if err := tx.Create(r).Error; err != nil {
			return &StorageError{Op: "insert reservation", Err: err}
		}
		r.Table = *table
		created = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Reservation %d created: table %s (capacity %d), %d guests on %s",
		created.ID, created.Table.TableNumber, created.Table.Capacity,
		created.PartySize, created.ReservationDate.Format("2006-01-02 15:04"))
	return created, nil
}

// Edit mutates a pending reservation. Customers changing date or party size
// go back through the assignment engine and the whole edit is rejected if no
// table fits; admins set every field directly and are trusted to manage
// conflicts themselves. The returned bool reports a table reassignment.
func (rs *ReservationService) Edit(actor Actor, id uint, in EditInput) (*models.Reservation, bool, error) {
	if err := rs.validate.Struct(in); err != nil {
		return nil, false, invalidInput(err)
	}

	var updated *models.Reservation
	reassigned := false

	err := rs.withAssignmentRetry(func(tx *gorm.DB) error {
		reassigned = false

		var r models.Reservation
		if err := tx.First(&r, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReservationNotFound
			}
			return &StorageError{Op: "load reservation", Err: err}
		}
		if !canMutate(actor, &r) {
			return ErrForbidden
		}
		if r.Status != models.StatusPending {
			return ErrNotPending
		}

		if actor.IsAdmin() && in.Admin != nil {
			if err := applyAdminOverrides(tx, &r, in.Admin); err != nil {
				return err
			}
		} else if !sameDay(r.ReservationDate, in.Date) || r.PartySize != in.PartySize {
			table, err := rs.Engine.FindBestAvailableTable(tx, in.Date, in.PartySize)
			if err != nil {
				return err
			}
			r.TableID = table.ID
			reassigned = true
		}

		r.ReservationDate = in.Date
		r.PartySize = in.PartySize
		r.SpecialRequest = in.SpecialRequest

		if err := tx.Save(&r).Error; err != nil {
			return &StorageError{Op: "update reservation", Err: err}
		}
		updated = &r
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	if reassigned {
		utils.InfoLogger.Printf("Reservation %d reassigned to table %d", updated.ID, updated.TableID)
	}
	return updated, reassigned, nil
}

// applyAdminOverrides sets the fields only admins may touch, bypassing the
// assignment engine entirely.
func applyAdminOverrides(tx *gorm.DB, r *models.Reservation, ov *AdminOverrides) error {
	if ov.TableID != 0 {
		var table models.Table
		if err := tx.First(&table, ov.TableID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTableNotFound
			}
			return &StorageError{Op: "load table", Err: err}
		}
		r.TableID = table.ID
	}
	if ov.Status != "" {
		if !ov.Status.Valid() {
			return &ValidationError{Field: "status", Message: "unknown reservation status"}
		}
		r.Status = ov.Status
	}
	if strings.TrimSpace(ov.GuestName) != "" {
		models.GuestBooker(strings.TrimSpace(ov.GuestName)).Apply(r)
	}
	return nil
}

// Cancel moves a pending reservation to cancelled. Owner or admin only;
// cancelled is terminal, so a second cancel fails with ErrNotPending.
func (rs *ReservationService) Cancel(actor Actor, id uint) error {
	err := rs.DB.Transaction(func(tx *gorm.DB) error {
		var r models.Reservation
		if err := tx.First(&r, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReservationNotFound
			}
			return &StorageError{Op: "load reservation", Err: err}
		}
		if !canMutate(actor, &r) {
			return ErrForbidden
		}
		if r.Status != models.StatusPending {
			return ErrNotPending
		}
		if err := tx.Model(&r).Update("status", models.StatusCancelled).Error; err != nil {
			return &StorageError{Op: "cancel reservation", Err: err}
		}
		return nil
	})
	if err != nil {
		return err
	}
	utils.InfoLogger.Printf("Reservation %d cancelled", id)
	return nil
}

// Confirm moves a pending reservation to confirmed (admin action) and sends
// a best-effort confirmation email to registered bookers.
func (rs *ReservationService) Confirm(id uint) (*models.Reservation, error) {
	r, err := rs.transition(id, models.StatusConfirmed)
	if err != nil {
		return nil, err
	}
	if r.User != nil {
		rs.Mailer.SendReservationConfirmed(r.User.Email, r)
	}
	utils.InfoLogger.Printf("Reservation %d confirmed", r.ID)
	return r, nil
}

// Refuse moves a pending reservation to cancelled (admin action).
func (rs *ReservationService) Refuse(id uint) (*models.Reservation, error) {
	r, err := rs.transition(id, models.StatusCancelled)
	if err != nil {
		return nil, err
	}
	utils.InfoLogger.Printf("Reservation %d refused", r.ID)
	return r, nil
}

func (rs *ReservationService) transition(id uint, to models.ReservationStatus) (*models.Reservation, error) {
	var r models.Reservation
	err := rs.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("User").Preload("Table").First(&r, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReservationNotFound
			}
			return &StorageError{Op: "load reservation", Err: err}
		}
		if r.Status != models.StatusPending {
			return ErrNotPending
		}
		if err := tx.Model(&r).Update("status", to).Error; err != nil {
			return &StorageError{Op: "update reservation status", Err: err}
		}
		r.Status = to
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ForUser lists a customer's own reservations, newest date first.
func (rs *ReservationService) ForUser(userID uint) ([]models.Reservation, error) {
	var reservations []models.Reservation
	if err := rs.DB.Preload("Table").
		Where("user_id = ?", userID).
		Order("reservation_date DESC").
		Find(&reservations).Error; err != nil {
		return nil, &StorageError{Op: "list reservations", Err: err}
	}
	return reservations, nil
}

// ListFilter narrows the admin reservation list.
type ListFilter struct {
	Date     *time.Time
	Search   string
	Page     int
	PageSize int
}

// List returns a page of reservations for the admin view plus the total
// match count, soonest date first.
func (rs *ReservationService) List(f ListFilter) ([]models.Reservation, int64, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = 10
	}

	query := rs.DB.Model(&models.Reservation{}).
		Joins("LEFT JOIN users ON users.id = reservations.user_id")

	if f.Date != nil {
		dayStart, dayEnd := DayBounds(*f.Date)
		query = query.Where("reservation_date >= ? AND reservation_date < ?", dayStart, dayEnd)
	}
	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		query = query.Where(
			"LOWER(users.name) LIKE ? OR LOWER(reservations.guest_name) LIKE ? OR LOWER(reservations.status) LIKE ?",
			like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, &StorageError{Op: "count reservations", Err: err}
	}

	var reservations []models.Reservation
	if err := query.Preload("Table").Preload("User").
		Order("reservation_date ASC").
		Offset((f.Page - 1) * f.PageSize).
		Limit(f.PageSize).
		Find(&reservations).Error; err != nil {
		return nil, 0, &StorageError{Op: "list reservations", Err: err}
	}
	return reservations, total, nil
}

// withAssignmentRetry runs fn in a transaction. Storage failures (lock
// conflicts, constraint violations) re-run the whole assignment with a short
// backoff; business errors return immediately.
func (rs *ReservationService) withAssignmentRetry(fn func(tx *gorm.DB) error) error {
	var lastErr error
	for attempt := 0; attempt < assignmentRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(time.Duration(attempt) * 25 * time.Millisecond)
		}
		err := rs.DB.Transaction(func(tx *gorm.DB) error {
			return fn(tx)
		})
		if err == nil {
			return nil
		}
		var serr *StorageError
		if !errors.As(err, &serr) {
			return err
		}
		lastErr = err
	}
	return lastErr
}

func invalidInput(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Field() == "PartySize" {
			return &ValidationError{Field: "party_size", Message: "party size must be at least 1"}
		}
		if fe.Field() == "Date" {
			return &ValidationError{Field: "date", Message: "reservation date is required"}
		}
		return &ValidationError{Field: fe.Field(), Message: fmt.Sprintf("failed %s validation", fe.Tag())}
	}
	return &ValidationError{Field: "input", Message: err.Error()}
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
