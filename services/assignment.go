package services

import (
	"time"

	"github.com/restobook/restobook/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AssignmentEngine picks the table a new reservation lands on: the smallest
// active table that seats the party and has no non-cancelled reservation on
// the requested calendar day.
type AssignmentEngine struct {
	DB *gorm.DB
}

func NewAssignmentEngine(db *gorm.DB) *AssignmentEngine {
	return &AssignmentEngine{DB: db}
}

// FindBestAvailableTable returns the best-fit free table for the party on
// the given date, or a NoAvailabilityError when nothing fits.
//
// When called inside a transaction the candidate rows are locked FOR UPDATE,
// so two concurrent bookings fighting over the same tables serialize and the
// loser re-reads a reservation set that already contains the winner's insert.
// Exclusion is by whole calendar day, deliberately coarser than the
// 90-minute browsing window in AvailabilityChecker.
func (ae *AssignmentEngine) FindBestAvailableTable(tx *gorm.DB, date time.Time, partySize int) (*models.Table, error) {
	if tx == nil {
		tx = ae.DB
	}

	var candidates []models.Table
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("is_active = ? AND capacity >= ?", true, partySize).
		Order("capacity ASC, id ASC").
		Find(&candidates).Error; err != nil {
		return nil, &StorageError{Op: "load candidate tables", Err: err}
	}
	if len(candidates) == 0 {
		return nil, &NoAvailabilityError{PartySize: partySize, Date: date}
	}

	dayStart, dayEnd := DayBounds(date)
	var reservedIDs []uint
	if err := tx.Model(&models.Reservation{}).
		Where("reservation_date >= ? AND reservation_date < ? AND status <> ?",
			dayStart, dayEnd, models.StatusCancelled).
		Pluck("table_id", &reservedIDs).Error; err != nil {
		return nil, &StorageError{Op: "load reserved tables", Err: err}
	}

	reserved := make(map[uint]bool, len(reservedIDs))
	for _, id := range reservedIDs {
		reserved[id] = true
	}

	// Candidates come back capacity-ascending, so the first free one is the
	// tightest fit. Ties fall to store order.
	for i := range candidates {
		if !reserved[candidates[i].ID] {
			return &candidates[i], nil
		}
	}

	return nil, &NoAvailabilityError{PartySize: partySize, Date: date}
}
