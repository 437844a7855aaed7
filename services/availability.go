package services

import (
	"fmt"
	"time"

	"github.com/restobook/restobook/models"
	"gorm.io/gorm"
)

// ServiceDuration is how long a table is considered held by a reservation.
// Fixed for every table and every service.
const ServiceDuration = 90 * time.Minute

// TimeOfDay is a wall-clock time within a day, parsed from "HH:MM".
type TimeOfDay struct {
	Hour   int
	Minute int
}

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, err
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// On places the time of day onto the given date.
func (td TimeOfDay) On(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), td.Hour, td.Minute, 0, 0, date.Location())
}

// TableAvailability is one row of the availability view.
type TableAvailability struct {
	TableID           uint   `json:"table_id"`
	TableNumber       string `json:"table_number"`
	Capacity          int    `json:"capacity"`
	IsAvailable       bool   `json:"is_available"`
	ReservationTime   string `json:"reservation_time,omitempty"`
	ReservationPeriod string `json:"reservation_period,omitempty"`
}

// DayBounds returns the half-open [midnight, next midnight) range around t.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

// Overlaps is the half-open overlap test between two occupancy windows
// starting at a and b: a < b+90m && b < a+90m.
func Overlaps(a, b time.Time) bool {
	return a.Before(b.Add(ServiceDuration)) && b.Before(a.Add(ServiceDuration))
}

// AvailabilityChecker computes the per-table availability view for a date.
// Pure reads, no side effects, safe for concurrent use.
//
// Note: with a time this uses the 90-minute overlap window; without one, any
// reservation that day marks the table unavailable. The write path in
// AssignmentEngine uses the coarser whole-day rule, so the day view matches
// what booking would actually do while the time view is browsing-only.
type AvailabilityChecker struct {
	DB       *gorm.DB
	Registry *TableRegistry
}

func NewAvailabilityChecker(db *gorm.DB) *AvailabilityChecker {
	return &AvailabilityChecker{DB: db, Registry: NewTableRegistry(db)}
}

// GetAvailability lists every active table with its availability on date.
// With a non-nil time of day each table is checked against the 90-minute
// occupancy window; otherwise any non-cancelled reservation that day makes
// the table unavailable.
func (ac *AvailabilityChecker) GetAvailability(date time.Time, at *TimeOfDay) ([]TableAvailability, error) {
	dayStart, dayEnd := DayBounds(date)

	var reservations []models.Reservation
	if err := ac.DB.
		Where("reservation_date >= ? AND reservation_date < ? AND status <> ?",
			dayStart, dayEnd, models.StatusCancelled).
		Find(&reservations).Error; err != nil {
		return nil, &StorageError{Op: "load reservations for day", Err: err}
	}

	byTable := make(map[uint][]models.Reservation)
	for _, r := range reservations {
		byTable[r.TableID] = append(byTable[r.TableID], r)
	}

	tables, err := ac.Registry.ActiveTables()
	if err != nil {
		return nil, err
	}

	result := make([]TableAvailability, 0, len(tables))
	for _, t := range tables {
		row := TableAvailability{
			TableID:     t.ID,
			TableNumber: t.TableNumber,
			Capacity:    t.Capacity,
			IsAvailable: true,
		}

		for _, r := range byTable[t.ID] {
			if at != nil && !Overlaps(at.On(dayStart), r.ReservationDate) {
				continue
			}
			row.IsAvailable = false
			row.ReservationTime = r.ReservationDate.Format("15:04")
			row.ReservationPeriod = fmt.Sprintf("%s - %s",
				r.ReservationDate.Format("15:04"),
				r.ReservationDate.Add(ServiceDuration).Format("15:04"))
			break
		}

		result = append(result, row)
	}

	return result, nil
}
