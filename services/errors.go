package services

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrReservationNotFound = errors.New("reservation not found")
	ErrTableNotFound       = errors.New("table not found")
	ErrForbidden           = errors.New("you are not allowed to modify this reservation")
	ErrNotPending          = errors.New("only pending reservations can be modified")
)

// ValidationError rejects bad input before anything touches the store.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NoAvailabilityError means no active table fits the party on that date.
// This is a normal booking outcome, not a system fault.
type NoAvailabilityError struct {
	PartySize int
	Date      time.Time
}

func (e *NoAvailabilityError) Error() string {
	return fmt.Sprintf("no tables are available for %d guests on %s, please try a different date",
		e.PartySize, e.Date.Format("Jan 02, 2006"))
}

// StorageError wraps a persistence-layer failure. These are surfaced to the
// caller, never swallowed; the booking flow treats them as retryable by
// re-running the whole assignment, never by repeating the raw insert.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
