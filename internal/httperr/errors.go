package httperr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// NotFoundError: the referenced record does not exist or is inactive.
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return e.Entity + " not found"
	}
	return fmt.Sprintf("%s %s not found", e.Entity, e.Key)
}

func NotFoundf(entity string, key any) error {
	return &NotFoundError{Entity: entity, Key: fmt.Sprint(key)}
}

// InvalidStateError reports a workflow precondition that does not hold.
// The message is shown to the user as-is.
type InvalidStateError struct {
	Operation string
	Current   string
	Required  string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s: current state is %s, requires %s", e.Operation, e.Current, e.Required)
}

// ConflictError: the requested slot was taken by someone else first.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	if e.Reason == "" {
		return "slot already booked"
	}
	return e.Reason
}

// ConcurrentModificationError: a deal changed between read and write.
type ConcurrentModificationError struct {
	DealID uint
}

func (e *ConcurrentModificationError) Error() string {
	return fmt.Sprintf("deal %d was modified concurrently", e.DealID)
}

// DeliveryError wraps a failed notification send.
type DeliveryError struct {
	Cause error
}

func (e *DeliveryError) Error() string {
	return "delivery failed: " + e.Cause.Error()
}

func (e *DeliveryError) Unwrap() error { return e.Cause }

// ArchiveError wraps a failed document archive call.
type ArchiveError struct {
	Cause error
}

func (e *ArchiveError) Error() string {
	return "archive failed: " + e.Cause.Error()
}

func (e *ArchiveError) Unwrap() error { return e.Cause }

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf) || errors.Is(err, gorm.ErrRecordNotFound)
}

func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

func IsInvalidState(err error) bool {
	var ie *InvalidStateError
	return errors.As(err, &ie)
}

func IsConcurrentModification(err error) bool {
	var cm *ConcurrentModificationError
	return errors.As(err, &cm)
}

// IsUniqueViolation reports whether err came from a unique index.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// IsExclusionConflict reports a Postgres exclusion-constraint violation
// (overlapping booking ranges).
func IsExclusionConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23P01"
	}
	return false
}
