// Package apperr defines the error kinds surfaced by the AutoERP API and the
// classification of persistence errors into those kinds.
package apperr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalid      = errors.New("invalid input")
)

// PostgreSQL SQLSTATE codes.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Error is a classified error carrying a client-facing message.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

// Unwrap lets errors.Is match the kind.
func (e *Error) Unwrap() error { return e.Kind }

func newf(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error     { return newf(ErrNotFound, format, args...) }
func Conflict(format string, args ...any) error     { return newf(ErrConflict, format, args...) }
func Invalid(format string, args ...any) error      { return newf(ErrInvalid, format, args...) }
func Unauthorized(format string, args ...any) error { return newf(ErrUnauthorized, format, args...) }

// Message returns the client-facing text for err, or "" if err is unclassified.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ""
}

// FromDB classifies a persistence error. Unknown errors are returned unchanged
// so callers treat them as internal. what names the entity for messages.
func FromDB(err error, what string) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound("%s not found", what)
	}
	if IsUniqueViolation(err) {
		return Conflict("%s already exists", what)
	}
	if IsForeignKeyViolation(err) {
		return NotFound("referenced record for %s not found", what)
	}
	return err
}

// IsUniqueViolation checks for unique constraint violations across the
// supported drivers.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}

// IsForeignKeyViolation checks for foreign key violations across the
// supported drivers.
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}
	return strings.Contains(strings.ToLower(err.Error()), "foreign key")
}
