package apperrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

const (
	pgDuplicateKey   = "23505"
	pgUndefinedField = "42703"
)

// FromDB translates storage errors into the service taxonomy. Record-not-found
// and duplicate-key are downgraded; anything else stays an internal error.
func FromDB(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgDuplicateKey {
		return ErrConflict
	}
	return err
}

// IsColumnMissing reports whether err is a Postgres undefined-column failure
// (SQLSTATE 42703), the signal for the reduced-column retry path.
func IsColumnMissing(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUndefinedField
}
