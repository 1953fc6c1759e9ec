package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestFromDB(t *testing.T) {
	assert.Nil(t, FromDB(nil))
	assert.ErrorIs(t, FromDB(gorm.ErrRecordNotFound), ErrNotFound)
	assert.ErrorIs(t, FromDB(&pgconn.PgError{Code: "23505"}), ErrConflict)

	wrapped := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	assert.ErrorIs(t, FromDB(wrapped), ErrConflict)

	other := errors.New("connection reset")
	assert.Equal(t, other, FromDB(other))
}

func TestIsColumnMissing(t *testing.T) {
	assert.True(t, IsColumnMissing(&pgconn.PgError{Code: "42703"}))
	assert.True(t, IsColumnMissing(fmt.Errorf("select: %w", &pgconn.PgError{Code: "42703"})))
	assert.False(t, IsColumnMissing(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsColumnMissing(errors.New("boom")))
	assert.False(t, IsColumnMissing(nil))
}
