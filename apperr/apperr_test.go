package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestKindsMatchWithErrorsIs(t *testing.T) {
	err := NotFound("order %d not found", 7)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrConflict)
	assert.Equal(t, "order 7 not found", err.Error())
	assert.Equal(t, "order 7 not found", Message(err))

	wrapped := fmt.Errorf("upsert: %w", Conflict("dup"))
	assert.ErrorIs(t, wrapped, ErrConflict)
	assert.Equal(t, "dup", Message(wrapped))
}

func TestMessageUnclassified(t *testing.T) {
	assert.Empty(t, Message(errors.New("boom")))
}

func TestFromDB(t *testing.T) {
	assert.Nil(t, FromDB(nil, "customer"))

	err := FromDB(gorm.ErrRecordNotFound, "customer")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "customer not found", err.Error())

	err = FromDB(gorm.ErrDuplicatedKey, "vehicle")
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, "vehicle already exists", err.Error())

	err = FromDB(&pgconn.PgError{Code: "23505"}, "user")
	assert.ErrorIs(t, err, ErrConflict)

	err = FromDB(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23503"}), "contact")
	assert.ErrorIs(t, err, ErrNotFound)

	err = FromDB(errors.New("UNIQUE constraint failed: users.username"), "user")
	assert.ErrorIs(t, err, ErrConflict)

	err = FromDB(gorm.ErrForeignKeyViolated, "order")
	assert.ErrorIs(t, err, ErrNotFound)

	already := Invalid("bad")
	assert.Same(t, already, FromDB(already, "x"))

	internal := errors.New("connection reset")
	assert.Equal(t, internal, FromDB(internal, "order"))
}
