package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"blendery/internal/core/apperror"
)

func TestIsRetryable(t *testing.T) {
	serialization := fmt.Errorf("commit transaction: %w", &pgconn.PgError{Code: CodeSerializationFailure})
	deadlock := &pgconn.PgError{Code: CodeDeadlockDetected}

	assert.True(t, IsRetryable(serialization))
	assert.True(t, IsRetryable(deadlock))
	assert.False(t, IsRetryable(&pgconn.PgError{Code: CodeUniqueViolation}))
	assert.False(t, IsRetryable(errors.New("plain")))
}

func TestMapWriteError(t *testing.T) {
	unique := MapWriteError(&pgconn.PgError{Code: CodeUniqueViolation, ConstraintName: "materials_code_key"}, "material")
	assert.True(t, apperror.HasCode(unique, apperror.CodeConflict))
	assert.Equal(t, 400, apperror.GetHTTPStatus(unique))

	fk := MapWriteError(fmt.Errorf("delete: %w", &pgconn.PgError{Code: CodeForeignKeyViolation}), "formula")
	assert.True(t, apperror.HasCode(fk, apperror.CodeConflict))

	check := MapWriteError(&pgconn.PgError{Code: CodeCheckViolation}, "material")
	assert.True(t, apperror.HasCode(check, apperror.CodeValidation))

	plain := errors.New("boom")
	assert.Same(t, plain, MapWriteError(plain, "x"))
	assert.Nil(t, MapWriteError(nil, "x"))
}

func TestParseIsolation(t *testing.T) {
	lvl, err := ParseIsolation("read_committed")
	assert.NoError(t, err)
	assert.Equal(t, pgx.ReadCommitted, lvl)

	lvl, err = ParseIsolation("")
	assert.NoError(t, err)
	assert.Equal(t, pgx.Serializable, lvl)

	_, err = ParseIsolation("chaos")
	assert.Error(t, err)
}
