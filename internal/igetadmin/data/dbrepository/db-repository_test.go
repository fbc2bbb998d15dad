package dbrepository

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"iget-admin/internal/igetadmin/data"
)

func TestFormatParams(t *testing.T) {
	assert.Equal(t, "$2", formatParams(2, 1))
	assert.Equal(t, "$2,$3,$4", formatParams(2, 3))
	assert.Equal(t, "", formatParams(1, 0))
}

func TestHandleSQLError(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505"}
	assert.ErrorIs(t, handleSQLError(unique), data.ErrUniqueConstraintViolation)

	other := errors.New("connection reset")
	assert.Equal(t, other, handleSQLError(other))
}
