package pgxstorage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTransactionWithoutTransaction(t *testing.T) {
	_, err := getTransaction(context.Background())
	assert.ErrorIs(t, err, errNoTransaction)
}

func TestGetTransactionWithWrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), transactionKey, "not a tx")
	_, err := getTransaction(ctx)
	require.Error(t, err)
	assert.NotErrorIs(t, err, errNoTransaction)
}
