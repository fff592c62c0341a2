package db

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyFrom_EmptyRows(t *testing.T) {
	n, err := CopyFrom(context.Background(), nil, "run_rows", []string{"run_id", "seq"}, nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestCopyFrom_Success(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectCopyFrom(pgx.Identifier{"run_rows"}, []string{"run_id", "seq"}).WillReturnResult(3)

	rows := [][]any{{"r1", 0}, {"r1", 1}, {"r1", 2}}
	n, err := CopyFrom(context.Background(), mock, "run_rows", []string{"run_id", "seq"}, rows)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCopyFrom_Error(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectCopyFrom(pgx.Identifier{"run_rows"}, []string{"run_id", "seq"}).WillReturnError(fmt.Errorf("copy failed"))

	_, err = CopyFrom(context.Background(), mock, "run_rows", []string{"run_id", "seq"}, [][]any{{"r1", 0}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COPY INTO run_rows")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConnect_RequiresURL(t *testing.T) {
	_, err := Connect(context.Background(), "", PoolOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database url is required")
}
