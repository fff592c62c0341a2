package db

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBulkUpsert_EmptyRows(t *testing.T) {
	n, err := BulkUpsert(context.Background(), nil, UpsertConfig{
		Table:        "recon.run_rows",
		Columns:      []string{"run_id", "seq"},
		ConflictKeys: []string{"run_id", "seq"},
	}, nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestBulkUpsert_NoColumns(t *testing.T) {
	_, err := BulkUpsert(context.Background(), nil, UpsertConfig{
		Table:        "recon.run_rows",
		ConflictKeys: []string{"run_id"},
	}, [][]any{{"r1", 0}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no columns specified")
}

func TestBulkUpsert_NoConflictKeys(t *testing.T) {
	_, err := BulkUpsert(context.Background(), nil, UpsertConfig{
		Table:   "recon.run_rows",
		Columns: []string{"run_id", "seq"},
	}, [][]any{{"r1", 0}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no conflict keys specified")
}

func TestBulkUpsert_Success(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	cols := []string{"run_id", "seq", "incident_id"}
	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TEMP TABLE "_tmp_upsert_recon_run_rows"`).WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_tmp_upsert_recon_run_rows"}, cols).WillReturnResult(2)
	mock.ExpectExec(`INSERT INTO "recon"."run_rows"`).WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectCommit()

	n, err := BulkUpsert(context.Background(), mock, UpsertConfig{
		Table:        "recon.run_rows",
		Columns:      cols,
		ConflictKeys: []string{"run_id", "seq"},
	}, [][]any{{"r1", 0, "A"}, {"r1", 1, "B"}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkUpsert_CopyError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	cols := []string{"run_id", "seq"}
	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TEMP TABLE`).WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_tmp_upsert_recon_run_rows"}, cols).WillReturnError(fmt.Errorf("disk full"))
	mock.ExpectRollback()

	_, err = BulkUpsert(context.Background(), mock, UpsertConfig{
		Table:        "recon.run_rows",
		Columns:      cols,
		ConflictKeys: []string{"run_id", "seq"},
	}, [][]any{{"r1", 0}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stage rows for recon.run_rows")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlanUpsert(t *testing.T) {
	plan, err := planUpsert(UpsertConfig{
		Table:        "recon.run_rows",
		Columns:      []string{"run_id", "seq", "incident_id"},
		ConflictKeys: []string{"run_id", "seq"},
	})
	require.NoError(t, err)
	assert.Equal(t, "_tmp_upsert_recon_run_rows", plan.stage)
	assert.Equal(t,
		`CREATE TEMP TABLE "_tmp_upsert_recon_run_rows" (LIKE "recon"."run_rows" INCLUDING DEFAULTS) ON COMMIT DROP`,
		plan.create)
	assert.Equal(t,
		`INSERT INTO "recon"."run_rows" ("run_id", "seq", "incident_id") SELECT "run_id", "seq", "incident_id" FROM "_tmp_upsert_recon_run_rows" ON CONFLICT ("run_id", "seq") DO UPDATE SET "incident_id" = EXCLUDED."incident_id"`,
		plan.merge)
}

func TestPlanUpsert_OnlyKeysDoesNothing(t *testing.T) {
	plan, err := planUpsert(UpsertConfig{
		Table:        "run_rows",
		Columns:      []string{"run_id", "seq"},
		ConflictKeys: []string{"run_id", "seq"},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(plan.merge, `ON CONFLICT ("run_id", "seq") DO NOTHING`))
}

func TestQualified(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"runs", `"runs"`},
		{"recon.run_rows", `"recon"."run_rows"`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, qualified(tt.input))
		})
	}
}
