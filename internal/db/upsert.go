package db

import (
	"context"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
)

// UpsertConfig describes where rows go and which columns identify a row.
type UpsertConfig struct {
	Table        string   // target table, optionally schema-qualified ("recon.run_rows")
	Columns      []string // all columns being inserted
	ConflictKeys []string // columns forming the unique constraint
	UpdateCols   []string // columns to update on conflict; nil = all non-conflict columns
}

// upsertPlan is the SQL for one BulkUpsert, derived from an UpsertConfig.
type upsertPlan struct {
	stage  string // unqualified temp table name
	create string
	merge  string
}

func planUpsert(cfg UpsertConfig) (upsertPlan, error) {
	if len(cfg.Columns) == 0 {
		return upsertPlan{}, eris.New("db: upsert: no columns specified")
	}
	if len(cfg.ConflictKeys) == 0 {
		return upsertPlan{}, eris.New("db: upsert: no conflict keys specified")
	}

	update := cfg.UpdateCols
	if update == nil {
		for _, c := range cfg.Columns {
			if !slices.Contains(cfg.ConflictKeys, c) {
				update = append(update, c)
			}
		}
	}

	stage := "_tmp_upsert_" + strings.ReplaceAll(cfg.Table, ".", "_")
	target := qualified(cfg.Table)
	stageIdent := pgx.Identifier{stage}.Sanitize()
	cols := identList(cfg.Columns)

	var b strings.Builder
	b.WriteString("INSERT INTO " + target + " (" + cols + ") SELECT " + cols + " FROM " + stageIdent)
	b.WriteString(" ON CONFLICT (" + identList(cfg.ConflictKeys) + ")")
	if len(update) == 0 {
		b.WriteString(" DO NOTHING")
	} else {
		sets := make([]string, len(update))
		for i, c := range update {
			id := pgx.Identifier{c}.Sanitize()
			sets[i] = id + " = EXCLUDED." + id
		}
		b.WriteString(" DO UPDATE SET " + strings.Join(sets, ", "))
	}

	return upsertPlan{
		stage:  stage,
		create: "CREATE TEMP TABLE " + stageIdent + " (LIKE " + target + " INCLUDING DEFAULTS) ON COMMIT DROP",
		merge:  b.String(),
	}, nil
}

// BulkUpsert stages rows with COPY in a temp table dropped at commit, then
// merges them into the target in the same transaction.
func BulkUpsert(ctx context.Context, pool Pool, cfg UpsertConfig, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	plan, err := planUpsert(cfg)
	if err != nil {
		return 0, err
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "db: upsert: begin tx")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, plan.create); err != nil {
		return 0, eris.Wrapf(err, "db: upsert: stage table for %s", cfg.Table)
	}
	if _, err := CopyFrom(ctx, tx, plan.stage, cfg.Columns, rows); err != nil {
		return 0, eris.Wrapf(err, "db: upsert: stage rows for %s", cfg.Table)
	}
	tag, err := tx.Exec(ctx, plan.merge)
	if err != nil {
		return 0, eris.Wrapf(err, "db: upsert: merge into %s", cfg.Table)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, eris.Wrap(err, "db: upsert: commit tx")
	}
	return tag.RowsAffected(), nil
}

// qualified quotes a table name that may carry a schema.
func qualified(table string) string {
	return pgx.Identifier(strings.SplitN(table, ".", 2)).Sanitize()
}

func identList(cols []string) string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = pgx.Identifier{c}.Sanitize()
	}
	return strings.Join(out, ", ")
}
