package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/nba-props/internal/domain/gamelog"
	qb "github.com/riskibarqy/nba-props/internal/platform/querybuilder"
)

const gameRecordsTable = "game_records"

type GameRecordRepository struct {
	db *sqlx.DB
}

func NewGameRecordRepository(db *sqlx.DB) *GameRecordRepository {
	return &GameRecordRepository{db: db}
}

func (r *GameRecordRepository) ListAll(ctx context.Context) ([]gamelog.GameRecord, error) {
	return r.list(ctx, "select all game records")
}

func (r *GameRecordRepository) ListByTeam(ctx context.Context, teamID string) ([]gamelog.GameRecord, error) {
	return r.list(ctx, "select game records by team", qb.Eq("team_id", teamID))
}

func (r *GameRecordRepository) ListByPlayer(ctx context.Context, player string) ([]gamelog.GameRecord, error) {
	return r.list(ctx, "select game records by player", qb.Eq("player", player))
}

func (r *GameRecordRepository) list(ctx context.Context, op string, where ...qb.Condition) ([]gamelog.GameRecord, error) {
	cols, err := qb.Columns(gameRecordTableModel{})
	if err != nil {
		return nil, fmt.Errorf("%s columns: %w", op, err)
	}
	query, args, err := qb.Select(cols...).From(gameRecordsTable).
		Where(where...).
		OrderBy("player", "played_at").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", op, err)
	}

	var rows []gameRecordTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]gamelog.GameRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, gameRecordFromRow(row))
	}
	return out, nil
}

// ReplaceAll swaps the table contents inside one transaction.
func (r *GameRecordRepository) ReplaceAll(ctx context.Context, records []gamelog.GameRecord) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace game records: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query, args, err := qb.DeleteFrom(gameRecordsTable).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete game records query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete game records: %w", err)
	}

	rows := make([]gameRecordTableModel, 0, len(records))
	for _, record := range gamelog.Dedupe(records) {
		rows = append(rows, gameRecordToRow(record))
	}
	for _, batch := range chunk(rows, insertBatchSize) {
		query, args, err := qb.InsertModels(gameRecordsTable, batch, "")
		if err != nil {
			return fmt.Errorf("build insert game records query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert game records: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace game records tx: %w", err)
	}
	return nil
}

// SizeBytes reports the on-disk size of the history tables.
func (r *GameRecordRepository) SizeBytes(ctx context.Context) (int64, error) {
	var size int64
	query := `SELECT COALESCE(pg_total_relation_size('game_records'), 0)
    + COALESCE(pg_total_relation_size('absences'), 0)
    + COALESCE(pg_total_relation_size('ingestion_metadata'), 0)`
	if err := r.db.GetContext(ctx, &size, query); err != nil {
		return 0, fmt.Errorf("select relation sizes: %w", err)
	}
	return size, nil
}
