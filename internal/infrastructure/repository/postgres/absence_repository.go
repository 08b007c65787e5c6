package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/nba-props/internal/domain/absence"
	qb "github.com/riskibarqy/nba-props/internal/platform/querybuilder"
)

const absencesTable = "absences"

type AbsenceRepository struct {
	db *sqlx.DB
}

func NewAbsenceRepository(db *sqlx.DB) *AbsenceRepository {
	return &AbsenceRepository{db: db}
}

func (r *AbsenceRepository) ListAll(ctx context.Context) ([]absence.Absence, error) {
	return r.list(ctx, "select all absences")
}

func (r *AbsenceRepository) ListByTeam(ctx context.Context, teamID string) ([]absence.Absence, error) {
	return r.list(ctx, "select absences by team", qb.Eq("team_id", teamID))
}

func (r *AbsenceRepository) list(ctx context.Context, op string, where ...qb.Condition) ([]absence.Absence, error) {
	query, args, err := qb.Select("player", "team_id", "reason", "reported_at").From(absencesTable).
		Where(where...).
		OrderBy("team_id", "player").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", op, err)
	}

	var rows []absenceTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]absence.Absence, 0, len(rows))
	for _, row := range rows {
		out = append(out, absence.Absence{
			Player:     row.Player,
			TeamID:     row.TeamID,
			Reason:     row.Reason,
			ReportedAt: row.ReportedAt.UTC(),
		})
	}
	return out, nil
}

func (r *AbsenceRepository) ReplaceAll(ctx context.Context, items []absence.Absence) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace absences: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query, args, err := qb.DeleteFrom(absencesTable).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete absences query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete absences: %w", err)
	}

	rows := make([]absenceTableModel, 0, len(items))
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("validate absence player=%s: %w", item.Player, err)
		}
		rows = append(rows, absenceTableModel{
			Player:     item.Player,
			TeamID:     item.TeamID,
			Reason:     item.Reason,
			ReportedAt: item.ReportedAt.UTC(),
		})
	}
	for _, batch := range chunk(rows, insertBatchSize) {
		query, args, err := qb.InsertModels(absencesTable, batch, "ON CONFLICT (team_id, player) DO UPDATE SET reason = EXCLUDED.reason, reported_at = EXCLUDED.reported_at")
		if err != nil {
			return fmt.Errorf("build insert absences query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert absences: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace absences tx: %w", err)
	}
	return nil
}
