package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/nba-props/internal/domain/absence"
)

type AbsenceRepository struct {
	mu     sync.RWMutex
	byTeam map[string][]absence.Absence
	order  []string
}

func NewAbsenceRepository(items []absence.Absence) *AbsenceRepository {
	r := &AbsenceRepository{}
	r.replace(items)
	return r
}

func (r *AbsenceRepository) ListAll(_ context.Context) ([]absence.Absence, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]absence.Absence, 0, len(r.order)*2)
	for _, teamID := range r.order {
		out = append(out, r.byTeam[teamID]...)
	}
	return out, nil
}

func (r *AbsenceRepository) ListByTeam(_ context.Context, teamID string) ([]absence.Absence, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.byTeam[teamID]
	out := make([]absence.Absence, 0, len(items))
	out = append(out, items...)
	return out, nil
}

func (r *AbsenceRepository) ReplaceAll(_ context.Context, items []absence.Absence) error {
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	r.replace(items)
	return nil
}

// replace keeps one entry per (team, player), the last one wins.
func (r *AbsenceRepository) replace(items []absence.Absence) {
	byTeam := make(map[string][]absence.Absence)
	order := make([]string, 0, 30)
	for _, item := range items {
		rows, ok := byTeam[item.TeamID]
		if !ok {
			order = append(order, item.TeamID)
		}
		updated := false
		for idx := range rows {
			if rows[idx].Player == item.Player {
				rows[idx] = item
				updated = true
				break
			}
		}
		if !updated {
			rows = append(rows, item)
		}
		byTeam[item.TeamID] = rows
	}

	r.mu.Lock()
	r.byTeam = byTeam
	r.order = order
	r.mu.Unlock()
}
