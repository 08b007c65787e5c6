package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/nba-props/internal/domain/gamelog"
)

type GameRecordRepository struct {
	mu      sync.RWMutex
	records []gamelog.GameRecord
}

func NewGameRecordRepository(records []gamelog.GameRecord) *GameRecordRepository {
	return &GameRecordRepository{records: gamelog.Chronological(gamelog.Dedupe(records))}
}

func (r *GameRecordRepository) ListAll(_ context.Context) ([]gamelog.GameRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]gamelog.GameRecord, len(r.records))
	copy(out, r.records)
	return out, nil
}

func (r *GameRecordRepository) ListByTeam(_ context.Context, teamID string) ([]gamelog.GameRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]gamelog.GameRecord, 0, 64)
	for _, item := range r.records {
		if item.TeamID == teamID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *GameRecordRepository) ListByPlayer(_ context.Context, player string) ([]gamelog.GameRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return gamelog.ForPlayer(r.records, player), nil
}

func (r *GameRecordRepository) ReplaceAll(_ context.Context, records []gamelog.GameRecord) error {
	next := gamelog.Chronological(gamelog.Dedupe(records))

	r.mu.Lock()
	r.records = next
	r.mu.Unlock()
	return nil
}
