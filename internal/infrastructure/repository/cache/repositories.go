package cache

import (
	"context"

	"github.com/riskibarqy/nba-props/internal/domain/absence"
	"github.com/riskibarqy/nba-props/internal/domain/gamelog"
	basecache "github.com/riskibarqy/nba-props/internal/platform/cache"
)

const (
	gameListAllKey    = "game:list"
	gameTeamKeyPrefix = "game:team:"
	gamePlayerPrefix  = "game:player:"
	absenceAllKey     = "absence:list"
	absenceTeamPrefix = "absence:team:"
)

// GameRecordRepository is a read-through cache over a gamelog.Repository.
// ReplaceAll writes to the next repository and then drops every entry.
type GameRecordRepository struct {
	next  gamelog.Repository
	cache *basecache.Store[[]gamelog.GameRecord]
}

func NewGameRecordRepository(next gamelog.Repository, cache *basecache.Store[[]gamelog.GameRecord]) *GameRecordRepository {
	return &GameRecordRepository{next: next, cache: cache}
}

func (r *GameRecordRepository) ListAll(ctx context.Context) ([]gamelog.GameRecord, error) {
	return r.load(ctx, gameListAllKey, r.next.ListAll)
}

func (r *GameRecordRepository) ListByTeam(ctx context.Context, teamID string) ([]gamelog.GameRecord, error) {
	return r.load(ctx, gameTeamKeyPrefix+teamID, func(ctx context.Context) ([]gamelog.GameRecord, error) {
		return r.next.ListByTeam(ctx, teamID)
	})
}

func (r *GameRecordRepository) ListByPlayer(ctx context.Context, player string) ([]gamelog.GameRecord, error) {
	return r.load(ctx, gamePlayerPrefix+player, func(ctx context.Context) ([]gamelog.GameRecord, error) {
		return r.next.ListByPlayer(ctx, player)
	})
}

func (r *GameRecordRepository) ReplaceAll(ctx context.Context, records []gamelog.GameRecord) error {
	if err := r.next.ReplaceAll(ctx, records); err != nil {
		return err
	}
	r.cache.Purge()
	return nil
}

// SizeBytes forwards to the next repository when it reports a size.
func (r *GameRecordRepository) SizeBytes(ctx context.Context) (int64, error) {
	sized, ok := r.next.(interface {
		SizeBytes(ctx context.Context) (int64, error)
	})
	if !ok {
		return 0, nil
	}
	return sized.SizeBytes(ctx)
}

func (r *GameRecordRepository) load(ctx context.Context, key string, loader func(context.Context) ([]gamelog.GameRecord, error)) ([]gamelog.GameRecord, error) {
	items, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) ([]gamelog.GameRecord, error) {
		items, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		return append([]gamelog.GameRecord(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]gamelog.GameRecord(nil), items...), nil
}

type AbsenceRepository struct {
	next  absence.Repository
	cache *basecache.Store[[]absence.Absence]
}

func NewAbsenceRepository(next absence.Repository, cache *basecache.Store[[]absence.Absence]) *AbsenceRepository {
	return &AbsenceRepository{next: next, cache: cache}
}

func (r *AbsenceRepository) ListAll(ctx context.Context) ([]absence.Absence, error) {
	return r.load(ctx, absenceAllKey, r.next.ListAll)
}

func (r *AbsenceRepository) ListByTeam(ctx context.Context, teamID string) ([]absence.Absence, error) {
	return r.load(ctx, absenceTeamPrefix+teamID, func(ctx context.Context) ([]absence.Absence, error) {
		return r.next.ListByTeam(ctx, teamID)
	})
}

func (r *AbsenceRepository) ReplaceAll(ctx context.Context, items []absence.Absence) error {
	if err := r.next.ReplaceAll(ctx, items); err != nil {
		return err
	}
	r.cache.Purge()
	return nil
}

func (r *AbsenceRepository) load(ctx context.Context, key string, loader func(context.Context) ([]absence.Absence, error)) ([]absence.Absence, error) {
	items, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) ([]absence.Absence, error) {
		items, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		return append([]absence.Absence(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]absence.Absence(nil), items...), nil
}
