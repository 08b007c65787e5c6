package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/nba-props/internal/domain/absence"
	"github.com/riskibarqy/nba-props/internal/domain/dataset"
	"github.com/riskibarqy/nba-props/internal/domain/gamelog"
)

// StorageService reports what the configured store currently holds.
type StorageService struct {
	driver   string
	games    gamelog.Repository
	absences absence.Repository
	meta     dataset.Repository
}

func NewStorageService(driver string, games gamelog.Repository, absences absence.Repository, meta dataset.Repository) *StorageService {
	return &StorageService{
		driver:   driver,
		games:    games,
		absences: absences,
		meta:     meta,
	}
}

func (s *StorageService) Stats(ctx context.Context) (dataset.Stats, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StorageService.Stats")
	defer span.End()

	records, err := s.games.ListAll(ctx)
	if err != nil {
		return dataset.Stats{}, fmt.Errorf("list game records: %w", err)
	}
	absences, err := s.absences.ListAll(ctx)
	if err != nil {
		return dataset.Stats{}, fmt.Errorf("list absences: %w", err)
	}

	stats := dataset.Summarize(records)
	stats.Driver = s.driver
	stats.Absences = len(absences)

	if sized, ok := s.games.(dataset.SizeReporter); ok {
		size, err := sized.SizeBytes(ctx)
		if err != nil {
			return dataset.Stats{}, fmt.Errorf("storage size: %w", err)
		}
		stats.SizeBytes = size
	}

	if s.meta != nil {
		meta, found, err := s.meta.LoadMetadata(ctx)
		if err != nil {
			return dataset.Stats{}, fmt.Errorf("load ingestion metadata: %w", err)
		}
		if found {
			stats.Metadata = &meta
		}
	}
	return stats, nil
}
