package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/riskibarqy/nba-props/internal/domain/absence"
	"github.com/riskibarqy/nba-props/internal/domain/dataset"
	absencemock "github.com/riskibarqy/nba-props/internal/mocks/domain/absence"
	datasetmock "github.com/riskibarqy/nba-props/internal/mocks/domain/dataset"
	gamelogmock "github.com/riskibarqy/nba-props/internal/mocks/domain/gamelog"
)

type sizedGameRepository struct {
	*gamelogmock.Repository
	size int64
}

func (r sizedGameRepository) SizeBytes(context.Context) (int64, error) {
	return r.size, nil
}

func TestStorageService_Stats(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	history := lakersHistory()
	gameRepo := gamelogmock.NewRepository(t)
	absenceRepo := absencemock.NewRepository(t)
	metaRepo := datasetmock.NewRepository(t)

	gameRepo.On("ListAll", mock.Anything).Return(history, nil).Once()
	absenceRepo.On("ListAll", mock.Anything).Return([]absence.Absence{{Player: "LeBron James", TeamID: "lal"}}, nil).Once()
	metaRepo.On("LoadMetadata", mock.Anything).Return(dataset.Metadata{Records: len(history), Errors: 1}, true, nil).Once()

	svc := NewStorageService("file", sizedGameRepository{Repository: gameRepo, size: 4096}, absenceRepo, metaRepo)
	got, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}

	if got.Driver != "file" || got.SizeBytes != 4096 {
		t.Fatalf("unexpected driver=%q size=%d", got.Driver, got.SizeBytes)
	}
	if got.Records != 18 || got.Players != 3 || got.Teams != 1 || got.Absences != 1 {
		t.Fatalf("unexpected counts: %+v", got)
	}
	if !got.Oldest.Before(got.Newest) {
		t.Fatalf("unexpected span oldest=%s newest=%s", got.Oldest, got.Newest)
	}
	if got.Metadata == nil || got.Metadata.Errors != 1 {
		t.Fatalf("unexpected metadata: %+v", got.Metadata)
	}
}

func TestStorageService_Stats_NoMetadataYet(t *testing.T) {
	t.Parallel()

	gameRepo := gamelogmock.NewRepository(t)
	absenceRepo := absencemock.NewRepository(t)
	metaRepo := datasetmock.NewRepository(t)
	gameRepo.On("ListAll", mock.Anything).Return(nil, nil).Once()
	absenceRepo.On("ListAll", mock.Anything).Return(nil, nil).Once()
	metaRepo.On("LoadMetadata", mock.Anything).Return(dataset.Metadata{}, false, nil).Once()

	got, err := NewStorageService("memory", gameRepo, absenceRepo, metaRepo).Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if got.Records != 0 || got.Metadata != nil || got.SizeBytes != 0 {
		t.Fatalf("unexpected stats for empty store: %+v", got)
	}
}

func TestStorageService_Stats_RepositoryError(t *testing.T) {
	t.Parallel()

	gameRepo := gamelogmock.NewRepository(t)
	gameRepo.On("ListAll", mock.Anything).Return(nil, errors.New("disk unreadable")).Once()

	_, err := NewStorageService("file", gameRepo, absencemock.NewRepository(t), datasetmock.NewRepository(t)).Stats(context.Background())
	if err == nil {
		t.Fatalf("expected error")
	}
}
