package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/nba-props/internal/domain/dataset"
)

type MetadataRepository struct {
	mu    sync.RWMutex
	meta  dataset.Metadata
	saved bool
}

func NewMetadataRepository() *MetadataRepository {
	return &MetadataRepository{}
}

func (r *MetadataRepository) SaveMetadata(_ context.Context, m dataset.Metadata) error {
	r.mu.Lock()
	r.meta = m
	r.saved = true
	r.mu.Unlock()
	return nil
}

func (r *MetadataRepository) LoadMetadata(_ context.Context) (dataset.Metadata, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.meta, r.saved, nil
}
