package postgres

import (
	"context"
	"fmt"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/nba-props/internal/domain/dataset"
	qb "github.com/riskibarqy/nba-props/internal/platform/querybuilder"
)

const (
	metadataTable = "ingestion_metadata"
	metadataRowID = 1
)

// MetadataRepository keeps the latest ingestion summary in a single row.
type MetadataRepository struct {
	db *sqlx.DB
}

func NewMetadataRepository(db *sqlx.DB) *MetadataRepository {
	return &MetadataRepository{db: db}
}

func (r *MetadataRepository) SaveMetadata(ctx context.Context, m dataset.Metadata) error {
	payload, err := sonic.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode ingestion metadata: %w", err)
	}

	query, args, err := qb.InsertModels(metadataTable, []metadataTableModel{{
		ID:        metadataRowID,
		Payload:   string(payload),
		UpdatedAt: m.UpdatedAt.UTC(),
	}}, `ON CONFLICT (id)
DO UPDATE SET
    payload = EXCLUDED.payload,
    updated_at = EXCLUDED.updated_at`)
	if err != nil {
		return fmt.Errorf("build upsert ingestion metadata query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert ingestion metadata: %w", err)
	}
	return nil
}

func (r *MetadataRepository) LoadMetadata(ctx context.Context) (dataset.Metadata, bool, error) {
	query, args, err := qb.Select("id", "payload", "updated_at").From(metadataTable).
		Where(qb.Eq("id", metadataRowID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return dataset.Metadata{}, false, fmt.Errorf("build select ingestion metadata query: %w", err)
	}

	var row metadataTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return dataset.Metadata{}, false, nil
		}
		return dataset.Metadata{}, false, fmt.Errorf("select ingestion metadata: %w", err)
	}

	var out dataset.Metadata
	if err := sonic.Unmarshal([]byte(row.Payload), &out); err != nil {
		return dataset.Metadata{}, false, fmt.Errorf("decode ingestion metadata: %w", err)
	}
	return out, true, nil
}
