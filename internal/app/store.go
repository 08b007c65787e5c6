package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/riskibarqy/nba-props/internal/config"
	"github.com/riskibarqy/nba-props/internal/domain/absence"
	"github.com/riskibarqy/nba-props/internal/domain/dataset"
	"github.com/riskibarqy/nba-props/internal/domain/gamelog"
	cacherepo "github.com/riskibarqy/nba-props/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/nba-props/internal/infrastructure/repository/file"
	"github.com/riskibarqy/nba-props/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/nba-props/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/nba-props/internal/platform/cache"
	"github.com/riskibarqy/nba-props/internal/platform/logging"
)

const repositoryCacheCapacity = 256

// Stores groups the repositories backing one STORE_DRIVER.
type Stores struct {
	Driver   string
	Games    gamelog.Repository
	Absences absence.Repository
	Metadata dataset.Repository
	close    func() error
}

func (s Stores) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

func OpenStores(ctx context.Context, cfg config.Config, logger *logging.Logger) (Stores, error) {
	if logger == nil {
		logger = logging.Default()
	}

	var (
		stores Stores
		err    error
	)
	switch cfg.StoreDriver {
	case config.StoreMemory:
		stores = Stores{
			Games:    memory.NewGameRecordRepository(nil),
			Absences: memory.NewAbsenceRepository(nil),
			Metadata: memory.NewMetadataRepository(),
		}
	case config.StoreFile:
		store, openErr := file.Open(cfg.DataDir)
		if openErr != nil {
			return Stores{}, fmt.Errorf("open file store: %w", openErr)
		}
		stores = Stores{Games: store, Absences: store.Absences(), Metadata: store}
	case config.StorePostgres:
		stores, err = openPostgresStores(ctx, cfg, logger)
		if err != nil {
			return Stores{}, err
		}
	default:
		return Stores{}, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
	stores.Driver = cfg.StoreDriver

	if cfg.RepoCacheEnabled {
		stores.Games = cacherepo.NewGameRecordRepository(stores.Games, cache.NewStore[[]gamelog.GameRecord](cfg.RepoCacheTTL, repositoryCacheCapacity))
		stores.Absences = cacherepo.NewAbsenceRepository(stores.Absences, cache.NewStore[[]absence.Absence](cfg.RepoCacheTTL, repositoryCacheCapacity))
	}

	logger.Info("stores ready", "driver", stores.Driver, "repository_cache", cfg.RepoCacheEnabled)
	return stores, nil
}

func openPostgresStores(ctx context.Context, cfg config.Config, logger *logging.Logger) (Stores, error) {
	db, err := otelsqlx.Open("postgres", cfg.DBURL,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return Stores{}, fmt.Errorf("open postgres: %w", err)
	}
	configurePool(db, cfg)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return Stores{}, fmt.Errorf("ping postgres %s: %w", redactDBURL(cfg.DBURL), err)
	}
	logger.Info("postgres connected", "dsn", redactDBURL(cfg.DBURL), "max_open_conns", cfg.DBMaxOpenConns)

	return Stores{
		Games:    postgres.NewGameRecordRepository(db),
		Absences: postgres.NewAbsenceRepository(db),
		Metadata: postgres.NewMetadataRepository(db),
		close:    db.Close,
	}, nil
}

func configurePool(db *sqlx.DB, cfg config.Config) {
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxLifetime(cfg.DBConnMaxLifetime)
}
