package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/riskibarqy/nba-props/external/sofascore"
	"github.com/riskibarqy/nba-props/internal/config"
	"github.com/riskibarqy/nba-props/internal/domain/adjustment"
	"github.com/riskibarqy/nba-props/internal/domain/gamelog"
	"github.com/riskibarqy/nba-props/internal/domain/prediction"
	domainroster "github.com/riskibarqy/nba-props/internal/domain/roster"
	"github.com/riskibarqy/nba-props/internal/infrastructure/roster"
	"github.com/riskibarqy/nba-props/internal/interfaces/httpapi"
	"github.com/riskibarqy/nba-props/internal/observability"
	"github.com/riskibarqy/nba-props/internal/platform/id"
	"github.com/riskibarqy/nba-props/internal/platform/logging"
	"github.com/riskibarqy/nba-props/internal/platform/resilience"
	"github.com/riskibarqy/nba-props/internal/usecase"
)

// App holds the wired services shared by the api and ingest commands.
type App struct {
	Config    config.Config
	Logger    *logging.Logger
	Directory *domainroster.Static
	Stores    Stores
	Metrics   *observability.Metrics
	Forecasts *usecase.ForecastService
	Reports   *usecase.TeamReportService
	Storage   *usecase.StorageService
	Ingestion *ObservedIngestion
	Scheduler *Scheduler
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	directory, err := roster.Load(cfg.RosterFile)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	logger.Info("roster loaded", "file", cfg.RosterFile, "teams", len(directory.Teams()))

	stores, err := OpenStores(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	var metrics *observability.Metrics
	if cfg.MetricsEnabled {
		metrics = observability.NewMetrics()
	}

	adjustCfg := adjustment.DefaultConfig()
	adjustCfg.RedistributionFactor = cfg.AdjustRedistribution
	adjustCfg.ReturnPenaltyFactor = cfg.AdjustReturnPenalty
	adjustCfg.ReturnGapDays = cfg.AdjustReturnGapDays
	returnCfg := adjustment.DefaultReturnConfig()
	returnCfg.GapDays = cfg.AdjustReturnGapDays

	forecasts := usecase.NewForecastService(
		directory,
		stores.Games,
		stores.Absences,
		prediction.DefaultEngine().WithSeed(cfg.EngineSeed),
		adjustment.NewAdjuster(adjustCfg, directory),
		usecase.ForecastConfig{
			DefaultLine: cfg.PropLineDefault,
			CacheTTL:    cfg.ForecastCacheTTL,
			CacheSize:   cfg.ForecastCacheSize,
		},
		logger,
	)
	reports := usecase.NewTeamReportService(directory, stores.Games, stores.Absences, forecasts, usecase.TeamReportConfig{Returns: returnCfg})
	storage := usecase.NewStorageService(stores.Driver, stores.Games, stores.Absences, stores.Metadata)

	clientCfg := sofascore.ClientConfig{
		BaseURL:         cfg.SofascoreBaseURL,
		Timeout:         cfg.SofascoreTimeout,
		MaxRetries:      cfg.SofascoreMaxRetries,
		RequestInterval: cfg.IngestRequestDelay,
		Logger:          logger,
		CircuitBreaker: resilience.BreakerConfig{
			Enabled:          cfg.SofascoreCircuitEnabled,
			FailureThreshold: cfg.SofascoreCircuitFailureCount,
			OpenTimeout:      cfg.SofascoreCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.SofascoreCircuitHalfOpenMaxReq,
		},
	}
	var ingestRecorder IngestionRecorder
	if metrics != nil {
		clientCfg.Recorder = metrics
		ingestRecorder = metrics
	}

	ingestion := usecase.NewIngestionService(
		directory,
		sofascore.NewClient(clientCfg),
		stores.Games,
		stores.Absences,
		stores.Metadata,
		usecase.IngestionConfig{
			Workers: cfg.IngestWorkers,
			Retention: gamelog.RetentionPolicy{
				MaxAge:       cfg.RetentionWindow(),
				MaxPerPlayer: cfg.RetentionMaxGames,
			},
		},
		logger,
	)
	observed := NewObservedIngestion(ingestion, id.NewUUIDGenerator(), ingestRecorder, logger)

	a := &App{
		Config:    cfg,
		Logger:    logger,
		Directory: directory,
		Stores:    stores,
		Metrics:   metrics,
		Forecasts: forecasts,
		Reports:   reports,
		Storage:   storage,
		Ingestion: observed,
	}

	if cfg.IngestSchedule != "" {
		scheduler, err := NewScheduler(cfg.IngestSchedule, observed, logger)
		if err != nil {
			_ = stores.Close()
			return nil, err
		}
		a.Scheduler = scheduler
	}

	return a, nil
}

func (a *App) Router() http.Handler {
	handler := httpapi.NewHandler(a.Directory, a.Forecasts, a.Reports, a.Storage, a.Ingestion, a.Logger)

	routerCfg := httpapi.RouterConfig{
		SwaggerEnabled:     a.Config.SwaggerEnabled,
		CORSAllowedOrigins: a.Config.CORSAllowedOrigins,
		InternalJobToken:   a.Config.InternalJobToken,
	}
	var recorder httpapi.RequestRecorder
	if a.Metrics != nil {
		recorder = a.Metrics
		routerCfg.Metrics = a.Metrics.Handler()
	}
	return httpapi.NewRouter(handler, a.Logger, recorder, routerCfg)
}

func (a *App) NewHTTPServer() (*http.Server, error) {
	if a.Config.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return &http.Server{
		Addr:              a.Config.HTTPAddr,
		Handler:           a.Router(),
		ReadTimeout:       a.Config.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      a.Config.WriteTimeout,
	}, nil
}

func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.Scheduler != nil {
		if err := a.Scheduler.Stop(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := a.Stores.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close stores: %w", err))
	}
	return errors.Join(errs...)
}
