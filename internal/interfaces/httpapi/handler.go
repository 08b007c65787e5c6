package httpapi

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/nba-props/internal/domain/roster"
	"github.com/riskibarqy/nba-props/internal/platform/logging"
	"github.com/riskibarqy/nba-props/internal/usecase"
)

// IngestionRunner performs one ingestion pass.
type IngestionRunner interface {
	Run(ctx context.Context) (usecase.IngestionResult, error)
}

type Handler struct {
	directory roster.Directory
	forecasts *usecase.ForecastService
	reports   *usecase.TeamReportService
	storage   *usecase.StorageService
	ingestion IngestionRunner
	logger    *logging.Logger
	validator *validator.Validate
}

func NewHandler(
	directory roster.Directory,
	forecasts *usecase.ForecastService,
	reports *usecase.TeamReportService,
	storage *usecase.StorageService,
	ingestion IngestionRunner,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		directory: directory,
		forecasts: forecasts,
		reports:   reports,
		storage:   storage,
		ingestion: ingestion,
		logger:    logger,
		validator: validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}
