package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/nba-props/internal/usecase"
)

const ingestJobTimeout = 45 * time.Minute

func (h *Handler) RunIngestJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunIngestJob")
	defer span.End()

	if h.ingestion == nil {
		writeError(ctx, w, fmt.Errorf("%w: ingestion is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	// The run outlives client disconnects but keeps the trace.
	runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ingestJobTimeout)
	defer cancel()

	traceID, _ := traceMetaFromContext(ctx)
	started := time.Now()
	result, err := h.ingestion.Run(runCtx)
	if err != nil {
		h.logger.WarnContext(ctx, "ingest job failed",
			"trace_id", traceID,
			"failures", len(result.Failures),
			"duration_ms", time.Since(started).Milliseconds(),
			"error", err,
		)
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w: ingestion timed out after %s", usecase.ErrDependencyUnavailable, ingestJobTimeout)
		}
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, ingestionResultToDTO(result))
}

func traceMetaFromContext(ctx context.Context) (string, string) {
	spanContext := trace.SpanFromContext(ctx).SpanContext()
	if !spanContext.IsValid() {
		return "", ""
	}
	return spanContext.TraceID().String(), spanContext.SpanID().String()
}
