package httpapi

import "net/http"

func (h *Handler) GetStorageStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetStorageStats")
	defer span.End()

	stats, err := h.storage.Stats(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "storage stats failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, storageStatsToDTO(stats))
}
