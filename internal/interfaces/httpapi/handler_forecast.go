package httpapi

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/riskibarqy/nba-props/internal/usecase"
)

type forecastQuery struct {
	Stat     string   `validate:"omitempty,max=32"`
	IsHome   *bool    `validate:"omitempty"`
	RestDays *int     `validate:"omitempty,min=0,max=60"`
	Line     *float64 `validate:"omitempty,min=0,max=200"`
}

type teamReportQuery struct {
	Stat string `validate:"omitempty,max=32"`
}

func (h *Handler) GetPlayerForecast(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerForecast")
	defer span.End()

	player := strings.TrimSpace(r.PathValue("player"))
	query, err := parseForecastQuery(r.URL.Query())
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validator.StructCtx(ctx, query); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	forecast, err := h.forecasts.Forecast(ctx, usecase.ForecastInput{
		Player:   player,
		Stat:     query.Stat,
		IsHome:   query.IsHome,
		RestDays: query.RestDays,
		Line:     query.Line,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "forecast failed", "player", player, "stat", query.Stat, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, forecastToDTO(forecast))
}

func (h *Handler) GetTeamReport(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamReport")
	defer span.End()

	teamID := strings.TrimSpace(r.PathValue("team"))
	query := teamReportQuery{Stat: strings.TrimSpace(r.URL.Query().Get("stat"))}
	if err := h.validator.StructCtx(ctx, query); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	report, err := h.reports.Report(ctx, teamID, query.Stat)
	if err != nil {
		h.logger.WarnContext(ctx, "team report failed", "team_id", teamID, "stat", query.Stat, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamReportToDTO(report))
}

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	teams := h.directory.Teams()
	items := make([]teamDTO, 0, len(teams))
	for _, t := range teams {
		items = append(items, teamDTO{ID: t.ID, Name: t.Name, Players: len(h.directory.Players(t.ID))})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListTeamPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeamPlayers")
	defer span.End()

	teamID := strings.ToLower(strings.TrimSpace(r.PathValue("team")))
	found := false
	for _, t := range h.directory.Teams() {
		if t.ID == teamID {
			found = true
			break
		}
	}
	if !found {
		writeError(ctx, w, fmt.Errorf("%w: team %q", usecase.ErrNotFound, teamID))
		return
	}

	players := h.directory.Players(teamID)
	items := make([]playerDTO, 0, len(players))
	for _, p := range players {
		items = append(items, playerDTO{Name: p.Name, TeamID: p.TeamID, Position: p.Position})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func parseForecastQuery(values url.Values) (forecastQuery, error) {
	query := forecastQuery{Stat: strings.TrimSpace(values.Get("stat"))}

	if raw := strings.TrimSpace(values.Get("home")); raw != "" {
		home, err := strconv.ParseBool(raw)
		if err != nil {
			return forecastQuery{}, fmt.Errorf("%w: home must be a boolean", usecase.ErrInvalidInput)
		}
		query.IsHome = &home
	}
	if raw := strings.TrimSpace(values.Get("rest")); raw != "" {
		rest, err := strconv.Atoi(raw)
		if err != nil {
			return forecastQuery{}, fmt.Errorf("%w: rest must be an integer", usecase.ErrInvalidInput)
		}
		query.RestDays = &rest
	}
	if raw := strings.TrimSpace(values.Get("line")); raw != "" {
		line, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return forecastQuery{}, fmt.Errorf("%w: line must be a number", usecase.ErrInvalidInput)
		}
		query.Line = &line
	}

	return query, nil
}
