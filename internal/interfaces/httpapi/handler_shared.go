package httpapi

import (
	"math"
	"time"

	"github.com/riskibarqy/nba-props/internal/domain/absence"
	"github.com/riskibarqy/nba-props/internal/domain/adjustment"
	"github.com/riskibarqy/nba-props/internal/domain/dataset"
	"github.com/riskibarqy/nba-props/internal/domain/insight"
	"github.com/riskibarqy/nba-props/internal/domain/prediction"
	"github.com/riskibarqy/nba-props/internal/usecase"
)

type teamDTO struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Players int    `json:"players"`
}

type playerDTO struct {
	Name     string `json:"name"`
	TeamID   string `json:"team_id"`
	Position string `json:"position,omitempty"`
}

type nextGameDTO struct {
	Home     bool `json:"home"`
	RestDays int  `json:"rest_days"`
}

type intervalDTO struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

type featureImportanceDTO struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
}

type predictionDTO struct {
	Value      float64                `json:"value"`
	Interval   intervalDTO            `json:"interval"`
	Confidence float64                `json:"confidence"`
	Tier       string                 `json:"tier"`
	Games      int                    `json:"games"`
	MAE        *float64               `json:"mae,omitempty"`
	RMSE       *float64               `json:"rmse,omitempty"`
	Importance []featureImportanceDTO `json:"feature_importance,omitempty"`
	Models     []string               `json:"models,omitempty"`
	Notes      []string               `json:"notes,omitempty"`
}

type adjustmentItemDTO struct {
	Category      string   `json:"category"`
	Delta         float64  `json:"delta"`
	Reason        string   `json:"reason"`
	AbsentPlayers []string `json:"absent_players,omitempty"`
	GapDays       int      `json:"gap_days,omitempty"`
}

type adjustmentDTO struct {
	Base        float64             `json:"base"`
	Final       float64             `json:"final"`
	Confidence  string              `json:"confidence"`
	Adjustments []adjustmentItemDTO `json:"adjustments"`
}

type absenceDTO struct {
	Player     string    `json:"player"`
	TeamID     string    `json:"team_id"`
	Reason     string    `json:"reason,omitempty"`
	ReportedAt time.Time `json:"reported_at"`
}

type consistencyDTO struct {
	Label   string  `json:"label"`
	CoefVar float64 `json:"coef_var"`
}

type trendDTO struct {
	Label     string  `json:"label"`
	ChangePct float64 `json:"change_pct"`
}

type lineDTO struct {
	Line      float64 `json:"line"`
	Games     int     `json:"games"`
	Overs     int     `json:"overs"`
	Unders    int     `json:"unders"`
	OverRate  float64 `json:"over_rate"`
	UnderRate float64 `json:"under_rate"`
	Edge      float64 `json:"edge"`
	Lean      string  `json:"lean"`
}

type forecastDTO struct {
	Player      string         `json:"player"`
	TeamID      string         `json:"team_id"`
	Stat        string         `json:"stat"`
	Available   bool           `json:"available"`
	Reason      string         `json:"reason,omitempty"`
	Games       int            `json:"games"`
	NextGame    nextGameDTO    `json:"next_game"`
	Prediction  *predictionDTO `json:"prediction,omitempty"`
	Adjustment  *adjustmentDTO `json:"adjustment,omitempty"`
	Absences    []absenceDTO   `json:"absences"`
	Consistency consistencyDTO `json:"consistency"`
	Trend       trendDTO       `json:"trend"`
	Line        *lineDTO       `json:"line,omitempty"`
	GeneratedAt time.Time      `json:"generated_at"`
}

type statLineDTO struct {
	Points   float64 `json:"points"`
	Rebounds float64 `json:"rebounds"`
	Assists  float64 `json:"assists"`
	Minutes  float64 `json:"minutes"`
}

type absentPlayerDTO struct {
	Player   string      `json:"player"`
	Games    int         `json:"games"`
	Averages statLineDTO `json:"averages"`
}

type beneficiaryDTO struct {
	Player     string      `json:"player"`
	MinutesAvg float64     `json:"minutes_avg"`
	Share      float64     `json:"share"`
	Boost      statLineDTO `json:"boost"`
}

type impactDTO struct {
	Absent        []absentPlayerDTO `json:"absent"`
	Lost          statLineDTO       `json:"lost"`
	Beneficiaries []beneficiaryDTO  `json:"beneficiaries"`
}

type returnDTO struct {
	Player          string      `json:"player"`
	GapDays         int         `json:"gap_days"`
	ReturnedAt      time.Time   `json:"returned_at"`
	DaysSinceReturn int         `json:"days_since_return"`
	GamesSince      int         `json:"games_since"`
	Before          statLineDTO `json:"before"`
	After           statLineDTO `json:"after"`
	PointsChange    float64     `json:"points_change"`
	MinutesChange   float64     `json:"minutes_change"`
}

type playerAverageDTO struct {
	Player  string  `json:"player"`
	Average float64 `json:"average"`
}

type teamProfileDTO struct {
	Available        bool               `json:"available"`
	TotalProduction  float64            `json:"total_production"`
	AveragePerPlayer float64            `json:"average_per_player"`
	TopPlayers       []playerAverageDTO `json:"top_players"`
	GamesPerWeek     float64            `json:"games_per_week"`
	Players          int                `json:"players"`
	Level            string             `json:"level"`
}

type teamReportDTO struct {
	TeamID      string         `json:"team_id"`
	TeamName    string         `json:"team_name"`
	Stat        string         `json:"stat"`
	Forecasts   []forecastDTO  `json:"forecasts"`
	Absences    []absenceDTO   `json:"absences"`
	Impact      impactDTO      `json:"impact"`
	Returns     []returnDTO    `json:"returns"`
	Profile     teamProfileDTO `json:"profile"`
	GeneratedAt time.Time      `json:"generated_at"`
}

type metadataDTO struct {
	UpdatedAt  time.Time `json:"updated_at"`
	Players    int       `json:"players"`
	Records    int       `json:"records"`
	Teams      int       `json:"teams"`
	Absences   int       `json:"absences"`
	Errors     int       `json:"errors"`
	DurationMs int64     `json:"duration_ms"`
}

type storageStatsDTO struct {
	Driver    string       `json:"driver"`
	Records   int          `json:"records"`
	Players   int          `json:"players"`
	Teams     int          `json:"teams"`
	Absences  int          `json:"absences"`
	Oldest    *time.Time   `json:"oldest,omitempty"`
	Newest    *time.Time   `json:"newest,omitempty"`
	SizeBytes int64        `json:"size_bytes"`
	SizeMB    float64      `json:"size_mb"`
	Metadata  *metadataDTO `json:"last_ingestion,omitempty"`
}

type ingestionFailureDTO struct {
	TeamID string `json:"team_id"`
	Player string `json:"player,omitempty"`
	Stage  string `json:"stage"`
	Error  string `json:"error"`
}

type ingestionResultDTO struct {
	Metadata metadataDTO           `json:"metadata"`
	Failures []ingestionFailureDTO `json:"failures"`
}

func forecastToDTO(f usecase.Forecast) forecastDTO {
	out := forecastDTO{
		Player:      f.Player,
		TeamID:      f.TeamID,
		Stat:        f.Stat.String(),
		Available:   f.Available,
		Reason:      f.Reason,
		Games:       f.Games,
		NextGame:    nextGameDTO{Home: f.NextGame.Home, RestDays: f.NextGame.RestDays},
		Absences:    absencesToDTO(f.Absences),
		Consistency: consistencyToDTO(f.Consistency),
		Trend:       trendDTO{Label: string(f.Trend.Label), ChangePct: f.Trend.ChangePct},
		GeneratedAt: f.GeneratedAt,
	}
	if f.Prediction != nil {
		p := predictionToDTO(*f.Prediction)
		out.Prediction = &p
	}
	if f.Adjustment != nil {
		a := adjustmentToDTO(*f.Adjustment)
		out.Adjustment = &a
	}
	if f.Line != nil {
		l := lineToDTO(*f.Line)
		out.Line = &l
	}
	return out
}

func predictionToDTO(r prediction.Result) predictionDTO {
	out := predictionDTO{
		Value:      r.Prediction,
		Interval:   intervalDTO{Lower: r.Interval.Lower, Upper: r.Interval.Upper},
		Confidence: r.Confidence,
		Tier:       string(r.Tier),
		Games:      r.Games,
	}
	if r.Primary != nil {
		mae, rmse := r.Primary.MAE, r.Primary.RMSE
		out.MAE, out.RMSE = &mae, &rmse
		out.Importance = make([]featureImportanceDTO, 0, len(r.Primary.Importance))
		for _, fi := range r.Primary.Importance {
			out.Importance = append(out.Importance, featureImportanceDTO{Feature: fi.Feature, Importance: fi.Importance})
		}
	}
	if r.Fallback != nil {
		out.Models = append([]string(nil), r.Fallback.Models...)
		out.Notes = append([]string(nil), r.Fallback.Notes...)
	}
	return out
}

func adjustmentToDTO(r adjustment.Result) adjustmentDTO {
	items := make([]adjustmentItemDTO, 0, len(r.Adjustments))
	for _, a := range r.Adjustments {
		items = append(items, adjustmentItemDTO{
			Category:      string(a.Category),
			Delta:         a.Delta,
			Reason:        a.Reason,
			AbsentPlayers: a.AbsentPlayers,
			GapDays:       a.GapDays,
		})
	}
	return adjustmentDTO{Base: r.Base, Final: r.Final, Confidence: string(r.Confidence), Adjustments: items}
}

func absencesToDTO(items []absence.Absence) []absenceDTO {
	out := make([]absenceDTO, 0, len(items))
	for _, a := range items {
		out = append(out, absenceDTO{Player: a.Player, TeamID: a.TeamID, Reason: a.Reason, ReportedAt: a.ReportedAt})
	}
	return out
}

func consistencyToDTO(c insight.Consistency) consistencyDTO {
	return consistencyDTO{Label: string(c.Label), CoefVar: c.CoefVar}
}

func lineToDTO(l insight.LineAnalysis) lineDTO {
	return lineDTO{
		Line:      l.Line,
		Games:     l.Games,
		Overs:     l.Overs,
		Unders:    l.Unders,
		OverRate:  l.OverRate,
		UnderRate: l.UnderRate,
		Edge:      l.Edge,
		Lean:      string(l.Lean),
	}
}

func statLineToDTO(l adjustment.StatLine) statLineDTO {
	return statLineDTO{Points: l.Points, Rebounds: l.Rebounds, Assists: l.Assists, Minutes: l.Minutes}
}

func teamReportToDTO(r usecase.TeamReport) teamReportDTO {
	forecasts := make([]forecastDTO, 0, len(r.Forecasts))
	for _, f := range r.Forecasts {
		forecasts = append(forecasts, forecastToDTO(f))
	}

	impact := impactDTO{
		Absent:        make([]absentPlayerDTO, 0, len(r.Impact.Absent)),
		Lost:          statLineToDTO(r.Impact.Lost),
		Beneficiaries: make([]beneficiaryDTO, 0, len(r.Impact.Beneficiaries)),
	}
	for _, a := range r.Impact.Absent {
		impact.Absent = append(impact.Absent, absentPlayerDTO{Player: a.Player, Games: a.Games, Averages: statLineToDTO(a.Averages)})
	}
	for _, b := range r.Impact.Beneficiaries {
		impact.Beneficiaries = append(impact.Beneficiaries, beneficiaryDTO{
			Player:     b.Player,
			MinutesAvg: b.MinutesAvg,
			Share:      b.Share,
			Boost:      statLineToDTO(b.Boost),
		})
	}

	returns := make([]returnDTO, 0, len(r.Returns))
	for _, ret := range r.Returns {
		returns = append(returns, returnDTO{
			Player:          ret.Player,
			GapDays:         ret.GapDays,
			ReturnedAt:      ret.ReturnedAt,
			DaysSinceReturn: ret.DaysSinceReturn,
			GamesSince:      ret.GamesSince,
			Before:          statLineToDTO(ret.Before),
			After:           statLineToDTO(ret.After),
			PointsChange:    ret.PointsChange,
			MinutesChange:   ret.MinutesChange,
		})
	}

	top := make([]playerAverageDTO, 0, len(r.Profile.TopPlayers))
	for _, p := range r.Profile.TopPlayers {
		top = append(top, playerAverageDTO{Player: p.Player, Average: p.Average})
	}

	return teamReportDTO{
		TeamID:    r.TeamID,
		TeamName:  r.TeamName,
		Stat:      r.Stat.String(),
		Forecasts: forecasts,
		Absences:  absencesToDTO(r.Absences),
		Impact:    impact,
		Returns:   returns,
		Profile: teamProfileDTO{
			Available:        r.Profile.Available,
			TotalProduction:  r.Profile.TotalProduction,
			AveragePerPlayer: r.Profile.AveragePerPlayer,
			TopPlayers:       top,
			GamesPerWeek:     r.Profile.GamesPerWeek,
			Players:          r.Profile.Players,
			Level:            string(r.Profile.Level),
		},
		GeneratedAt: r.GeneratedAt,
	}
}

func metadataToDTO(m dataset.Metadata) metadataDTO {
	return metadataDTO{
		UpdatedAt:  m.UpdatedAt,
		Players:    m.Players,
		Records:    m.Records,
		Teams:      m.Teams,
		Absences:   m.Absences,
		Errors:     m.Errors,
		DurationMs: m.DurationMs,
	}
}

func storageStatsToDTO(s dataset.Stats) storageStatsDTO {
	out := storageStatsDTO{
		Driver:    s.Driver,
		Records:   s.Records,
		Players:   s.Players,
		Teams:     s.Teams,
		Absences:  s.Absences,
		SizeBytes: s.SizeBytes,
		SizeMB:    math.Round(float64(s.SizeBytes)/(1<<20)*100) / 100,
	}
	if !s.Oldest.IsZero() {
		oldest := s.Oldest
		out.Oldest = &oldest
	}
	if !s.Newest.IsZero() {
		newest := s.Newest
		out.Newest = &newest
	}
	if s.Metadata != nil {
		m := metadataToDTO(*s.Metadata)
		out.Metadata = &m
	}
	return out
}

func ingestionResultToDTO(r usecase.IngestionResult) ingestionResultDTO {
	failures := make([]ingestionFailureDTO, 0, len(r.Failures))
	for _, f := range r.Failures {
		failures = append(failures, ingestionFailureDTO{TeamID: f.TeamID, Player: f.Player, Stage: f.Stage, Error: f.Error})
	}
	return ingestionResultDTO{Metadata: metadataToDTO(r.Metadata), Failures: failures}
}
