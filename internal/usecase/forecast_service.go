package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/nba-props/internal/domain/absence"
	"github.com/riskibarqy/nba-props/internal/domain/adjustment"
	"github.com/riskibarqy/nba-props/internal/domain/gamelog"
	"github.com/riskibarqy/nba-props/internal/domain/insight"
	"github.com/riskibarqy/nba-props/internal/domain/prediction"
	"github.com/riskibarqy/nba-props/internal/domain/roster"
	"github.com/riskibarqy/nba-props/internal/platform/cache"
	"github.com/riskibarqy/nba-props/internal/platform/logging"
)

const (
	defaultTrendWindow = 3
	minPredictGames    = 3
)

type ForecastConfig struct {
	DefaultLine float64
	TrendWindow int
	CacheTTL    time.Duration
	CacheSize   int
}

type ForecastInput struct {
	Player   string
	Stat     string
	IsHome   *bool
	RestDays *int
	Line     *float64
}

// Forecast is the full answer for one player: the engine result, the
// contextual adjustment and the supporting analytics.
type Forecast struct {
	Player      string
	TeamID      string
	Stat        gamelog.Stat
	Available   bool
	Reason      string
	Games       int
	NextGame    prediction.NextGame
	Prediction  *prediction.Result
	Adjustment  *adjustment.Result
	Absences    []absence.Absence
	Consistency insight.Consistency
	Trend       insight.Trend
	Line        *insight.LineAnalysis
	GeneratedAt time.Time
}

type cachedPrediction struct {
	result prediction.Result
	ok     bool
}

type ForecastService struct {
	directory roster.Directory
	games     gamelog.Repository
	absences  absence.Repository
	engine    *prediction.Engine
	adjuster  *adjustment.Adjuster
	memo      *cache.Store[cachedPrediction]
	cfg       ForecastConfig
	logger    *logging.Logger
	now       func() time.Time
}

func NewForecastService(
	directory roster.Directory,
	games gamelog.Repository,
	absences absence.Repository,
	engine *prediction.Engine,
	adjuster *adjustment.Adjuster,
	cfg ForecastConfig,
	logger *logging.Logger,
) *ForecastService {
	if engine == nil {
		engine = prediction.DefaultEngine()
	}
	if adjuster == nil {
		adjuster = adjustment.NewAdjuster(adjustment.DefaultConfig(), directory)
	}
	if cfg.TrendWindow < 1 {
		cfg.TrendWindow = defaultTrendWindow
	}
	if logger == nil {
		logger = logging.Default()
	}

	var memo *cache.Store[cachedPrediction]
	if cfg.CacheTTL > 0 {
		memo = cache.NewStore[cachedPrediction](cfg.CacheTTL, cfg.CacheSize)
	}

	return &ForecastService{
		directory: directory,
		games:     games,
		absences:  absences,
		engine:    engine,
		adjuster:  adjuster,
		memo:      memo,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *ForecastService) Forecast(ctx context.Context, input ForecastInput) (Forecast, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ForecastService.Forecast", attribute.String("player", input.Player), attribute.String("stat", input.Stat))
	defer span.End()

	name := strings.TrimSpace(input.Player)
	if name == "" {
		return Forecast{}, fmt.Errorf("%w: player name is required", ErrInvalidInput)
	}
	stat, err := gamelog.ParseStat(input.Stat)
	if err != nil {
		return Forecast{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	next, err := nextGameFromInput(input)
	if err != nil {
		return Forecast{}, err
	}
	line := s.cfg.DefaultLine
	if input.Line != nil {
		if *input.Line < 0 {
			return Forecast{}, fmt.Errorf("%w: line must be >= 0", ErrInvalidInput)
		}
		line = *input.Line
	}

	player, ok := s.directory.Canonical(name)
	if !ok {
		return Forecast{}, fmt.Errorf("%w: player %q is not rostered", ErrNotFound, name)
	}
	teamID, ok := s.directory.TeamOf(player)
	if !ok {
		return Forecast{}, fmt.Errorf("%w: team of player %q", ErrNotFound, player)
	}

	teamHistory, err := s.games.ListByTeam(ctx, teamID)
	if err != nil {
		return Forecast{}, fmt.Errorf("list team history team_id=%s: %w", teamID, err)
	}
	absences, err := s.absences.ListByTeam(ctx, teamID)
	if err != nil {
		return Forecast{}, fmt.Errorf("list absences team_id=%s: %w", teamID, err)
	}

	return s.forecast(ctx, player, teamID, stat, next, line, teamHistory, absences)
}

// forecast runs the engine and the analytics over already loaded data, so
// team reports can reuse one team query for every player.
func (s *ForecastService) forecast(
	ctx context.Context,
	player, teamID string,
	stat gamelog.Stat,
	next prediction.NextGame,
	line float64,
	teamHistory []gamelog.GameRecord,
	absences []absence.Absence,
) (Forecast, error) {
	games := gamelog.ForPlayer(teamHistory, player)
	out := Forecast{
		Player:      player,
		TeamID:      teamID,
		Stat:        stat,
		Games:       len(games),
		NextGame:    next,
		Absences:    absences,
		Consistency: insight.MeasureConsistency(games, stat),
		Trend:       insight.RecentTrend(games, stat, s.cfg.TrendWindow),
		GeneratedAt: s.now().UTC(),
	}

	result, ok, err := s.predict(ctx, games, player, stat, next)
	if err != nil {
		return Forecast{}, err
	}
	if !ok {
		out.Reason = fmt.Sprintf("insufficient history: %d games, need at least %d", len(games), minPredictGames)
		s.logger.DebugContext(ctx, "forecast unavailable", "player", player, "stat", stat, "games", len(games))
		return out, nil
	}

	adjusted := s.adjuster.Adjust(result.Prediction, player, teamHistory, absence.Names(absences), stat)
	analysis := insight.AnalyzeLine(games, stat, line, adjusted.Final)

	out.Available = true
	out.Prediction = &result
	out.Adjustment = &adjusted
	out.Line = &analysis
	return out, nil
}

func (s *ForecastService) predict(ctx context.Context, games []gamelog.GameRecord, player string, stat gamelog.Stat, next prediction.NextGame) (prediction.Result, bool, error) {
	if s.memo == nil {
		result, ok := s.engine.Predict(games, player, stat, next)
		return result, ok, nil
	}

	key := forecastCacheKey(player, stat, next, games)
	cached, err := s.memo.GetOrLoad(ctx, key, func(context.Context) (cachedPrediction, error) {
		result, ok := s.engine.Predict(games, player, stat, next)
		return cachedPrediction{result: result, ok: ok}, nil
	})
	if err != nil {
		return prediction.Result{}, false, err
	}
	return cached.result, cached.ok, nil
}

func nextGameFromInput(input ForecastInput) (prediction.NextGame, error) {
	next := prediction.DefaultNextGame()
	if input.IsHome != nil {
		next.Home = *input.IsHome
	}
	if input.RestDays != nil {
		if *input.RestDays < 0 {
			return prediction.NextGame{}, fmt.Errorf("%w: rest days must be >= 0", ErrInvalidInput)
		}
		next.RestDays = *input.RestDays
	}
	return next, nil
}

// forecastCacheKey identifies a prediction by its inputs. Any change to the
// player's history changes the fingerprint.
func forecastCacheKey(player string, stat gamelog.Stat, next prediction.NextGame, games []gamelog.GameRecord) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	for _, g := range games {
		buf.B = strconv.AppendInt(buf.B, g.PlayedAt.Unix(), 10)
		for _, v := range []float64{
			g.Points, g.Rebounds, g.Assists, g.Minutes, g.Efficiency,
			gamelog.Or(g.Extended.FieldGoalPct), gamelog.Or(g.Extended.ThreePointPct),
			gamelog.Or(g.Extended.FreeThrowPct), gamelog.Or(g.Extended.ThreesMade),
			gamelog.Or(g.Extended.Steals), gamelog.Or(g.Extended.Blocks),
			gamelog.Or(g.Extended.Turnovers), gamelog.Or(g.Extended.PlusMinus),
			gamelog.Or(g.Extended.OffensiveRebounds), gamelog.Or(g.Extended.DefensiveRebounds),
		} {
			_ = buf.WriteByte(',')
			buf.B = strconv.AppendFloat(buf.B, v, 'g', -1, 64)
		}
		_ = buf.WriteByte(',')
		buf.B = strconv.AppendBool(buf.B, g.Home)
		if rest, ok := g.Rest(); ok {
			_ = buf.WriteByte(',')
			buf.B = strconv.AppendInt(buf.B, int64(rest), 10)
		}
		_ = buf.WriteByte(';')
	}

	sum := xxhash.Sum64(buf.B)

	buf.Reset()
	_, _ = buf.WriteString("forecast:")
	_, _ = buf.WriteString(player)
	_ = buf.WriteByte(':')
	_, _ = buf.WriteString(string(stat))
	_ = buf.WriteByte(':')
	buf.B = strconv.AppendBool(buf.B, next.Home)
	_ = buf.WriteByte(':')
	buf.B = strconv.AppendInt(buf.B, int64(next.RestDays), 10)
	_ = buf.WriteByte(':')
	buf.B = strconv.AppendUint(buf.B, sum, 16)
	return buf.String()
}
