package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/nba-props/internal/domain/absence"
	"github.com/riskibarqy/nba-props/internal/domain/dataset"
	"github.com/riskibarqy/nba-props/internal/domain/gamelog"
	"github.com/riskibarqy/nba-props/internal/domain/roster"
	"github.com/riskibarqy/nba-props/internal/platform/logging"
)

const (
	defaultIngestWorkers = 4
	defaultTournament    = "NBA"
)

type IngestionConfig struct {
	Workers    int
	Retention  gamelog.RetentionPolicy
	Tournament string
}

type IngestionFailure struct {
	Player string `json:"player,omitempty"`
	TeamID string `json:"team_id"`
	Stage  string `json:"stage"`
	Error  string `json:"error"`
}

type IngestionResult struct {
	Metadata dataset.Metadata   `json:"metadata"`
	Failures []IngestionFailure `json:"failures"`
}

// IngestionService rebuilds the rolling history from the provider. Each run
// replaces the stored dataset; per-player failures are recorded and do not
// abort the run.
type IngestionService struct {
	directory roster.Directory
	provider  StatsProvider
	games     gamelog.Repository
	absences  absence.Repository
	meta      dataset.Repository
	cfg       IngestionConfig
	logger    *logging.Logger
	now       func() time.Time
	running   atomic.Bool
}

func NewIngestionService(
	directory roster.Directory,
	provider StatsProvider,
	games gamelog.Repository,
	absences absence.Repository,
	meta dataset.Repository,
	cfg IngestionConfig,
	logger *logging.Logger,
) *IngestionService {
	if cfg.Workers < 1 {
		cfg.Workers = defaultIngestWorkers
	}
	if strings.TrimSpace(cfg.Tournament) == "" {
		cfg.Tournament = defaultTournament
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &IngestionService{
		directory: directory,
		provider:  provider,
		games:     games,
		absences:  absences,
		meta:      meta,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

type ingestTask struct {
	team   roster.Team
	player *roster.Player
}

type ingestCollector struct {
	mu       sync.Mutex
	records  []gamelog.GameRecord
	absences []absence.Absence
	failures []IngestionFailure
	players  int
}

func (c *ingestCollector) fail(task ingestTask, stage string, err error) {
	f := IngestionFailure{TeamID: task.team.ID, Stage: stage, Error: err.Error()}
	if task.player != nil {
		f.Player = task.player.Name
	}
	c.mu.Lock()
	c.failures = append(c.failures, f)
	c.mu.Unlock()
}

func (s *IngestionService) Run(ctx context.Context) (IngestionResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.Run")
	defer span.End()

	if s.provider == nil {
		return IngestionResult{}, fmt.Errorf("%w: stats provider is not configured", ErrDependencyUnavailable)
	}
	if !s.running.CompareAndSwap(false, true) {
		return IngestionResult{}, fmt.Errorf("%w: an ingestion run is already in progress", ErrConflict)
	}
	defer s.running.Store(false)

	start := s.now()
	teams := s.directory.Teams()
	tasks := make([]ingestTask, 0, len(teams)*16)
	for _, team := range teams {
		if team.ProviderID > 0 {
			tasks = append(tasks, ingestTask{team: team})
		}
		for _, player := range s.directory.Players(team.ID) {
			if player.ProviderID <= 0 {
				continue
			}
			player := player
			tasks = append(tasks, ingestTask{team: team, player: &player})
		}
	}

	s.logger.InfoContext(ctx, "ingestion started", "teams", len(teams), "tasks", len(tasks), "workers", s.cfg.Workers)

	pool, err := ants.NewPool(s.cfg.Workers)
	if err != nil {
		return IngestionResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	collector := &ingestCollector{}
	var workers sync.WaitGroup
	for _, task := range tasks {
		task := task
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			if ctx.Err() != nil {
				return
			}
			if task.player == nil {
				s.ingestAbsences(ctx, task, start, collector)
				return
			}
			s.ingestPlayer(ctx, task, start, collector)
		}); err != nil {
			workers.Done()
			return IngestionResult{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}
	workers.Wait()

	if err := ctx.Err(); err != nil {
		return IngestionResult{}, err
	}

	records := gamelog.DeriveRestDays(gamelog.Dedupe(collector.records))
	records = s.cfg.Retention.Apply(records, start)
	valid := records[:0]
	for _, r := range records {
		if err := r.Validate(); err != nil {
			s.logger.WarnContext(ctx, "drop invalid game record", "player", r.Player, "error", err)
			continue
		}
		valid = append(valid, r)
	}

	sort.SliceStable(collector.failures, func(i, j int) bool {
		a, b := collector.failures[i], collector.failures[j]
		if a.TeamID != b.TeamID {
			return a.TeamID < b.TeamID
		}
		return a.Player < b.Player
	})

	if len(valid) == 0 && len(collector.failures) > 0 {
		return IngestionResult{Failures: collector.failures}, fmt.Errorf(
			"%w: ingestion produced no records with %d failures, keeping previous dataset",
			ErrDependencyUnavailable, len(collector.failures),
		)
	}

	if err := s.games.ReplaceAll(ctx, valid); err != nil {
		return IngestionResult{}, fmt.Errorf("replace game records: %w", err)
	}
	if err := s.absences.ReplaceAll(ctx, collector.absences); err != nil {
		return IngestionResult{}, fmt.Errorf("replace absences: %w", err)
	}

	summary := dataset.Summarize(valid)
	meta := dataset.Metadata{
		UpdatedAt:  s.now().UTC(),
		Players:    collector.players,
		Records:    summary.Records,
		Teams:      len(teams),
		Absences:   len(collector.absences),
		Errors:     len(collector.failures),
		DurationMs: s.now().Sub(start).Milliseconds(),
	}
	if s.meta != nil {
		if err := s.meta.SaveMetadata(ctx, meta); err != nil {
			return IngestionResult{}, fmt.Errorf("save ingestion metadata: %w", err)
		}
	}

	s.logger.InfoContext(ctx, "ingestion completed",
		"players", meta.Players,
		"records", meta.Records,
		"absences", meta.Absences,
		"errors", meta.Errors,
		"duration_ms", meta.DurationMs,
	)

	return IngestionResult{Metadata: meta, Failures: collector.failures}, nil
}

func (s *IngestionService) ingestPlayer(ctx context.Context, task ingestTask, now time.Time, out *ingestCollector) {
	records, err := s.fetchPlayerGames(ctx, task.team, *task.player, now)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		s.logger.WarnContext(ctx, "ingest player failed", "player", task.player.Name, "team_id", task.team.ID, "error", err)
		out.fail(task, "player_games", err)
		return
	}

	out.mu.Lock()
	out.records = append(out.records, records...)
	if len(records) > 0 {
		out.players++
	}
	out.mu.Unlock()
}

func (s *IngestionService) fetchPlayerGames(ctx context.Context, team roster.Team, player roster.Player, now time.Time) ([]gamelog.GameRecord, error) {
	events, err := s.provider.RecentEvents(ctx, player.ProviderID)
	if err != nil {
		return nil, fmt.Errorf("recent events: %w", err)
	}

	var cutoff time.Time
	if s.cfg.Retention.MaxAge > 0 {
		cutoff = now.Add(-s.cfg.Retention.MaxAge)
	}

	out := make([]gamelog.GameRecord, 0, len(events))
	for _, ev := range events {
		if s.cfg.Retention.MaxPerPlayer > 0 && len(out) >= s.cfg.Retention.MaxPerPlayer {
			break
		}
		if ev.Tournament != s.cfg.Tournament {
			continue
		}
		if !cutoff.IsZero() && ev.StartAt.Before(cutoff) {
			continue
		}

		stats, ok, err := s.provider.PlayerEventStats(ctx, ev.ID, player.ProviderID)
		if err != nil {
			return nil, fmt.Errorf("event %d statistics: %w", ev.ID, err)
		}
		if !ok || stats.SecondsPlayed <= 0 {
			continue
		}
		out = append(out, mapGameRecord(team, player, ev, stats))
	}
	return out, nil
}

func mapGameRecord(team roster.Team, player roster.Player, ev ExternalEvent, stats ExternalPlayerStats) gamelog.GameRecord {
	home := isHomeSide(team, ev)
	opponent := ev.AwayTeamName
	if !home {
		opponent = ev.HomeTeamName
	}

	efficiency := 0.0
	if stats.FieldGoalsAttempted > 0 {
		efficiency = math.Round(stats.Points/stats.FieldGoalsAttempted*100) / 100
	}

	return gamelog.GameRecord{
		Player:           player.Name,
		ProviderPlayerID: player.ProviderID,
		TeamID:           team.ID,
		EventID:          ev.ID,
		PlayedAt:         ev.StartAt.UTC(),
		Opponent:         opponent,
		Home:             home,
		Points:           stats.Points,
		Rebounds:         stats.Rebounds,
		Assists:          stats.Assists,
		Minutes:          math.Round(float64(stats.SecondsPlayed)/60*10) / 10,
		Efficiency:       efficiency,
		Extended: gamelog.ExtendedStats{
			FieldGoalPct:      stats.FieldGoalPct,
			ThreePointPct:     stats.ThreePointPct,
			FreeThrowPct:      stats.FreeThrowPct,
			ThreesMade:        stats.ThreesMade,
			Steals:            stats.Steals,
			Blocks:            stats.Blocks,
			Turnovers:         stats.Turnovers,
			PlusMinus:         stats.PlusMinus,
			OffensiveRebounds: stats.OffensiveRebounds,
			DefensiveRebounds: stats.DefensiveRebounds,
		},
	}
}

// isHomeSide matches on provider ids and falls back to the team name.
func isHomeSide(team roster.Team, ev ExternalEvent) bool {
	if team.ProviderID > 0 && (ev.HomeTeamID > 0 || ev.AwayTeamID > 0) {
		return ev.HomeTeamID == team.ProviderID
	}
	return team.Name != "" && strings.Contains(ev.HomeTeamName, team.Name)
}

func (s *IngestionService) ingestAbsences(ctx context.Context, task ingestTask, now time.Time, out *ingestCollector) {
	_, missing, err := s.provider.NextEventAbsences(ctx, task.team.ProviderID)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		s.logger.WarnContext(ctx, "absence report unavailable", "team_id", task.team.ID, "error", err)
		out.fail(task, "absences", err)
		return
	}

	items := make([]absence.Absence, 0, len(missing))
	for _, m := range missing {
		name := strings.TrimSpace(m.PlayerName)
		if canonical, ok := s.directory.Canonical(name); ok {
			name = canonical
		}
		item := absence.Absence{
			Player:     name,
			TeamID:     task.team.ID,
			Reason:     absenceReason(m),
			ReportedAt: now.UTC(),
		}
		if err := item.Validate(); err != nil {
			continue
		}
		items = append(items, item)
	}

	out.mu.Lock()
	out.absences = append(out.absences, items...)
	out.mu.Unlock()
}

func absenceReason(m ExternalAbsence) string {
	reason := strings.TrimSpace(m.Reason)
	kind := strings.TrimSpace(m.Type)
	switch {
	case reason != "" && kind != "":
		return kind + ": " + reason
	case reason != "":
		return reason
	case kind != "":
		return kind
	default:
		return "unknown"
	}
}
