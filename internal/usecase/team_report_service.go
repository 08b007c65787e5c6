package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/nba-props/internal/domain/absence"
	"github.com/riskibarqy/nba-props/internal/domain/adjustment"
	"github.com/riskibarqy/nba-props/internal/domain/gamelog"
	"github.com/riskibarqy/nba-props/internal/domain/insight"
	"github.com/riskibarqy/nba-props/internal/domain/prediction"
	"github.com/riskibarqy/nba-props/internal/domain/roster"
)

const defaultReportConcurrency = 8

type TeamReportConfig struct {
	Concurrency int
	Returns     adjustment.ReturnConfig
}

// TeamReport covers every rostered player of one team for one stat.
type TeamReport struct {
	TeamID      string
	TeamName    string
	Stat        gamelog.Stat
	Forecasts   []Forecast
	Absences    []absence.Absence
	Impact      adjustment.Impact
	Returns     []adjustment.Return
	Profile     insight.TeamProfile
	GeneratedAt time.Time
}

type TeamReportService struct {
	directory roster.Directory
	games     gamelog.Repository
	absences  absence.Repository
	forecasts *ForecastService
	adjuster  *adjustment.Adjuster
	cfg       TeamReportConfig
	now       func() time.Time
}

func NewTeamReportService(
	directory roster.Directory,
	games gamelog.Repository,
	absences absence.Repository,
	forecasts *ForecastService,
	cfg TeamReportConfig,
) *TeamReportService {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = defaultReportConcurrency
	}
	if cfg.Returns.GapDays < 1 {
		cfg.Returns = adjustment.DefaultReturnConfig()
	}

	return &TeamReportService{
		directory: directory,
		games:     games,
		absences:  absences,
		forecasts: forecasts,
		adjuster:  forecasts.adjuster,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *TeamReportService) Report(ctx context.Context, teamID, rawStat string) (TeamReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamReportService.Report", attribute.String("team_id", teamID))
	defer span.End()

	teamID = strings.ToLower(strings.TrimSpace(teamID))
	if teamID == "" {
		return TeamReport{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}
	stat, err := gamelog.ParseStat(rawStat)
	if err != nil {
		return TeamReport{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	team, ok := s.findTeam(teamID)
	if !ok {
		return TeamReport{}, fmt.Errorf("%w: team %q", ErrNotFound, teamID)
	}

	teamHistory, err := s.games.ListByTeam(ctx, team.ID)
	if err != nil {
		return TeamReport{}, fmt.Errorf("list team history team_id=%s: %w", team.ID, err)
	}
	absences, err := s.absences.ListByTeam(ctx, team.ID)
	if err != nil {
		return TeamReport{}, fmt.Errorf("list absences team_id=%s: %w", team.ID, err)
	}

	now := s.now().UTC()
	report := TeamReport{
		TeamID:      team.ID,
		TeamName:    team.Name,
		Stat:        stat,
		Absences:    absences,
		Impact:      s.adjuster.Impact(teamHistory, absence.Names(absences)),
		Returns:     adjustment.DetectReturns(teamHistory, now, s.cfg.Returns),
		Profile:     insight.ProfileTeam(team.ID, teamHistory, stat),
		GeneratedAt: now,
	}

	next := prediction.DefaultNextGame()
	line := s.forecasts.cfg.DefaultLine
	p := pool.NewWithResults[Forecast]().WithContext(ctx).WithMaxGoroutines(s.cfg.Concurrency)
	for _, player := range s.directory.Players(team.ID) {
		name := player.Name
		p.Go(func(ctx context.Context) (Forecast, error) {
			if err := ctx.Err(); err != nil {
				return Forecast{}, err
			}
			return s.forecasts.forecast(ctx, name, team.ID, stat, next, line, teamHistory, absences)
		})
	}
	forecasts, err := p.Wait()
	if err != nil {
		return TeamReport{}, fmt.Errorf("forecast team players team_id=%s: %w", team.ID, err)
	}

	sortForecasts(forecasts)
	report.Forecasts = forecasts
	return report, nil
}

func (s *TeamReportService) findTeam(teamID string) (roster.Team, bool) {
	for _, t := range s.directory.Teams() {
		if strings.EqualFold(t.ID, teamID) {
			return t, true
		}
	}
	return roster.Team{}, false
}

// sortForecasts orders available forecasts by final value, then the rest
// by name.
func sortForecasts(items []Forecast) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Available != b.Available {
			return a.Available
		}
		if a.Available && a.Adjustment.Final != b.Adjustment.Final {
			return a.Adjustment.Final > b.Adjustment.Final
		}
		return a.Player < b.Player
	})
}
