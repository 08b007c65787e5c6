package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/riskibarqy/nba-props/internal/domain/absence"
	"github.com/riskibarqy/nba-props/internal/domain/dataset"
	"github.com/riskibarqy/nba-props/internal/domain/gamelog"
	absencemock "github.com/riskibarqy/nba-props/internal/mocks/domain/absence"
	datasetmock "github.com/riskibarqy/nba-props/internal/mocks/domain/dataset"
	gamelogmock "github.com/riskibarqy/nba-props/internal/mocks/domain/gamelog"
)

type fakeStatsProvider struct {
	mu       sync.Mutex
	events   map[int64][]ExternalEvent
	stats    map[[2]int64]ExternalPlayerStats
	absences map[int64][]ExternalAbsence
	failures map[int64]error
	calls    int
}

func (f *fakeStatsProvider) RecentEvents(_ context.Context, providerPlayerID int64) ([]ExternalEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err := f.failures[providerPlayerID]; err != nil {
		return nil, err
	}
	return f.events[providerPlayerID], nil
}

func (f *fakeStatsProvider) PlayerEventStats(_ context.Context, eventID, providerPlayerID int64) (ExternalPlayerStats, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	stats, ok := f.stats[[2]int64{eventID, providerPlayerID}]
	return stats, ok, nil
}

func (f *fakeStatsProvider) NextEventAbsences(_ context.Context, providerTeamID int64) (ExternalEvent, []ExternalAbsence, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err := f.failures[providerTeamID]; err != nil {
		return ExternalEvent{}, nil, err
	}
	return ExternalEvent{ID: 9000 + providerTeamID}, f.absences[providerTeamID], nil
}

func lakersEvent(id int64, startAt time.Time, tournament string) ExternalEvent {
	return ExternalEvent{
		ID:           id,
		StartAt:      startAt,
		Tournament:   tournament,
		HomeTeamID:   3427,
		HomeTeamName: "Los Angeles Lakers",
		AwayTeamID:   3422,
		AwayTeamName: "Boston Celtics",
	}
}

func newTestIngestionProvider() *fakeStatsProvider {
	day := 24 * time.Hour
	return &fakeStatsProvider{
		events: map[int64][]ExternalEvent{
			817181: {
				lakersEvent(103, testNow.Add(-1*day), "NBA"),
				lakersEvent(102, testNow.Add(-3*day), "NBA Cup"),
				{ID: 101, StartAt: testNow.Add(-4 * day), Tournament: "NBA", HomeTeamID: 3428, HomeTeamName: "Golden State Warriors", AwayTeamID: 3427, AwayTeamName: "Los Angeles Lakers"},
				lakersEvent(100, testNow.Add(-40*day), "NBA"),
			},
			990033: {
				lakersEvent(103, testNow.Add(-1*day), "NBA"),
			},
			831023: {
				lakersEvent(103, testNow.Add(-1*day), "NBA"),
			},
		},
		stats: map[[2]int64]ExternalPlayerStats{
			{103, 817181}: {SecondsPlayed: 2130, Points: 28, Rebounds: 8, Assists: 9, FieldGoalsAttempted: 21, Steals: gamelog.Float(2)},
			{101, 817181}: {SecondsPlayed: 2000, Points: 22, Rebounds: 6, Assists: 7, FieldGoalsAttempted: 0},
			{100, 817181}: {SecondsPlayed: 2000, Points: 40, Rebounds: 6, Assists: 7, FieldGoalsAttempted: 25},
			{103, 990033}: {SecondsPlayed: 0},
			{103, 831023}: {SecondsPlayed: 2220, Points: 31, Rebounds: 9, Assists: 4, FieldGoalsAttempted: 24},
		},
		absences: map[int64][]ExternalAbsence{
			3427: {
				{PlayerName: "austin reaves", Reason: "ankle", Type: "injured"},
				{PlayerName: "  ", Reason: "unknown"},
			},
			3422: {
				{PlayerName: "Kristaps Porzingis", Type: "doubtful"},
			},
		},
		failures: map[int64]error{},
	}
}

func newTestIngestionService(t *testing.T, provider StatsProvider, games gamelog.Repository, absences absence.Repository, meta dataset.Repository) *IngestionService {
	t.Helper()

	svc := NewIngestionService(testDirectory(t), provider, games, absences, meta, IngestionConfig{
		Workers:   2,
		Retention: gamelog.RetentionPolicy{MaxAge: 15 * 24 * time.Hour, MaxPerPlayer: 10},
	}, nil)
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestIngestionService_Run(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	gameRepo := gamelogmock.NewRepository(t)
	absenceRepo := absencemock.NewRepository(t)
	metaRepo := datasetmock.NewRepository(t)

	var stored []gamelog.GameRecord
	gameRepo.
		On("ReplaceAll", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { stored = args.Get(1).([]gamelog.GameRecord) }).
		Return(nil).
		Once()
	var storedAbsences []absence.Absence
	absenceRepo.
		On("ReplaceAll", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { storedAbsences = args.Get(1).([]absence.Absence) }).
		Return(nil).
		Once()
	metaRepo.
		On("SaveMetadata", mock.Anything, mock.MatchedBy(func(m dataset.Metadata) bool {
			return m.Records == 3 && m.Players == 2 && m.Teams == 2 && m.Absences == 2 && m.Errors == 0 && m.UpdatedAt.Equal(testNow)
		})).
		Return(nil).
		Once()

	svc := newTestIngestionService(t, newTestIngestionProvider(), gameRepo, absenceRepo, metaRepo)
	got, err := svc.Run(ctx)
	if err != nil {
		t.Fatalf("run ingestion: %v", err)
	}
	if len(got.Failures) != 0 {
		t.Fatalf("unexpected failures: %+v", got.Failures)
	}
	if got.Metadata.Records != 3 {
		t.Fatalf("unexpected records got=%d want=3", got.Metadata.Records)
	}

	lebron := gamelog.ForPlayer(stored, "LeBron James")
	if len(lebron) != 2 {
		t.Fatalf("unexpected lebron games got=%d want=2", len(lebron))
	}
	away, home := lebron[0], lebron[1]
	if away.Home || away.Opponent != "Golden State Warriors" || away.Efficiency != 0 {
		t.Fatalf("unexpected away game: %+v", away)
	}
	if !home.Home || home.Opponent != "Boston Celtics" {
		t.Fatalf("unexpected home game: %+v", home)
	}
	if home.Minutes != 35.5 || home.Efficiency != 1.33 {
		t.Fatalf("unexpected derived stats minutes=%v efficiency=%v", home.Minutes, home.Efficiency)
	}
	if gamelog.Or(home.Extended.Steals) != 2 {
		t.Fatalf("unexpected steals got=%v want=2", gamelog.Or(home.Extended.Steals))
	}
	if rest, ok := home.Rest(); !ok || rest != 3 {
		t.Fatalf("unexpected rest days got=%d ok=%v want=3", rest, ok)
	}
	if _, ok := away.Rest(); ok {
		t.Fatalf("expected unknown rest for first game")
	}
	if len(gamelog.ForPlayer(stored, "Austin Reaves")) != 0 {
		t.Fatalf("expected did-not-play game to be skipped")
	}

	if len(storedAbsences) != 2 {
		t.Fatalf("unexpected absences got=%d want=2", len(storedAbsences))
	}
	byTeam := map[string]absence.Absence{}
	for _, a := range storedAbsences {
		byTeam[a.TeamID] = a
	}
	if a := byTeam["lal"]; a.Player != "Austin Reaves" || a.Reason != "injured: ankle" {
		t.Fatalf("unexpected lakers absence: %+v", a)
	}
	if a := byTeam["bos"]; a.Player != "Kristaps Porzingis" || a.Reason != "doubtful" {
		t.Fatalf("unexpected celtics absence: %+v", a)
	}
}

func TestIngestionService_Run_RecordsFailures(t *testing.T) {
	t.Parallel()

	provider := newTestIngestionProvider()
	provider.failures[990033] = errors.New("provider timeout")
	provider.failures[3422] = errors.New("lineups unavailable")

	gameRepo := gamelogmock.NewRepository(t)
	absenceRepo := absencemock.NewRepository(t)
	metaRepo := datasetmock.NewRepository(t)
	gameRepo.On("ReplaceAll", mock.Anything, mock.Anything).Return(nil).Once()
	absenceRepo.On("ReplaceAll", mock.Anything, mock.Anything).Return(nil).Once()
	metaRepo.On("SaveMetadata", mock.Anything, mock.MatchedBy(func(m dataset.Metadata) bool { return m.Errors == 2 })).Return(nil).Once()

	svc := newTestIngestionService(t, provider, gameRepo, absenceRepo, metaRepo)
	got, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("run ingestion: %v", err)
	}
	if len(got.Failures) != 2 {
		t.Fatalf("unexpected failures got=%d want=2", len(got.Failures))
	}
	if f := got.Failures[0]; f.TeamID != "bos" || f.Stage != "absences" || f.Player != "" {
		t.Fatalf("unexpected first failure: %+v", f)
	}
	if f := got.Failures[1]; f.TeamID != "lal" || f.Stage != "player_games" || f.Player != "Austin Reaves" {
		t.Fatalf("unexpected second failure: %+v", f)
	}
}

func TestIngestionService_Run_KeepsDatasetWhenEverythingFails(t *testing.T) {
	t.Parallel()

	boom := errors.New("provider down")
	provider := newTestIngestionProvider()
	for _, id := range []int64{817181, 990033, 831023, 3427, 3422} {
		provider.failures[id] = boom
	}

	svc := newTestIngestionService(t, provider, gamelogmock.NewRepository(t), absencemock.NewRepository(t), datasetmock.NewRepository(t))
	got, err := svc.Run(context.Background())
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got=%v", err)
	}
	if len(got.Failures) != 5 {
		t.Fatalf("unexpected failures got=%d want=5", len(got.Failures))
	}
}

func TestIngestionService_Run_WithoutProvider(t *testing.T) {
	t.Parallel()

	svc := newTestIngestionService(t, nil, gamelogmock.NewRepository(t), absencemock.NewRepository(t), datasetmock.NewRepository(t))
	if _, err := svc.Run(context.Background()); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got=%v", err)
	}
}

func TestIngestionService_Run_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	provider := newTestIngestionProvider()
	svc := newTestIngestionService(t, provider, gamelogmock.NewRepository(t), absencemock.NewRepository(t), datasetmock.NewRepository(t))
	if _, err := svc.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got=%v", err)
	}
	if provider.calls != 0 {
		t.Fatalf("expected no provider calls, got=%d", provider.calls)
	}
}

func TestIngestionService_Run_RejectsOverlappingRuns(t *testing.T) {
	t.Parallel()

	provider := newTestIngestionProvider()
	svc := newTestIngestionService(t, provider, gamelogmock.NewRepository(t), absencemock.NewRepository(t), datasetmock.NewRepository(t))
	svc.running.Store(true)

	if _, err := svc.Run(context.Background()); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got=%v", err)
	}
	if provider.calls != 0 {
		t.Fatalf("expected no provider calls, got=%d", provider.calls)
	}
}

func TestAbsenceReason(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   ExternalAbsence
		want string
	}{
		{in: ExternalAbsence{Reason: "knee", Type: "injured"}, want: "injured: knee"},
		{in: ExternalAbsence{Reason: " knee "}, want: "knee"},
		{in: ExternalAbsence{Type: "suspended"}, want: "suspended"},
		{in: ExternalAbsence{}, want: "unknown"},
	}
	for _, tc := range tests {
		if got := absenceReason(tc.in); got != tc.want {
			t.Fatalf("absenceReason(%+v) got=%q want=%q", tc.in, got, tc.want)
		}
	}
}
