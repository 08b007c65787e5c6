package sofascore

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/nba-props/internal/platform/logging"
	"github.com/riskibarqy/nba-props/internal/platform/resilience"
	"github.com/riskibarqy/nba-props/internal/usecase"
)

type recordedRequest struct {
	endpoint string
	outcome  string
}

type fakeRecorder struct {
	mu    sync.Mutex
	items []recordedRequest
}

func (r *fakeRecorder) ObserveProviderRequest(endpoint, outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, recordedRequest{endpoint: endpoint, outcome: outcome})
}

func newTestClient(t *testing.T, handler http.Handler, recorder RequestRecorder) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(ClientConfig{
		HTTPClient:   server.Client(),
		BaseURL:      server.URL + "/",
		MaxRetries:   2,
		RetryBackoff: time.Millisecond,
		Logger:       logging.NewNop(),
		CircuitBreaker: resilience.BreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
		Recorder: recorder,
	})
}

func TestClient_RecentEvents(t *testing.T) {
	t.Parallel()

	var headers http.Header
	mux := http.NewServeMux()
	mux.HandleFunc("/player/817181/events/last/0", func(w http.ResponseWriter, r *http.Request) {
		headers = r.Header.Clone()
		_, _ = w.Write([]byte(`{"events":[
			{"id":1,"startTimestamp":1772000000,"tournament":{"name":"NBA"},"homeTeam":{"id":3427,"name":"Los Angeles Lakers"},"awayTeam":{"id":3428,"name":"Golden State Warriors"}},
			{"id":2,"startTimestamp":1772200000,"tournament":{"name":"","uniqueTournament":{"name":"NBA Cup"}},"homeTeam":{"id":3422,"name":"Boston Celtics"},"awayTeam":{"id":3427,"name":"Los Angeles Lakers"}},
			{"id":0,"startTimestamp":1772300000}
		],"hasNextPage":false}`))
	})

	recorder := &fakeRecorder{}
	client := newTestClient(t, mux, recorder)
	events, err := client.RecentEvents(context.Background(), 817181)
	if err != nil {
		t.Fatalf("recent events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("unexpected events got=%d want=2", len(events))
	}
	if events[0].ID != 2 || events[0].Tournament != "NBA Cup" {
		t.Fatalf("expected newest event first with unique tournament fallback, got=%+v", events[0])
	}
	if events[1].HomeTeamID != 3427 || events[1].AwayTeamName != "Golden State Warriors" {
		t.Fatalf("unexpected mapped event: %+v", events[1])
	}
	if !events[1].StartAt.Equal(time.Unix(1772000000, 0).UTC()) {
		t.Fatalf("unexpected start got=%v", events[1].StartAt)
	}
	if headers.Get("Referer") != defaultReferer || headers.Get("User-Agent") == "" {
		t.Fatalf("expected browser headers, got=%v", headers)
	}
	if len(recorder.items) != 1 || recorder.items[0] != (recordedRequest{endpoint: "player_events", outcome: "ok"}) {
		t.Fatalf("unexpected recorded requests: %+v", recorder.items)
	}
}

func TestClient_PlayerEventStats(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/event/10/player/817181/statistics", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"statistics":{"secondsPlayed":2130,"points":28,"rebounds":8,"assists":9,"fieldGoalsAttempted":21,"fieldGoalPercentage":52.4,"steals":2}}`))
	})
	mux.HandleFunc("/event/11/player/817181/statistics", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/event/12/player/817181/statistics", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	client := newTestClient(t, mux, nil)
	ctx := context.Background()

	stats, ok, err := client.PlayerEventStats(ctx, 10, 817181)
	if err != nil || !ok {
		t.Fatalf("player stats ok=%v err=%v", ok, err)
	}
	if stats.SecondsPlayed != 2130 || stats.Points != 28 || stats.FieldGoalsAttempted != 21 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.FieldGoalPct == nil || *stats.FieldGoalPct != 52.4 || stats.Blocks != nil {
		t.Fatalf("unexpected optional stats: fg=%v blocks=%v", stats.FieldGoalPct, stats.Blocks)
	}

	for _, eventID := range []int64{11, 12} {
		if _, ok, err := client.PlayerEventStats(ctx, eventID, 817181); err != nil || ok {
			t.Fatalf("event %d expected missing stats, ok=%v err=%v", eventID, ok, err)
		}
	}

	if _, _, err := client.PlayerEventStats(ctx, 0, 817181); !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got=%v", err)
	}
}

func TestClient_NextEventAbsences(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/team/3427/events/next/0", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"events":[
			{"id":21,"startTimestamp":1773000000,"tournament":{"name":"NBA"},"homeTeam":{"id":3422,"name":"Boston Celtics"},"awayTeam":{"id":3427,"name":"Los Angeles Lakers"}},
			{"id":22,"startTimestamp":1773200000,"tournament":{"name":"NBA"},"homeTeam":{"id":3427,"name":"Los Angeles Lakers"},"awayTeam":{"id":3428,"name":"Golden State Warriors"}}
		]}`))
	})
	mux.HandleFunc("/event/21/lineups", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{
			"home":{"missingPlayers":[{"player":{"id":1,"name":"Jayson Tatum"},"type":"missing","reason":1}]},
			"away":{"missingPlayers":[
				{"player":{"id":990033,"name":"Austin Reaves"},"type":"missing","description":"Ankle"},
				{"player":{"id":2,"name":"Jaxson Hayes"},"type":"doubtful","reason":3},
				{"player":{"id":3,"name":"  "},"type":"missing"}
			]}
		}`))
	})

	client := newTestClient(t, mux, nil)
	event, missing, err := client.NextEventAbsences(context.Background(), 3427)
	if err != nil {
		t.Fatalf("next event absences: %v", err)
	}
	if event.ID != 21 {
		t.Fatalf("expected earliest event, got=%d", event.ID)
	}
	if len(missing) != 2 {
		t.Fatalf("expected away side without blank names, got=%+v", missing)
	}
	if missing[0].PlayerName != "Austin Reaves" || missing[0].Reason != "Ankle" || missing[0].ProviderPlayerID != 990033 {
		t.Fatalf("unexpected first absence: %+v", missing[0])
	}
	if missing[1].Type != "doubtful" || missing[1].Reason != "code 3" {
		t.Fatalf("unexpected second absence: %+v", missing[1])
	}
}

func TestClient_NextEventAbsences_NoUpcomingGame(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/team/3427/events/next/0", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/team/3428/events/next/0", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"events":[{"id":31,"startTimestamp":1773000000,"homeTeam":{"id":3428},"awayTeam":{"id":3427}}]}`))
	})
	mux.HandleFunc("/event/31/lineups", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	client := newTestClient(t, mux, nil)
	for _, teamID := range []int64{3427, 3428} {
		_, missing, err := client.NextEventAbsences(context.Background(), teamID)
		if err != nil {
			t.Fatalf("team %d: %v", teamID, err)
		}
		if len(missing) != 0 {
			t.Fatalf("team %d expected no absences, got=%+v", teamID, missing)
		}
	}
}

func TestClient_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"events":[]}`))
	})

	client := newTestClient(t, handler, nil)
	events, err := client.RecentEvents(context.Background(), 1)
	if err != nil {
		t.Fatalf("expected retry to recover, got=%v", err)
	}
	if len(events) != 0 || calls.Load() != 3 {
		t.Fatalf("unexpected result events=%d calls=%d", len(events), calls.Load())
	}
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	})

	client := newTestClient(t, handler, nil)
	_, err := client.RecentEvents(context.Background(), 1)
	if err == nil {
		t.Fatalf("expected forbidden error")
	}
	if errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("forbidden must not be reported as transient, got=%v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("unexpected calls got=%d want=1", calls.Load())
	}
}

func TestClient_CircuitOpensAfterTransientFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	recorder := &fakeRecorder{}
	client := newTestClient(t, handler, recorder)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := client.RecentEvents(ctx, 1); !errors.Is(err, usecase.ErrDependencyUnavailable) {
			t.Fatalf("attempt %d expected dependency unavailable, got=%v", i, err)
		}
	}
	before := calls.Load()

	if _, err := client.RecentEvents(ctx, 1); !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected open circuit, got=%v", err)
	}
	if calls.Load() != before {
		t.Fatalf("open circuit must not reach the server, calls before=%d after=%d", before, calls.Load())
	}
	if client.breaker.State() != resilience.CircuitStateOpen {
		t.Fatalf("unexpected breaker state got=%s", client.breaker.State())
	}
	last := recorder.items[len(recorder.items)-1]
	if last.outcome != "rejected" {
		t.Fatalf("expected rejected outcome, got=%+v", last)
	}
}

func TestClient_ThrottlesRequests(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"events":[]}`))
	})
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		HTTPClient:      server.Client(),
		BaseURL:         server.URL,
		RequestInterval: 40 * time.Millisecond,
		Logger:          logging.NewNop(),
	})

	started := time.Now()
	for i := int64(1); i <= 3; i++ {
		if _, err := client.RecentEvents(context.Background(), i); err != nil {
			t.Fatalf("recent events: %v", err)
		}
	}
	if elapsed := time.Since(started); elapsed < 70*time.Millisecond {
		t.Fatalf("expected throttled requests, elapsed=%v", elapsed)
	}
}

func TestMissingReason(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   missingPlayerPayload
		want string
	}{
		{name: "description wins", in: missingPlayerPayload{Description: " Knee ", Reason: "rest"}, want: "Knee"},
		{name: "string reason", in: missingPlayerPayload{Reason: " rest "}, want: "rest"},
		{name: "numeric reason", in: missingPlayerPayload{Reason: float64(2)}, want: "code 2"},
		{name: "empty", in: missingPlayerPayload{}, want: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := missingReason(tc.in); got != tc.want {
				t.Fatalf("got=%q want=%q", got, tc.want)
			}
		})
	}
}
