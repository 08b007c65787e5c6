package sofascore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"github.com/riskibarqy/nba-props/internal/platform/logging"
	"github.com/riskibarqy/nba-props/internal/platform/resilience"
	"github.com/riskibarqy/nba-props/internal/usecase"
)

const (
	defaultBaseURL   = "https://api.sofascore.com/api/v1"
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	defaultReferer   = "https://www.sofascore.com/"
	maxBodyBytes     = 6 << 20
)

var (
	errSofascoreTransient = crerr.New("sofascore transient failure")
	errSofascoreNotFound  = crerr.New("sofascore resource not found")
)

// RequestRecorder observes every provider round trip. outcome is one of
// ok, not_found, error or rejected.
type RequestRecorder interface {
	ObserveProviderRequest(endpoint, outcome string, elapsed time.Duration)
}

type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	// RetryBackoff is the linear backoff unit between attempts.
	RetryBackoff time.Duration
	// RequestInterval spaces consecutive requests. Zero disables throttling.
	RequestInterval time.Duration
	UserAgent       string
	Logger          *logging.Logger
	CircuitBreaker  resilience.BreakerConfig
	Recorder        RequestRecorder
}

// Client reads player events, box scores and lineups from the sofascore API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	retry      resilience.RetryPolicy
	limiter    *rate.Limiter
	logger     *logging.Logger
	breaker    *resilience.Breaker
	flight     resilience.Group[[]byte]
	recorder   RequestRecorder
	now        func() time.Time
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 15 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = time.Second
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(cfg.RequestInterval), 1)
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		userAgent:  userAgent,
		retry:      resilience.RetryPolicy{MaxRetries: max(cfg.MaxRetries, 0), Backoff: backoff},
		limiter:    limiter,
		logger:     logger,
		breaker:    resilience.NewBreaker(cfg.CircuitBreaker),
		recorder:   cfg.Recorder,
		now:        time.Now,
	}
}

// RecentEvents returns the player's latest events across every tournament,
// newest first.
func (c *Client) RecentEvents(ctx context.Context, providerPlayerID int64) ([]usecase.ExternalEvent, error) {
	if providerPlayerID <= 0 {
		return nil, fmt.Errorf("%w: provider player id must be greater than zero", usecase.ErrInvalidInput)
	}

	var payload eventsEnvelope
	path := "/player/" + strconv.FormatInt(providerPlayerID, 10) + "/events/last/0"
	if err := c.doJSON(ctx, "player_events", path, &payload); err != nil {
		if errors.Is(err, errSofascoreNotFound) {
			return []usecase.ExternalEvent{}, nil
		}
		return nil, fmt.Errorf("fetch events player_id=%d: %w", providerPlayerID, err)
	}

	out := make([]usecase.ExternalEvent, 0, len(payload.Events))
	for _, item := range payload.Events {
		if item.ID <= 0 || item.StartTimestamp <= 0 {
			continue
		}
		out = append(out, mapEvent(item))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartAt.After(out[j].StartAt) })
	return out, nil
}

func (c *Client) PlayerEventStats(ctx context.Context, eventID, providerPlayerID int64) (usecase.ExternalPlayerStats, bool, error) {
	if eventID <= 0 || providerPlayerID <= 0 {
		return usecase.ExternalPlayerStats{}, false, fmt.Errorf("%w: event id and provider player id are required", usecase.ErrInvalidInput)
	}

	var payload playerStatisticsEnvelope
	path := "/event/" + strconv.FormatInt(eventID, 10) + "/player/" + strconv.FormatInt(providerPlayerID, 10) + "/statistics"
	if err := c.doJSON(ctx, "player_statistics", path, &payload); err != nil {
		if errors.Is(err, errSofascoreNotFound) {
			return usecase.ExternalPlayerStats{}, false, nil
		}
		return usecase.ExternalPlayerStats{}, false, fmt.Errorf("fetch statistics event_id=%d player_id=%d: %w", eventID, providerPlayerID, err)
	}
	if payload.Statistics == nil {
		return usecase.ExternalPlayerStats{}, false, nil
	}

	s := payload.Statistics
	return usecase.ExternalPlayerStats{
		SecondsPlayed:       s.SecondsPlayed,
		Points:              s.Points,
		Rebounds:            s.Rebounds,
		Assists:             s.Assists,
		FieldGoalsAttempted: s.FieldGoalsAttempted,
		FieldGoalPct:        s.FieldGoalPercentage,
		ThreePointPct:       s.ThreePointsPercentage,
		FreeThrowPct:        s.FreeThrowsPercentage,
		ThreesMade:          s.ThreePointsMade,
		Steals:              s.Steals,
		Blocks:              s.Blocks,
		Turnovers:           s.Turnovers,
		PlusMinus:           s.PlusMinus,
		OffensiveRebounds:   s.OffensiveRebounds,
		DefensiveRebounds:   s.DefensiveRebounds,
	}, true, nil
}

// NextEventAbsences returns a zero event and no absences when the team has no
// scheduled game or the lineups are not published yet.
func (c *Client) NextEventAbsences(ctx context.Context, providerTeamID int64) (usecase.ExternalEvent, []usecase.ExternalAbsence, error) {
	if providerTeamID <= 0 {
		return usecase.ExternalEvent{}, nil, fmt.Errorf("%w: provider team id must be greater than zero", usecase.ErrInvalidInput)
	}

	var next eventsEnvelope
	path := "/team/" + strconv.FormatInt(providerTeamID, 10) + "/events/next/0"
	if err := c.doJSON(ctx, "team_next_events", path, &next); err != nil {
		if errors.Is(err, errSofascoreNotFound) {
			return usecase.ExternalEvent{}, []usecase.ExternalAbsence{}, nil
		}
		return usecase.ExternalEvent{}, nil, fmt.Errorf("fetch next events team_id=%d: %w", providerTeamID, err)
	}

	upcoming, ok := earliestEvent(next.Events)
	if !ok {
		return usecase.ExternalEvent{}, []usecase.ExternalAbsence{}, nil
	}
	event := mapEvent(upcoming)

	var lineups lineupsEnvelope
	path = "/event/" + strconv.FormatInt(upcoming.ID, 10) + "/lineups"
	if err := c.doJSON(ctx, "event_lineups", path, &lineups); err != nil {
		if errors.Is(err, errSofascoreNotFound) {
			return event, []usecase.ExternalAbsence{}, nil
		}
		return usecase.ExternalEvent{}, nil, fmt.Errorf("fetch lineups event_id=%d: %w", upcoming.ID, err)
	}

	side := lineups.Away
	if upcoming.HomeTeam.ID == providerTeamID {
		side = lineups.Home
	}

	out := make([]usecase.ExternalAbsence, 0, len(side.MissingPlayers))
	for _, item := range side.MissingPlayers {
		name := strings.TrimSpace(item.Player.Name)
		if name == "" {
			continue
		}
		out = append(out, usecase.ExternalAbsence{
			PlayerName:       name,
			ProviderPlayerID: item.Player.ID,
			Reason:           missingReason(item),
			Type:             strings.TrimSpace(item.Type),
		})
	}
	return event, out, nil
}

func (c *Client) doJSON(ctx context.Context, endpoint, path string, target any) error {
	if err := c.breaker.Allow(); err != nil {
		c.logger.WarnContext(ctx, "sofascore circuit breaker rejected request", "state", c.breaker.State(), "endpoint", endpoint)
		c.observe(endpoint, "rejected", 0)
		return fmt.Errorf("%w: stats provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}

	fullURL := c.buildURL(path)
	raw, _, err := c.flight.Do(fullURL, func() ([]byte, error) {
		started := c.now()
		raw, reqErr := c.fetch(ctx, fullURL)
		if reqErr != nil && isCircuitFailure(reqErr) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
		c.observe(endpoint, outcomeOf(reqErr), c.now().Sub(started))
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, fullURL string) ([]byte, error) {
	var body []byte
	err := resilience.Retry(ctx, c.retry, func(ctx context.Context, attempt int) error {
		if err := c.limiter.Wait(ctx); err != nil {
			return resilience.Permanent(err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return resilience.Permanent(fmt.Errorf("build request: %w", err))
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Referer", defaultReferer)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return resilience.Permanent(ctxErr)
			}
			return fmt.Errorf("%w: send request: %v", errSofascoreTransient, err)
		}
		raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		_ = resp.Body.Close()
		if readErr != nil {
			return fmt.Errorf("%w: read response body: %v", errSofascoreTransient, readErr)
		}

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			body = raw
			return nil
		case resp.StatusCode == http.StatusNotFound:
			return resilience.Permanent(errSofascoreNotFound)
		case isRetryableStatus(resp.StatusCode):
			if attempt < c.retry.MaxRetries {
				c.logger.DebugContext(ctx, "sofascore request retrying", "status", resp.StatusCode, "attempt", attempt+1)
			}
			return fmt.Errorf("%w: provider status=%d body=%s", errSofascoreTransient, resp.StatusCode, abbreviateBody(raw))
		default:
			return resilience.Permanent(fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw)))
		}
	})
	if err != nil {
		if !errors.Is(err, errSofascoreNotFound) && ctx.Err() == nil {
			c.logger.WarnContext(ctx, "sofascore request failed", "url", fullURL, "error", err)
		}
		if errors.Is(err, errSofascoreTransient) {
			return nil, fmt.Errorf("%w: %v", usecase.ErrDependencyUnavailable, err)
		}
		return nil, err
	}
	return body, nil
}

func (c *Client) buildURL(path string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	_, _ = buf.WriteString(c.baseURL)
	_, _ = buf.WriteString(path)
	return buf.String()
}

func (c *Client) observe(endpoint, outcome string, elapsed time.Duration) {
	if c.recorder == nil {
		return
	}
	c.recorder.ObserveProviderRequest(endpoint, outcome, elapsed)
}

func mapEvent(item eventPayload) usecase.ExternalEvent {
	tournament := strings.TrimSpace(item.Tournament.Name)
	if tournament == "" {
		tournament = strings.TrimSpace(item.Tournament.UniqueTournament.Name)
	}
	return usecase.ExternalEvent{
		ID:           item.ID,
		StartAt:      time.Unix(item.StartTimestamp, 0).UTC(),
		Tournament:   tournament,
		HomeTeamID:   item.HomeTeam.ID,
		HomeTeamName: strings.TrimSpace(item.HomeTeam.Name),
		AwayTeamID:   item.AwayTeam.ID,
		AwayTeamName: strings.TrimSpace(item.AwayTeam.Name),
	}
}

func earliestEvent(items []eventPayload) (eventPayload, bool) {
	var (
		best  eventPayload
		found bool
	)
	for _, item := range items {
		if item.ID <= 0 {
			continue
		}
		if !found || item.StartTimestamp < best.StartTimestamp {
			best, found = item, true
		}
	}
	return best, found
}

func missingReason(item missingPlayerPayload) string {
	if d := strings.TrimSpace(item.Description); d != "" {
		return d
	}
	switch v := item.Reason.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return "code " + strconv.FormatInt(int64(v), 10)
	default:
		return ""
	}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, errSofascoreNotFound):
		return "not_found"
	default:
		return "error"
	}
}

func isCircuitFailure(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	return errors.Is(err, errSofascoreTransient) || errors.Is(err, usecase.ErrDependencyUnavailable)
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

func abbreviateBody(raw []byte) string {
	body := strings.TrimSpace(string(raw))
	if len(body) > 256 {
		return body[:256] + "..."
	}
	return body
}
