package dataset

import (
	"context"
	"time"

	"github.com/riskibarqy/nba-props/internal/domain/gamelog"
)

// Metadata records the outcome of the last ingestion run.
type Metadata struct {
	UpdatedAt  time.Time `json:"updated_at"`
	Players    int       `json:"players"`
	Records    int       `json:"records"`
	Teams      int       `json:"teams"`
	Absences   int       `json:"absences"`
	Errors     int       `json:"errors"`
	DurationMs int64     `json:"duration_ms"`
}

// Stats describes what the store currently holds.
type Stats struct {
	Driver    string
	Records   int
	Players   int
	Teams     int
	Absences  int
	Oldest    time.Time
	Newest    time.Time
	SizeBytes int64
	Metadata  *Metadata
}

type Repository interface {
	SaveMetadata(ctx context.Context, m Metadata) error
	// LoadMetadata reports false when no run has been recorded yet.
	LoadMetadata(ctx context.Context) (Metadata, bool, error)
}

// SizeReporter is implemented by stores that know their on-disk footprint.
type SizeReporter interface {
	SizeBytes(ctx context.Context) (int64, error)
}

// Summarize counts records, distinct players and teams, and the date span.
func Summarize(records []gamelog.GameRecord) Stats {
	out := Stats{Records: len(records)}
	players := make(map[string]struct{})
	teams := make(map[string]struct{})
	for i, r := range records {
		players[r.Player] = struct{}{}
		teams[r.TeamID] = struct{}{}
		if i == 0 || r.PlayedAt.Before(out.Oldest) {
			out.Oldest = r.PlayedAt
		}
		if i == 0 || r.PlayedAt.After(out.Newest) {
			out.Newest = r.PlayedAt
		}
	}
	out.Players = len(players)
	out.Teams = len(teams)
	return out
}
