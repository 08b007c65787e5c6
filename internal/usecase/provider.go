package usecase

import (
	"context"
	"time"
)

// ExternalEvent is one finished or scheduled game as the provider reports it.
type ExternalEvent struct {
	ID           int64
	StartAt      time.Time
	Tournament   string
	HomeTeamID   int64
	HomeTeamName string
	AwayTeamID   int64
	AwayTeamName string
}

// ExternalPlayerStats is a player's box score for one event. Optional
// splits are nil when the provider omits them.
type ExternalPlayerStats struct {
	SecondsPlayed       int
	Points              float64
	Rebounds            float64
	Assists             float64
	FieldGoalsAttempted float64
	FieldGoalPct        *float64
	ThreePointPct       *float64
	FreeThrowPct        *float64
	ThreesMade          *float64
	Steals              *float64
	Blocks              *float64
	Turnovers           *float64
	PlusMinus           *float64
	OffensiveRebounds   *float64
	DefensiveRebounds   *float64
}

// ExternalAbsence is an entry of a game's missing-players list.
type ExternalAbsence struct {
	PlayerName       string
	ProviderPlayerID int64
	Reason           string
	Type             string
}

// StatsProvider is the box-score source used by ingestion.
type StatsProvider interface {
	// RecentEvents returns a player's latest events, newest first.
	RecentEvents(ctx context.Context, providerPlayerID int64) ([]ExternalEvent, error)
	// PlayerEventStats reports false when the provider has no statistics
	// for the player in that event.
	PlayerEventStats(ctx context.Context, eventID, providerPlayerID int64) (ExternalPlayerStats, bool, error)
	// NextEventAbsences returns the next event of a team and the players
	// the provider lists as missing on that team's side.
	NextEventAbsences(ctx context.Context, providerTeamID int64) (ExternalEvent, []ExternalAbsence, error)
}
