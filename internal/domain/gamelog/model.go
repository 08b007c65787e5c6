package gamelog

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidRecord = errors.New("invalid game record")

// GameRecord is one player's box score in one game.
type GameRecord struct {
	Player           string
	ProviderPlayerID int64
	TeamID           string
	EventID          int64
	PlayedAt         time.Time
	Opponent         string
	Home             bool
	Points           float64
	Rebounds         float64
	Assists          float64
	Minutes          float64
	Efficiency       float64
	// RestDays is nil for the first game of a player's sequence.
	RestDays *int
	Extended ExtendedStats
}

// ExtendedStats holds optional box-score fields. A nil field means the
// provider did not report it.
type ExtendedStats struct {
	FieldGoalPct      *float64 `json:"fg_pct,omitempty"`
	ThreePointPct     *float64 `json:"tp_pct,omitempty"`
	FreeThrowPct      *float64 `json:"ft_pct,omitempty"`
	ThreesMade        *float64 `json:"threes_made,omitempty"`
	Steals            *float64 `json:"steals,omitempty"`
	Blocks            *float64 `json:"blocks,omitempty"`
	Turnovers         *float64 `json:"turnovers,omitempty"`
	PlusMinus         *float64 `json:"plus_minus,omitempty"`
	OffensiveRebounds *float64 `json:"offensive_rebounds,omitempty"`
	DefensiveRebounds *float64 `json:"defensive_rebounds,omitempty"`
}

// Key identifies a record within the store.
type Key struct {
	Player   string
	PlayedAt int64
}

func (r GameRecord) Key() Key {
	return Key{Player: r.Player, PlayedAt: r.PlayedAt.UnixNano()}
}

func (r GameRecord) Validate() error {
	if strings.TrimSpace(r.Player) == "" {
		return fmt.Errorf("%w: player is required", ErrInvalidRecord)
	}
	if strings.TrimSpace(r.TeamID) == "" {
		return fmt.Errorf("%w: team id is required for %s", ErrInvalidRecord, r.Player)
	}
	if r.PlayedAt.IsZero() {
		return fmt.Errorf("%w: game time is required for %s", ErrInvalidRecord, r.Player)
	}
	if r.Minutes <= 0 {
		return fmt.Errorf("%w: minutes must be > 0 for %s", ErrInvalidRecord, r.Player)
	}
	if r.Points < 0 || r.Rebounds < 0 || r.Assists < 0 {
		return fmt.Errorf("%w: counting stats must be >= 0 for %s", ErrInvalidRecord, r.Player)
	}
	return nil
}

// Value returns the record's value for the given stat.
func (r GameRecord) Value(s Stat) float64 {
	switch s {
	case StatRebounds:
		return r.Rebounds
	case StatAssists:
		return r.Assists
	default:
		return r.Points
	}
}

// Rest returns the rest days before this game and whether they are known.
func (r GameRecord) Rest() (int, bool) {
	if r.RestDays == nil {
		return 0, false
	}
	return *r.RestDays, true
}

func Float(v float64) *float64 {
	return &v
}

func Int(v int) *int {
	return &v
}

// Or returns the pointed value or zero.
func Or(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
