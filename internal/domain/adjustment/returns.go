package adjustment

import (
	"sort"
	"time"

	"github.com/riskibarqy/nba-props/internal/domain/gamelog"
)

type ReturnConfig struct {
	GapDays    int
	RecentDays int
	Window     int
}

func DefaultReturnConfig() ReturnConfig {
	return ReturnConfig{GapDays: 10, RecentDays: 7, Window: 3}
}

// Return describes a player back from a long gap between games.
type Return struct {
	Player          string
	GapDays         int
	ReturnedAt      time.Time
	DaysSinceReturn int
	GamesSince      int
	Before          StatLine
	After           StatLine
	PointsChange    float64
	MinutesChange   float64
}

// DetectReturns finds gaps longer than GapDays whose return game is at most
// RecentDays before now, comparing up to Window games on each side.
func DetectReturns(teamHistory []gamelog.GameRecord, now time.Time, cfg ReturnConfig) []Return {
	grouped := gamelog.GroupByPlayer(teamHistory)
	out := make([]Return, 0)

	for _, player := range gamelog.Players(teamHistory) {
		games := grouped[player]
		for i := 1; i < len(games); i++ {
			gap := gamelog.GapDays(games[i-1].PlayedAt, games[i].PlayedAt)
			if gap <= cfg.GapDays {
				continue
			}
			since := gamelog.GapDays(games[i].PlayedAt, now)
			if since > cfg.RecentDays {
				continue
			}

			before := games[max(0, i-cfg.Window):i]
			after := games[i:]
			if len(after) > cfg.Window {
				after = after[len(after)-cfg.Window:]
			}
			pre, post := averageLine(before), averageLine(after)
			out = append(out, Return{
				Player:          player,
				GapDays:         gap,
				ReturnedAt:      games[i].PlayedAt,
				DaysSinceReturn: since,
				GamesSince:      len(games) - i,
				Before:          pre,
				After:           post,
				PointsChange:    post.Points - pre.Points,
				MinutesChange:   post.Minutes - pre.Minutes,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ReturnedAt.After(out[j].ReturnedAt)
	})
	return out
}
