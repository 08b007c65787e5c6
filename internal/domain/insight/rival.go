package insight

import (
	"math"
	"sort"

	"github.com/riskibarqy/nba-props/internal/domain/gamelog"
	"gonum.org/v1/gonum/stat"
)

type Level string

const (
	LevelHigh    Level = "high"
	LevelMedium  Level = "medium"
	LevelLow     Level = "low"
	LevelUnknown Level = "unknown"
)

type levelThresholds struct {
	high   float64
	medium float64
}

var productionThresholds = map[gamelog.Stat]levelThresholds{
	gamelog.StatPoints:   {high: 120, medium: 110},
	gamelog.StatRebounds: {high: 45, medium: 40},
	gamelog.StatAssists:  {high: 28, medium: 24},
}

type PlayerAverage struct {
	Player  string
	Average float64
}

// TeamProfile summarizes a team's production in one stat from its players'
// per-game averages.
type TeamProfile struct {
	TeamID           string
	Stat             gamelog.Stat
	Available        bool
	TotalProduction  float64
	AveragePerPlayer float64
	TopPlayers       []PlayerAverage
	GamesPerWeek     float64
	Players          int
	Level            Level
}

func ProfileTeam(teamID string, teamHistory []gamelog.GameRecord, s gamelog.Stat) TeamProfile {
	out := TeamProfile{TeamID: teamID, Stat: s, Level: LevelUnknown}
	if len(teamHistory) == 0 {
		return out
	}
	out.Available = true

	grouped := gamelog.GroupByPlayer(teamHistory)
	averages := make([]PlayerAverage, 0, len(grouped))
	for _, player := range gamelog.Players(teamHistory) {
		avg := stat.Mean(gamelog.Values(grouped[player], s), nil)
		averages = append(averages, PlayerAverage{Player: player, Average: round1(avg)})
		out.TotalProduction += avg
	}
	sort.SliceStable(averages, func(i, j int) bool {
		return averages[i].Average > averages[j].Average
	})

	out.Players = len(averages)
	out.AveragePerPlayer = round1(out.TotalProduction / float64(out.Players))
	out.TotalProduction = round1(out.TotalProduction)
	out.TopPlayers = averages[:min(3, len(averages))]
	out.GamesPerWeek = gamesPerWeek(teamHistory)
	out.Level = classify(out.TotalProduction, s)
	return out
}

func gamesPerWeek(records []gamelog.GameRecord) float64 {
	first, last := records[0].PlayedAt, records[0].PlayedAt
	games := make(map[int64]struct{})
	for _, r := range records {
		if r.PlayedAt.Before(first) {
			first = r.PlayedAt
		}
		if r.PlayedAt.After(last) {
			last = r.PlayedAt
		}
		games[r.PlayedAt.Unix()] = struct{}{}
	}
	days := gamelog.GapDays(first, last) + 1
	return round1(float64(len(games)) / float64(max(days, 1)) * 7)
}

func classify(total float64, s gamelog.Stat) Level {
	t, ok := productionThresholds[s]
	if !ok {
		return LevelUnknown
	}
	switch {
	case total >= t.high:
		return LevelHigh
	case total >= t.medium:
		return LevelMedium
	default:
		return LevelLow
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
