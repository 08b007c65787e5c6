package adjustment

import (
	"sort"

	"github.com/riskibarqy/nba-props/internal/domain/gamelog"
)

type AbsentPlayer struct {
	Player   string
	Games    int
	Averages StatLine
}

// Beneficiary is an available player expected to absorb lost production.
// Boost.Minutes holds the extra minutes, which are not damped.
type Beneficiary struct {
	Player     string
	MinutesAvg float64
	Share      float64
	Boost      StatLine
}

type Impact struct {
	Absent        []AbsentPlayer
	Lost          StatLine
	Beneficiaries []Beneficiary
}

func (i Impact) Beneficiary(player string) (Beneficiary, bool) {
	for _, b := range i.Beneficiaries {
		if b.Player == player {
			return b, true
		}
	}
	return Beneficiary{}, false
}

func (i Impact) AbsentNames() []string {
	out := make([]string, 0, len(i.Absent))
	for _, a := range i.Absent {
		out = append(out, a.Player)
	}
	return out
}

// ComputeImpact sums the per-game production of the absent players found in
// the team history and splits a damped share of it across the top available
// players by average minutes.
func ComputeImpact(teamHistory []gamelog.GameRecord, absent []string, cfg Config) Impact {
	grouped := gamelog.GroupByPlayer(teamHistory)
	out := Impact{}

	absentSet := make(map[string]struct{}, len(absent))
	for _, name := range absent {
		if _, dup := absentSet[name]; dup {
			continue
		}
		absentSet[name] = struct{}{}

		games := grouped[name]
		if len(games) == 0 {
			continue
		}
		avg := averageLine(games)
		out.Absent = append(out.Absent, AbsentPlayer{Player: name, Games: len(games), Averages: avg})
		out.Lost = out.Lost.add(avg)
	}
	if len(out.Absent) == 0 {
		return out
	}

	type candidate struct {
		player  string
		minutes float64
	}
	candidates := make([]candidate, 0, len(grouped))
	for _, player := range gamelog.Players(teamHistory) {
		if _, isAbsent := absentSet[player]; isAbsent {
			continue
		}
		candidates = append(candidates, candidate{player: player, minutes: averageLine(grouped[player]).Minutes})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].minutes > candidates[j].minutes
	})
	if len(candidates) > cfg.Beneficiaries {
		candidates = candidates[:cfg.Beneficiaries]
	}

	var totalMinutes float64
	for _, c := range candidates {
		totalMinutes += c.minutes
	}
	for _, c := range candidates {
		share := 0.0
		if totalMinutes > 0 {
			share = c.minutes / totalMinutes
		}
		boost := out.Lost.scale(share * cfg.RedistributionFactor)
		boost.Minutes = out.Lost.Minutes * share
		out.Beneficiaries = append(out.Beneficiaries, Beneficiary{
			Player:     c.player,
			MinutesAvg: c.minutes,
			Share:      share,
			Boost:      boost,
		})
	}

	return out
}
