package prediction

import (
	"github.com/riskibarqy/nba-props/internal/domain/gamelog"
	"github.com/riskibarqy/nba-props/internal/platform/learn"
)

const (
	minPriorGames   = 3
	featureWindow   = 7
	trendWindow     = 5
	shortWindow     = 3
	backToBackRest  = 1
	defaultRestDays = 2
)

// FeatureNames lists the model inputs in the column order of Values.
var FeatureNames = []string{
	"avg_3_games",
	"avg_7_games",
	"trend_5",
	"std_recent",
	"coef_var",
	"rest_days",
	"is_home",
	"minutes_avg",
	"efficiency_avg",
	"max_recent_3",
	"min_recent_3",
	"range_recent_3",
	"above_avg_recent_3",
	"back_to_back_avg",
	"home_away_diff",
	"fg_pct_avg",
	"tp_pct_avg",
	"threes_avg",
	"steals_avg",
	"blocks_avg",
	"turnovers_avg",
	"plus_minus_avg",
	"off_reb_avg",
	"def_reb_avg",
	"ft_pct_avg",
}

// FeatureVector summarizes the trailing window before one game.
type FeatureVector struct {
	Avg3            float64
	Avg7            float64
	Trend5          float64
	StdRecent       float64
	CoefVar         float64
	RestDays        float64
	Home            float64
	MinutesAvg      float64
	EfficiencyAvg   float64
	MaxRecent3      float64
	MinRecent3      float64
	RangeRecent3    float64
	AboveAvgRecent3 float64
	BackToBackAvg   float64
	HomeAwayDiff    float64
	FieldGoalPctAvg float64
	ThreePtPctAvg   float64
	ThreesAvg       float64
	StealsAvg       float64
	BlocksAvg       float64
	TurnoversAvg    float64
	PlusMinusAvg    float64
	OffRebAvg       float64
	DefRebAvg       float64
	FreeThrowPctAvg float64
}

func (v FeatureVector) Values() []float64 {
	return []float64{
		v.Avg3,
		v.Avg7,
		v.Trend5,
		v.StdRecent,
		v.CoefVar,
		v.RestDays,
		v.Home,
		v.MinutesAvg,
		v.EfficiencyAvg,
		v.MaxRecent3,
		v.MinRecent3,
		v.RangeRecent3,
		v.AboveAvgRecent3,
		v.BackToBackAvg,
		v.HomeAwayDiff,
		v.FieldGoalPctAvg,
		v.ThreePtPctAvg,
		v.ThreesAvg,
		v.StealsAvg,
		v.BlocksAvg,
		v.TurnoversAvg,
		v.PlusMinusAvg,
		v.OffRebAvg,
		v.DefRebAvg,
		v.FreeThrowPctAvg,
	}
}

// Table is a supervised training set: one feature row per labelled game.
type Table struct {
	Rows   []FeatureVector
	Labels []float64
}

func (t Table) Len() int {
	return len(t.Rows)
}

func (t Table) Matrix() [][]float64 {
	out := make([][]float64, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row.Values()
	}
	return out
}

// BuildTable creates one row for every game from index 3 onward, each built
// only from the up to 7 games before it. Shorter histories give an empty table.
func BuildTable(history []gamelog.GameRecord, s gamelog.Stat) Table {
	games := gamelog.Chronological(history)
	if len(games) <= minPriorGames {
		return Table{}
	}

	table := Table{
		Rows:   make([]FeatureVector, 0, len(games)-minPriorGames),
		Labels: make([]float64, 0, len(games)-minPriorGames),
	}
	for i := minPriorGames; i < len(games); i++ {
		window := games[max(0, i-featureWindow):i]
		target := games[i]

		rest := float64(defaultRestDays)
		if days, ok := target.Rest(); ok {
			rest = float64(days)
		}
		table.Rows = append(table.Rows, windowFeatures(window, s, target.Home, rest))
		table.Labels = append(table.Labels, target.Value(s))
	}

	return table
}

// BuildNext creates the inference row from the most recent window and the
// caller's next-game context.
func BuildNext(history []gamelog.GameRecord, s gamelog.Stat, next NextGame) (FeatureVector, bool) {
	games := gamelog.Chronological(history)
	if len(games) == 0 {
		return FeatureVector{}, false
	}
	return windowFeatures(tail(games, featureWindow), s, next.Home, float64(next.RestDays)), true
}

func windowFeatures(window []gamelog.GameRecord, s gamelog.Stat, home bool, rest float64) FeatureVector {
	values := gamelog.Values(window, s)
	recent := tail(values, shortWindow)

	v := FeatureVector{
		Avg3:      mean(recent),
		Avg7:      mean(values),
		Trend5:    learn.TrendSlope(tail(values, trendWindow)),
		StdRecent: sampleStd(values),
		RestDays:  rest,
	}
	v.CoefVar = coefVar(v.StdRecent, v.Avg7)
	if home {
		v.Home = 1
	}

	v.MaxRecent3 = maxOf(recent)
	v.MinRecent3 = minOf(recent)
	v.RangeRecent3 = v.MaxRecent3 - v.MinRecent3
	for _, x := range recent {
		if x > v.Avg7 {
			v.AboveAvgRecent3++
		}
	}

	var minutes, efficiency, backToBack, homeValues, awayValues []float64
	var ext [10][]float64
	for i, g := range window {
		minutes = append(minutes, g.Minutes)
		efficiency = append(efficiency, g.Efficiency)
		if days, ok := g.Rest(); ok && days <= backToBackRest {
			backToBack = append(backToBack, values[i])
		}
		if g.Home {
			homeValues = append(homeValues, values[i])
		} else {
			awayValues = append(awayValues, values[i])
		}

		e := g.Extended
		for j, field := range []*float64{
			e.FieldGoalPct, e.ThreePointPct, e.ThreesMade, e.Steals, e.Blocks,
			e.Turnovers, e.PlusMinus, e.OffensiveRebounds, e.DefensiveRebounds, e.FreeThrowPct,
		} {
			ext[j] = append(ext[j], gamelog.Or(field))
		}
	}

	v.MinutesAvg = mean(minutes)
	v.EfficiencyAvg = mean(efficiency)
	v.BackToBackAvg = v.Avg7
	if len(backToBack) > 0 {
		v.BackToBackAvg = mean(backToBack)
	}
	if len(homeValues) > 0 && len(awayValues) > 0 {
		v.HomeAwayDiff = mean(homeValues) - mean(awayValues)
	}

	v.FieldGoalPctAvg = mean(ext[0])
	v.ThreePtPctAvg = mean(ext[1])
	v.ThreesAvg = mean(ext[2])
	v.StealsAvg = mean(ext[3])
	v.BlocksAvg = mean(ext[4])
	v.TurnoversAvg = mean(ext[5])
	v.PlusMinusAvg = mean(ext[6])
	v.OffRebAvg = mean(ext[7])
	v.DefRebAvg = mean(ext[8])
	v.FreeThrowPctAvg = mean(ext[9])

	return v
}
