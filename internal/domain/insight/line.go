package insight

import (
	"math"

	"github.com/riskibarqy/nba-props/internal/domain/gamelog"
)

type Lean string

const (
	LeanOver  Lean = "over"
	LeanUnder Lean = "under"
	LeanPush  Lean = "push"
)

// LineAnalysis compares a history and a forecast with a prop line.
type LineAnalysis struct {
	Line      float64
	Games     int
	Overs     int
	Unders    int
	OverRate  float64
	UnderRate float64
	Edge      float64
	Lean      Lean
}

func AnalyzeLine(games []gamelog.GameRecord, s gamelog.Stat, line, forecast float64) LineAnalysis {
	out := LineAnalysis{Line: line, Games: len(games)}
	for _, g := range games {
		v := g.Value(s)
		switch {
		case v > line:
			out.Overs++
		case v < line:
			out.Unders++
		}
	}
	if out.Games > 0 {
		out.OverRate = float64(out.Overs) / float64(out.Games)
		out.UnderRate = float64(out.Unders) / float64(out.Games)
	}

	out.Edge = math.Round((forecast-line)*10) / 10
	switch {
	case out.Edge > 0:
		out.Lean = LeanOver
	case out.Edge < 0:
		out.Lean = LeanUnder
	default:
		out.Lean = LeanPush
	}
	return out
}
