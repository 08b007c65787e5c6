package insight

import (
	"github.com/riskibarqy/nba-props/internal/domain/gamelog"
	"gonum.org/v1/gonum/stat"
)

type ConsistencyLabel string

const (
	ConsistencyNoData     ConsistencyLabel = "no_data"
	ConsistencyVeryStable ConsistencyLabel = "very_stable"
	ConsistencyStable     ConsistencyLabel = "stable"
	ConsistencyUnstable   ConsistencyLabel = "unstable"
	ConsistencyVolatile   ConsistencyLabel = "volatile"
)

type Consistency struct {
	Label   ConsistencyLabel
	CoefVar float64
}

// MeasureConsistency grades a player's stat by its coefficient of variation.
func MeasureConsistency(games []gamelog.GameRecord, s gamelog.Stat) Consistency {
	if len(games) < 3 {
		return Consistency{Label: ConsistencyNoData}
	}

	values := gamelog.Values(games, s)
	avg, std := stat.MeanStdDev(values, nil)
	cv := 0.0
	if avg > 0 {
		cv = std / avg
	}

	switch {
	case cv < 0.15:
		return Consistency{Label: ConsistencyVeryStable, CoefVar: cv}
	case cv < 0.30:
		return Consistency{Label: ConsistencyStable, CoefVar: cv}
	case cv < 0.45:
		return Consistency{Label: ConsistencyUnstable, CoefVar: cv}
	default:
		return Consistency{Label: ConsistencyVolatile, CoefVar: cv}
	}
}
