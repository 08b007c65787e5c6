package insight

import (
	"github.com/riskibarqy/nba-props/internal/domain/gamelog"
	"gonum.org/v1/gonum/stat"
)

type TrendLabel string

const (
	TrendNoData    TrendLabel = "no_data"
	TrendImproving TrendLabel = "improving"
	TrendDeclining TrendLabel = "declining"
	TrendStable    TrendLabel = "stable"
)

const trendThresholdPct = 10

type Trend struct {
	Label     TrendLabel
	ChangePct float64
}

// RecentTrend compares the mean of the last window games with the window
// before it. It needs window+3 games.
func RecentTrend(games []gamelog.GameRecord, s gamelog.Stat, window int) Trend {
	if window < 1 {
		window = 3
	}
	if len(games) < window+3 {
		return Trend{Label: TrendNoData}
	}

	values := gamelog.Values(gamelog.Chronological(games), s)
	n := len(values)
	recent := stat.Mean(values[n-window:], nil)
	previous := stat.Mean(values[max(0, n-2*window):n-window], nil)

	pct := 0.0
	if previous > 0 {
		pct = (recent - previous) / previous * 100
	}

	switch {
	case pct > trendThresholdPct:
		return Trend{Label: TrendImproving, ChangePct: pct}
	case pct < -trendThresholdPct:
		return Trend{Label: TrendDeclining, ChangePct: pct}
	default:
		return Trend{Label: TrendStable, ChangePct: pct}
	}
}
