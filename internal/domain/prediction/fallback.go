package prediction

import (
	"fmt"

	"github.com/riskibarqy/nba-props/internal/domain/gamelog"
	"github.com/riskibarqy/nba-props/internal/platform/learn"
)

const (
	ModelForest     = "RF"
	ModelRegression = "REG"
	ModelWMA        = "WMA"
)

// EnsembleWeights are fixed blend weights. Missing members are dropped and
// the rest renormalized.
type EnsembleWeights struct {
	Forest     float64
	Regression float64
	WMA        float64
}

type FallbackConfig struct {
	MinGames           int
	WMAWindow          int
	RegressionMinGames int
	ForestMinGames     int
	ForestWindow       int
	Forest             learn.ForestParams
	Weights            EnsembleWeights

	TrendThreshold   float64
	TrendFactor      float64
	StreakNudge      float64
	VolatilityCV     float64
	VolatilityNudge  float64
	IntervalWindow   int
	IntervalStdScale float64
	FullCreditGames  int
	StabilityScale   float64
}

func DefaultFallbackConfig() FallbackConfig {
	return FallbackConfig{
		MinGames:           3,
		WMAWindow:          5,
		RegressionMinGames: 7,
		ForestMinGames:     10,
		ForestWindow:       5,
		Forest: learn.ForestParams{
			Estimators:      50,
			MaxDepth:        3,
			MinSamplesSplit: 3,
			Seed:            42,
		},
		Weights: EnsembleWeights{
			Forest:     0.40,
			Regression: 0.35,
			WMA:        0.25,
		},
		TrendThreshold:   2,
		TrendFactor:      0.3,
		StreakNudge:      1.5,
		VolatilityCV:     0.4,
		VolatilityNudge:  1.0,
		IntervalWindow:   5,
		IntervalStdScale: 1.5,
		FullCreditGames:  10,
		StabilityScale:   10,
	}
}

type member struct {
	name   string
	value  float64
	weight float64
}

// PredictFallback blends the available heuristic estimators and applies the
// trend, streak and volatility nudges. It returns false below MinGames.
func PredictFallback(history []gamelog.GameRecord, s gamelog.Stat, cfg FallbackConfig) (Result, bool) {
	games := gamelog.Chronological(history)
	if len(games) < max(1, cfg.MinGames) {
		return Result{}, false
	}
	values := gamelog.Values(games, s)

	members := make([]member, 0, 3)
	if v, ok := forestEstimate(games, s, cfg); ok {
		members = append(members, member{name: ModelForest, value: v, weight: cfg.Weights.Forest})
	}
	if v, ok := regressionEstimate(values, cfg.RegressionMinGames); ok {
		members = append(members, member{name: ModelRegression, value: v, weight: cfg.Weights.Regression})
	}
	members = append(members, member{name: ModelWMA, value: weightedMovingAverage(values, cfg.WMAWindow), weight: cfg.Weights.WMA})

	var blended, totalWeight float64
	models := make([]string, 0, len(members))
	for _, m := range members {
		blended += m.value * m.weight
		totalWeight += m.weight
		models = append(models, m.name)
	}
	if totalWeight > 0 {
		blended /= totalWeight
	}

	nudge, notes := contextualNudges(values, cfg)
	prediction := round1(max(0, blended+nudge))

	recentStd := sampleStd(tail(values, cfg.IntervalWindow))
	margin := recentStd * cfg.IntervalStdScale

	return Result{
		Stat:       s,
		Prediction: prediction,
		Interval: Interval{
			Lower: max(0, prediction-margin),
			Upper: prediction + margin,
		},
		Confidence: fallbackConfidence(len(games), recentStd, cfg),
		Tier:       TierFallback,
		Games:      len(games),
		Fallback: &FallbackDiagnostics{
			Models: models,
			Notes:  notes,
			Nudge:  nudge,
		},
	}, true
}

// weightedMovingAverage weights the i-th oldest game of the window by i.
func weightedMovingAverage(values []float64, window int) float64 {
	recent := tail(values, max(1, window))
	var sum, weights float64
	for i, v := range recent {
		w := float64(i + 1)
		sum += v * w
		weights += w
	}
	if weights == 0 {
		return 0
	}
	return sum / weights
}

func regressionEstimate(values []float64, minGames int) (float64, bool) {
	if len(values) < minGames {
		return 0, false
	}
	intercept, slope := learn.LinearFit(learn.Index(len(values)), values)
	return intercept + slope*float64(len(values)), true
}

func forestEstimate(games []gamelog.GameRecord, s gamelog.Stat, cfg FallbackConfig) (float64, bool) {
	if len(games) < cfg.ForestMinGames {
		return 0, false
	}

	x := make([][]float64, 0, len(games))
	y := make([]float64, 0, len(games))
	for i := minPriorGames; i < len(games); i++ {
		window := games[max(0, i-cfg.ForestWindow):i]
		target := games[i]
		home := 0.0
		if target.Home {
			home = 1
		}
		rest := float64(defaultRestDays)
		if days, ok := target.Rest(); ok {
			rest = float64(days)
		}
		x = append(x, reducedFeatures(window, s, home, rest, window[len(window)-1].Value(s)))
		y = append(y, target.Value(s))
	}

	forest, err := learn.FitRandomForest(x, y, cfg.Forest)
	if err != nil {
		return 0, false
	}

	recent := tail(games, cfg.ForestWindow)
	next := reducedFeatures(recent, s, 1, defaultRestDays, games[len(games)-1].Value(s))
	return forest.Predict(next), true
}

func reducedFeatures(window []gamelog.GameRecord, s gamelog.Stat, home, rest, last float64) []float64 {
	values := gamelog.Values(window, s)
	minutes := make([]float64, len(window))
	for i, g := range window {
		minutes[i] = g.Minutes
	}
	return []float64{mean(values), sampleStd(values), mean(minutes), home, rest, last}
}

func contextualNudges(values []float64, cfg FallbackConfig) (float64, []string) {
	var total float64
	notes := make([]string, 0, 3)
	n := len(values)

	if n >= 6 {
		diff := mean(values[n-3:]) - mean(values[n-6:n-3])
		if diff > cfg.TrendThreshold || diff < -cfg.TrendThreshold {
			notes = append(notes, fmt.Sprintf("trend %+.1f", diff))
			total += diff * cfg.TrendFactor
		}
	}

	overall := mean(values)
	if n >= 3 {
		above, below := true, true
		for _, v := range values[n-3:] {
			above = above && v > overall
			below = below && v < overall
		}
		switch {
		case above:
			notes = append(notes, fmt.Sprintf("hot streak %+.1f", cfg.StreakNudge))
			total += cfg.StreakNudge
		case below:
			notes = append(notes, fmt.Sprintf("cold streak %+.1f", -cfg.StreakNudge))
			total -= cfg.StreakNudge
		}
	}

	if coefVar(sampleStd(values), overall) > cfg.VolatilityCV {
		notes = append(notes, fmt.Sprintf("high volatility %+.1f", -cfg.VolatilityNudge))
		total -= cfg.VolatilityNudge
	}

	return total, notes
}

// fallbackConfidence gives half credit for history length, full at
// FullCreditGames, and half for stability of the recent window.
func fallbackConfidence(games int, recentStd float64, cfg FallbackConfig) float64 {
	quantity := min(float64(games)/float64(max(1, cfg.FullCreditGames)), 1) * 50
	stability := max(0, 1-recentStd/cfg.StabilityScale) * 50
	return round1(min(100, quantity+stability))
}
