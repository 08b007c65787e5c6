package prediction

import "github.com/riskibarqy/nba-props/internal/domain/gamelog"

// Tier names the predictor path that produced a result.
type Tier string

const (
	TierPrimary  Tier = "primary"
	TierFallback Tier = "fallback"
)

// Interval is a two-sided uncertainty band around a prediction.
type Interval struct {
	Lower float64
	Upper float64
}

func (i Interval) Width() float64 {
	return i.Upper - i.Lower
}

func (i Interval) Contains(v float64) bool {
	return i.Lower <= v && v <= i.Upper
}

type FeatureImportance struct {
	Feature    string
	Importance float64
}

// PrimaryDiagnostics describes the boosted model fit. Errors are in-sample.
type PrimaryDiagnostics struct {
	MAE        float64
	RMSE       float64
	Importance []FeatureImportance
	Samples    int
}

// FallbackDiagnostics lists the ensemble members that contributed and the
// contextual nudges that fired.
type FallbackDiagnostics struct {
	Models []string
	Notes  []string
	Nudge  float64
}

// NextGame is the caller-supplied context of the game being forecast.
type NextGame struct {
	Home     bool
	RestDays int
}

func DefaultNextGame() NextGame {
	return NextGame{Home: true, RestDays: defaultRestDays}
}

// Result is the engine's forecast for one player and stat.
type Result struct {
	Player     string
	Stat       gamelog.Stat
	Prediction float64
	Interval   Interval
	Confidence float64
	Tier       Tier
	Games      int
	Primary    *PrimaryDiagnostics
	Fallback   *FallbackDiagnostics
}
