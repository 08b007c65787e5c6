package prediction

import (
	"sort"

	"github.com/riskibarqy/nba-props/internal/domain/gamelog"
	"github.com/riskibarqy/nba-props/internal/platform/learn"
)

// MarginTier applies Margin to predictions whose window CV is below MaxCV.
type MarginTier struct {
	MaxCV  float64
	Margin float64
}

type PrimaryConfig struct {
	MinGames      int
	MinRows       int
	Boosting      learn.BoostingParams
	MarginTiers   []MarginTier
	DefaultMargin float64
}

func DefaultPrimaryConfig() PrimaryConfig {
	return PrimaryConfig{
		MinGames: 5,
		MinRows:  2,
		Boosting: learn.BoostingParams{
			Estimators:      200,
			LearningRate:    0.08,
			MaxDepth:        5,
			Subsample:       0.85,
			ColsampleByTree: 0.85,
			MinChildWeight:  2,
			Gamma:           0.05,
			Alpha:           0.1,
			Lambda:          1.0,
			Seed:            42,
		},
		MarginTiers: []MarginTier{
			{MaxCV: 0.20, Margin: 0.15},
			{MaxCV: 0.35, Margin: 0.25},
		},
		DefaultMargin: 0.35,
	}
}

// PrimaryModel is a boosted ensemble trained for one (player, stat) pair
// together with the scaler fitted on its training rows.
type PrimaryModel struct {
	stat        gamelog.Stat
	booster     *learn.GradientBoostedRegressor
	scaler      *learn.StandardScaler
	cfg         PrimaryConfig
	Diagnostics PrimaryDiagnostics
}

// TrainPrimary fits the boosted model. It returns false when the history is
// below the minimum games or yields too few training rows.
func TrainPrimary(history []gamelog.GameRecord, s gamelog.Stat, cfg PrimaryConfig) (*PrimaryModel, bool) {
	if len(history) < cfg.MinGames {
		return nil, false
	}
	table := BuildTable(history, s)
	if table.Len() < max(1, cfg.MinRows) {
		return nil, false
	}

	x := table.Matrix()
	scaler, err := learn.FitScaler(x)
	if err != nil {
		return nil, false
	}
	scaled, err := scaler.Transform(x)
	if err != nil {
		return nil, false
	}
	booster, err := learn.FitGradientBoosting(scaled, table.Labels, cfg.Boosting)
	if err != nil {
		return nil, false
	}

	mae, rmse := learn.InSampleErrors(booster.Predict, scaled, table.Labels)
	weights := booster.FeatureImportance()
	importance := make([]FeatureImportance, len(FeatureNames))
	for i, name := range FeatureNames {
		importance[i] = FeatureImportance{Feature: name, Importance: weights[i]}
	}
	sort.SliceStable(importance, func(i, j int) bool {
		return importance[i].Importance > importance[j].Importance
	})

	return &PrimaryModel{
		stat:    s,
		booster: booster,
		scaler:  scaler,
		cfg:     cfg,
		Diagnostics: PrimaryDiagnostics{
			MAE:        mae,
			RMSE:       rmse,
			Importance: importance,
			Samples:    table.Len(),
		},
	}, true
}

// Predict forecasts the next game. The interval margin is a share of the
// prediction picked by the window's coefficient of variation.
func (m *PrimaryModel) Predict(history []gamelog.GameRecord, next NextGame) (float64, Interval, bool) {
	features, ok := BuildNext(history, m.stat, next)
	if !ok {
		return 0, Interval{}, false
	}
	row, err := m.scaler.TransformRow(features.Values())
	if err != nil {
		return 0, Interval{}, false
	}

	prediction := round1(max(0, m.booster.Predict(row)))
	margin := prediction * m.cfg.marginFor(features.CoefVar)
	return prediction, Interval{
		Lower: max(0, prediction-margin),
		Upper: prediction + margin,
	}, true
}

func (c PrimaryConfig) marginFor(cv float64) float64 {
	for _, tier := range c.MarginTiers {
		if cv < tier.MaxCV {
			return tier.Margin
		}
	}
	return c.DefaultMargin
}

// primaryConfidence is 1 - MAE/mean(target) clamped to [0, 1], as a percentage.
func primaryConfidence(mae float64, history []gamelog.GameRecord, s gamelog.Stat) float64 {
	avg := mean(gamelog.Values(history, s))
	if avg <= 0 {
		return 0
	}
	return round1(clamp(1-mae/avg, 0, 1) * 100)
}
