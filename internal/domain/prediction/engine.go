package prediction

import "github.com/riskibarqy/nba-props/internal/domain/gamelog"

// Engine selects between the boosted model and the heuristic ensemble.
type Engine struct {
	primary  PrimaryConfig
	fallback FallbackConfig
}

func NewEngine(primary PrimaryConfig, fallback FallbackConfig) *Engine {
	return &Engine{primary: primary, fallback: fallback}
}

func DefaultEngine() *Engine {
	return NewEngine(DefaultPrimaryConfig(), DefaultFallbackConfig())
}

// WithSeed returns a copy of the engine whose learners use seed.
func (e *Engine) WithSeed(seed uint64) *Engine {
	primary, fallback := e.primary, e.fallback
	primary.Boosting.Seed = seed
	fallback.Forest.Seed = seed
	return NewEngine(primary, fallback)
}

// Predict forecasts the player's next value of s from the shared history.
// It returns false when the player has too few games for either tier.
func (e *Engine) Predict(history []gamelog.GameRecord, player string, s gamelog.Stat, next NextGame) (Result, bool) {
	games := gamelog.ForPlayer(history, player)
	if len(games) < e.fallback.MinGames {
		return Result{}, false
	}

	if model, ok := TrainPrimary(games, s, e.primary); ok {
		if prediction, interval, ok := model.Predict(games, next); ok {
			diagnostics := model.Diagnostics
			return Result{
				Player:     player,
				Stat:       s,
				Prediction: prediction,
				Interval:   interval,
				Confidence: primaryConfidence(diagnostics.MAE, games, s),
				Tier:       TierPrimary,
				Games:      len(games),
				Primary:    &diagnostics,
			}, true
		}
	}

	result, ok := PredictFallback(games, s, e.fallback)
	if !ok {
		return Result{}, false
	}
	result.Player = player
	return result, true
}
