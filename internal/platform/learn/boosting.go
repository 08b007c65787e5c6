package learn

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// BoostingParams configures a squared-error gradient-boosted tree ensemble.
type BoostingParams struct {
	Estimators      int
	LearningRate    float64
	MaxDepth        int
	Subsample       float64
	ColsampleByTree float64
	MinChildWeight  float64
	Gamma           float64
	Alpha           float64
	Lambda          float64
	Seed            uint64
}

func (p BoostingParams) validate() error {
	switch {
	case p.Estimators < 1:
		return fmt.Errorf("estimators must be >= 1")
	case p.LearningRate <= 0:
		return fmt.Errorf("learning rate must be > 0")
	case p.Subsample <= 0 || p.Subsample > 1:
		return fmt.Errorf("subsample must be in (0, 1]")
	case p.ColsampleByTree <= 0 || p.ColsampleByTree > 1:
		return fmt.Errorf("colsample by tree must be in (0, 1]")
	case p.Lambda < 0 || p.Alpha < 0 || p.Gamma < 0 || p.MinChildWeight < 0:
		return fmt.Errorf("regularization terms must be >= 0")
	}
	return nil
}

type GradientBoostedRegressor struct {
	params     BoostingParams
	base       float64
	trees      []*Tree
	importance []float64
}

func FitGradientBoosting(x [][]float64, y []float64, params BoostingParams) (*GradientBoostedRegressor, error) {
	width, err := validateDataset(x, y)
	if err != nil {
		return nil, err
	}
	if err := params.validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewPCG(params.Seed, params.Seed^0x9e3779b97f4a7c15))
	n := len(y)
	model := &GradientBoostedRegressor{
		params: params,
		base:   stat.Mean(y, nil),
		trees:  make([]*Tree, 0, params.Estimators),
	}

	pred := make([]float64, n)
	for i := range pred {
		pred[i] = model.base
	}
	grad := make([]float64, n)
	hess := make([]float64, n)
	for i := range hess {
		hess[i] = 1
	}

	treeParams := TreeParams{
		MaxDepth:        params.MaxDepth,
		MinSamplesSplit: 2,
		MinChildWeight:  params.MinChildWeight,
		Lambda:          params.Lambda,
		Alpha:           params.Alpha,
		Gamma:           params.Gamma,
	}
	gainSum := make([]float64, width)
	gainCount := make([]float64, width)

	for round := 0; round < params.Estimators; round++ {
		for i := range grad {
			grad[i] = pred[i] - y[i]
		}

		rows := sampleRows(rng, n, params.Subsample)
		features := sampleColumns(rng, width, params.ColsampleByTree)
		tree, splits := growTree(x, grad, hess, rows, features, treeParams)
		for i := range tree.nodes {
			tree.nodes[i].value *= params.LearningRate
		}
		for _, s := range splits {
			gainSum[s.feature] += s.gain
			gainCount[s.feature]++
		}

		for i, row := range x {
			pred[i] += tree.Predict(row)
		}
		model.trees = append(model.trees, tree)
	}

	model.importance = make([]float64, width)
	for j := range gainSum {
		if gainCount[j] > 0 {
			model.importance[j] = gainSum[j] / gainCount[j]
		}
	}
	if total := floats.Sum(model.importance); total > 0 {
		floats.Scale(1/total, model.importance)
	}

	return model, nil
}

func (m *GradientBoostedRegressor) Predict(row []float64) float64 {
	out := m.base
	for _, t := range m.trees {
		out += t.Predict(row)
	}
	return out
}

// FeatureImportance returns the average split gain per feature normalized to
// sum to 1. Features never used for a split report 0.
func (m *GradientBoostedRegressor) FeatureImportance() []float64 {
	out := make([]float64, len(m.importance))
	copy(out, m.importance)
	return out
}

func (m *GradientBoostedRegressor) Trees() int {
	return len(m.trees)
}

// InSampleErrors reports mean absolute and root-mean-squared error of the
// model over the given rows.
func InSampleErrors(predict func([]float64) float64, x [][]float64, y []float64) (mae, rmse float64) {
	if len(x) == 0 {
		return 0, 0
	}
	var absSum, sqSum float64
	for i, row := range x {
		diff := y[i] - predict(row)
		absSum += math.Abs(diff)
		sqSum += diff * diff
	}
	n := float64(len(x))
	return absSum / n, math.Sqrt(sqSum / n)
}

func sampleRows(rng *rand.Rand, n int, fraction float64) []int {
	rows := make([]int, 0, n)
	if fraction >= 1 {
		return indexes(n)
	}
	for i := 0; i < n; i++ {
		if rng.Float64() < fraction {
			rows = append(rows, i)
		}
	}
	if len(rows) == 0 {
		rows = append(rows, rng.IntN(n))
	}
	return rows
}

func sampleColumns(rng *rand.Rand, width int, fraction float64) []int {
	if fraction >= 1 {
		return indexes(width)
	}
	k := int(math.Round(fraction * float64(width)))
	k = max(1, min(k, width))
	cols := rng.Perm(width)[:k]
	sort.Ints(cols)
	return cols
}
