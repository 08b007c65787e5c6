package learn

import (
	"fmt"
	"math/rand/v2"
)

// ForestParams configures a bagged ensemble of regression trees. Every split
// considers all features.
type ForestParams struct {
	Estimators      int
	MaxDepth        int
	MinSamplesSplit int
	Seed            uint64
}

type RandomForestRegressor struct {
	trees []*Tree
}

func FitRandomForest(x [][]float64, y []float64, params ForestParams) (*RandomForestRegressor, error) {
	width, err := validateDataset(x, y)
	if err != nil {
		return nil, err
	}
	if params.Estimators < 1 {
		return nil, fmt.Errorf("estimators must be >= 1")
	}

	// Negated targets with unit hessians make the leaf weight the sample mean.
	n := len(y)
	grad := make([]float64, n)
	hess := make([]float64, n)
	for i := range y {
		grad[i] = -y[i]
		hess[i] = 1
	}

	treeParams := TreeParams{
		MaxDepth:        params.MaxDepth,
		MinSamplesSplit: params.MinSamplesSplit,
		MinChildWeight:  1,
	}
	features := indexes(width)
	rng := rand.New(rand.NewPCG(params.Seed, params.Seed^0x2545f4914f6cdd1d))

	forest := &RandomForestRegressor{trees: make([]*Tree, 0, params.Estimators)}
	for t := 0; t < params.Estimators; t++ {
		rows := make([]int, n)
		for i := range rows {
			rows[i] = rng.IntN(n)
		}
		tree, _ := growTree(x, grad, hess, rows, features, treeParams)
		forest.trees = append(forest.trees, tree)
	}

	return forest, nil
}

func (f *RandomForestRegressor) Predict(row []float64) float64 {
	if len(f.trees) == 0 {
		return 0
	}
	var sum float64
	for _, t := range f.trees {
		sum += t.Predict(row)
	}
	return sum / float64(len(f.trees))
}
