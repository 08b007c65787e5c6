package learn

import "sort"

// TreeParams controls how a single regression tree grows. Split quality is
// measured with the second-order gain used by gradient boosting. Plain
// variance reduction falls out of it with Lambda, Alpha and Gamma at zero.
type TreeParams struct {
	MaxDepth        int
	MinSamplesSplit int
	MinChildWeight  float64
	Lambda          float64
	Alpha           float64
	Gamma           float64
}

const minSplitGain = 1e-12

type treeNode struct {
	feature   int
	threshold float64
	left      int
	right     int
	value     float64
	leaf      bool
}

// Tree is a binary regression tree. Rows with x[feature] < threshold go left.
type Tree struct {
	nodes []treeNode
}

func (t *Tree) Predict(row []float64) float64 {
	if t == nil || len(t.nodes) == 0 {
		return 0
	}
	idx := 0
	for {
		n := t.nodes[idx]
		if n.leaf {
			return n.value
		}
		if row[n.feature] < n.threshold {
			idx = n.left
		} else {
			idx = n.right
		}
	}
}

// Depth returns the number of edges on the longest root-to-leaf path.
func (t *Tree) Depth() int {
	if t == nil || len(t.nodes) == 0 {
		return 0
	}
	var walk func(idx int) int
	walk = func(idx int) int {
		n := t.nodes[idx]
		if n.leaf {
			return 0
		}
		return 1 + max(walk(n.left), walk(n.right))
	}
	return walk(0)
}

type splitRecord struct {
	feature int
	gain    float64
}

type treeBuilder struct {
	x        [][]float64
	grad     []float64
	hess     []float64
	features []int
	params   TreeParams
	tree     *Tree
	splits   []splitRecord
}

// growTree fits a tree on the given rows. Rows may repeat, which is how
// bootstrap samples are expressed.
func growTree(x [][]float64, grad, hess []float64, rows, features []int, params TreeParams) (*Tree, []splitRecord) {
	b := &treeBuilder{
		x:        x,
		grad:     grad,
		hess:     hess,
		features: features,
		params:   params,
		tree:     &Tree{},
	}
	b.build(rows, 0)
	return b.tree, b.splits
}

func (b *treeBuilder) build(rows []int, depth int) int {
	g, h := b.sums(rows)
	idx := len(b.tree.nodes)
	b.tree.nodes = append(b.tree.nodes, treeNode{leaf: true, value: b.leafWeight(g, h)})

	if b.params.MaxDepth > 0 && depth >= b.params.MaxDepth {
		return idx
	}
	if len(rows) < max(2, b.params.MinSamplesSplit) {
		return idx
	}

	feature, threshold, gain, ok := b.bestSplit(rows, g, h)
	if !ok {
		return idx
	}

	leftRows := make([]int, 0, len(rows))
	rightRows := make([]int, 0, len(rows))
	for _, r := range rows {
		if b.x[r][feature] < threshold {
			leftRows = append(leftRows, r)
		} else {
			rightRows = append(rightRows, r)
		}
	}

	left := b.build(leftRows, depth+1)
	right := b.build(rightRows, depth+1)
	b.tree.nodes[idx] = treeNode{
		feature:   feature,
		threshold: threshold,
		left:      left,
		right:     right,
		value:     b.leafWeight(g, h),
	}
	b.splits = append(b.splits, splitRecord{feature: feature, gain: gain})

	return idx
}

func (b *treeBuilder) sums(rows []int) (float64, float64) {
	var g, h float64
	for _, r := range rows {
		g += b.grad[r]
		h += b.hess[r]
	}
	return g, h
}

func (b *treeBuilder) bestSplit(rows []int, g, h float64) (int, float64, float64, bool) {
	parent := b.score(g, h)
	bestGain := minSplitGain
	bestFeature := -1
	bestThreshold := 0.0

	sorted := make([]int, len(rows))
	for _, f := range b.features {
		copy(sorted, rows)
		sort.SliceStable(sorted, func(i, j int) bool {
			return b.x[sorted[i]][f] < b.x[sorted[j]][f]
		})

		var gl, hl float64
		for i := 0; i < len(sorted)-1; i++ {
			r := sorted[i]
			gl += b.grad[r]
			hl += b.hess[r]

			cur := b.x[r][f]
			next := b.x[sorted[i+1]][f]
			if cur == next {
				continue
			}
			gr, hr := g-gl, h-hl
			if hl < b.params.MinChildWeight || hr < b.params.MinChildWeight {
				continue
			}

			gain := 0.5*(b.score(gl, hl)+b.score(gr, hr)-parent) - b.params.Gamma
			if gain > bestGain {
				bestGain = gain
				bestFeature = f
				bestThreshold = cur + (next-cur)/2
			}
		}
	}

	if bestFeature < 0 {
		return 0, 0, 0, false
	}
	return bestFeature, bestThreshold, bestGain, true
}

func (b *treeBuilder) score(g, h float64) float64 {
	denom := h + b.params.Lambda
	if denom <= 0 {
		return 0
	}
	t := softThreshold(g, b.params.Alpha)
	return t * t / denom
}

func (b *treeBuilder) leafWeight(g, h float64) float64 {
	denom := h + b.params.Lambda
	if denom <= 0 {
		return 0
	}
	return -softThreshold(g, b.params.Alpha) / denom
}

func softThreshold(g, alpha float64) float64 {
	if alpha <= 0 {
		return g
	}
	switch {
	case g > alpha:
		return g - alpha
	case g < -alpha:
		return g + alpha
	default:
		return 0
	}
}

func indexes(width int) []int {
	out := make([]int, width)
	for i := range out {
		out[i] = i
	}
	return out
}
