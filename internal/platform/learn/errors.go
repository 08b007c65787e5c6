package learn

import "errors"

var (
	ErrEmptyDataset  = errors.New("empty dataset")
	ErrShapeMismatch = errors.New("shape mismatch")
)

func validateDataset(x [][]float64, y []float64) (int, error) {
	if len(x) == 0 || len(y) == 0 {
		return 0, ErrEmptyDataset
	}
	if len(x) != len(y) {
		return 0, ErrShapeMismatch
	}
	width := len(x[0])
	if width == 0 {
		return 0, ErrShapeMismatch
	}
	for _, row := range x {
		if len(row) != width {
			return 0, ErrShapeMismatch
		}
	}
	return width, nil
}
