package engine

import (
	"fmt"

	"github.com/seplanfuncionariocg/feira-central-seplan/internal/models"
)

type Shape string

const (
	ShapePie Shape = "pie"
	ShapeBar Shape = "bar"
)

const DefaultShapeThreshold = 3

// SelectShape picks a pie for small category counts and bars otherwise.
// It only reads the dataset.
func SelectShape(ds models.ChartDataset, threshold int) (Shape, error) {
	if threshold < 1 {
		return "", fmt.Errorf("%w: shape threshold %d, want >= 1", models.ErrInvalidConfig, threshold)
	}
	if ds.Len() == 0 {
		return "", fmt.Errorf("%w: no categories to chart", models.ErrEmptyDataset)
	}
	if ds.Len() <= threshold {
		return ShapePie, nil
	}
	return ShapeBar, nil
}
