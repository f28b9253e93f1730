package engine

import (
	"cmp"
	"slices"

	"github.com/seplanfuncionariocg/feira-central-seplan/internal/models"
)

// Aggregate turns a label -> count mapping into a ChartDataset.
// With sortDesc the entries are ordered by value, highest first; ties keep
// the source key order.
func Aggregate(counts OrderedCounts, sortDesc bool) (models.ChartDataset, error) {
	entries := make([]models.CategoryCount, 0, counts.Len())
	for i, label := range counts.Labels {
		cc, err := models.NewCategoryCount(label, counts.Values[i])
		if err != nil {
			return models.ChartDataset{}, err
		}
		entries = append(entries, cc)
	}

	if sortDesc {
		slices.SortStableFunc(entries, func(a, b models.CategoryCount) int {
			return cmp.Compare(b.Value, a.Value)
		})
	}
	return models.NewChartDataset(entries)
}
