package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/seplanfuncionariocg/feira-central-seplan/internal/models"
)

func counts(pairs ...any) OrderedCounts {
	var oc OrderedCounts
	for i := 0; i < len(pairs); i += 2 {
		oc.Add(pairs[i].(string), int64(pairs[i+1].(int)))
	}
	return oc
}

func dataset(t *testing.T, pairs ...any) models.ChartDataset {
	t.Helper()
	ds, err := Aggregate(counts(pairs...), false)
	require.NoError(t, err)
	return ds
}

func labels(entries []models.CategoryCount) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Label)
	}
	return out
}
