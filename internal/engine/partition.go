package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/seplanfuncionariocg/feira-central-seplan/internal/models"
)

const DefaultShareThreshold = 0.05

var hundred = decimal.NewFromInt(100)

// Partition classifies each entry as main (share strictly above t) or
// overflow. Shares are exact decimals so 8 of 100 against 0.08 is overflow.
func Partition(ds models.ChartDataset, t float64) (models.SliceClassification, error) {
	if t <= 0 || t >= 1 {
		return models.SliceClassification{}, fmt.Errorf("%w: share threshold %v, want 0 < t < 1", models.ErrInvalidConfig, t)
	}
	if ds.Total() == 0 {
		return models.SliceClassification{}, fmt.Errorf("%w: total is zero", models.ErrEmptyDataset)
	}

	limit := decimal.NewFromFloat(t)
	total := decimal.NewFromInt(ds.Total())
	sc := models.SliceClassification{Total: ds.Total(), Threshold: t}
	for _, e := range ds.Entries() {
		share := decimal.NewFromInt(e.Value).Div(total)
		if share.GreaterThan(limit) {
			sc.Main = append(sc.Main, e)
		} else {
			sc.Overflow = append(sc.Overflow, e)
		}
	}
	return sc, nil
}

// Percent is value/total*100 rounded half-up to one decimal place.
func Percent(value, total int64) (decimal.Decimal, error) {
	if total == 0 {
		return decimal.Zero, fmt.Errorf("%w: total is zero", models.ErrEmptyDataset)
	}
	return decimal.NewFromInt(value).Mul(hundred).Div(decimal.NewFromInt(total)).Round(1), nil
}
