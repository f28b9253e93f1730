package engine

import (
	"errors"
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/seplanfuncionariocg/feira-central-seplan/internal/models"
)

// ErrUnknownDataset is returned for a key the fetch set did not include.
var ErrUnknownDataset = errors.New("unknown dataset")

// Dataset relabels and aggregates one loaded mapping.
func (d *Dashboard) Dataset(key string, relabel map[string]string, sortDesc bool) (models.ChartDataset, error) {
	counts, ok := d.Datasets[key]
	if !ok {
		return models.ChartDataset{}, fmt.Errorf("%w: %q", ErrUnknownDataset, key)
	}
	counts, err := Relabel(counts, relabel)
	if err != nil {
		return models.ChartDataset{}, fmt.Errorf("dataset %q: %w", key, err)
	}
	return Aggregate(counts, sortDesc)
}

// Present aggregates the dataset named by o.Key and builds its render plan.
func (d *Dashboard) Present(o Options, relabel map[string]string) (models.Presentation, error) {
	ds, err := d.Dataset(o.Key, relabel, o.Sort)
	if err != nil {
		return models.Presentation{}, err
	}
	return Present(ds, o)
}

// PyramidView is Empty when the document was absent or has no banded counts.
func (d *Dashboard) PyramidView(title string) models.PyramidView {
	v := models.PyramidView{Title: title}
	if d.Pyramid == nil {
		v.Empty = true
		return v
	}
	v.Bands = PyramidRows(*d.Pyramid)
	v.Unspecified = d.Pyramid.Unspecified
	v.Total = d.Pyramid.Total()
	v.Empty = v.Total == 0
	return v
}

type KPIKind string

const (
	KPITotal KPIKind = "total" // dataset total
	KPICount KPIKind = "count" // one category of a dataset
	KPIMean  KPIKind = "mean"  // mean of an income document, as currency
)

type KPISpec struct {
	Label    string
	Kind     KPIKind
	Source   string // dataset or income document key
	Category string // for KPICount
}

var ptBR = language.BrazilianPortuguese

// KPI computes one card. A missing category of a KPICount is 0.
func (d *Dashboard) KPI(spec KPISpec) (models.KPI, error) {
	p := message.NewPrinter(ptBR)
	switch spec.Kind {
	case KPITotal, KPICount:
		ds, err := d.Dataset(spec.Source, nil, false)
		if err != nil {
			return models.KPI{}, err
		}
		n := ds.Total()
		if spec.Kind == KPICount {
			n, _ = ds.Lookup(spec.Category)
		}
		return models.KPI{Label: spec.Label, Value: p.Sprintf("%v", number.Decimal(n)), Raw: float64(n)}, nil
	case KPIMean:
		stats, ok := d.Income[spec.Source]
		if !ok {
			return models.KPI{}, fmt.Errorf("%w: income %q", ErrUnknownDataset, spec.Source)
		}
		return models.KPI{Label: spec.Label, Value: FormatCurrency(stats.Mean), Raw: stats.Mean}, nil
	}
	return models.KPI{}, fmt.Errorf("%w: kpi %q has unknown kind %q", models.ErrInvalidConfig, spec.Label, spec.Kind)
}

// FormatCurrency renders reais without cents, e.g. "R$ 1.234".
func FormatCurrency(v float64) string {
	p := message.NewPrinter(ptBR)
	return p.Sprintf("R$ %v", number.Decimal(v, number.MaxFractionDigits(0)))
}
