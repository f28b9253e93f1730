package engine

import (
	"errors"
	"fmt"

	"github.com/seplanfuncionariocg/feira-central-seplan/internal/models"
)

type ChartKind string

const (
	KindSmart    ChartKind = "smart"    // pie or bar by category count
	KindPie      ChartKind = "pie"      // always pie, small slices in an overflow legend
	KindBar      ChartKind = "bar"      // always bar
	KindNumbered ChartKind = "numbered" // bar keyed by ordinal, legend "n - label"
	KindList     ChartKind = "list"     // label/value list, no chart
)

func (k ChartKind) Valid() bool {
	switch k {
	case KindSmart, KindPie, KindBar, KindNumbered, KindList:
		return true
	}
	return false
}

// Dashboard palette, in slice order.
var defaultColors = []string{"#1B7D3F", "#FFD700", "#156B32", "#FFC700", "#0F5C28"}

// Options configures one chart instance.
type Options struct {
	Key            string
	Title          string
	Kind           ChartKind
	ShapeThreshold int
	ShareThreshold float64
	TopN           int // 0 = draw every entry
	Sort           bool
	Colors         []string
}

func DefaultOptions(key string) Options {
	return Options{
		Key:            key,
		Title:          key,
		Kind:           KindSmart,
		ShapeThreshold: DefaultShapeThreshold,
		ShareThreshold: DefaultShareThreshold,
		Sort:           true,
	}
}

// Present builds the render plan of one dataset. An empty or zero-total
// dataset comes back with Empty set so the page can show a placeholder.
func Present(ds models.ChartDataset, o Options) (models.Presentation, error) {
	if !o.Kind.Valid() {
		return models.Presentation{}, fmt.Errorf("%w: chart %q has unknown kind %q", models.ErrInvalidConfig, o.Key, o.Kind)
	}
	if o.TopN < 0 {
		return models.Presentation{}, fmt.Errorf("%w: chart %q has negative top_n", models.ErrInvalidConfig, o.Key)
	}
	colors := o.Colors
	if len(colors) == 0 {
		colors = defaultColors
	}

	p := models.Presentation{
		Key:   o.Key,
		Title: o.Title,
		Kind:  string(o.Kind),
		Total: ds.Total(),
	}

	shape, err := SelectShape(ds, o.ShapeThreshold)
	if err != nil {
		if errors.Is(err, models.ErrEmptyDataset) {
			p.Empty = true
			return p, nil
		}
		return models.Presentation{}, fmt.Errorf("chart %q: %w", o.Key, err)
	}
	switch o.Kind {
	case KindSmart:
		p.Shape = string(shape)
	case KindPie:
		p.Shape = string(ShapePie)
	case KindBar, KindNumbered:
		p.Shape = string(ShapeBar)
	}

	sc, err := Partition(ds, o.ShareThreshold)
	if err != nil {
		if errors.Is(err, models.ErrEmptyDataset) {
			p.Empty = true
			return p, nil
		}
		return models.Presentation{}, fmt.Errorf("chart %q: %w", o.Key, err)
	}

	p.Legend = make([]models.SliceView, 0, ds.Len())
	byLabel := make(map[string]models.SliceView, ds.Len())
	for i, e := range ds.Entries() {
		pct, err := Percent(e.Value, ds.Total())
		if err != nil {
			return models.Presentation{}, fmt.Errorf("chart %q: %w", o.Key, err)
		}
		v := models.SliceView{
			Label:       e.Label,
			Value:       e.Value,
			Percent:     pct.InexactFloat64(),
			PercentText: pct.StringFixed(1) + "%",
			Color:       colors[i%len(colors)],
			Ordinal:     i + 1,
		}
		p.Legend = append(p.Legend, v)
		byLabel[e.Label] = v
	}

	p.Overflow = make([]models.SliceView, 0, len(sc.Overflow))
	for _, e := range sc.Overflow {
		p.Overflow = append(p.Overflow, byLabel[e.Label])
	}

	p.Chart = p.Legend
	if o.TopN > 0 && o.TopN < len(p.Legend) {
		p.Chart = p.Legend[:o.TopN]
	}
	return p, nil
}
