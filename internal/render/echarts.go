package render

import (
	"fmt"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/seplanfuncionariocg/feira-central-seplan/internal/models"
)

const (
	maleColor   = "#1B7D3F"
	femaleColor = "#FFD700"
	textColor   = "#000000"
)

// ChartOption is one chart as ECharts option JSON, keyed for the page.
type ChartOption struct {
	ID      string                 `json:"id"`
	Options map[string]interface{} `json:"options"`
}

type echartsChart interface {
	Validate()
	JSON() map[string]interface{}
}

func export(id string, c echartsChart) *ChartOption {
	c.Validate()
	return &ChartOption{ID: id, Options: c.JSON()}
}

// Chart converts a presentation into an ECharts option. List kinds and
// empty presentations have no chart and return nil.
func Chart(p models.Presentation) *ChartOption {
	if p.Empty || len(p.Chart) == 0 {
		return nil
	}
	switch p.Shape {
	case "pie":
		return export(p.Key, pieChart(p))
	case "bar":
		return export(p.Key, barChart(p, p.Kind == "numbered"))
	}
	return nil
}

func pieChart(p models.Presentation) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
	)

	small := make(map[string]bool, len(p.Overflow))
	for _, v := range p.Overflow {
		small[v.Label] = true
	}

	data := make([]opts.PieData, 0, len(p.Chart))
	for _, v := range p.Chart {
		d := opts.PieData{
			Name:      v.Label,
			Value:     v.Value,
			ItemStyle: &opts.ItemStyle{Color: v.Color},
			Tooltip:   sliceTooltip(v),
		}
		// small slices are named in the overflow box instead
		if small[v.Label] {
			d.Label = &opts.Label{Show: opts.Bool(false)}
		}
		data = append(data, d)
	}

	pie.AddSeries(p.Title, data).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show:      opts.Bool(true),
				Color:     textColor,
				Formatter: "{b}: {c}",
			}),
			charts.WithPieChartOpts(opts.PieChart{
				Radius: []string{"0%", "65%"},
				Center: []string{"50%", "50%"},
			}),
		)
	return pie
}

// sliceTooltip reads "label: value (x.y%)" with the share of the full total.
func sliceTooltip(v models.SliceView) *opts.Tooltip {
	return &opts.Tooltip{
		Show:      opts.Bool(true),
		Formatter: types.FuncStr(fmt.Sprintf("%s: %d (%s)", v.Label, v.Value, v.PercentText)),
	}
}

func barChart(p models.Presentation, numbered bool) *charts.Bar {
	labels := make([]string, 0, len(p.Chart))
	data := make([]opts.BarData, 0, len(p.Chart))
	for _, v := range p.Chart {
		label := v.Label
		if numbered {
			label = strconv.Itoa(v.Ordinal)
		}
		labels = append(labels, label)
		data = append(data, opts.BarData{
			Name:      v.Label,
			Value:     v.Value,
			ItemStyle: &opts.ItemStyle{Color: v.Color},
			Tooltip:   sliceTooltip(v),
		})
	}

	rotate := 45.0
	if numbered {
		rotate = 0
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithXAxisOpts(opts.XAxis{
			AxisLabel: &opts.AxisLabel{Color: textColor, Rotate: rotate},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			AxisLabel: &opts.AxisLabel{Color: textColor},
		}),
		charts.WithGridOpts(opts.Grid{Left: "60", Bottom: "120"}),
	)

	bar.SetXAxis(labels).
		AddSeries(p.Title, data).
		SetSeriesOptions(charts.WithLabelOpts(opts.Label{
			Show:     opts.Bool(true),
			Position: "top",
			Color:    textColor,
		}))
	return bar
}

// absValue labels the value axis without the sign used for layout.
const absValue = "function (v) { return Math.abs(v); }"

// Pyramid draws male bars left of the axis (signed values) and female right,
// one row per age band in the given order. Tooltips and axis labels show
// absolute counts.
func Pyramid(v models.PyramidView) *ChartOption {
	if v.Empty {
		return nil
	}
	bands := make([]string, 0, len(v.Bands))
	male := make([]opts.BarData, 0, len(v.Bands))
	female := make([]opts.BarData, 0, len(v.Bands))
	for _, b := range v.Bands {
		bands = append(bands, b.AgeRange)
		male = append(male, opts.BarData{
			Name:    b.AgeRange,
			Value:   b.MaleSigned,
			Tooltip: bandTooltip("Masculino", b.AgeRange, b.MaleAbs),
		})
		female = append(female, opts.BarData{
			Name:    b.AgeRange,
			Value:   b.FemaleSigned,
			Tooltip: bandTooltip("Feminino", b.AgeRange, b.FemaleAbs),
		})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		// XYReversal swaps only the axis data: x becomes the value axis.
		charts.WithXAxisOpts(opts.XAxis{
			AxisLabel: &opts.AxisLabel{Color: textColor, Formatter: opts.FuncOpts(absValue)},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			AxisLabel: &opts.AxisLabel{Color: textColor},
		}),
		charts.WithGridOpts(opts.Grid{Left: "100"}),
	)

	bar.SetXAxis(bands).
		AddSeries("Masculino", male, charts.WithItemStyleOpts(opts.ItemStyle{Color: maleColor})).
		AddSeries("Feminino", female, charts.WithItemStyleOpts(opts.ItemStyle{Color: femaleColor})).
		XYReversal()
	bar.SetSeriesOptions(charts.WithBarChartOpts(opts.BarChart{Stack: "pyramid"}))

	return export("piramide", bar)
}

func bandTooltip(gender, band string, count int64) *opts.Tooltip {
	return &opts.Tooltip{
		Show:      opts.Bool(true),
		Formatter: types.FuncStr(fmt.Sprintf("%s %s: %d", gender, band, count)),
	}
}
