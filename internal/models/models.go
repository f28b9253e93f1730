package models

import "fmt"

// CategoryCount is one labeled bucket of an aggregate dataset.
type CategoryCount struct {
	Label string `json:"name"`
	Value int64  `json:"value"`
}

func NewCategoryCount(label string, value int64) (CategoryCount, error) {
	if value < 0 {
		return CategoryCount{}, fmt.Errorf("%w: %q has negative count %d", ErrInvalidAggregateData, label, value)
	}
	return CategoryCount{Label: label, Value: value}, nil
}

// ChartDataset is an ordered, immutable list of counts with its total.
type ChartDataset struct {
	entries []CategoryCount
	total   int64
}

// NewChartDataset copies entries, checks label uniqueness and non-negative
// values, and computes the total.
func NewChartDataset(entries []CategoryCount) (ChartDataset, error) {
	seen := make(map[string]struct{}, len(entries))
	out := make([]CategoryCount, 0, len(entries))
	var total int64
	for _, e := range entries {
		if e.Value < 0 {
			return ChartDataset{}, fmt.Errorf("%w: %q has negative count %d", ErrInvalidAggregateData, e.Label, e.Value)
		}
		if _, dup := seen[e.Label]; dup {
			return ChartDataset{}, fmt.Errorf("%w: duplicate label %q", ErrInvalidAggregateData, e.Label)
		}
		seen[e.Label] = struct{}{}
		out = append(out, e)
		total += e.Value
	}
	return ChartDataset{entries: out, total: total}, nil
}

func (d ChartDataset) Len() int     { return len(d.entries) }
func (d ChartDataset) Total() int64 { return d.total }

func (d ChartDataset) At(i int) CategoryCount { return d.entries[i] }

// Entries returns a copy of the entries in dataset order.
func (d ChartDataset) Entries() []CategoryCount {
	out := make([]CategoryCount, len(d.entries))
	copy(out, d.entries)
	return out
}

// Lookup returns the value of label and whether it exists.
func (d ChartDataset) Lookup(label string) (int64, bool) {
	for _, e := range d.entries {
		if e.Label == label {
			return e.Value, true
		}
	}
	return 0, false
}

// SliceClassification splits a dataset by share of total.
// Main holds entries with share > threshold, Overflow the rest.
type SliceClassification struct {
	Main      []CategoryCount
	Overflow  []CategoryCount
	Total     int64
	Threshold float64
}

// PyramidBand pairs male and female counts of one age range.
type PyramidBand struct {
	AgeRange string `json:"faixa"`
	Male     int64  `json:"masculino"`
	Female   int64  `json:"feminino"`
}

// SignedMale is the male count negated so paired bars extend left of the axis.
func (b PyramidBand) SignedMale() int64   { return -b.Male }
func (b PyramidBand) SignedFemale() int64 { return b.Female }

// Pyramid is an ordered band list plus the respondents without gender or age.
type Pyramid struct {
	Bands       []PyramidBand
	Unspecified int64
}

// Total sums the banded counts. Unspecified is not part of it.
func (p Pyramid) Total() int64 {
	var n int64
	for _, b := range p.Bands {
		n += b.Male + b.Female
	}
	return n
}

// PyramidDocument mirrors piramide.json.
type PyramidDocument struct {
	Bands       []PyramidBand `json:"piramide"`
	Unspecified int64         `json:"nao_informado"`
}

// IncomeStats mirrors renda_stats.json and renda_domiciliar_stats.json.
type IncomeStats struct {
	Mean   float64 `json:"media"`
	Median float64 `json:"mediana"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

func (s IncomeStats) Validate() error {
	if s.Min > s.Max {
		return fmt.Errorf("%w: min %.2f above max %.2f", ErrInvalidAggregateData, s.Min, s.Max)
	}
	if s.Mean < s.Min || s.Mean > s.Max {
		return fmt.Errorf("%w: mean %.2f outside [%.2f, %.2f]", ErrInvalidAggregateData, s.Mean, s.Min, s.Max)
	}
	if s.Median < s.Min || s.Median > s.Max {
		return fmt.Errorf("%w: median %.2f outside [%.2f, %.2f]", ErrInvalidAggregateData, s.Median, s.Min, s.Max)
	}
	return nil
}
