package models

// SliceView is what a renderer gets for one category: no callbacks, just
// the label, the count, and its share of the full dataset.
type SliceView struct {
	Label       string  `json:"label"`
	Value       int64   `json:"value"`
	Percent     float64 `json:"percent"`
	PercentText string  `json:"percent_text"` // "12.5%"
	Color       string  `json:"color"`
	Ordinal     int     `json:"ordinal"` // 1-based position in the legend
}

// Presentation is the render plan of one chart.
type Presentation struct {
	Key      string      `json:"key"`
	Title    string      `json:"title"`
	Kind     string      `json:"kind"`
	Shape    string      `json:"shape,omitempty"`
	Empty    bool        `json:"empty"`
	Total    int64       `json:"total"`
	Chart    []SliceView `json:"chart"`    // entries drawn on the chart (top-N)
	Legend   []SliceView `json:"legend"`   // every entry
	Overflow []SliceView `json:"overflow"` // entries at or under the share threshold
}

// PyramidRowView carries the signed value for layout and the absolute one
// for labels, per gender.
type PyramidRowView struct {
	AgeRange     string `json:"faixa"`
	MaleSigned   int64  `json:"masculino"`
	FemaleSigned int64  `json:"feminino"`
	MaleAbs      int64  `json:"masculino_abs"`
	FemaleAbs    int64  `json:"feminino_abs"`
}

type PyramidView struct {
	Title       string           `json:"title"`
	Empty       bool             `json:"empty"`
	Bands       []PyramidRowView `json:"bands"`
	Unspecified int64            `json:"nao_informado"`
	Total       int64            `json:"total"`
}

type KPI struct {
	Label string  `json:"label"`
	Value string  `json:"value"`
	Raw   float64 `json:"raw"`
}

type DatasetSummary struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Total int64  `json:"total"`
}

type TableView struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Visible int        `json:"visible"`
	Total   int        `json:"total"`
}
