package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/goccy/go-json"

	"github.com/seplanfuncionariocg/feira-central-seplan/internal/config"
	"github.com/seplanfuncionariocg/feira-central-seplan/internal/engine"
	"github.com/seplanfuncionariocg/feira-central-seplan/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

type State string

const (
	StateLoading State = "loading"
	StateFailed  State = "failed"
	StateReady   State = "ready"
)

// ChartPanel is one dashboard card. Option is empty when nothing is drawn.
type ChartPanel struct {
	DOMID        string
	Presentation models.Presentation
	Option       template.JS
	chart        *ChartOption
}

type PyramidRow struct {
	models.PyramidRowView
	MaleShare   string
	FemaleShare string
}

type PyramidPanel struct {
	View   models.PyramidView
	Rows   []PyramidRow
	Option template.JS
	chart  *ChartOption
}

type Header struct {
	Name    string
	SortURL string
	Arrow   string
}

type FilterControl struct {
	Column   string
	Param    string
	Options  []string
	Selected string
}

type TablePanel struct {
	View        models.TableView
	Headers     []Header
	Filters     []FilterControl
	Search      string
	SortBy      string
	Dir         string
	Action      string
	CSVURL      string
	XLSXURL     string
	Interactive bool
}

type Page struct {
	Title    string
	Subtitle string
	State    State
	Error    string
	KPIs     []models.KPI
	Charts   []ChartPanel
	Pyramid  *PyramidPanel
	Table    *TablePanel
}

// Snapshot is everything about the dashboard that does not depend on the
// request. It is built once after a load and never changed.
type Snapshot struct {
	Dashboard *engine.Dashboard
	KPIs      []models.KPI
	Charts    []ChartPanel
	Pyramid   *PyramidPanel
	Summaries []models.DatasetSummary
}

// Prepare presents every configured chart. Any error other than an empty
// dataset means the loaded data cannot be shown.
func Prepare(cfg config.Config, d *engine.Dashboard) (*Snapshot, error) {
	s := &Snapshot{Dashboard: d}

	for _, k := range cfg.KPIs {
		kpi, err := d.KPI(k.Spec())
		if err != nil {
			return nil, fmt.Errorf("kpi %q: %w", k.Label, err)
		}
		s.KPIs = append(s.KPIs, kpi)
	}

	for _, ch := range cfg.Charts {
		p, err := d.Present(ch.Options(), ch.Relabel)
		if err != nil {
			return nil, fmt.Errorf("chart %q: %w", ch.Key, err)
		}
		panel := ChartPanel{DOMID: ch.Key, Presentation: p, chart: Chart(p)}
		if panel.Option, err = optionJS(panel.chart); err != nil {
			return nil, fmt.Errorf("chart %q: %w", ch.Key, err)
		}
		s.Charts = append(s.Charts, panel)
		s.Summaries = append(s.Summaries, models.DatasetSummary{Key: p.Key, Title: p.Title, Total: p.Total})
	}

	if cfg.Pyramid.Document != "" {
		pp, err := pyramidPanel(d, cfg.Pyramid.Title)
		if err != nil {
			return nil, err
		}
		s.Pyramid = pp
	}
	return s, nil
}

func pyramidPanel(d *engine.Dashboard, title string) (*PyramidPanel, error) {
	v := d.PyramidView(title)
	pp := &PyramidPanel{View: v, chart: Pyramid(v)}
	if !v.Empty {
		for _, b := range v.Bands {
			row := PyramidRow{PyramidRowView: b}
			var err error
			if row.MaleShare, err = engine.PyramidShare(*d.Pyramid, b.MaleAbs); err != nil {
				return nil, err
			}
			if row.FemaleShare, err = engine.PyramidShare(*d.Pyramid, b.FemaleAbs); err != nil {
				return nil, err
			}
			pp.Rows = append(pp.Rows, row)
		}
	}
	var err error
	if pp.Option, err = optionJS(pp.chart); err != nil {
		return nil, fmt.Errorf("pyramid: %w", err)
	}
	return pp, nil
}

// funcMarker wraps JS functions in the marshaled options; dropping it turns
// the quoted string back into a function literal.
var funcMarker = regexp.MustCompile(`(__f__")|("__f__)|(__f__)`)

func optionJS(c *ChartOption) (template.JS, error) {
	if c == nil {
		return "", nil
	}
	b, err := json.Marshal(c.Options)
	if err != nil {
		return "", err
	}
	return template.JS(funcMarker.ReplaceAll(b, nil)), nil
}

// Options returns the chart options in page order, pyramid last.
func (s *Snapshot) Options() []*ChartOption {
	var out []*ChartOption
	for _, c := range s.Charts {
		if c.chart != nil {
			out = append(out, c.chart)
		}
	}
	if s.Pyramid != nil && s.Pyramid.chart != nil {
		out = append(out, s.Pyramid.chart)
	}
	return out
}

// Chart finds the panel of one dataset key.
func (s *Snapshot) Chart(key string) (ChartPanel, bool) {
	for _, c := range s.Charts {
		if c.Presentation.Key == key {
			return c, true
		}
	}
	return ChartPanel{}, false
}

// Page is the ready dashboard. Table is nil when no records were loaded.
func (s *Snapshot) Page(cfg config.Config, table *TablePanel) Page {
	return Page{
		Title:    cfg.Title,
		Subtitle: cfg.Subtitle,
		State:    StateReady,
		KPIs:     s.KPIs,
		Charts:   s.Charts,
		Pyramid:  s.Pyramid,
		Table:    table,
	}
}

// NewTablePanel builds the table card for q. In a static page there is no
// server to answer the search form, so only the rows are shown.
func NewTablePanel(cs *engine.ColumnStore, filters []string, q engine.Query, basePath string, interactive bool) (*TablePanel, error) {
	view, err := cs.View(q)
	if err != nil {
		return nil, err
	}
	tp := &TablePanel{
		View:        view,
		Search:      q.Search,
		SortBy:      q.SortBy,
		Dir:         dirParam(q.Desc),
		Action:      basePath,
		Interactive: interactive,
	}
	if interactive {
		tp.CSVURL = withQuery("/export.csv", EncodeQuery(q))
		tp.XLSXURL = withQuery("/export.xlsx", EncodeQuery(q))
	}

	for _, col := range view.Columns {
		h := Header{Name: col}
		if interactive {
			next := cloneQuery(q)
			next.SortBy = col
			next.Desc = q.SortBy == col && !q.Desc
			h.SortURL = withQuery(basePath, EncodeQuery(next))
			if q.SortBy == col {
				h.Arrow = "↑"
				if q.Desc {
					h.Arrow = "↓"
				}
			}
		}
		tp.Headers = append(tp.Headers, h)
	}

	for _, col := range filters {
		if !cs.HasColumn(col) {
			continue
		}
		tp.Filters = append(tp.Filters, FilterControl{
			Column:   col,
			Param:    filterPrefix + col,
			Options:  cs.Distinct(col),
			Selected: q.Filters[col],
		})
	}
	return tp, nil
}

const filterPrefix = "f."

// EncodeQuery writes q as URL parameters: q, f.<column>, sort, dir.
func EncodeQuery(q engine.Query) url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("q", q.Search)
	}
	for col, val := range q.Filters {
		if val != "" {
			v.Set(filterPrefix+col, val)
		}
	}
	if q.SortBy != "" {
		v.Set("sort", q.SortBy)
		v.Set("dir", dirParam(q.Desc))
	}
	return v
}

// DecodeQuery is the inverse of EncodeQuery. Unknown parameters are ignored.
func DecodeQuery(v url.Values) engine.Query {
	q := engine.Query{
		Search: v.Get("q"),
		SortBy: v.Get("sort"),
		Desc:   strings.EqualFold(v.Get("dir"), "desc"),
	}
	for key := range v {
		if col, ok := strings.CutPrefix(key, filterPrefix); ok && col != "" {
			if q.Filters == nil {
				q.Filters = make(map[string]string)
			}
			q.Filters[col] = v.Get(key)
		}
	}
	return q
}

func cloneQuery(q engine.Query) engine.Query {
	out := q
	if q.Filters != nil {
		out.Filters = make(map[string]string, len(q.Filters))
		for k, v := range q.Filters {
			out.Filters[k] = v
		}
	}
	return out
}

func dirParam(desc bool) string {
	if desc {
		return "desc"
	}
	return "asc"
}

func withQuery(path string, v url.Values) string {
	if len(v) == 0 {
		return path
	}
	return path + "?" + v.Encode()
}

type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	t, err := template.New("page").Funcs(template.FuncMap{
		"safeCSS": func(s string) template.CSS { return template.CSS(s) },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: t}, nil
}

// Render writes the page for its state: spinner, error or dashboard.
func (r *Renderer) Render(w io.Writer, p Page) error {
	name := "dashboard"
	switch p.State {
	case StateLoading:
		name = "loading"
	case StateFailed:
		name = "failed"
	}
	return r.tmpl.ExecuteTemplate(w, name, p)
}
