package engine

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/seplanfuncionariocg/feira-central-seplan/internal/models"
)

// ErrUnknownColumn is returned for a filter or sort on a column the table
// does not show.
var ErrUnknownColumn = errors.New("unknown column")

// MissingCell is shown for empty cells ("não informado").
const MissingCell = "NI"

// Query selects the visible rows of the table.
type Query struct {
	Search  string            // case-insensitive substring over every column
	Filters map[string]string // exact match, empty value = no filter
	SortBy  string
	Desc    bool
}

// Apply returns the row indexes matching q, in display order.
func (cs *ColumnStore) Apply(q Query) ([]int, error) {
	type filter struct {
		col  int
		code int32
	}
	var filters []filter
	noMatch := false
	for name, want := range q.Filters {
		c, ok := cs.colIndex[name]
		if !ok {
			return nil, fmt.Errorf("%w: filter on %q", ErrUnknownColumn, name)
		}
		if want == "" {
			continue
		}
		code := int32(slices.Index(cs.Dicts[c], want))
		if code <= 0 {
			// value never occurs, nothing can match
			noMatch = true
			continue
		}
		filters = append(filters, filter{col: c, code: code})
	}

	sortCol := -1
	if q.SortBy != "" {
		c, ok := cs.colIndex[q.SortBy]
		if !ok {
			return nil, fmt.Errorf("%w: sort by %q", ErrUnknownColumn, q.SortBy)
		}
		sortCol = c
	}
	if noMatch {
		return []int{}, nil
	}

	term := ""
	if s := strings.TrimSpace(q.Search); s != "" {
		term = cases.Fold().String(s)
	}

	out := make([]int, 0, cs.rows)
rows:
	for r := 0; r < cs.rows; r++ {
		for _, f := range filters {
			if cs.Codes[f.col][r] != f.code {
				continue rows
			}
		}
		if term != "" && !cs.rowContains(r, term) {
			continue
		}
		out = append(out, r)
	}

	if sortCol >= 0 {
		dict, codes := cs.Dicts[sortCol], cs.Codes[sortCol]
		slices.SortStableFunc(out, func(a, b int) int {
			n := strings.Compare(dict[codes[a]], dict[codes[b]])
			if q.Desc {
				return -n
			}
			return n
		})
	}
	return out, nil
}

func (cs *ColumnStore) rowContains(r int, term string) bool {
	for c := range cs.Columns {
		if strings.Contains(cs.folded[c][cs.Codes[c][r]], term) {
			return true
		}
	}
	return false
}

// Rows returns the raw cells of the given rows, in column order.
func (cs *ColumnStore) Rows(idx []int) [][]string {
	out := make([][]string, 0, len(idx))
	for _, r := range idx {
		row := make([]string, len(cs.Columns))
		for c := range cs.Columns {
			row[c] = cs.Dicts[c][cs.Codes[c][r]]
		}
		out = append(out, row)
	}
	return out
}

// View runs q and returns display cells, with MissingCell for empty ones.
func (cs *ColumnStore) View(q Query) (models.TableView, error) {
	idx, err := cs.Apply(q)
	if err != nil {
		return models.TableView{}, err
	}
	rows := cs.Rows(idx)
	for _, row := range rows {
		for i, v := range row {
			if v == "" {
				row[i] = MissingCell
			}
		}
	}
	return models.TableView{
		Columns: slices.Clone(cs.Columns),
		Rows:    rows,
		Visible: len(rows),
		Total:   cs.rows,
	}, nil
}
