package engine

import (
	"slices"

	"golang.org/x/text/cases"
)

// ColumnStore holds the respondent table in Struct-of-Arrays format.
// Every column is dictionary encoded: Codes[col][row] indexes Dicts[col].
// Code 0 is always the empty cell.
type ColumnStore struct {
	Columns []string
	Codes   [][]int32
	Dicts   [][]string

	folded   [][]string // case-folded copy of Dicts, for search
	colIndex map[string]int
	rows     int
}

// NewColumnStore encodes rows for the given columns. Cells of other keys are
// dropped; missing cells become "".
func NewColumnStore(columns []string, rows []map[string]string) *ColumnStore {
	cs := &ColumnStore{
		Columns:  slices.Clone(columns),
		Codes:    make([][]int32, len(columns)),
		Dicts:    make([][]string, len(columns)),
		folded:   make([][]string, len(columns)),
		colIndex: make(map[string]int, len(columns)),
		rows:     len(rows),
	}

	fold := cases.Fold()
	for c, name := range columns {
		cs.colIndex[name] = c
		lookup := map[string]int32{"": 0}
		dict := []string{""}
		codes := make([]int32, len(rows))

		for r, row := range rows {
			v := row[name]
			id, ok := lookup[v]
			if !ok {
				id = int32(len(dict))
				dict = append(dict, v)
				lookup[v] = id
			}
			codes[r] = id
		}

		cs.Codes[c] = codes
		cs.Dicts[c] = dict
		cs.folded[c] = make([]string, len(dict))
		for i, s := range dict {
			cs.folded[c][i] = fold.String(s)
		}
	}
	return cs
}

func (cs *ColumnStore) Len() int { return cs.rows }

func (cs *ColumnStore) HasColumn(name string) bool {
	_, ok := cs.colIndex[name]
	return ok
}

// Value returns the raw cell, "" when empty or the column is unknown.
func (cs *ColumnStore) Value(row int, column string) string {
	c, ok := cs.colIndex[column]
	if !ok {
		return ""
	}
	return cs.Dicts[c][cs.Codes[c][row]]
}

// Distinct returns the sorted non-empty values of a column.
func (cs *ColumnStore) Distinct(column string) []string {
	c, ok := cs.colIndex[column]
	if !ok {
		return nil
	}
	out := slices.Clone(cs.Dicts[c][1:])
	slices.Sort(out)
	return out
}
