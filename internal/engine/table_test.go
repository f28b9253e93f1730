package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() *ColumnStore {
	columns := []string{"Nome", "Gênero", "Cidade", "Observação"}
	rows := []map[string]string{
		{"Nome": "Maria", "Gênero": "Feminino", "Cidade": "Campina Grande", "Observação": "gênero informado"},
		{"Nome": "José", "Gênero": "Masculino", "Cidade": "Lagoa Seca"},
		{"Nome": "Ana", "Gênero": "Feminino", "Cidade": "Campina Grande", "Extra": "ignored"},
		{"Nome": "Zé", "Cidade": "Queimadas"},
	}
	return NewColumnStore(columns, rows)
}

func TestColumnStoreDictionaries(t *testing.T) {
	cs := sampleTable()

	assert.Equal(t, 4, cs.Len())
	assert.Equal(t, []string{"Feminino", "Masculino"}, cs.Distinct("Gênero"))
	assert.Equal(t, []string{"Campina Grande", "Lagoa Seca", "Queimadas"}, cs.Distinct("Cidade"))
	assert.Nil(t, cs.Distinct("Extra"))
	assert.False(t, cs.HasColumn("Extra"))

	assert.Equal(t, "José", cs.Value(1, "Nome"))
	assert.Equal(t, "", cs.Value(3, "Gênero"))
	// rows with the same value share one code
	assert.Equal(t, cs.Codes[2][0], cs.Codes[2][2])
}

func TestApplySearchIsCaseInsensitive(t *testing.T) {
	cs := sampleTable()

	idx, err := cs.Apply(Query{Search: "GÊNERO"})
	require.NoError(t, err)
	assert.Equal(t, []int{0}, idx)

	idx, err = cs.Apply(Query{Search: "  campina "})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, idx)

	idx, err = cs.Apply(Query{})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, idx)
}

func TestApplyFilters(t *testing.T) {
	cs := sampleTable()

	idx, err := cs.Apply(Query{Filters: map[string]string{"Gênero": "Feminino", "Cidade": ""}})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, idx)

	idx, err = cs.Apply(Query{Filters: map[string]string{"Gênero": "Outro"}})
	require.NoError(t, err)
	assert.Empty(t, idx)

	// exact match only
	idx, err = cs.Apply(Query{Filters: map[string]string{"Gênero": "feminino"}})
	require.NoError(t, err)
	assert.Empty(t, idx)

	_, err = cs.Apply(Query{Filters: map[string]string{"Idade": "30"}})
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestApplySort(t *testing.T) {
	cs := sampleTable()

	idx, err := cs.Apply(Query{SortBy: "Nome"})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1, 0, 3}, idx)

	// stable: the two Campina Grande rows keep their order
	idx, err = cs.Apply(Query{SortBy: "Cidade", Desc: true})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1, 0, 2}, idx)

	// missing cells sort as ""
	idx, err = cs.Apply(Query{SortBy: "Gênero"})
	require.NoError(t, err)
	assert.Equal(t, 3, idx[0])

	_, err = cs.Apply(Query{SortBy: "Idade"})
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestViewShowsMissingCells(t *testing.T) {
	cs := sampleTable()

	v, err := cs.View(Query{Filters: map[string]string{"Cidade": "Queimadas"}})
	require.NoError(t, err)

	assert.Equal(t, 1, v.Visible)
	assert.Equal(t, 4, v.Total)
	assert.Equal(t, []string{"Nome", "Gênero", "Cidade", "Observação"}, v.Columns)
	assert.Equal(t, [][]string{{"Zé", MissingCell, "Queimadas", MissingCell}}, v.Rows)

	// Rows keeps the raw value for exports
	assert.Equal(t, [][]string{{"Zé", "", "Queimadas", ""}}, cs.Rows([]int{3}))
}

func TestApplyValidatesEveryColumnBeforeEmptyResult(t *testing.T) {
	cs := sampleTable()

	// run it many times so map order puts the unmatched value first at least once
	for i := 0; i < 50; i++ {
		_, err := cs.Apply(Query{Filters: map[string]string{
			"Gênero": "Outro",
			"Idade":  "30",
			"Cidade": "Recife",
			"Nome":   "Ninguém",
		}})
		require.ErrorIs(t, err, ErrUnknownColumn)
	}

	_, err := cs.Apply(Query{Filters: map[string]string{"Gênero": "Outro"}, SortBy: "Idade"})
	assert.ErrorIs(t, err, ErrUnknownColumn)
}
