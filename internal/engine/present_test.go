package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresentTopNAndOverflow(t *testing.T) {
	ds := dataset(t,
		"Balança", 40, "Freezer", 20, "Geladeira", 10, "Fogão", 10, "Mesa", 5,
		"Toldo", 5, "Carrinho", 4, "Caixa", 3, "Banco", 2, "Lona", 1)
	o := DefaultOptions("equipamentos")
	o.TopN = 8

	p, err := Present(ds, o)
	require.NoError(t, err)

	assert.False(t, p.Empty)
	assert.Equal(t, "bar", p.Shape)
	assert.Equal(t, int64(100), p.Total)
	assert.Len(t, p.Legend, 10)
	assert.Len(t, p.Chart, 8)
	assert.Equal(t, "Caixa", p.Chart[7].Label)

	// 5% is not strictly above the default threshold
	require.Len(t, p.Overflow, 6)
	assert.Equal(t, "Mesa", p.Overflow[0].Label)
	assert.Equal(t, "5.0%", p.Overflow[0].PercentText)
	assert.Equal(t, "Lona", p.Overflow[5].Label)

	assert.Equal(t, "40.0%", p.Legend[0].PercentText)
	assert.Equal(t, 1, p.Legend[0].Ordinal)
	assert.Equal(t, 10, p.Legend[9].Ordinal)
}

func TestPresentColorsCycle(t *testing.T) {
	ds := dataset(t, "a", 6, "b", 5, "c", 4, "d", 3, "e", 2, "f", 1)
	p, err := Present(ds, DefaultOptions("x"))
	require.NoError(t, err)

	assert.Equal(t, defaultColors[0], p.Legend[0].Color)
	assert.Equal(t, defaultColors[0], p.Legend[5].Color)
	assert.Equal(t, defaultColors[4], p.Legend[4].Color)
}

func TestPresentKinds(t *testing.T) {
	ds := dataset(t, "Fundamental", 3, "Médio", 9, "Superior", 4, "Pós", 1)

	o := DefaultOptions("escolaridade")
	o.Kind = KindNumbered
	p, err := Present(ds, o)
	require.NoError(t, err)
	assert.Equal(t, "bar", p.Shape)
	assert.Equal(t, "numbered", p.Kind)

	o.Kind = KindPie
	p, err = Present(ds, o)
	require.NoError(t, err)
	assert.Equal(t, "pie", p.Shape)

	o.Kind = KindList
	p, err = Present(ds, o)
	require.NoError(t, err)
	assert.Empty(t, p.Shape)
	assert.Len(t, p.Legend, 4)

	o.Kind = "donut"
	_, err = Present(ds, o)
	assert.Error(t, err)
}

func TestPresentSmallDatasetIsPie(t *testing.T) {
	p, err := Present(dataset(t, "Sim", 30, "Não", 70), DefaultOptions("mei"))
	require.NoError(t, err)
	assert.Equal(t, "pie", p.Shape)
	assert.Empty(t, p.Overflow)
}

func TestPresentEmpty(t *testing.T) {
	p, err := Present(dataset(t), DefaultOptions("cidade"))
	require.NoError(t, err)
	assert.True(t, p.Empty)
	assert.Empty(t, p.Legend)

	// categories present but nobody answered
	p, err = Present(dataset(t, "a", 0, "b", 0), DefaultOptions("cidade"))
	require.NoError(t, err)
	assert.True(t, p.Empty)
}
