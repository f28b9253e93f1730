package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seplanfuncionariocg/feira-central-seplan/internal/models"
)

func TestOrderedCountsKeepsKeyOrder(t *testing.T) {
	var oc OrderedCounts
	require.NoError(t, oc.UnmarshalJSON([]byte(`{"Sim": 12, "Não": 30, "Não informado": 0}`)))

	assert.Equal(t, []string{"Sim", "Não", "Não informado"}, oc.Labels)
	assert.Equal(t, []int64{12, 30, 0}, oc.Values)
}

func TestOrderedCountsRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"fraction":  `{"a": 1.5}`,
		"negative":  `{"a": -1}`,
		"string":    `{"a": "3"}`,
		"nested":    `{"a": {"b": 1}}`,
		"duplicate": `{"a": 1, "a": 2}`,
		"array":     `[1, 2]`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			var oc OrderedCounts
			err := oc.UnmarshalJSON([]byte(doc))
			assert.ErrorIs(t, err, models.ErrInvalidAggregateData)
		})
	}
}

func TestRelabel(t *testing.T) {
	oc := counts("CG", 40, "Lagoa Seca", 3)

	out, err := Relabel(oc, map[string]string{"CG": "Campina Grande"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Campina Grande", "Lagoa Seca"}, out.Labels)
	assert.Equal(t, []int64{40, 3}, out.Values)

	// source untouched
	assert.Equal(t, "CG", oc.Labels[0])
}

func TestRelabelCollision(t *testing.T) {
	oc := counts("CG", 40, "Campina Grande", 2)

	_, err := Relabel(oc, map[string]string{"CG": "Campina Grande"})
	assert.ErrorIs(t, err, models.ErrInvalidAggregateData)
}

func TestOrderedCountsRejectsTrailingData(t *testing.T) {
	var oc OrderedCounts
	err := oc.UnmarshalJSON([]byte(`{"a": 1} {"b": 2}`))
	assert.ErrorIs(t, err, ErrMalformedDocument)
	assert.Empty(t, oc.Labels)
}
