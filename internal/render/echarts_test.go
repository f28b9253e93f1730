package render

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seplanfuncionariocg/feira-central-seplan/internal/models"
)

// decoded marshals the chart options the way the page embeds them and reads
// them back as plain JSON values.
func decoded(t *testing.T, c *ChartOption) map[string]any {
	t.Helper()
	require.NotNil(t, c)
	b, err := json.Marshal(c.Options)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	return out
}

func seriesData(t *testing.T, opt map[string]any, series int) []map[string]any {
	t.Helper()
	list, ok := opt["series"].([]any)
	require.True(t, ok, "series missing")
	require.Greater(t, len(list), series)
	data, ok := list[series].(map[string]any)["data"].([]any)
	require.True(t, ok, "series data missing")
	out := make([]map[string]any, 0, len(data))
	for _, d := range data {
		out = append(out, d.(map[string]any))
	}
	return out
}

func genderPresentation(t *testing.T) models.Presentation {
	t.Helper()
	p, err := testDashboard().Present(testConfig().Charts[0].Options(), nil)
	require.NoError(t, err)
	require.Len(t, p.Overflow, 1)
	return p
}

func TestPieHidesOverflowLabels(t *testing.T) {
	opt := decoded(t, Chart(genderPresentation(t)))
	data := seriesData(t, opt, 0)
	require.Len(t, data, 2)

	assert.Equal(t, "Masculino", data[0]["name"])
	assert.Nil(t, data[0]["label"], "main slice uses the series label")

	assert.Equal(t, "Feminino", data[1]["name"])
	label, ok := data[1]["label"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, false, label["show"])
}

func TestTooltipsCarryShare(t *testing.T) {
	pie := seriesData(t, decoded(t, Chart(genderPresentation(t))), 0)
	tip := pie[1]["tooltip"].(map[string]any)
	assert.Equal(t, "Feminino: 8 (8.0%)", tip["formatter"])

	p, err := testDashboard().Present(testConfig().Charts[1].Options(), map[string]string{"CG": "Campina Grande"})
	require.NoError(t, err)
	bar := seriesData(t, decoded(t, Chart(p)), 0)
	require.NotEmpty(t, bar)
	tip = bar[0]["tooltip"].(map[string]any)
	assert.Equal(t, "Campina Grande: 10 (62.5%)", tip["formatter"])
}

func TestPyramidShowsAbsoluteCounts(t *testing.T) {
	d := testDashboard()
	c := Pyramid(d.PyramidView("Pirâmide Etária"))
	opt := decoded(t, c)

	male := seriesData(t, opt, 0)
	require.Len(t, male, 1)
	assert.EqualValues(t, -5, male[0]["value"])
	assert.Equal(t, "Masculino 18-24: 5", male[0]["tooltip"].(map[string]any)["formatter"])

	female := seriesData(t, opt, 1)
	assert.Equal(t, "Feminino 18-24: 15", female[0]["tooltip"].(map[string]any)["formatter"])

	js, err := optionJS(c)
	require.NoError(t, err)
	assert.Contains(t, string(js), "function (v) { return Math.abs(v); }")
	assert.NotContains(t, string(js), "__f__")
	assert.NotContains(t, string(js), `"function`)
}
