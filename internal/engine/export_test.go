package engine

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteCSVQuotesEveryField(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, []string{"Nome", "Obs"}, [][]string{
		{"Ana", `diz "oi"`},
		{"", "a,b"},
	})
	require.NoError(t, err)

	want := "\"Nome\",\"Obs\"\n" +
		"\"Ana\",\"diz \"\"oi\"\"\"\n" +
		"\"\",\"a,b\"\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSVHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []string{"Nome"}, nil))
	assert.Equal(t, "\"Nome\"\n", buf.String())
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	err := WriteXLSX(&buf, []string{"Nome", "Cidade"}, [][]string{
		{"Maria", "Campina Grande"},
		{"José", "Lagoa Seca"},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Dados")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Nome", "Cidade"},
		{"Maria", "Campina Grande"},
		{"José", "Lagoa Seca"},
	}, rows)
}

func TestXLSXFilename(t *testing.T) {
	assert.Equal(t, "feira_central_dados.xlsx", XLSXFilename(DefaultCSVFilename))
	assert.Equal(t, "dados.xlsx", XLSXFilename("dados"))
}
