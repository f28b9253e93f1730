package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seplanfuncionariocg/feira-central-seplan/internal/engine"
	"github.com/seplanfuncionariocg/feira-central-seplan/internal/models"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dashboard.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	genero, ok := cfg.Chart("genero")
	require.True(t, ok)
	o := genero.Options()
	assert.Equal(t, engine.KindPie, o.Kind)
	assert.Equal(t, 0.08, o.ShareThreshold)
	assert.True(t, o.Sort)

	faixa, _ := cfg.Chart("faixa_etaria")
	assert.False(t, faixa.Options().Sort)

	estado, _ := cfg.Chart("estado_civil")
	assert.Equal(t, engine.DefaultOptions("estado_civil").ShareThreshold, estado.Options().ShareThreshold)
	assert.Equal(t, engine.KindSmart, estado.Options().Kind)
}

func TestManifestDeduplicatesKeys(t *testing.T) {
	m := DefaultConfig().Manifest()

	assert.Len(t, m.Datasets, 18)
	assert.Equal(t, "genero", m.Datasets[0])
	assert.Equal(t, []string{"renda_stats", "renda_domiciliar_stats"}, m.Income)
	assert.Equal(t, "piramide", m.Pyramid)
	assert.Equal(t, "registros", m.Records)
	assert.NotContains(t, m.Datasets, "renda_stats")
}

func TestLoadFileOverDefaults(t *testing.T) {
	t.Setenv("FEIRA_DATA_DIR", "")
	t.Setenv("FEIRA_BASE_URL", "")
	t.Setenv("FEIRA_ADDR", "")
	t.Setenv("FEIRA_LOG_LEVEL", "")

	path := writeConfig(t, `
title: Teste
source:
  dir: /srv/feira
  timeout: 3s
charts:
  - key: genero
    kind: pie
    share_threshold: 0.1
  - key: cidade
    relabel:
      CG: Campina Grande
kpis:
  - label: Total
    kind: total
    source: genero
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Teste", cfg.Title)
	assert.Equal(t, "/srv/feira", cfg.Source.Dir)
	assert.Equal(t, 3*time.Second, cfg.Source.Timeout)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	require.Len(t, cfg.Charts, 2)
	assert.Equal(t, "Campina Grande", cfg.Charts[1].Relabel["CG"])
	assert.Equal(t, []string{"genero", "cidade"}, cfg.Manifest().Datasets)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("FEIRA_CONFIG", "")
	t.Setenv("FEIRA_DATA_DIR", "/tmp/dados")
	t.Setenv("FEIRA_BASE_URL", "https://example.org/data")
	t.Setenv("FEIRA_ADDR", ":9090")
	t.Setenv("FEIRA_LOG_LEVEL", "debug")
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/dados", cfg.Source.Dir)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.IsType(t, engine.HTTPSource{}, cfg.NewSource())
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]string{
		"threshold":    "charts:\n  - key: genero\n    share_threshold: 1.5\n",
		"shape":        "charts:\n  - key: genero\n    shape_threshold: -1\n",
		"kind":         "charts:\n  - key: genero\n    kind: donut\n",
		"duplicate":    "charts:\n  - key: genero\n  - key: genero\n",
		"no key":       "charts:\n  - title: Sem chave\n",
		"top_n":        "charts:\n  - key: genero\n    top_n: -2\n",
		"kpi category": "kpis:\n  - label: MEI\n    kind: count\n    source: mei\n",
		"kpi kind":     "kpis:\n  - label: X\n    kind: median\n    source: mei\n",
		"kpi income":   "kpis:\n  - label: X\n    kind: mean\n    source: outra_renda\n",
		"table filter": "table:\n  columns: [Nome]\n  filters: [Cidade]\n",
		"no source":    "source:\n  dir: \"\"\n",
		"no filename":  "export:\n  filename: \"\"\n",
		"timeout":      "source:\n  timeout: -1s\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("FEIRA_DATA_DIR", "")
			t.Setenv("FEIRA_BASE_URL", "")
			_, err := Load(writeConfig(t, body))
			assert.ErrorIs(t, err, models.ErrInvalidConfig)
		})
	}
}
