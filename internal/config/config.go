package config

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"slices"
	"time"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/seplanfuncionariocg/feira-central-seplan/internal/engine"
	"github.com/seplanfuncionariocg/feira-central-seplan/internal/models"
)

const DefaultPath = "dashboard.yaml"

type Config struct {
	Title    string        `yaml:"title"`
	Subtitle string        `yaml:"subtitle"`
	Server   ServerConfig  `yaml:"server"`
	Source   SourceConfig  `yaml:"source"`
	Log      LogConfig     `yaml:"log"`
	Export   ExportConfig  `yaml:"export"`
	Income   []string      `yaml:"income"`
	Pyramid  PyramidConfig `yaml:"pyramid"`
	Charts   []ChartConfig `yaml:"charts"`
	KPIs     []KPIConfig   `yaml:"kpis"`
	Table    TableConfig   `yaml:"table"`
}

type ServerConfig struct {
	Addr      string  `yaml:"addr"`
	RateLimit float64 `yaml:"rate_limit"` // requests per second per client, 0 = off
}

type SourceConfig struct {
	Dir     string        `yaml:"dir"`
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

type ExportConfig struct {
	Filename string `yaml:"filename"`
}

type PyramidConfig struct {
	Document string `yaml:"document"`
	Title    string `yaml:"title"`
}

type ChartConfig struct {
	Key            string            `yaml:"key"`
	Title          string            `yaml:"title"`
	Kind           string            `yaml:"kind"`
	ShapeThreshold int               `yaml:"shape_threshold"`
	ShareThreshold float64           `yaml:"share_threshold"`
	TopN           int               `yaml:"top_n"`
	Sort           *bool             `yaml:"sort"`
	Colors         []string          `yaml:"colors"`
	Relabel        map[string]string `yaml:"relabel"`
}

type KPIConfig struct {
	Label    string `yaml:"label"`
	Kind     string `yaml:"kind"`
	Source   string `yaml:"source"`
	Category string `yaml:"category"`
}

type TableConfig struct {
	Document string   `yaml:"document"`
	Columns  []string `yaml:"columns"`
	Filters  []string `yaml:"filters"`
}

// Options fills chart defaults for unset fields.
func (c ChartConfig) Options() engine.Options {
	o := engine.DefaultOptions(c.Key)
	if c.Title != "" {
		o.Title = c.Title
	}
	if c.Kind != "" {
		o.Kind = engine.ChartKind(c.Kind)
	}
	if c.ShapeThreshold != 0 {
		o.ShapeThreshold = c.ShapeThreshold
	}
	if c.ShareThreshold != 0 {
		o.ShareThreshold = c.ShareThreshold
	}
	if c.Sort != nil {
		o.Sort = *c.Sort
	}
	o.TopN = c.TopN
	o.Colors = c.Colors
	return o
}

func (k KPIConfig) Spec() engine.KPISpec {
	return engine.KPISpec{
		Label:    k.Label,
		Kind:     engine.KPIKind(k.Kind),
		Source:   k.Source,
		Category: k.Category,
	}
}

// Chart looks a chart up by dataset key.
func (c Config) Chart(key string) (ChartConfig, bool) {
	for _, ch := range c.Charts {
		if ch.Key == key {
			return ch, true
		}
	}
	return ChartConfig{}, false
}

// Manifest lists every document the dashboard needs.
func (c Config) Manifest() engine.Manifest {
	m := engine.Manifest{
		Income:  c.Income,
		Pyramid: c.Pyramid.Document,
		Records: c.Table.Document,
		Columns: c.Table.Columns,
	}
	charts := lo.Map(c.Charts, func(ch ChartConfig, _ int) string { return ch.Key })
	kpis := lo.FilterMap(c.KPIs, func(k KPIConfig, _ int) (string, bool) {
		return k.Source, engine.KPIKind(k.Kind) != engine.KPIMean
	})
	m.Datasets = lo.Uniq(lo.Compact(append(charts, kpis...)))
	return m
}

// NewSource prefers a base URL over a directory.
func (c Config) NewSource() engine.Source {
	if c.Source.BaseURL != "" {
		return engine.HTTPSource{
			BaseURL: c.Source.BaseURL,
			Client:  &http.Client{Timeout: c.Source.Timeout},
		}
	}
	return engine.NewDirSource(c.Source.Dir)
}

// Load reads path over DefaultConfig and applies env overrides.
// A missing file at the default path is not an error.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = os.Getenv("FEIRA_CONFIG")
		explicit = path != ""
	}
	if path == "" {
		path = DefaultPath
	}

	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// built-in defaults
	default:
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("FEIRA_DATA_DIR"); v != "" {
		cfg.Source.Dir = v
	}
	if v := os.Getenv("FEIRA_BASE_URL"); v != "" {
		cfg.Source.BaseURL = v
	}
	if v := os.Getenv("FEIRA_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("FEIRA_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

func (c Config) Validate() error {
	if c.Source.Dir == "" && c.Source.BaseURL == "" {
		return fmt.Errorf("%w: source.dir or source.base_url is required", models.ErrInvalidConfig)
	}
	if c.Source.Timeout <= 0 {
		return fmt.Errorf("%w: source.timeout must be positive", models.ErrInvalidConfig)
	}
	if c.Export.Filename == "" {
		return fmt.Errorf("%w: export.filename is required", models.ErrInvalidConfig)
	}

	seen := make(map[string]bool, len(c.Charts))
	for i, ch := range c.Charts {
		if ch.Key == "" {
			return fmt.Errorf("%w: charts[%d] has no key", models.ErrInvalidConfig, i)
		}
		if seen[ch.Key] {
			return fmt.Errorf("%w: chart %q declared twice", models.ErrInvalidConfig, ch.Key)
		}
		seen[ch.Key] = true

		o := ch.Options()
		if !o.Kind.Valid() {
			return fmt.Errorf("%w: chart %q has unknown kind %q", models.ErrInvalidConfig, ch.Key, ch.Kind)
		}
		if o.ShapeThreshold < 1 {
			return fmt.Errorf("%w: chart %q shape_threshold %d, want >= 1", models.ErrInvalidConfig, ch.Key, o.ShapeThreshold)
		}
		if o.ShareThreshold <= 0 || o.ShareThreshold >= 1 {
			return fmt.Errorf("%w: chart %q share_threshold %v, want 0 < t < 1", models.ErrInvalidConfig, ch.Key, o.ShareThreshold)
		}
		if o.TopN < 0 {
			return fmt.Errorf("%w: chart %q top_n %d, want >= 0", models.ErrInvalidConfig, ch.Key, o.TopN)
		}
	}

	for _, k := range c.KPIs {
		switch engine.KPIKind(k.Kind) {
		case engine.KPITotal, engine.KPIMean:
		case engine.KPICount:
			if k.Category == "" {
				return fmt.Errorf("%w: kpi %q needs a category", models.ErrInvalidConfig, k.Label)
			}
		default:
			return fmt.Errorf("%w: kpi %q has unknown kind %q", models.ErrInvalidConfig, k.Label, k.Kind)
		}
		if k.Source == "" {
			return fmt.Errorf("%w: kpi %q has no source", models.ErrInvalidConfig, k.Label)
		}
		if engine.KPIKind(k.Kind) == engine.KPIMean && !slices.Contains(c.Income, k.Source) {
			return fmt.Errorf("%w: kpi %q reads income %q, which is not in income", models.ErrInvalidConfig, k.Label, k.Source)
		}
	}

	cols := make(map[string]bool, len(c.Table.Columns))
	for _, col := range c.Table.Columns {
		cols[col] = true
	}
	for _, f := range c.Table.Filters {
		if len(cols) > 0 && !cols[f] {
			return fmt.Errorf("%w: table filter %q is not a visible column", models.ErrInvalidConfig, f)
		}
	}
	return nil
}
