package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/seplanfuncionariocg/feira-central-seplan/internal/api"
	"github.com/seplanfuncionariocg/feira-central-seplan/internal/config"
	"github.com/seplanfuncionariocg/feira-central-seplan/internal/engine"
	"github.com/seplanfuncionariocg/feira-central-seplan/internal/logging"
	"github.com/seplanfuncionariocg/feira-central-seplan/internal/render"
)

const shutdownTimeout = 10 * time.Second

func setup(configPath string) (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Pretty)
	return cfg, nil
}

// loadDashboard fetches the whole document set under the source timeout.
func loadDashboard(ctx context.Context, cfg config.Config) (*engine.Dashboard, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Source.Timeout)
	defer cancel()
	return engine.Load(ctx, cfg.NewSource(), cfg.Manifest())
}

func loadSnapshot(ctx context.Context, cfg config.Config) (*render.Snapshot, error) {
	d, err := loadDashboard(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return render.Prepare(cfg, d)
}

func runServe(ctx context.Context, configPath, addr string) error {
	cfg, err := setup(configPath)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}
	renderer, err := render.NewRenderer()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Handler starts in loading; every route answers 503 until SetData
	h := api.NewHandler(cfg, renderer)
	e := api.NewServer(cfg, h)

	// 2. Load in the background
	go func() {
		log.Info().Msg("loading dashboard data")
		t0 := time.Now()

		snap, err := loadSnapshot(ctx, cfg)
		if err != nil {
			log.Error().Err(err).Msg("dashboard data failed to load")
			h.SetError(err)
			return
		}
		h.SetData(snap)

		log.Info().Dur("took", time.Since(t0)).Msg("dashboard ready")
	}()

	// 3. Start the server right away
	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("server listening (data loading in background)")
		if err := e.Start(cfg.Server.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	log.Info().Msg("shutting down")
	return e.Shutdown(shutdownCtx)
}

func runRender(ctx context.Context, configPath, out string) error {
	cfg, err := setup(configPath)
	if err != nil {
		return err
	}
	renderer, err := render.NewRenderer()
	if err != nil {
		return err
	}
	snap, err := loadSnapshot(ctx, cfg)
	if err != nil {
		return err
	}

	var table *render.TablePanel
	if t := snap.Dashboard.Table; t != nil {
		if table, err = render.NewTablePanel(t, nil, engine.Query{}, "", false); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(out, 0o755); err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(out, "index.html"))
	if err != nil {
		return err
	}
	defer f.Close()
	if err := renderer.Render(f, snap.Page(cfg, table)); err != nil {
		return fmt.Errorf("render index.html: %w", err)
	}

	b, err := json.MarshalIndent(snap.Options(), "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(out, "charts.json"), b, 0o644); err != nil {
		return err
	}
	log.Info().Str("out", out).Int("charts", len(snap.Options())).Msg("static dashboard written")
	return f.Close()
}

func tableQuery(search string, filters map[string]string, sortBy string, desc bool) engine.Query {
	return engine.Query{Search: search, Filters: filters, SortBy: sortBy, Desc: desc}
}

func runExport(ctx context.Context, configPath, out string, q engine.Query) error {
	cfg, err := setup(configPath)
	if err != nil {
		return err
	}
	if out == "" {
		out = cfg.Export.Filename
	}
	d, err := loadDashboard(ctx, cfg)
	if err != nil {
		return err
	}
	if d.Table == nil {
		return fmt.Errorf("%w: no table document configured", engine.ErrUnknownDataset)
	}
	idx, err := d.Table.Apply(q)
	if err != nil {
		return err
	}

	write := engine.WriteCSV
	if strings.EqualFold(filepath.Ext(out), ".xlsx") {
		write = engine.WriteXLSX
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := write(f, d.Table.Columns, d.Table.Rows(idx)); err != nil {
		return fmt.Errorf("export %s: %w", out, err)
	}
	log.Info().Str("out", out).Int("rows", len(idx)).Int("total", d.Table.Len()).Msg("export written")
	return f.Close()
}
