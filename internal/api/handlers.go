package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/seplanfuncionariocg/feira-central-seplan/internal/config"
	"github.com/seplanfuncionariocg/feira-central-seplan/internal/engine"
	"github.com/seplanfuncionariocg/feira-central-seplan/internal/render"
)

// Handler serves one dashboard. It starts loading and moves once to ready
// (SetData) or failed (SetError).
type Handler struct {
	cfg      config.Config
	renderer *render.Renderer

	mu    sync.RWMutex
	state render.State
	snap  *render.Snapshot
	err   error
}

func NewHandler(cfg config.Config, r *render.Renderer) *Handler {
	return &Handler{cfg: cfg, renderer: r, state: render.StateLoading}
}

// SetData publishes a loaded snapshot. Calls after the first transition are ignored.
func (h *Handler) SetData(s *render.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state != render.StateLoading {
		return
	}
	h.snap = s
	h.state = render.StateReady
}

// SetError marks the load as failed for the life of the process.
func (h *Handler) SetError(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state != render.StateLoading {
		return
	}
	h.err = err
	h.state = render.StateFailed
}

func (h *Handler) current() (render.State, *render.Snapshot, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state, h.snap, h.err
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.GetDashboard)
	e.GET("/health", h.GetHealth)
	e.GET("/ready", h.GetReady)
	e.GET("/export.csv", h.GetExportCSV)
	e.GET("/export.xlsx", h.GetExportXLSX)

	api := e.Group("/api")
	api.GET("/datasets", h.GetDatasets)
	api.GET("/datasets/:key", h.GetDataset)
	api.GET("/pyramid", h.GetPyramid)
	api.GET("/income/:key", h.GetIncome)
	api.GET("/kpis", h.GetKPIs)
	api.GET("/charts", h.GetCharts)
	api.GET("/table", h.GetTable)
}

// --- HELPERS ---

type errorBody struct {
	Error string `json:"error"`
}

type statusBody struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// ready returns the snapshot, or writes the 503 for loading/failed and
// returns nil.
func (h *Handler) ready(c echo.Context) (*render.Snapshot, error) {
	state, snap, err := h.current()
	switch state {
	case render.StateReady:
		return snap, nil
	case render.StateFailed:
		return nil, c.JSON(http.StatusServiceUnavailable, statusBody{Status: string(state), Error: err.Error()})
	default:
		return nil, c.JSON(http.StatusServiceUnavailable, statusBody{Status: string(state)})
	}
}

func getPaginationParams(c echo.Context, defaultLimit int) (int, int) {
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	offset, err := strconv.Atoi(c.QueryParam("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

func queryError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, engine.ErrUnknownDataset):
		status = http.StatusNotFound
	case errors.Is(err, engine.ErrUnknownColumn):
		status = http.StatusBadRequest
	}
	return c.JSON(status, errorBody{Error: err.Error()})
}

// --- HANDLERS ---

func (h *Handler) GetHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, statusBody{Status: "ok"})
}

func (h *Handler) GetReady(c echo.Context) error {
	state, _, err := h.current()
	body := statusBody{Status: string(state)}
	if state == render.StateReady {
		return c.JSON(http.StatusOK, body)
	}
	if err != nil {
		body.Error = err.Error()
	}
	return c.JSON(http.StatusServiceUnavailable, body)
}

// GetDashboard renders the page for the current state. Loading and failed
// pages go out as 503 so probes and caches do not keep them.
func (h *Handler) GetDashboard(c echo.Context) error {
	state, snap, loadErr := h.current()
	page := render.Page{Title: h.cfg.Title, Subtitle: h.cfg.Subtitle, State: state}
	status := http.StatusServiceUnavailable

	switch state {
	case render.StateFailed:
		page.Error = loadErr.Error()
	case render.StateReady:
		var table *render.TablePanel
		if t := snap.Dashboard.Table; t != nil {
			var err error
			table, err = render.NewTablePanel(t, h.cfg.Table.Filters, render.DecodeQuery(c.QueryParams()), "/", true)
			if err != nil {
				return queryError(c, err)
			}
		}
		page = snap.Page(h.cfg, table)
		status = http.StatusOK
	}

	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, page); err != nil {
		log.Error().Err(err).Msg("render dashboard")
		return echo.NewHTTPError(http.StatusInternalServerError, "render failed")
	}
	return c.HTMLBlob(status, buf.Bytes())
}

func (h *Handler) GetDatasets(c echo.Context) error {
	snap, err := h.ready(c)
	if snap == nil {
		return err
	}
	return c.JSON(http.StatusOK, snap.Summaries)
}

func (h *Handler) GetDataset(c echo.Context) error {
	snap, err := h.ready(c)
	if snap == nil {
		return err
	}
	key := c.Param("key")
	panel, ok := snap.Chart(key)
	if !ok {
		return queryError(c, fmt.Errorf("%w: %q", engine.ErrUnknownDataset, key))
	}
	return c.JSON(http.StatusOK, panel.Presentation)
}

func (h *Handler) GetPyramid(c echo.Context) error {
	snap, err := h.ready(c)
	if snap == nil {
		return err
	}
	if snap.Pyramid == nil {
		return queryError(c, fmt.Errorf("%w: %q", engine.ErrUnknownDataset, h.cfg.Pyramid.Document))
	}
	return c.JSON(http.StatusOK, snap.Pyramid.View)
}

func (h *Handler) GetIncome(c echo.Context) error {
	snap, err := h.ready(c)
	if snap == nil {
		return err
	}
	key := c.Param("key")
	stats, ok := snap.Dashboard.Income[key]
	if !ok {
		return queryError(c, fmt.Errorf("%w: %q", engine.ErrUnknownDataset, key))
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) GetKPIs(c echo.Context) error {
	snap, err := h.ready(c)
	if snap == nil {
		return err
	}
	return c.JSON(http.StatusOK, snap.KPIs)
}

func (h *Handler) GetCharts(c echo.Context) error {
	snap, err := h.ready(c)
	if snap == nil {
		return err
	}
	return c.JSON(http.StatusOK, snap.Options())
}

// GetTable returns the visible rows, paged with limit/offset.
func (h *Handler) GetTable(c echo.Context) error {
	snap, err := h.ready(c)
	if snap == nil {
		return err
	}
	t := snap.Dashboard.Table
	if t == nil {
		return queryError(c, fmt.Errorf("%w: %q", engine.ErrUnknownDataset, h.cfg.Table.Document))
	}
	view, err := t.View(render.DecodeQuery(c.QueryParams()))
	if err != nil {
		return queryError(c, err)
	}

	total := view.Visible
	limit, offset := getPaginationParams(c, total)
	rows := view.Rows
	if offset >= total {
		rows = [][]string{}
	} else {
		end := min(offset+limit, total)
		rows = rows[offset:end]
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"columns": view.Columns,
		"data":    rows,
		"visible": view.Visible,
		"total":   view.Total,
		"limit":   limit,
		"offset":  offset,
	})
}
