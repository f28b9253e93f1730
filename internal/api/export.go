package api

import (
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/seplanfuncionariocg/feira-central-seplan/internal/engine"
	"github.com/seplanfuncionariocg/feira-central-seplan/internal/render"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// GetExportCSV downloads the rows the table currently shows for the request's
// search, filters and sort. Cells are raw, without the NI placeholder.
func (h *Handler) GetExportCSV(c echo.Context) error {
	return h.export(c, "text/csv; charset=utf-8", h.cfg.Export.Filename, engine.WriteCSV)
}

func (h *Handler) GetExportXLSX(c echo.Context) error {
	return h.export(c, xlsxContentType, engine.XLSXFilename(h.cfg.Export.Filename), engine.WriteXLSX)
}

func (h *Handler) export(c echo.Context, contentType, filename string, write func(w io.Writer, columns []string, rows [][]string) error) error {
	snap, err := h.ready(c)
	if snap == nil {
		return err
	}
	t := snap.Dashboard.Table
	if t == nil {
		return queryError(c, fmt.Errorf("%w: %q", engine.ErrUnknownDataset, h.cfg.Table.Document))
	}
	idx, err := t.Apply(render.DecodeQuery(c.QueryParams()))
	if err != nil {
		return queryError(c, err)
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, contentType)
	res.Header().Set(echo.HeaderContentDisposition, mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	res.WriteHeader(http.StatusOK)
	return write(res, t.Columns, t.Rows(idx))
}
