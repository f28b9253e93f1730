package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/seplanfuncionariocg/feira-central-seplan/internal/models"
)

// ErrFetchFailure matches every *FetchError.
var ErrFetchFailure = errors.New("fetch failure")

// ErrMalformedDocument is a document that is not a single JSON value.
var ErrMalformedDocument = errors.New("malformed JSON document")

// FetchError is a network, read, or parse failure on one required document.
type FetchError struct {
	Document string
	Err      error
}

func (e *FetchError) Error() string { return fmt.Sprintf("fetch %s: %v", e.Document, e.Err) }
func (e *FetchError) Unwrap() error { return e.Err }
func (e *FetchError) Is(target error) bool {
	return target == ErrFetchFailure
}

// --- SOURCES ---

// Source reads one static document by name.
type Source interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// DirSource reads documents from a filesystem tree.
type DirSource struct {
	FS fs.FS
}

func NewDirSource(dir string) DirSource { return DirSource{FS: os.DirFS(dir)} }

func (s DirSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return fs.ReadFile(s.FS, name)
}

// HTTPSource reads documents relative to a base URL.
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
}

func (s HTTPSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	url := strings.TrimRight(s.BaseURL, "/") + "/" + name
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// --- MANIFEST ---

// Manifest names the documents of one fetch set. Names are without ".json".
type Manifest struct {
	Datasets []string
	Income   []string
	Pyramid  string
	Records  string
	Columns  []string
}

func documentName(name string) string { return name + ".json" }

// Dashboard is everything one load produced. Nothing in it changes afterwards.
type Dashboard struct {
	Datasets map[string]OrderedCounts
	Income   map[string]models.IncomeStats
	Pyramid  *models.Pyramid
	Table    *ColumnStore
	LoadedAt time.Time
}

// --- LOADER ---

// Load fetches and decodes every document of m concurrently. The first
// failure cancels the rest and is the only error returned.
func Load(ctx context.Context, src Source, m Manifest) (*Dashboard, error) {
	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)

	// each goroutine owns one slot, no locking needed
	datasets := make([]OrderedCounts, len(m.Datasets))
	income := make([]models.IncomeStats, len(m.Income))
	var pyramid *models.Pyramid
	var records []map[string]string

	for i, key := range m.Datasets {
		g.Go(func() error {
			return fetchInto(gctx, src, key, func(b []byte) error {
				return datasets[i].UnmarshalJSON(b)
			})
		})
	}
	for i, key := range m.Income {
		g.Go(func() error {
			return fetchInto(gctx, src, key, func(b []byte) error {
				if err := json.Unmarshal(b, &income[i]); err != nil {
					return err
				}
				return income[i].Validate()
			})
		})
	}
	if m.Pyramid != "" {
		g.Go(func() error {
			return fetchInto(gctx, src, m.Pyramid, func(b []byte) error {
				var doc models.PyramidDocument
				if err := json.Unmarshal(b, &doc); err != nil {
					return err
				}
				p, err := PyramidFromDocument(doc)
				if err != nil {
					return err
				}
				pyramid = &p
				return nil
			})
		})
	}
	if m.Records != "" {
		g.Go(func() error {
			return fetchInto(gctx, src, m.Records, func(b []byte) error {
				var err error
				records, err = decodeRecords(b)
				return err
			})
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	d := &Dashboard{
		Datasets: make(map[string]OrderedCounts, len(m.Datasets)),
		Income:   make(map[string]models.IncomeStats, len(m.Income)),
		Pyramid:  pyramid,
		LoadedAt: time.Now(),
	}
	for i, key := range m.Datasets {
		d.Datasets[key] = datasets[i]
	}
	for i, key := range m.Income {
		d.Income[key] = income[i]
	}
	if m.Records != "" {
		columns := m.Columns
		if len(columns) == 0 {
			columns = recordKeys(records)
		}
		d.Table = NewColumnStore(columns, records)
	}

	log.Info().
		Int("datasets", len(d.Datasets)).
		Int("income", len(d.Income)).
		Bool("pyramid", d.Pyramid != nil).
		Int("records", len(records)).
		Dur("took", time.Since(start)).
		Msg("dashboard data loaded")
	return d, nil
}

// fetchInto reads one document and hands it to decode. A document that is
// not one well-formed JSON value is a FetchError. Once the syntax is known
// good, every decode failure is about the values and becomes
// ErrInvalidAggregateData.
func fetchInto(ctx context.Context, src Source, name string, decode func([]byte) error) error {
	doc := documentName(name)
	b, err := src.Fetch(ctx, doc)
	if err != nil {
		return &FetchError{Document: doc, Err: err}
	}
	if !json.Valid(b) {
		return &FetchError{Document: doc, Err: ErrMalformedDocument}
	}
	if err := decode(b); err != nil {
		if errors.Is(err, models.ErrInvalidAggregateData) {
			return fmt.Errorf("%s: %w", doc, err)
		}
		return fmt.Errorf("%s: %w: %v", doc, models.ErrInvalidAggregateData, err)
	}
	log.Debug().Str("document", doc).Int("bytes", len(b)).Msg("document fetched")
	return nil
}

// decodeRecords reads an array of flat objects, stringifying scalar cells.
func decodeRecords(b []byte) ([]map[string]string, error) {
	var raw []map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, err
	}
	out := make([]map[string]string, 0, len(raw))
	for _, r := range raw {
		row := make(map[string]string, len(r))
		for k, v := range r {
			row[k] = cellString(v)
		}
		out = append(out, row)
	}
	return out, nil
}

func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

func recordKeys(records []map[string]string) []string {
	set := make(map[string]struct{})
	for _, r := range records {
		for k := range r {
			set[k] = struct{}{}
		}
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
