// Package dataset downloads and parses the NOAA storm events archive.
//
// The archive is fetched once and cached on disk; subsequent runs reuse the
// local copy. Compression is detected from magic bytes, so the same loader
// handles the published bzip2 archive, gzip mirrors, and plain CSV fixtures.
package dataset

import (
	"bufio"
	"compress/bzip2"
	"compress/gzip"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/storm-impact-report/internal/config"
	"github.com/couchcryptid/storm-impact-report/internal/domain"
	"github.com/couchcryptid/storm-impact-report/internal/observability"
)

// Sentinel errors for the two terminal failure modes: the download and the
// parse. Both abort the run; there is no retry policy.
var (
	ErrFetch = errors.New("dataset fetch failed")
	ErrParse = errors.New("dataset parse failed")
)

// Columns the report consumes. Header matching is case-insensitive.
const (
	colEventType  = "EVTYPE"
	colFatalities = "FATALITIES"
	colInjuries   = "INJURIES"
	colPropDamage = "PROPDMG"
	colPropExp    = "PROPDMGEXP"
	colCropDamage = "CROPDMG"
	colCropExp    = "CROPDMGEXP"
)

var requiredColumns = []string{
	colEventType, colFatalities, colInjuries,
	colPropDamage, colPropExp, colCropDamage, colCropExp,
}

// Loader ensures a local copy of the dataset exists and parses it into
// storm event records.
type Loader struct {
	path       string
	url        string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewLoader creates a Loader for the configured dataset path and source URL.
func NewLoader(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Loader {
	return &Loader{
		path: cfg.DatasetPath,
		url:  cfg.DatasetURL,
		httpClient: &http.Client{
			Timeout: cfg.FetchTimeout,
		},
		logger:  logger,
		metrics: metrics,
	}
}

// Load returns all storm event records from the local dataset, downloading
// it first if no file exists at the configured path.
func (l *Loader) Load(ctx context.Context) ([]domain.StormRecord, error) {
	if err := l.ensureLocal(ctx); err != nil {
		return nil, err
	}

	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil {
		l.metrics.DatasetBytes.Set(float64(info.Size()))
	}

	r, err := decompress(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	return l.parse(r)
}

// ensureLocal downloads the dataset to l.path unless a file already exists
// there. The download goes through a temp file so a failed run never leaves
// a truncated dataset behind to be mistaken for a cache hit.
func (l *Loader) ensureLocal(ctx context.Context) error {
	if _, err := os.Stat(l.path); err == nil {
		l.logger.Info("dataset cached, skipping download", "path", l.path)
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat dataset: %w", err)
	}

	l.logger.Info("downloading dataset", "url", l.url, "path", l.path)
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return fmt.Errorf("%w: create request: %v", ErrFetch, err)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status %d", ErrFetch, resp.StatusCode)
	}

	written, err := l.writeFile(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFetch, err)
	}

	l.metrics.FetchDuration.Observe(time.Since(start).Seconds())
	l.logger.Info("dataset downloaded", "bytes", written, "duration", time.Since(start))
	return nil
}

func (l *Loader) writeFile(body io.Reader) (int64, error) {
	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("create dataset dir: %w", err)
		}
	}

	tmp := l.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}

	written, err := io.Copy(f, body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp)
		return 0, fmt.Errorf("write dataset: %w", err)
	}

	if err := os.Rename(tmp, l.path); err != nil {
		os.Remove(tmp)
		return 0, fmt.Errorf("move dataset into place: %w", err)
	}
	return written, nil
}

// decompress wraps r with the right decompressor based on magic bytes:
// "BZh" for bzip2, 0x1f 0x8b for gzip, anything else passes through as
// plain CSV.
func decompress(r io.Reader) (io.Reader, error) {
	br := bufio.NewReaderSize(r, 1<<16)

	magic, err := br.Peek(3)
	if err != nil {
		// Too short to carry a compression header; let the CSV parser
		// report the real problem.
		return br, nil //nolint:nilerr
	}

	switch {
	case magic[0] == 'B' && magic[1] == 'Z' && magic[2] == 'h':
		return bzip2.NewReader(br), nil
	case magic[0] == 0x1f && magic[1] == 0x8b:
		return gzip.NewReader(br)
	default:
		return br, nil
	}
}

// parse reads the CSV stream into storm records. A missing required column
// or a malformed row is terminal; missing numeric cells are summed as zero
// and only counted.
func (l *Loader) parse(r io.Reader) ([]domain.StormRecord, error) {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: missing header: %v", ErrParse, err)
	}

	idx, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var records []domain.StormRecord
	missing := map[string]int{}
	unknownExp := 0

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrParse, len(records)+2, err)
		}

		rec := domain.StormRecord{
			EventType:      strings.TrimSpace(row[idx[colEventType]]),
			Fatalities:     parseNumeric(row[idx[colFatalities]], colFatalities, missing),
			Injuries:       parseNumeric(row[idx[colInjuries]], colInjuries, missing),
			PropertyDamage: parseNumeric(row[idx[colPropDamage]], colPropDamage, missing),
			PropertyExp:    strings.TrimSpace(row[idx[colPropExp]]),
			CropDamage:     parseNumeric(row[idx[colCropDamage]], colCropDamage, missing),
			CropExp:        strings.TrimSpace(row[idx[colCropExp]]),
		}

		if !domain.KnownExponent(rec.PropertyExp) {
			unknownExp++
		}
		if !domain.KnownExponent(rec.CropExp) {
			unknownExp++
		}

		records = append(records, rec)
	}

	l.metrics.RecordsParsed.Add(float64(len(records)))
	for col, n := range missing {
		l.metrics.MissingValues.WithLabelValues(col).Add(float64(n))
		l.logger.Debug("missing numeric values summed as zero", "column", col, "count", n)
	}
	if unknownExp > 0 {
		l.metrics.UnknownExponentCodes.Add(float64(unknownExp))
		l.logger.Debug("unrecognized damage exponent codes treated as multiplier 1", "count", unknownExp)
	}

	l.logger.Info("dataset parsed", "records", len(records))
	return records, nil
}

// mapColumns resolves required column names to indices, case-insensitively.
// The first header cell may carry a UTF-8 BOM.
func mapColumns(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		idx[strings.ToUpper(strings.TrimSpace(h))] = i
	}

	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%w: missing required column %s", ErrParse, col)
		}
	}
	return idx, nil
}

// parseNumeric parses a numeric cell, treating blank, "NA", and unparsable
// values as zero. Each zeroed cell is tallied per column.
func parseNumeric(s, column string, missing map[string]int) float64 {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "NA") {
		missing[column]++
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		missing[column]++
		return 0
	}
	return v
}
