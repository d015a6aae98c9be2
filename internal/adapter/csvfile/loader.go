// Package csvfile reads the school score spreadsheet export from disk.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ThiagoMachado211/mapa-calor-escolas-mg/internal/domain"
	"github.com/ThiagoMachado211/mapa-calor-escolas-mg/internal/observability"
)

// Loader reads and cleans a CSV file into a domain.Dataset.
type Loader struct {
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewLoader creates a Loader.
func NewLoader(logger *slog.Logger, metrics *observability.Metrics) *Loader {
	return &Loader{logger: logger, metrics: metrics}
}

// ParseStats describes what happened to the rows of one file.
type ParseStats struct {
	Rows    int
	Kept    int
	Dropped int
}

// Load opens path and parses it. A missing file wraps domain.ErrDatasetNotFound;
// unreadable CSV or a missing required column wraps domain.ErrMalformedDataset.
func (l *Loader) Load(ctx context.Context, path string) (*domain.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			l.metrics.DatasetLoads.WithLabelValues("not_found").Inc()
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrDatasetNotFound, path, err)
		}
		l.metrics.DatasetLoads.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		l.metrics.DatasetLoads.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("stat dataset: %w", err)
	}

	schools, stats, err := Parse(f, l.logger.With("path", path))
	if err != nil {
		l.metrics.DatasetLoads.WithLabelValues("malformed").Inc()
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	l.metrics.DatasetLoads.WithLabelValues("success").Inc()
	l.metrics.SchoolsLoaded.Set(float64(stats.Kept))
	l.metrics.RowsDropped.Add(float64(stats.Dropped))
	l.logger.Info("dataset loaded",
		"path", path,
		"rows", stats.Rows,
		"kept", stats.Kept,
		"dropped", stats.Dropped,
	)

	indicators := make([]domain.Indicator, len(domain.Indicators))
	copy(indicators, domain.Indicators)

	return &domain.Dataset{
		Path:       path,
		Schools:    schools,
		Indicators: indicators,
		Dropped:    stats.Dropped,
		ModTime:    info.ModTime(),
		LoadedAt:   domain.Now(),
	}, nil
}

// Parse reads CSV records from r. Rows missing any required value are
// dropped and reported at debug level; structural problems are returned as
// errors wrapping domain.ErrMalformedDataset.
func Parse(r io.Reader, logger *slog.Logger) ([]domain.School, ParseStats, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ParseStats{}, fmt.Errorf("%w: empty file", domain.ErrMalformedDataset)
		}
		return nil, ParseStats{}, fmt.Errorf("%w: read header: %w", domain.ErrMalformedDataset, err)
	}

	colIdx, err := columnIndex(header)
	if err != nil {
		return nil, ParseStats{}, err
	}

	var (
		schools []domain.School
		stats   ParseStats
	)
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, ParseStats{}, fmt.Errorf("%w: %w", domain.ErrMalformedDataset, err)
		}
		stats.Rows++

		line, _ := reader.FieldPos(0)
		school, err := domain.ParseRow(rawRow(rec, colIdx))
		if err != nil {
			stats.Dropped++
			logger.Debug("row dropped", "line", line, "reason", err)
			continue
		}
		schools = append(schools, school)
	}
	stats.Kept = len(schools)

	return schools, stats, nil
}

// columnIndex maps canonical column codes to their position in the header.
// When a column appears twice the first occurrence wins.
func columnIndex(header []string) (map[string]int, error) {
	colIdx := make(map[string]int, len(header))
	for i, h := range header {
		c := domain.CanonicalColumn(h)
		if _, dup := colIdx[c]; !dup {
			colIdx[c] = i
		}
	}

	var missing []string
	for _, c := range domain.RequiredColumns {
		if _, ok := colIdx[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing columns %s", domain.ErrMalformedDataset, strings.Join(missing, ", "))
	}
	return colIdx, nil
}

func rawRow(rec []string, colIdx map[string]int) domain.RawRow {
	row := make(domain.RawRow, len(domain.RequiredColumns))
	for _, c := range domain.RequiredColumns {
		if i := colIdx[c]; i < len(rec) {
			row[c] = rec[i]
		}
	}
	return row
}
