package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/ThiagoMachado211/mapa-calor-escolas-mg/internal/domain"
	"github.com/ThiagoMachado211/mapa-calor-escolas-mg/internal/observability"
)

// DatasetLoader returns the cleaned dataset stored at path.
type DatasetLoader interface {
	Load(ctx context.Context, path string) (*domain.Dataset, error)
}

// Invalidator drops cached datasets.
type Invalidator interface {
	Invalidate(path string)
}

// EventPublisher receives one event per rendered view.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.SelectionEvent) error
}

// Options lists the choices offered by the dashboard selectors.
type Options struct {
	Regions    []string          `json:"regions"`
	Indicators []IndicatorOption `json:"indicators"`
}

// IndicatorOption pairs an indicator code with its display label.
type IndicatorOption struct {
	Code  domain.Indicator `json:"code"`
	Label string           `json:"label"`
}

// Dashboard runs the load -> filter -> view pipeline for one configured file.
type Dashboard struct {
	loader    DatasetLoader
	path      string
	publisher EventPublisher
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
}

// New creates a Dashboard. publisher may be nil to disable selection events.
func New(loader DatasetLoader, path string, publisher EventPublisher, logger *slog.Logger, metrics *observability.Metrics) *Dashboard {
	return &Dashboard{
		loader:    loader,
		path:      path,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
	}
}

// Warm loads the dataset once so startup fails fast on a missing or broken file.
func (d *Dashboard) Warm(ctx context.Context) error {
	_, err := d.dataset(ctx)
	return err
}

// CheckReadiness returns nil once the dataset has been loaded successfully.
func (d *Dashboard) CheckReadiness(_ context.Context) error {
	if !d.ready.Load() {
		return errors.New("dataset has not been loaded yet")
	}
	return nil
}

// Reload drops the cached dataset (when the loader supports it) and reads it again.
func (d *Dashboard) Reload(ctx context.Context) (*domain.Dataset, error) {
	if inv, ok := d.loader.(Invalidator); ok {
		inv.Invalidate(d.path)
	}
	ds, err := d.dataset(ctx)
	if err != nil {
		return nil, err
	}
	d.logger.Info("dataset reloaded", "path", d.path, "schools", len(ds.Schools))
	return ds, nil
}

// Options returns the region choices ("Todas" first, then sorted labels) and indicators.
func (d *Dashboard) Options(ctx context.Context) (Options, error) {
	ds, err := d.dataset(ctx)
	if err != nil {
		return Options{}, err
	}

	regions := append([]string{domain.AllRegions}, ds.Regions()...)
	indicators := make([]IndicatorOption, 0, len(ds.Indicators))
	for _, ind := range ds.Indicators {
		indicators = append(indicators, IndicatorOption{Code: ind, Label: ind.Label()})
	}
	return Options{Regions: regions, Indicators: indicators}, nil
}

// ParseSelection validates raw selector values against the loaded dataset.
// Region matching ignores case and surrounding spaces.
func (d *Dashboard) ParseSelection(ctx context.Context, regional, indicator string) (domain.Selection, error) {
	ind, err := domain.ParseIndicator(indicator)
	if err != nil {
		return domain.Selection{}, err
	}
	ds, err := d.dataset(ctx)
	if err != nil {
		return domain.Selection{}, err
	}

	region := domain.AllRegions
	if trimmed := strings.TrimSpace(regional); trimmed != "" && !strings.EqualFold(trimmed, domain.AllRegions) {
		// Stored labels are upper-cased at load time.
		region, _ = domain.NormalizeText(regional)
	}
	if !ds.HasRegion(region) {
		return domain.Selection{}, fmt.Errorf("%w: %q", domain.ErrUnknownRegion, regional)
	}
	return domain.Selection{Regional: region, Indicator: ind}, nil
}

// View filters the dataset for sel. format labels metrics and events
// ("html", "json", "geojson", "xlsx").
func (d *Dashboard) View(ctx context.Context, sel domain.Selection, format string) (domain.View, error) {
	start := time.Now()

	ds, err := d.dataset(ctx)
	if err != nil {
		return domain.View{}, err
	}
	v := domain.BuildView(ds, sel)

	d.metrics.ViewsRendered.WithLabelValues(format).Inc()
	d.metrics.RenderDuration.WithLabelValues(format).Observe(time.Since(start).Seconds())
	d.logger.Debug("view built",
		"regional", v.Selection.Regional,
		"indicator", v.Selection.Indicator,
		"matched", len(v.Schools),
		"format", format,
	)

	d.publish(ctx, domain.NewSelectionEvent(v, format))
	return v, nil
}

func (d *Dashboard) dataset(ctx context.Context) (*domain.Dataset, error) {
	ds, err := d.loader.Load(ctx, d.path)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	d.ready.Store(true)
	return ds, nil
}

// publish is best-effort: a failed event never fails the view.
func (d *Dashboard) publish(ctx context.Context, ev domain.SelectionEvent) {
	if d.publisher == nil {
		return
	}
	if err := d.publisher.Publish(ctx, ev); err != nil {
		d.metrics.EventErrors.Inc()
		d.logger.Warn("publish selection event failed", "error", err,
			"regional", ev.Regional, "indicator", ev.Indicator)
		return
	}
	d.metrics.EventsPublished.Inc()
}
