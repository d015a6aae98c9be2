package pipeline_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/ThiagoMachado211/mapa-calor-escolas-mg/internal/domain"
	"github.com/ThiagoMachado211/mapa-calor-escolas-mg/internal/observability"
	"github.com/ThiagoMachado211/mapa-calor-escolas-mg/internal/pipeline"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPath = "escolas.csv"

// --- mocks ---

type mockLoader struct {
	mu          sync.Mutex
	ds          *domain.Dataset
	err         error
	calls       int
	invalidated []string
}

func (m *mockLoader) Load(_ context.Context, _ string) (*domain.Dataset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.ds, nil
}

func (m *mockLoader) Invalidate(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidated = append(m.invalidated, path)
}

type mockPublisher struct {
	mu     sync.Mutex
	events []domain.SelectionEvent
	err    error
}

func (m *mockPublisher) Publish(_ context.Context, ev domain.SelectionEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, ev)
	return nil
}

func school(name, region string, media float64) domain.School {
	return domain.School{
		Name:     name,
		Regional: region,
		Scores:   domain.Scores{CH: 500, LC: 510, CN: 490, MT: 520, Redacao: 600, Media: media},
		Geo:      domain.Geo{Lat: -19.9, Lon: -43.9},
	}
}

func testDataset() *domain.Dataset {
	return &domain.Dataset{
		Path: testPath,
		Schools: []domain.School{
			school("ESCOLA A", "METROPOLITANA A", 610),
			school("ESCOLA B", "METROPOLITANA B", 480),
			school("ESCOLA C", "METROPOLITANA A", 550),
		},
		Indicators: append([]domain.Indicator(nil), domain.Indicators...),
	}
}

func newDashboard(ldr *mockLoader, pub pipeline.EventPublisher) (*pipeline.Dashboard, *observability.Metrics) {
	metrics := observability.NewMetricsForTesting()
	return pipeline.New(ldr, testPath, pub, slog.Default(), metrics), metrics
}

// --- tests ---

func TestDashboard_ReadinessFollowsFirstLoad(t *testing.T) {
	ldr := &mockLoader{ds: testDataset()}
	d, _ := newDashboard(ldr, nil)

	require.Error(t, d.CheckReadiness(context.Background()))
	require.NoError(t, d.Warm(context.Background()))
	assert.NoError(t, d.CheckReadiness(context.Background()))
}

func TestDashboard_WarmFailure(t *testing.T) {
	ldr := &mockLoader{err: domain.ErrDatasetNotFound}
	d, _ := newDashboard(ldr, nil)

	err := d.Warm(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDatasetNotFound)
	assert.Error(t, d.CheckReadiness(context.Background()))
}

func TestDashboard_Options(t *testing.T) {
	d, _ := newDashboard(&mockLoader{ds: testDataset()}, nil)

	opts, err := d.Options(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{domain.AllRegions, "METROPOLITANA A", "METROPOLITANA B"}, opts.Regions)
	require.Len(t, opts.Indicators, 6)
	assert.Equal(t, domain.IndicatorCH, opts.Indicators[0].Code)
	assert.Equal(t, "Ciências Humanas", opts.Indicators[0].Label)
	assert.Equal(t, domain.IndicatorMedia, opts.Indicators[5].Code)
}

func TestDashboard_ParseSelection(t *testing.T) {
	d, _ := newDashboard(&mockLoader{ds: testDataset()}, nil)
	ctx := context.Background()

	tests := []struct {
		name      string
		regional  string
		indicator string
		want      domain.Selection
		wantErr   error
	}{
		{"defaults", "", "", domain.Selection{Regional: domain.AllRegions, Indicator: domain.IndicatorCH}, nil},
		{"code", "METROPOLITANA B", "MT", domain.Selection{Regional: "METROPOLITANA B", Indicator: domain.IndicatorMT}, nil},
		{"region case-insensitive", " metropolitana a ", "CH", domain.Selection{Regional: "METROPOLITANA A", Indicator: domain.IndicatorCH}, nil},
		{"label", domain.AllRegions, "Média Geral", domain.Selection{Regional: domain.AllRegions, Indicator: domain.IndicatorMedia}, nil},
		{"all regions lower-case", "todas", "CH", domain.Selection{Regional: domain.AllRegions, Indicator: domain.IndicatorCH}, nil},
		{"all regions padded", " TODAS ", "CH", domain.Selection{Regional: domain.AllRegions, Indicator: domain.IndicatorCH}, nil},
		{"unknown indicator", "", "FISICA", domain.Selection{}, domain.ErrUnknownIndicator},
		{"unknown region", "Norte", "CH", domain.Selection{}, domain.ErrUnknownRegion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.ParseSelection(ctx, tt.regional, tt.indicator)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDashboard_View(t *testing.T) {
	pub := &mockPublisher{}
	d, metrics := newDashboard(&mockLoader{ds: testDataset()}, pub)

	v, err := d.View(context.Background(), domain.Selection{Regional: "METROPOLITANA A", Indicator: domain.IndicatorMedia}, "json")
	require.NoError(t, err)

	require.Len(t, v.Schools, 2)
	assert.Equal(t, "ESCOLA A", v.Schools[0].Name)
	assert.Equal(t, "ESCOLA C", v.Schools[1].Name)
	assert.Equal(t, 3, v.Total)
	require.Len(t, v.Summary, 1)
	assert.InDelta(t, 580.0, v.Summary[0].Mean, 1e-9)

	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.ViewsRendered.WithLabelValues("json")), 0)
	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.EventsPublished), 0)

	require.Len(t, pub.events, 1)
	assert.Equal(t, "METROPOLITANA A", pub.events[0].Regional)
	assert.Equal(t, domain.IndicatorMedia, pub.events[0].Indicator)
	assert.Equal(t, 2, pub.events[0].Matched)
	assert.Equal(t, "json", pub.events[0].Format)
}

func TestDashboard_View_EventTimestamp(t *testing.T) {
	fixed := time.Date(2024, 11, 10, 12, 0, 0, 0, time.UTC)
	domain.SetClock(clockwork.NewFakeClockAt(fixed))
	t.Cleanup(func() { domain.SetClock(clockwork.NewRealClock()) })

	pub := &mockPublisher{}
	d, _ := newDashboard(&mockLoader{ds: testDataset()}, pub)

	_, err := d.View(context.Background(), domain.Selection{Indicator: domain.IndicatorCH}, "html")
	require.NoError(t, err)
	require.Len(t, pub.events, 1)
	assert.Equal(t, fixed, pub.events[0].OccurredAt)
}

func TestDashboard_View_PublishErrorIsNotFatal(t *testing.T) {
	pub := &mockPublisher{err: errors.New("broker down")}
	d, metrics := newDashboard(&mockLoader{ds: testDataset()}, pub)

	v, err := d.View(context.Background(), domain.Selection{Indicator: domain.IndicatorCH}, "html")
	require.NoError(t, err)
	assert.Len(t, v.Schools, 3)
	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.EventErrors), 0)
	assert.InDelta(t, 0.0, testutil.ToFloat64(metrics.EventsPublished), 0)
}

func TestDashboard_View_LoadError(t *testing.T) {
	d, metrics := newDashboard(&mockLoader{err: domain.ErrMalformedDataset}, nil)

	_, err := d.View(context.Background(), domain.Selection{Indicator: domain.IndicatorCH}, "html")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedDataset)
	assert.InDelta(t, 0.0, testutil.ToFloat64(metrics.ViewsRendered.WithLabelValues("html")), 0)
}

func TestDashboard_Reload(t *testing.T) {
	ldr := &mockLoader{ds: testDataset()}
	d, _ := newDashboard(ldr, nil)

	ds, err := d.Reload(context.Background())
	require.NoError(t, err)
	assert.Len(t, ds.Schools, 3)
	assert.Equal(t, []string{testPath}, ldr.invalidated)
	assert.Equal(t, 1, ldr.calls)
	assert.NoError(t, d.CheckReadiness(context.Background()))
}
