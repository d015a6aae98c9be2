package main

import (
	"bytes"
	"encoding/csv"
	"io"
	"log/slog"
	"testing"

	"github.com/ThiagoMachado211/mapa-calor-escolas-mg/internal/adapter/csvfile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_RoundTripsThroughLoader(t *testing.T) {
	var buf bytes.Buffer
	invalid, err := generate(&buf, 100, 42)
	require.NoError(t, err)
	assert.Equal(t, 4, invalid)

	schools, stats, err := csvfile.Parse(bytes.NewReader(buf.Bytes()), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	assert.Equal(t, 100, stats.Rows)
	assert.Equal(t, 96, stats.Kept)
	assert.Equal(t, 4, stats.Dropped)
	require.Len(t, schools, 96)

	for _, s := range schools {
		assert.GreaterOrEqual(t, s.Scores.CH, 250.0)
		assert.LessOrEqual(t, s.Scores.CH, 980.0)
		assert.Less(t, s.Geo.Lat, -14.0)
		assert.Greater(t, s.Geo.Lat, -23.0)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	var a, b bytes.Buffer
	_, err := generate(&a, 30, 7)
	require.NoError(t, err)
	_, err = generate(&b, 30, 7)
	require.NoError(t, err)
	assert.Equal(t, a.String(), b.String())

	var c bytes.Buffer
	_, err = generate(&c, 30, 8)
	require.NoError(t, err)
	assert.NotEqual(t, a.String(), c.String())
}

func TestGenerate_CommaDecimals(t *testing.T) {
	var buf bytes.Buffer
	_, err := generate(&buf, 3, 1)
	require.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, header, records[0])
	assert.Contains(t, records[1][1], ",")
	assert.NotContains(t, records[1][1], ".")
}

func TestDecimal(t *testing.T) {
	assert.Equal(t, "650,50", decimal(650.5, 2))
	assert.Equal(t, "-19,900000", decimal(-19.9, 6))
	assert.Equal(t, "700", decimal(700, 0))
}
