package domain

import (
	"math"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIndicator(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Indicator
	}{
		{"code", "MEDIA", IndicatorMedia},
		{"label", "Linguagens e Códigos", IndicatorLC},
		{"essay label", "Redação", IndicatorRedacao},
		{"empty selects first", "", IndicatorCH},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ind, err := ParseIndicator(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ind)
		})
	}

	_, err := ParseIndicator("media")
	require.ErrorIs(t, err, ErrUnknownIndicator)
}

func TestIndicatorLabel(t *testing.T) {
	assert.Equal(t, "Ciências Humanas", IndicatorCH.Label())
	assert.Equal(t, "Média Geral", IndicatorMedia.Label())
	assert.Equal(t, "XX", Indicator("XX").Label())
}

func TestScoresGet(t *testing.T) {
	s := Scores{CH: 1, LC: 2, CN: 3, MT: 4, Redacao: 5, Media: 6}
	for i, ind := range Indicators {
		assert.Equal(t, float64(i+1), s.Get(ind))
	}
	assert.True(t, math.IsNaN(s.Get("XX")))
}

func TestDatasetRegions(t *testing.T) {
	ds := &Dataset{Schools: []School{
		{Regional: "PATOS DE MINAS"},
		{Regional: "METROPOLITANA C"},
		{Regional: "PATOS DE MINAS"},
		{Regional: "ARAÇUAÍ"},
	}}

	assert.Equal(t, []string{"ARAÇUAÍ", "METROPOLITANA C", "PATOS DE MINAS"}, ds.Regions())
	assert.True(t, ds.HasRegion("ARAÇUAÍ"))
	assert.True(t, ds.HasRegion(AllRegions))
	assert.False(t, ds.HasRegion("araçuaí"))
}

func TestNewSelectionEvent(t *testing.T) {
	fixed := time.Date(2024, 11, 10, 13, 30, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixed))
	defer SetClock(nil)

	v := View{
		Selection: Selection{Regional: regionA, Indicator: IndicatorMT},
		Schools:   []School{{Name: "ESCOLA 1"}, {Name: "ESCOLA 2"}},
	}

	ev := NewSelectionEvent(v, "json")

	assert.Equal(t, regionA, ev.Regional)
	assert.Equal(t, IndicatorMT, ev.Indicator)
	assert.Equal(t, 2, ev.Matched)
	assert.Equal(t, "json", ev.Format)
	assert.Equal(t, fixed, ev.OccurredAt)
}
