package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDataPath = "/data/enem.csv"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Dados_ENEM_2024_MG - Dados_Tratados.csv", cfg.DataPath)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 8, cfg.CacheMaxEntries)
	assert.Equal(t, time.Duration(0), cfg.CacheRevalidateInterval)
	assert.Equal(t, -19.9, cfg.MapCenterLat)
	assert.Equal(t, -43.9, cfg.MapCenterLon)
	assert.Equal(t, 10, cfg.MapZoom)
	assert.Equal(t, DefaultTileURL, cfg.MapTileURL)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "dashboard-selections", cfg.KafkaTopic)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("DATA_PATH", testDataPath)
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("CACHE_MAX_ENTRIES", "2")
	t.Setenv("CACHE_REVALIDATE_INTERVAL", "1m")
	t.Setenv("MAP_CENTER_LAT", "-18.5")
	t.Setenv("MAP_CENTER_LON", "-44.6")
	t.Setenv("MAP_ZOOM", "7")
	t.Setenv("MAP_TILE_URL", "https://tile.openstreetmap.org/{z}/{x}/{y}.png")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_TOPIC", "custom-selections")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, testDataPath, cfg.DataPath)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 2, cfg.CacheMaxEntries)
	assert.Equal(t, time.Minute, cfg.CacheRevalidateInterval)
	assert.Equal(t, -18.5, cfg.MapCenterLat)
	assert.Equal(t, -44.6, cfg.MapCenterLon)
	assert.Equal(t, 7, cfg.MapZoom)
	assert.Equal(t, "https://tile.openstreetmap.org/{z}/{x}/{y}.png", cfg.MapTileURL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-selections", cfg.KafkaTopic)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"CACHE_MAX_ENTRIES", "0"},
		{"CACHE_MAX_ENTRIES", "many"},
		{"CACHE_REVALIDATE_INTERVAL", "soon"},
		{"CACHE_REVALIDATE_INTERVAL", "-1s"},
		{"MAP_CENTER_LAT", "-91"},
		{"MAP_CENTER_LON", "west"},
		{"MAP_ZOOM", "25"},
		{"MAP_ZOOM", "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoad_KafkaEnabledWithoutBrokers(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", " , ")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}

func TestAnyNonBlank(t *testing.T) {
	assert.True(t, anyNonBlank([]string{"", "broker:9092"}))
	assert.False(t, anyNonBlank([]string{" ", ""}))
	assert.False(t, anyNonBlank(nil))
}
