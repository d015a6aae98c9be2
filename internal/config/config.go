package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// DefaultTileURL is the CartoDB Positron basemap.
const DefaultTileURL = "https://{s}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}{r}.png"

// Config holds all service settings, populated from environment variables.
type Config struct {
	DataPath        string
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	CacheMaxEntries         int
	CacheRevalidateInterval time.Duration

	// Map rendering.
	MapCenterLat float64
	MapCenterLon float64
	MapZoom      int
	MapTileURL   string

	CORSAllowedOrigins []string

	// Selection event publishing.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	cacheMax, err := parsePositiveInt("CACHE_MAX_ENTRIES", 8)
	if err != nil {
		return nil, err
	}

	revalidate, err := time.ParseDuration(sharedcfg.EnvOrDefault("CACHE_REVALIDATE_INTERVAL", "0s"))
	if err != nil || revalidate < 0 {
		return nil, errors.New("invalid CACHE_REVALIDATE_INTERVAL")
	}

	lat, err := parseFloat("MAP_CENTER_LAT", -19.9, -90, 90)
	if err != nil {
		return nil, err
	}
	lon, err := parseFloat("MAP_CENTER_LON", -43.9, -180, 180)
	if err != nil {
		return nil, err
	}
	zoom, err := parsePositiveInt("MAP_ZOOM", 10)
	if err != nil || zoom > 20 {
		return nil, errors.New("invalid MAP_ZOOM")
	}

	cfg := &Config{
		DataPath:        sharedcfg.EnvOrDefault("DATA_PATH", "Dados_ENEM_2024_MG - Dados_Tratados.csv"),
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		CacheMaxEntries:         cacheMax,
		CacheRevalidateInterval: revalidate,

		MapCenterLat: lat,
		MapCenterLon: lon,
		MapZoom:      zoom,
		MapTileURL:   sharedcfg.EnvOrDefault("MAP_TILE_URL", DefaultTileURL),

		CORSAllowedOrigins: sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("CORS_ALLOWED_ORIGINS", "*")),

		KafkaEnabled: os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers: sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "dashboard-selections"),
	}

	if strings.TrimSpace(cfg.DataPath) == "" {
		return nil, errors.New("DATA_PATH is required")
	}
	if cfg.KafkaEnabled && !anyNonBlank(cfg.KafkaBrokers) {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_ENABLED is true")
	}

	return cfg, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

func parseFloat(key string, def, lo, hi float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < lo || v > hi {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return v, nil
}

func anyNonBlank(list []string) bool {
	for _, v := range list {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}
