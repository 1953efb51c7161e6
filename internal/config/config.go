package config

import (
	"os"
	"strconv"
	"strings"

	"paperless-annotator/internal/domain"
)

// AppConfig implements the domain.Config interface
type AppConfig struct {
	ServerPort        string
	MaxFileSize       int64
	LogLevel          string
	FetchTimeout      int
	AllowedOrigins    []string
	SupabaseURL       string
	SupabaseKey       string
	InkStrokeWidth    float64
	InkOpacity        float64
	ExportBucket      string
	ExportPrefix      string
	SampleDocumentURL string
	MaxSessions       int
	SessionIdle       int
}

// NewConfig creates a new configuration instance with default values
func NewConfig() domain.Config {
	return &AppConfig{
		// Cloud Run (and many PaaS) provide the listening port via PORT.
		// Keep SERVER_PORT for local/dev compatibility.
		ServerPort:        getEnvOrDefault("PORT", getEnvOrDefault("SERVER_PORT", "8080")),
		MaxFileSize:       getEnvInt64OrDefault("MAX_FILE_SIZE", 50*1024*1024), // 50MB default
		LogLevel:          getEnvOrDefault("LOG_LEVEL", "info"),
		FetchTimeout:      int(getEnvInt64OrDefault("FETCH_TIMEOUT", 30)),
		AllowedOrigins:    getEnvListOrDefault("ALLOWED_ORIGINS", nil),
		SupabaseURL:       getEnvOrDefault("SUPABASE_URL", ""),
		SupabaseKey:       getEnvOrDefault("SUPABASE_ANON_KEY", ""),
		InkStrokeWidth:    getEnvFloatOrDefault("INK_STROKE_WIDTH", 2),
		InkOpacity:        clampUnit(getEnvFloatOrDefault("INK_OPACITY", 0.8)),
		ExportBucket:      getEnvOrDefault("EXPORT_BUCKET", ""),
		ExportPrefix:      getEnvOrDefault("EXPORT_PREFIX", "exports"),
		SampleDocumentURL: getEnvOrDefault("SAMPLE_DOCUMENT_URL", ""),
		MaxSessions:       int(getEnvInt64OrDefault("MAX_SESSIONS", 100)),
		SessionIdle:       int(getEnvInt64OrDefault("SESSION_IDLE_TIMEOUT", 30)),
	}
}

// GetServerPort returns the server port
func (c *AppConfig) GetServerPort() string {
	return c.ServerPort
}

// GetMaxFileSize returns the maximum accepted document size in bytes
func (c *AppConfig) GetMaxFileSize() int64 {
	return c.MaxFileSize
}

// GetLogLevel returns the logging level
func (c *AppConfig) GetLogLevel() string {
	return c.LogLevel
}

// GetFetchTimeoutSeconds returns the document download timeout
func (c *AppConfig) GetFetchTimeoutSeconds() int {
	return c.FetchTimeout
}

// GetAllowedOrigins returns the CORS origins
func (c *AppConfig) GetAllowedOrigins() []string {
	return c.AllowedOrigins
}

// GetSupabaseURL returns the Supabase URL
func (c *AppConfig) GetSupabaseURL() string {
	return c.SupabaseURL
}

// GetSupabaseKey returns the Supabase anon key
func (c *AppConfig) GetSupabaseKey() string {
	return c.SupabaseKey
}

func (c *AppConfig) GetInkStrokeWidth() float64 {
	return c.InkStrokeWidth
}

func (c *AppConfig) GetInkOpacity() float64 {
	return c.InkOpacity
}

// GetExportBucket returns the bucket that archives exports; empty disables
// archiving.
func (c *AppConfig) GetExportBucket() string {
	return c.ExportBucket
}

func (c *AppConfig) GetExportPrefix() string {
	return c.ExportPrefix
}

// GetSampleDocumentURL returns the file attached to seeded catalog documents
func (c *AppConfig) GetSampleDocumentURL() string {
	return c.SampleDocumentURL
}

// GetMaxSessions returns how many sessions are kept before the least
// recently used one is evicted; zero disables the cap.
func (c *AppConfig) GetMaxSessions() int {
	return c.MaxSessions
}

// GetSessionIdleMinutes returns the idle time after which a session is
// closed; zero disables expiry.
func (c *AppConfig) GetSessionIdleMinutes() int {
	return c.SessionIdle
}

// Helper functions for environment variable handling
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func clampUnit(v float64) float64 {
	return min(max(v, 0), 1)
}
