package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	ListenAddr   string
	DBPath       string
	UploadsPath  string
	PublicURL    string
	MaxUploadMB  int
	CORSOrigins  []string
	LogLevel     string
	LogFile      string
	LogMaxSizeMB int
	MQTTBroker   string
	MQTTTopic    string
	MQTTClientID string
}

func Load() (*Config, error) {
	cfg := &Config{
		ListenAddr:   getEnv("LISTEN_ADDR", ":3333"),
		DBPath:       getEnv("DB_PATH", "/data/ecoleta.db"),
		UploadsPath:  getEnv("UPLOADS_PATH", "/data/uploads"),
		PublicURL:    strings.TrimRight(getEnv("PUBLIC_URL", "http://localhost:3333"), "/"),
		CORSOrigins:  splitList(getEnv("CORS_ORIGINS", "*")),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFile:      getEnv("LOG_FILE", ""),
		MQTTBroker:   getEnv("MQTT_BROKER", ""),
		MQTTTopic:    getEnv("MQTT_TOPIC", "ecoleta/points"),
		MQTTClientID: getEnv("MQTT_CLIENT_ID", "ecoleta-api"),
	}

	var err error
	if cfg.MaxUploadMB, err = getEnvInt("MAX_UPLOAD_MB", 10); err != nil {
		return nil, err
	}
	if cfg.LogMaxSizeMB, err = getEnvInt("LOG_MAX_SIZE_MB", 64); err != nil {
		return nil, err
	}

	u, err := url.Parse(cfg.PublicURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid PUBLIC_URL %q", cfg.PublicURL)
	}

	return cfg, nil
}

// UploadsURL is the prefix that turns a stored image filename into an
// absolute URL.
func (c *Config) UploadsURL() string {
	return c.PublicURL + "/uploads/"
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	val, exists := os.LookupEnv(key)
	if !exists || val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
