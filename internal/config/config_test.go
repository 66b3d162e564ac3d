package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.ListenAddr)
	assert.NotEmpty(t, cfg.DBPath)
	assert.NotEmpty(t, cfg.UploadsPath)
	assert.Equal(t, 10, cfg.MaxUploadMB)
}

func TestLoadCustomValues(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9000")
	t.Setenv("DB_PATH", "/custom/db.sqlite")
	t.Setenv("PUBLIC_URL", "http://192.168.100.16:3333/")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000, https://ecoleta.example")
	t.Setenv("MAX_UPLOAD_MB", "5")
	t.Setenv("MQTT_BROKER", "tcp://broker:1883")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, "/custom/db.sqlite", cfg.DBPath)
	assert.Equal(t, "http://192.168.100.16:3333", cfg.PublicURL)
	assert.Equal(t, []string{"http://localhost:3000", "https://ecoleta.example"}, cfg.CORSOrigins)
	assert.Equal(t, 5, cfg.MaxUploadMB)
	assert.Equal(t, "tcp://broker:1883", cfg.MQTTBroker)
}

func TestUploadsURL(t *testing.T) {
	t.Setenv("PUBLIC_URL", "http://localhost:3333")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3333/uploads/", cfg.UploadsURL())
}

func TestLoadInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"non-numeric upload size", "MAX_UPLOAD_MB", "ten"},
		{"negative upload size", "MAX_UPLOAD_MB", "-1"},
		{"non-numeric log size", "LOG_MAX_SIZE_MB", "big"},
		{"relative public url", "PUBLIC_URL", "localhost"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
