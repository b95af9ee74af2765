package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/cmlabs-hris/hris-client-go/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesJSONWithAppAttrs(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{App: config.AppConfig{Name: "hrisctl", Version: "1.2.3", Env: "test", LogLevel: "debug"}}

	New(&buf, cfg).Debug("probe", "target", "https://api.example.com")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hrisctl", entry["app"])
	assert.Equal(t, "1.2.3", entry["version"])
	assert.Equal(t, "test", entry["env"])
	assert.Equal(t, "https://api.example.com", entry["target"])
}

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{App: config.AppConfig{LogLevel: "error"}}

	New(&buf, cfg).Info("dropped")

	assert.Zero(t, buf.Len())
}
