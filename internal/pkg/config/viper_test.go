package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
app:
  locale: fa
  server:
    cors: "https://tarkhineh.ir, ,https://admin.tarkhineh.ir"
modules:
  identity:
    otp:
      ttl_seconds: 120
    refresh_ttl_days: 3
    access_ttl_hours: 1
  tags: "a:1, b:2,broken"
secret: "c2VjcmV0"
`

func TestNewViperFromBytes(t *testing.T) {
	t.Parallel()

	cfg, err := NewViperFromBytes("yaml", []byte(sample))
	require.NoError(t, err)

	assert.Equal(t, "fa", cfg.GetString("app.locale"))
	assert.Equal(t, 120*time.Second, cfg.GetSecond("modules.identity.otp.ttl_seconds"))
	assert.Equal(t, 72*time.Hour, cfg.GetDay("modules.identity.refresh_ttl_days"))
	assert.Equal(t, time.Hour, cfg.GetHour("modules.identity.access_ttl_hours"))
	assert.Equal(t, []string{"https://tarkhineh.ir", "https://admin.tarkhineh.ir"}, cfg.GetArray("app.server.cors"))
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, cfg.GetMap("modules.tags"))
	assert.Equal(t, []byte("secret"), cfg.GetBinary("secret"))
	assert.Empty(t, cfg.GetArray("missing"))
	assert.NoError(t, cfg.Close())
}

func TestNewViperFromBytes_TypeRequired(t *testing.T) {
	t.Parallel()

	_, err := NewViperFromBytes(" ", nil)
	assert.ErrorIs(t, err, ErrConfigTypeRequired)
}

func TestGetArray_YAMLList(t *testing.T) {
	t.Parallel()

	cfg, err := NewViperFromBytes("yaml", []byte("list:\n  - a\n  - \" b \"\n  - \"\"\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, cfg.GetArray("list"))
}

func TestShippedConfig(t *testing.T) {
	t.Parallel()

	data, err := os.ReadFile(filepath.Join("..", "..", "..", "config", "config.yaml"))
	require.NoError(t, err)

	cfg, err := NewViperFromBytes("yaml", data)
	require.NoError(t, err)

	assert.Equal(t, []string{"identity_otp_issued_notification"}, cfg.GetArray("modules.notification.consumer_names"))
	assert.Contains(t, cfg.GetArray("instrument.log_mask_fields"), "refresh_token")
	assert.Contains(t, cfg.GetArray("instrument.log_mask_fields"), "set-cookie")
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.GetArray("app.server.cors"))
	assert.Equal(t, []string{"tarkhineh"}, cfg.GetArray("jwt.audiences"))
	assert.True(t, cfg.GetBool("modules.identity.cookie.secure"))
}
