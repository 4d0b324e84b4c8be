package instrument

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskKeys_MaskData(t *testing.T) {
	t.Parallel()

	keys := NewMaskKeys([]string{" Code ", "", "refresh_token"})
	in := map[string]any{
		"phone": "+989123456789",
		"code":  "482913",
		"nested": []any{
			map[string]any{"REFRESH_TOKEN": "abc", "ok": true},
		},
	}

	got := keys.MaskData(in).(map[string]any)
	assert.Equal(t, "***", got["code"])
	assert.Equal(t, "+989123456789", got["phone"])
	nested := got["nested"].([]any)[0].(map[string]any)
	assert.Equal(t, "***", nested["REFRESH_TOKEN"])
	assert.Equal(t, true, nested["ok"])
}

func TestMaskKeys_MaskJSON(t *testing.T) {
	t.Parallel()

	keys := NewMaskKeys([]string{"code"})

	s, ok := keys.MaskJSON([]byte(`{"code":"123456","phone":"0912"}`))
	require.True(t, ok)
	assert.JSONEq(t, `{"code":"***","phone":"0912"}`, s)

	_, ok = keys.MaskJSON([]byte("plain"))
	assert.False(t, ok)
}

func TestHandler_MasksAndCorrelates(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h := &contextHandler{
		Handler:     &maskHandler{next: slog.NewJSONHandler(&buf, nil), keys: NewMaskKeys([]string{"code"})},
		serviceName: "tarkhineh",
	}

	ctx := SetCorrelationID(context.Background(), "cid-1")
	slog.New(h).InfoContext(ctx, "otp issued", "code", "482913", "body", `{"code":"1"}`)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "***", rec["code"])
	assert.JSONEq(t, `{"code":"***"}`, rec["body"].(string))
	assert.Equal(t, "cid-1", rec["_cID"])
	assert.Equal(t, "tarkhineh", rec["service"])
}

func TestCorrelationID(t *testing.T) {
	t.Parallel()

	assert.Empty(t, GetCorrelationID(context.Background()))
	assert.Equal(t, "x", GetCorrelationID(SetCorrelationID(context.Background(), "x")))
}

func TestNew_Disabled(t *testing.T) {
	inst, err := New(context.Background(), &Config{ServiceName: "test"})
	require.NoError(t, err)
	assert.NotNil(t, inst.Tracer("t"))
	assert.NotNil(t, inst.Meter("m"))
	assert.NoError(t, inst.Shutdown(context.Background()))
}
