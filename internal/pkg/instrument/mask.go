package instrument

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/samber/lo"
)

const maskedValue = "***"

// MaskKeys is a lower-cased set of field names to redact.
type MaskKeys map[string]struct{}

// NewMaskKeys builds a MaskKeys set, ignoring blank entries.
func NewMaskKeys(fields []string) MaskKeys {
	fields = lo.Compact(lo.Map(fields, func(f string, _ int) string {
		return strings.ToLower(strings.TrimSpace(f))
	}))

	keys := make(MaskKeys, len(fields))
	for _, f := range fields {
		keys[f] = struct{}{}
	}
	return keys
}

// Has reports whether key must be redacted.
func (m MaskKeys) Has(key string) bool {
	_, ok := m[strings.ToLower(key)]
	return ok
}

// MaskData walks decoded JSON (maps and slices) and redacts matching keys.
// Values of other types are returned unchanged.
func (m MaskKeys) MaskData(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, v2 := range val {
			if m.Has(k) {
				out[k] = maskedValue
				continue
			}
			out[k] = m.MaskData(v2)
		}
		return out
	case map[string]string:
		out := make(map[string]any, len(val))
		for k, v2 := range val {
			out[k] = v2
		}
		return m.MaskData(out)
	case []any:
		out := make([]any, len(val))
		for i, v2 := range val {
			out[i] = m.MaskData(v2)
		}
		return out
	default:
		return v
	}
}

// MaskJSON redacts a JSON document. ok is false when payload is not a JSON
// object or array.
func (m MaskKeys) MaskJSON(payload []byte) (string, bool) {
	if len(payload) == 0 || (payload[0] != '{' && payload[0] != '[') {
		return "", false
	}

	var body any
	if err := json.Unmarshal(payload, &body); err != nil {
		return "", false
	}

	out, err := json.Marshal(m.MaskData(body))
	if err != nil {
		return "", false
	}
	return string(out), true
}

func (m MaskKeys) maskAttr(a slog.Attr) slog.Attr {
	if m.Has(a.Key) {
		return slog.String(a.Key, maskedValue)
	}

	switch a.Value.Kind() {
	case slog.KindGroup:
		group := a.Value.Group()
		out := make([]slog.Attr, len(group))
		for i, ga := range group {
			out[i] = m.maskAttr(ga)
		}
		a.Value = slog.GroupValue(out...)
	case slog.KindString:
		if s, ok := m.MaskJSON([]byte(a.Value.String())); ok {
			a.Value = slog.StringValue(s)
		}
	case slog.KindAny:
		switch val := a.Value.Any().(type) {
		case map[string]any, map[string]string, []any:
			a.Value = slog.AnyValue(m.MaskData(val))
		case []byte:
			if s, ok := m.MaskJSON(val); ok {
				a.Value = slog.StringValue(s)
			}
		}
	}
	return a
}
