// Package i18n holds user-facing message catalogs. Messages are registered per
// locale and rendered with positional parameters ({0}, {1}, ...).
package i18n

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/fa"
	ut "github.com/go-playground/universal-translator"
)

const (
	LocaleEnglish = "en"
	LocalePersian = "fa"
)

// ErrUnsupportedLocale is returned for locales without a registered translator.
var ErrUnsupportedLocale = errors.New("i18n: unsupported locale")

// Translator renders message keys for a fixed locale.
type Translator interface {
	T(key string, params ...string) string
	Locale() string
}

// Bundle is a set of catalogs sharing one default locale.
type Bundle struct {
	uni    *ut.UniversalTranslator
	locale string
}

// New returns a Bundle whose default locale is locale ("fa" or "en").
func New(locale string) (*Bundle, error) {
	supported := []locales.Translator{en.New(), fa.New()}
	uni := ut.New(supported[1], supported...)

	if _, ok := uni.GetTranslator(locale); !ok || locale == "" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLocale, locale)
	}

	return &Bundle{uni: uni, locale: locale}, nil
}

// Register adds messages to the catalog of locale, overriding existing keys.
func (b *Bundle) Register(locale string, messages map[string]string) error {
	trans, ok := b.uni.GetTranslator(locale)
	if !ok || trans.Locale() != locale {
		return fmt.Errorf("%w: %q", ErrUnsupportedLocale, locale)
	}

	for key, text := range messages {
		if err := trans.Add(key, text, true); err != nil {
			return fmt.Errorf("i18n: register %s/%s: %w", locale, key, err)
		}
	}
	return nil
}

// Locale returns the default locale.
func (b *Bundle) Locale() string { return b.locale }

// T renders key in the default locale.
func (b *Bundle) T(key string, params ...string) string {
	return b.In(b.locale).T(key, params...)
}

// In returns a Translator for locale. Unknown locales resolve to the default.
func (b *Bundle) In(locale string) Translator {
	trans, ok := b.uni.GetTranslator(locale)
	if !ok {
		trans, _ = b.uni.GetTranslator(b.locale)
	}
	return &translator{trans: trans, fallback: b.fallback(trans.Locale())}
}

func (b *Bundle) fallback(locale string) ut.Translator {
	if locale == LocaleEnglish {
		return nil
	}
	trans, _ := b.uni.GetTranslator(LocaleEnglish)
	return trans
}

type translator struct {
	trans    ut.Translator
	fallback ut.Translator
}

func (t *translator) Locale() string { return t.trans.Locale() }

// T renders key, falling back to English and finally to the key itself.
func (t *translator) T(key string, params ...string) string {
	msg, err := t.trans.T(key, params...)
	if err == nil {
		return msg
	}

	if t.fallback != nil {
		if msg, ferr := t.fallback.T(key, params...); ferr == nil {
			return msg
		}
	}

	slog.Warn("i18n: missing message", "locale", t.trans.Locale(), "key", key)
	return key
}
