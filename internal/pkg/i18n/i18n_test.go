package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBundle(t *testing.T, locale string) *Bundle {
	t.Helper()

	b, err := New(locale)
	require.NoError(t, err)
	require.NoError(t, b.Register(LocaleEnglish, map[string]string{
		"otp.sent": "code sent",
		"sms.otp":  "code: {0}",
		"only.en":  "english only",
	}))
	require.NoError(t, b.Register(LocalePersian, map[string]string{
		"otp.sent": "کد با موفقیت ارسال شد",
		"sms.otp":  "کد تایید : {0}",
	}))
	return b
}

func TestBundle_T(t *testing.T) {
	t.Parallel()

	b := newBundle(t, LocalePersian)

	assert.Equal(t, "کد با موفقیت ارسال شد", b.T("otp.sent"))
	assert.Equal(t, "کد تایید : 482913", b.T("sms.otp", "482913"))
	assert.Equal(t, "english only", b.T("only.en"))
	assert.Equal(t, "missing.key", b.T("missing.key"))
	assert.Equal(t, LocalePersian, b.Locale())
}

func TestBundle_In(t *testing.T) {
	t.Parallel()

	b := newBundle(t, LocalePersian)

	en := b.In(LocaleEnglish)
	assert.Equal(t, LocaleEnglish, en.Locale())
	assert.Equal(t, "code: 1", en.T("sms.otp", "1"))

	assert.Equal(t, LocalePersian, b.In("de").Locale())
}

func TestNew_Unsupported(t *testing.T) {
	t.Parallel()

	_, err := New("")
	assert.ErrorIs(t, err, ErrUnsupportedLocale)

	b, err := New(LocaleEnglish)
	require.NoError(t, err)
	assert.ErrorIs(t, b.Register("de", map[string]string{"k": "v"}), ErrUnsupportedLocale)
}
