package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/fa"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	faTranslations "github.com/go-playground/validator/v10/translations/fa"
	"github.com/tarkhineh/tarkhineh/internal/pkg/strcase"
)

var (
	// Iranian mobile numbers in national, 98/0098 prefixed, or E.164 form.
	rePhoneIR = regexp.MustCompile(`^(?:\+98|0098|98|0)?9\d{9}$`)
	// Any other E.164 number.
	rePhoneE164 = regexp.MustCompile(`^\+[1-9]\d{7,14}$`)
)

// ErrTranslatorNotFound indicates the requested translator is unavailable.
var ErrTranslatorNotFound = errors.New("translator not found")

// V10Validator implements Validator using go-playground/validator v10.
type V10Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// V10ValidationError is a field-to-message map returned when validation fails.
//
// Keys are field names in snake_case to match typical JSON conventions.
type V10ValidationError map[string]string

// Error implements the error interface.
func (vs V10ValidationError) Error() string {
	if len(vs) == 0 {
		return "validation error"
	}

	b, err := json.Marshal(vs)
	if err != nil {
		return fmt.Sprintf("validation error (failed to marshal: %v)", err)
	}
	return string(b)
}

// Values returns the field error map.
func (vs V10ValidationError) Values() map[string]string {
	return vs
}

// IsPhone reports whether s is an accepted mobile number.
func IsPhone(s string) bool {
	return rePhoneIR.MatchString(s) || rePhoneE164.MatchString(s)
}

// NewV10Validator constructs a V10Validator translating messages into locale
// ("en" or "fa"). Unknown locales fall back to English.
func NewV10Validator(locale string) (*V10Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	uni := ut.New(en.New(), en.New(), fa.New())
	if locale != "fa" {
		locale = "en"
	}

	trans, ok := uni.GetTranslator(locale)
	if !ok {
		return nil, ErrTranslatorNotFound
	}

	var err error
	if locale == "fa" {
		err = faTranslations.RegisterDefaultTranslations(validate, trans)
	} else {
		err = enTranslations.RegisterDefaultTranslations(validate, trans)
	}
	if err != nil {
		return nil, err
	}

	if err := v10CustomValidation(validate, trans, locale); err != nil {
		return nil, err
	}

	return &V10Validator{
		validate:   validate,
		translator: trans,
	}, nil
}

// Validate validates a struct and returns a V10ValidationError on failure.
func (v *V10Validator) Validate(data any) error {
	if err := v.validate.Struct(data); err != nil {
		var validateErrs validator.ValidationErrors
		if !errors.As(err, &validateErrs) {
			return err
		}

		errV10 := make(V10ValidationError)
		for _, fe := range validateErrs {
			errV10[strcase.ToLowerSnake(fe.Field())] = fe.Translate(v.translator)
		}

		return errV10
	}

	return nil
}

var phoneMessages = map[string]string{
	"en": "{0} must be a valid mobile number",
	"fa": "{0} باید یک شماره موبایل معتبر باشد",
}

func v10CustomValidation(validate *validator.Validate, trans ut.Translator, locale string) error {
	if err := validate.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		p, ok := fl.Field().Interface().(string)
		return ok && IsPhone(p)
	}); err != nil {
		return err
	}

	return validate.RegisterTranslation("phone", trans,
		func(t ut.Translator) error {
			return t.Add("phone", phoneMessages[locale], false)
		},
		func(t ut.Translator, fe validator.FieldError) string {
			msg, err := t.T(fe.Tag(), fe.Field())
			if err != nil {
				slog.Warn("warning: error translating", "field", fe.Field(), "error", err)
				return fe.Error()
			}
			return msg
		},
	)
}
