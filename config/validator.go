package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

func newValidator() (*validator.Validate, ut.Translator, error) {
	validate := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, nil, fmt.Errorf("failed to register default translations: %w", err)
	}

	// Report fields by their config key, not the Go field name.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := validate.RegisterValidation("cron", isCronLike); err != nil {
		return nil, nil, fmt.Errorf("failed to register cron validation: %w", err)
	}
	if err := validate.RegisterTranslation("cron", trans, func(ut ut.Translator) error {
		return ut.Add("cron", "{0} must be a 5-field cron expression", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("cron", strings.TrimPrefix(fe.Namespace(), "Config."))
		return t
	}); err != nil {
		return nil, nil, fmt.Errorf("failed to register cron translation: %w", err)
	}

	return validate, trans, nil
}

// isCronLike only checks the shape; the scheduler parses the fields.
func isCronLike(fl validator.FieldLevel) bool {
	return len(strings.Fields(fl.Field().String())) == 5
}
