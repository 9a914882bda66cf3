package tracker

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	termKeyTag   = "termkey"
	termKeyText  = "{0} must look like 2026-1 or 2026-2"
	termKeyRegex = regexp.MustCompile(`^\d{4}-[12]$`)
)

// Input shapes checked before any mutation.
type (
	termInput struct {
		Key string `json:"term" validate:"required,termkey"`
	}

	courseInput struct {
		Name string `json:"course" validate:"required,max=80"`
	}

	gradeInput struct {
		Course string  `json:"course" validate:"required"`
		Score  float64 `json:"score" validate:"gte=1,lte=7"`
		Weight float64 `json:"weight" validate:"gt=0,lte=100"`
	}

	evaluationInput struct {
		Course string `json:"course" validate:"required"`
		Date   string `json:"date" validate:"required,datetime=2006-01-02"`
		Kind   string `json:"kind" validate:"required,max=40"`
	}
)

// inputValidator wraps a validator with English messages.
type inputValidator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func newInputValidator() *inputValidator {
	locale := en.New()
	translator, _ := ut.New(locale, locale).GetTranslator("en")

	validate := validator.New(validator.WithRequiredStructEnabled())
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Report JSON tag names instead of Go field names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(termKeyTag, func(fl validator.FieldLevel) bool {
		return termKeyRegex.MatchString(fl.Field().String())
	})
	_ = validate.RegisterTranslation(
		termKeyTag, translator,
		func(t ut.Translator) error { return t.Add(termKeyTag, termKeyText, false) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(termKeyTag, fe.Field())
			return s
		},
	)

	return &inputValidator{validate: validate, translator: translator}
}

// check validates v and converts failures into a *ValidationError.
func (iv *inputValidator) check(v any) error {
	err := iv.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Translate(iv.translator)
	}
	return &ValidationError{Fields: fields}
}
