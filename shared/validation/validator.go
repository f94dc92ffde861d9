package validation

import (
	"errors"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
)

// Validator validates structs using `validate` tags and renders English messages.
type Validator struct {
	validate *validator.Validate
	trans    ut.Translator
}

// Errors holds the translated messages of a failed validation.
type Errors []string

func (e Errors) Error() string {
	return strings.Join(e, "; ")
}

// New creates a Validator with English translations registered.
func New() (*Validator, error) {
	english := en.New()
	uni := ut.New(english, english)

	trans, found := uni.GetTranslator("en")
	if !found {
		return nil, errors.New("english translator not found")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonFieldName)

	if err := entranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	// Field names in messages come from json tags, so the compared field is
	// rendered the same way.
	if err := validate.RegisterTranslation(
		"eqfield",
		trans,
		func(t ut.Translator) error {
			return t.Add("eqfield", "{0} must match {1}", true)
		},
		func(t ut.Translator, fe validator.FieldError) string {
			msg, err := t.T("eqfield", fe.Field(), toSnakeCase(fe.Param()))
			if err != nil {
				return fe.Error()
			}
			return msg
		},
	); err != nil {
		return nil, err
	}

	return &Validator{validate: validate, trans: trans}, nil
}

// Struct validates s. A failed validation is returned as Errors.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	msgs := make(Errors, 0, len(validationErrs))
	for _, fe := range validationErrs {
		msgs = append(msgs, fe.Translate(v.trans))
	}

	return msgs
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		return fld.Name
	default:
		return name
	}
}

func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
