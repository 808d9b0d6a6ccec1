// Package validacion holds the shared validator instance used by handlers
// (struct tags on request DTOs) and by services (direct field checks).
package validacion

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	reNombre   = regexp.MustCompile(`^\p{L}+(?:[ '\-]\p{L}+)*$`)
	reTelefono = regexp.MustCompile(`^\+?\d{7,15}$`)
	reHora     = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

var validate = nuevo()

func nuevo() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// decimal.Decimal validates as a float so min/max/gt tags work on money fields.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	// Report JSON names in field errors.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	_ = v.RegisterValidation("nombre_persona", func(fl validator.FieldLevel) bool {
		return EsNombrePersona(fl.Field().String())
	})
	_ = v.RegisterValidation("telefono", func(fl validator.FieldLevel) bool {
		return EsTelefono(fl.Field().String())
	})
	_ = v.RegisterValidation("fecha", func(fl validator.FieldLevel) bool {
		return EsFecha(fl.Field().String())
	})
	_ = v.RegisterValidation("hora", func(fl validator.FieldLevel) bool {
		return EsHora(fl.Field().String())
	})
	return v
}

// Struct validates s against its struct tags.
func Struct(s any) error {
	return validate.Struct(s)
}

// EsNombrePersona accepts letters (accents and ñ included) separated by single
// spaces, apostrophes or hyphens, 2 to 60 characters.
func EsNombrePersona(s string) bool {
	s = strings.TrimSpace(s)
	n := utf8.RuneCountInString(s)
	return n >= 2 && n <= 60 && reNombre.MatchString(s)
}

// EsTelefono accepts an optional leading + and 7 to 15 digits; spaces and
// hyphens are ignored.
func EsTelefono(s string) bool {
	s = strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(s))
	return reTelefono.MatchString(s)
}

func EsEmail(s string) bool {
	return validate.Var(strings.TrimSpace(s), "required,email") == nil
}

// EsFecha accepts YYYY-MM-DD calendar dates.
func EsFecha(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// EsHora accepts HH:MM in 24h format.
func EsHora(s string) bool {
	return reHora.MatchString(s)
}

var mensajes = map[string]string{
	"required":       "es obligatorio",
	"email":          "no es un correo valido",
	"min":            "es demasiado corto o pequeño",
	"max":            "es demasiado largo o grande",
	"gte":            "es menor al minimo permitido",
	"lte":            "supera el maximo permitido",
	"gt":             "debe ser mayor",
	"oneof":          "no es un valor permitido",
	"nombre_persona": "solo admite letras, espacios, apostrofes y guiones (2 a 60 caracteres)",
	"telefono":       "no es un telefono valido",
	"fecha":          "debe tener formato AAAA-MM-DD",
	"hora":           "debe tener formato HH:MM",
	"dive":           "contiene elementos invalidos",
}

// Campos flattens validator errors into field → message. Errors that are not
// validator errors yield nil.
func Campos(err error) map[string]string {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return nil
	}
	fields := make(map[string]string, len(ves))
	for _, fe := range ves {
		msg, ok := mensajes[fe.Tag()]
		if !ok {
			msg = "es invalido (" + fe.Tag() + ")"
		}
		fields[fe.Field()] = msg
	}
	return fields
}
