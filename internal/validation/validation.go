// Package validation configures request-body validation for the API and turns
// validator failures into per-field error lists.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// InstitutionalEmailTag accepts only addresses in the configured domain
const InstitutionalEmailTag = "institutional_email"

// FieldError describes why one field of a request was rejected
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var (
	registerOnce sync.Once
	domainMu     sync.RWMutex
	allowedDom   = "uninorte.edu.co"
)

// Register installs the custom tags and JSON field naming on gin's validator
// and makes request decoding reject unknown fields. It is safe to call more
// than once; only the domain is updated on later calls.
func Register(domain string) {
	if domain != "" {
		domainMu.Lock()
		allowedDom = strings.ToLower(domain)
		domainMu.Unlock()
	}

	registerOnce.Do(func() {
		binding.EnableDecoderDisallowUnknownFields = true

		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(jsonFieldName)
		if err := v.RegisterValidation(InstitutionalEmailTag, institutionalEmail); err != nil {
			panic(fmt.Sprintf("register %s validation: %v", InstitutionalEmailTag, err))
		}
	})
}

// AllowedDomain returns the domain enforced by the institutional_email tag
func AllowedDomain() string {
	domainMu.RLock()
	defer domainMu.RUnlock()
	return allowedDom
}

// IsInstitutional reports whether email belongs to the allowed domain
func IsInstitutional(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	return strings.EqualFold(email[at+1:], AllowedDomain())
}

// Struct validates v with the same engine and tags used for request bodies
func Struct(v interface{}) error {
	return binding.Validator.ValidateStruct(v)
}

func institutionalEmail(fl validator.FieldLevel) bool {
	return IsInstitutional(fl.Field().String())
}

func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

// Describe converts a binding or validation error into field errors. Errors
// that are not about a specific field are reported under "body".
func Describe(err error) []FieldError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, FieldError{Field: fe.Field(), Message: message(fe)})
		}
		return out
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return []FieldError{{Field: typeErr.Field, Message: fmt.Sprintf("%s debe ser de tipo %s", typeErr.Field, typeErr.Type.String())}}
	}

	if errors.Is(err, io.EOF) {
		return []FieldError{{Field: "body", Message: "el cuerpo de la solicitud es obligatorio"}}
	}

	msg := err.Error()
	if field, ok := strings.CutPrefix(msg, "json: unknown field "); ok {
		field = strings.Trim(field, `"`)
		return []FieldError{{Field: field, Message: fmt.Sprintf("la propiedad %s no está permitida", field)}}
	}

	return []FieldError{{Field: "body", Message: "el cuerpo de la solicitud no es JSON válido"}}
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s es obligatorio", field)
	case "email":
		return fmt.Sprintf("%s debe ser un correo electrónico válido", field)
	case InstitutionalEmailTag:
		return fmt.Sprintf("%s debe pertenecer al dominio %s", field, AllowedDomain())
	case "oneof":
		return fmt.Sprintf("%s debe ser uno de: %s", field, strings.Join(strings.Fields(fe.Param()), ", "))
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s debe tener al menos %s elementos", field, fe.Param())
		}
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s debe tener al menos %s caracteres", field, fe.Param())
		}
		return fmt.Sprintf("%s debe ser al menos %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s debe tener como máximo %s caracteres", field, fe.Param())
		}
		return fmt.Sprintf("%s debe ser como máximo %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s debe ser mayor o igual a %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s debe ser mayor que %s", field, fe.Param())
	case "eqfield":
		return fmt.Sprintf("%s debe coincidir con %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s no es válido", field)
	}
}
