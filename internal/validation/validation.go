// Package validation turns raw JSON payloads into validated entity values.
package validation

import (
	"bytes"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"portfolio/internal/models"
)

// ValidationError lists every field that failed, keyed by JSON field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = message
	}
}

// Validator wraps a configured validator.Validate.
type Validator struct {
	validate *validator.Validate
}

// presentTag marks fields that must appear in the payload. Any value of the
// right type satisfies it, including an empty string; Decode checks presence
// against the raw payload because a decoded struct cannot tell "" from absent.
const presentTag = "present"

// New creates a Validator that reports fields by their JSON names.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation(presentTag, func(validator.FieldLevel) bool { return true }); err != nil {
		panic(err)
	}
	return &Validator{validate: v}
}

func (v *Validator) collect(s any, verr *ValidationError) {
	err := v.validate.Struct(s)
	if err == nil {
		return
	}
	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		verr.add("body", err.Error())
		return
	}
	for _, fe := range fieldErrors {
		verr.add(fe.Field(), describe(fe))
	}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", presentTag:
		return "field required"
	case "email":
		return "value is not a valid email address"
	case "http_url", "url":
		return "value is not a valid URL"
	default:
		return fmt.Sprintf("failed on the '%s' tag", fe.Tag())
	}
}

// Decode parses body into a T, type checking every present field, applies
// declared defaults and runs struct validation. All violations are returned
// together in a *ValidationError.
func Decode[T models.Entity](v *Validator, body []byte) (T, error) {
	var out T
	verr := &ValidationError{}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		verr.add("body", "request body must be a JSON object")
		return out, verr
	}

	target := reflect.ValueOf(&out).Elem()
	targetType := target.Type()
	for i := 0; i < targetType.NumField(); i++ {
		field := targetType.Field(i)
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			continue
		}
		value, ok := raw[name]
		if !ok {
			if hasTag(field, presentTag) {
				verr.add(name, "field required")
			}
			continue
		}
		slot := reflect.New(field.Type)
		if err := json.Unmarshal(value, slot.Interface()); err != nil {
			verr.add(name, typeMessage(field.Type))
			continue
		}
		if isNull(value) && field.Type.Kind() != reflect.Ptr && field.Type.Kind() != reflect.Slice {
			verr.add(name, "field must not be null")
			continue
		}
		target.Field(i).Set(slot.Elem())
	}

	if d, ok := any(&out).(models.Defaulter); ok {
		d.ApplyDefaults()
	}

	v.collect(out, verr)
	if len(verr.Fields) > 0 {
		var zero T
		return zero, verr
	}
	return out, nil
}

func hasTag(field reflect.StructField, tag string) bool {
	for _, t := range strings.Split(field.Tag.Get("validate"), ",") {
		if t == tag {
			return true
		}
	}
	return false
}

func isNull(value json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(value), []byte("null"))
}

func typeMessage(t reflect.Type) string {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch {
	case t == reflect.TypeOf(time.Time{}), t == reflect.TypeOf(models.DateTime{}):
		return "value is not a valid datetime"
	case t.Kind() == reflect.String:
		return "value is not a valid string"
	case t.Kind() == reflect.Bool:
		return "value is not a valid boolean"
	case t.Kind() >= reflect.Int && t.Kind() <= reflect.Int64:
		return "value is not a valid integer"
	case t.Kind() == reflect.Slice:
		return "value is not a valid list"
	default:
		return "value has the wrong type"
	}
}
