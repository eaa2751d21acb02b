// Package validation checks contact payloads against their field constraints before anything is
// sent to the database.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gitlab.com/dirk.krummacker/personal-contacts/internal/model"
)

// FieldError describes a single violated constraint.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validator wraps a configured validator.Validate. It is safe for concurrent use.
type Validator struct {
	validate *validator.Validate
	now      func() time.Time
}

// New creates a validator whose notion of "today" is taken from now.
func New(now func() time.Time) *Validator {
	v := &Validator{validate: validator.New(), now: now}
	v.validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	v.validate.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(model.Date); ok {
			return d.Time
		}
		return nil
	}, model.Date{})
	// The error is ignored because the tag name and function are both fixed.
	_ = v.validate.RegisterValidation("pastdate", v.isPastDate)
	return v
}

// isPastDate reports whether the field holds a date strictly before today.
func (v *Validator) isPastDate(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	today := model.DateOf(v.now())
	return model.DateOf(t).Before(today.Time)
}

// Contact validates the editable fields of a contact. It returns nil or a list of field errors.
func (v *Validator) Contact(fields model.ContactFields) ([]FieldError, error) {
	err := v.validate.Struct(fields)
	if err == nil {
		return nil, nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil, err
	}
	result := make([]FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		result = append(result, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return result, nil
}

// message turns a validator failure into a human readable text.
func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters long", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters long", fe.Param())
	case "pastdate":
		return "must be a date in the past"
	default:
		return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
	}
}
