package validation

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"stayhub/internal/app/middleware"
)

var ErrInvalid = errors.New("validation: invalid input")

// FieldError names one failing field in lower camel case.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// Error lists every failing field and unwraps to ErrInvalid.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s failed %s", f.Field, f.Rule))
	}
	return "validation: " + strings.Join(parts, "; ")
}

func (e *Error) Unwrap() error { return ErrInvalid }

// Validator checks struct tags on commands and queries.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Name
		if name == "" {
			return name
		}
		return strings.ToLower(name[:1]) + name[1:]
	})
	return &Validator{v: v}
}

// Validate ignores non-struct messages.
func (v *Validator) Validate(ctx context.Context, message any) error {
	rv := reflect.ValueOf(message)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}
	err := v.v.StructCtx(ctx, rv.Interface())
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &Error{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		field := fe.Namespace()
		if idx := strings.IndexRune(field, '.'); idx >= 0 {
			field = field[idx+1:]
		}
		out.Fields = append(out.Fields, FieldError{Field: field, Rule: fe.Tag()})
	}
	return out
}

var _ middleware.Validator = (*Validator)(nil)
