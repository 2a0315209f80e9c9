// Package inputval validates request input structs using struct tags.
//
// Fields are tagged with go-playground/validator rules plus a "label" tag
// that supplies the human name used in messages:
//
//	type submitInput struct {
//	    Title    string          `validate:"required,max=500" label:"Title"`
//	    Priority models.Priority `validate:"required,priority" label:"Priority"`
//	}
//
// Besides the stock rules, the closed value sets from the models package are
// registered as tags: category, resource_type, publisher, access,
// request_type, priority, request_status.
package inputval

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/dalemusser/libraryhub/internal/domain/models"
	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			if label := fld.Tag.Get("label"); label != "" {
				return label
			}
			return fld.Name
		})
		mustRegister(v, "category", func(s string) bool { return models.Category(s).Valid() })
		mustRegister(v, "resource_type", func(s string) bool { return models.ResourceType(s).Valid() })
		mustRegister(v, "publisher", func(s string) bool { return models.Publisher(s).Valid() })
		mustRegister(v, "access", func(s string) bool { return models.Access(s).Valid() })
		mustRegister(v, "request_type", func(s string) bool { return models.RequestType(s).Valid() })
		mustRegister(v, "priority", func(s string) bool { return models.Priority(s).Valid() })
		mustRegister(v, "request_status", func(s string) bool { return models.RequestStatus(s).Valid() })
		validate = v
	})
	return validate
}

func mustRegister(v *validator.Validate, tag string, ok func(string) bool) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return ok(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("inputval: register %q: %v", tag, err))
	}
}

// FieldError is one failed rule.
type FieldError struct {
	Field   string // struct field name
	Label   string // human label
	Message string
}

// Result collects the failures of one Validate call.
type Result struct {
	Errors []FieldError
}

// HasErrors reports whether any rule failed.
func (r Result) HasErrors() bool { return len(r.Errors) > 0 }

// First returns the first message, or "" when valid.
func (r Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// FirstField returns the struct field name of the first failure.
func (r Result) FirstField() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Field
}

// Validate runs the struct's validate tags.
func Validate(s any) Result {
	err := instance().Struct(s)
	if err == nil {
		return Result{}
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return Result{Errors: []FieldError{{Message: err.Error()}}}
	}
	out := Result{Errors: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Errors = append(out.Errors, FieldError{
			Field:   fe.StructField(),
			Label:   fe.Field(),
			Message: message(fe),
		})
	}
	return out
}

func message(fe validator.FieldError) string {
	label := fe.Field()
	switch fe.Tag() {
	case "required":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at least one entry.", label)
		}
		return fmt.Sprintf("%s is required.", label)
	case "min":
		if fe.Kind() == reflect.Slice {
			if fe.Param() == "1" {
				return fmt.Sprintf("%s must contain at least one entry.", label)
			}
			return fmt.Sprintf("%s must contain at least %s entries.", label, fe.Param())
		}
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters.", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s.", label, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters.", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s.", label, fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL.", label)
	case "category", "resource_type", "publisher", "access", "request_type", "priority", "request_status":
		return fmt.Sprintf("%s %q is not a recognized value.", label, fmt.Sprint(fe.Value()))
	default:
		return fmt.Sprintf("%s is invalid.", label)
	}
}

// TrimAll trims each entry and drops the blank ones, preserving order.
func TrimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
