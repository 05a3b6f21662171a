// Package validation translates request validation failures into field-keyed messages.
//
// Request DTOs declare their rules with `binding` tags; gin runs them through the
// go-playground validator registered by Setup. FromBinding turns whatever ShouldBindJSON
// returned into *Errors, which the API layer renders as a 400 with an "errors" object.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	slugPattern     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

	setupOnce sync.Once

	validate     *validator.Validate
	validateOnce sync.Once
)

// Errors collects validation messages keyed by JSON field name
type Errors struct {
	Fields map[string][]string
}

// New returns an empty error collection
func New() *Errors {
	return &Errors{Fields: map[string][]string{}}
}

// Field returns a collection holding a single message
func Field(field, message string) *Errors {
	e := New()
	e.Add(field, message)
	return e
}

// Add appends a message for field
func (e *Errors) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	for _, existing := range e.Fields[field] {
		if existing == message {
			return
		}
	}
	e.Fields[field] = append(e.Fields[field], message)
}

// Empty reports whether no message was collected
func (e *Errors) Empty() bool {
	return e == nil || len(e.Fields) == 0
}

// Err returns e as an error, or nil when it is empty
func (e *Errors) Err() error {
	if e.Empty() {
		return nil
	}
	return e
}

// Error implements the error interface with a stable, sorted summary
func (e *Errors) Error() string {
	if e.Empty() {
		return "validation failed"
	}

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], " ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Setup registers the custom rules and JSON field naming on gin's validator.
// Safe to call more than once.
func Setup() {
	setupOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			register(v)
		}
	})
}

// GetValidator returns a standalone validator with the same rules as the gin one.
// Used outside HTTP handlers, e.g. by bulk imports.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.SetTagName("binding")
		register(validate)
	})
	return validate
}

// Struct validates s with the standalone validator and translates the result
func Struct(s interface{}) error {
	if err := GetValidator().Struct(s); err != nil {
		return FromBinding(err)
	}
	return nil
}

func register(v *validator.Validate) {
	v.RegisterTagNameFunc(jsonTagName)
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
}

func jsonTagName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

// FromBinding converts a ShouldBindJSON / validator error into *Errors
func FromBinding(err error) *Errors {
	if err == nil {
		return nil
	}

	var already *Errors
	if errors.As(err, &already) {
		return already
	}

	out := New()

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			out.Add(fieldKey(fe), translate(fe))
		}
		return out
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		out.Add(strings.SplitN(typeErr.Field, ".", 2)[0], MsgInvalidType)
		return out
	}

	out.Add(NonFieldErrors, MsgInvalidJSON)
	return out
}

// fieldKey returns the top-level JSON field of a (possibly nested) failure:
// "RecipeCreateRequest.ingredients[1].amount" becomes "ingredients".
func fieldKey(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		ns = ns[i+1:]
	}
	if i := strings.IndexAny(ns, ".["); i >= 0 {
		ns = ns[:i]
	}
	if ns == "" {
		return fe.Field()
	}
	return ns
}

func translate(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return MsgRequired
	case "unique":
		switch fieldKey(fe) {
		case "tags":
			return MsgTagsNotUnique
		case "ingredients":
			return MsgIngredientsNotUnique
		}
		return MsgNotUnique
	case "min":
		switch fe.Kind() {
		case reflect.String:
			return fmt.Sprintf(MsgMinLength, fe.Param())
		case reflect.Slice, reflect.Array:
			return MsgEmptyList
		}
		return MsgMinValue
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf(MsgMaxLength, fe.Param())
		}
		return fmt.Sprintf(MsgInvalidValue, fe.Tag())
	case "email":
		return MsgInvalidEmail
	case "hexcolor", "len":
		if fieldKey(fe) == "color" {
			return MsgInvalidColor
		}
	case "slug":
		return MsgInvalidSlug
	case "username":
		return MsgInvalidUsername
	}
	return fmt.Sprintf(MsgInvalidValue, fe.Tag())
}
