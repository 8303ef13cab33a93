package service

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/fyyur-booking/internal/model"
	"github.com/iliyamo/fyyur-booking/internal/repository"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// getValidator returns the shared validator.  Field names in errors use
// the json tag so they match the request payload.
func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("genrelen", validateGenreLen)
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// validateGenreLen checks the length of the stored form of a genre list
// against the tag parameter.
func validateGenreLen(fl validator.FieldLevel) bool {
	genres, ok := fl.Field().Interface().([]string)
	if !ok {
		return false
	}
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(model.EncodeGenres(genres)) <= limit
}

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// ValidationError lists every field that failed validation.  It matches
// repository.ErrConstraintViolation under errors.Is.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return repository.ErrConstraintViolation.Error() + ": " + strings.Join(msgs, "; ")
}

// Is reports whether target is repository.ErrConstraintViolation.
func (e *ValidationError) Is(target error) bool {
	return target == repository.ErrConstraintViolation
}

func validateStruct(s any) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return fmt.Errorf("%w: %v", repository.ErrConstraintViolation, err)
	}
	out := &ValidationError{Fields: make([]FieldError, len(ves))}
	for i, fe := range ves {
		out.Fields[i] = FieldError{Field: fieldPath(fe), Tag: fe.Tag(), Message: translate(fe)}
	}
	return out
}

// fieldPath drops the struct name from the namespace, e.g. "genres[1]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func translate(fe validator.FieldError) string {
	field := fieldPath(fe)
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "url":
		return field + " must be a valid URL"
	case "genrelen":
		return fmt.Sprintf("%s must encode to at most %s characters", field, fe.Param())
	case "excludesall":
		return field + " must not contain a comma"
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
