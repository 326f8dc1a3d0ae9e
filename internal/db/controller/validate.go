package controller

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator() //nolint:gochecknoglobals

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report json names, the API speaks camelCase
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0] //nolint:mnd
		if name == "-" || name == "" {
			return f.Name
		}

		return name
	})

	return v
}

// Validate checks the validate tags of v and returns a ValidationError naming the fields at fault.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return NewValidationError(err.Error())
	}

	fields := make([]string, 0, len(verrs))
	tags := make([]string, 0, len(verrs))

	for _, fe := range verrs {
		fields = append(fields, fe.Field())
		tags = append(tags, fe.Field()+" "+fe.Tag())
	}

	return NewValidationError("failed "+strings.Join(tags, ", "), fields...)
}
