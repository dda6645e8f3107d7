package validator

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate struct fields
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"_": err.Error()}
	}

	errs := make(map[string]string, len(verrs))
	for _, err := range verrs {
		errs[err.Field()] = err.Tag()
	}
	return errs
}

// Var validates a single value against a tag, e.g. Var(email, "email").
func Var(field any, tag string) bool {
	return validate.Var(field, tag) == nil
}
