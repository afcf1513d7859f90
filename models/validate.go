package models

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ErrCategoryMismatch is returned by Validate when the payload does not
// belong to the report's category.
var ErrCategoryMismatch = errors.New("details do not match category")

// Validate returns nil when r can be submitted. Side, wiring error and
// remarks are never required.
func Validate(r Report) error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	if r.Details == nil || r.Details.Category() != r.Category {
		return fmt.Errorf("%w: %s", ErrCategoryMismatch, r.Category)
	}
	return validate.Struct(r.Details)
}

// IsSubmittable is the progression gate of the edit step.
func IsSubmittable(r Report) bool {
	return Validate(r) == nil
}

// ValidationErrors maps each failing field to the validator tag that
// rejected it.
func ValidationErrors(err error) map[string]string {
	out := make(map[string]string)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		if err != nil {
			out["details"] = err.Error()
		}
		return out
	}
	for _, fe := range verrs {
		out[fe.Field()] = fe.Tag()
	}
	return out
}
