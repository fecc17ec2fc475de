package utils

import "github.com/go-playground/validator/v10"

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateStruct runs the `validate` tags of the given struct.
func ValidateStruct(s any) error {
	return validate.Struct(s)
}
