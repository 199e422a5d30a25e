package serverutils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest checks struct tags and folds field errors into one
// client-error AppError, before any external call is attempted.
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		fieldErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return NewValidationError("Invalid request", err.Error())
		}
		parts := make([]string, 0, len(fieldErrors))
		for _, fe := range fieldErrors {
			parts = append(parts, fmt.Sprintf("%s failed on '%s'", fe.Field(), fe.Tag()))
		}
		return NewValidationError("Invalid request", strings.Join(parts, "; "))
	}
	return nil
}
