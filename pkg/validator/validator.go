package validator

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/inkwell-cms/inkwell/pkg/apperror"
)

var validate = newValidator()

var usernameChars = regexp.MustCompile(`^\w+$`)

func newValidator() *validator.Validate {
	v := validator.New()

	// mirrors the /^\w+$/ rule on usernames
	_ = v.RegisterValidation("word_chars", func(fl validator.FieldLevel) bool {
		return usernameChars.MatchString(fl.Field().String())
	})

	return v
}

// ValidateStruct runs every field rule of the payload and aggregates all
// violations into a single ValidationError. Validation never aborts on the
// first failure; a caller submitting several invalid fields gets one combined
// report listing each of them.
func ValidateStruct(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	violations := make([]string, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		violations = append(violations, fieldErrorMessage(fieldError))
	}

	return apperror.Validation(violations...)
}

func fieldErrorMessage(fe validator.FieldError) string {
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s should have at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s should have at most %s characters", field, fe.Param())
	case "eq":
		return fmt.Sprintf("%s must be set to %s", field, fe.Param())
	case "lowercase":
		return fmt.Sprintf("%s must be lowercase", field)
	case "word_chars":
		return fmt.Sprintf("%s should be alphanumeric", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
