package serrors

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Base is an error carrying a stable machine-readable code alongside the
// operator-facing message.
type Base struct {
	Code    string
	Message string
}

func (e *Base) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewError(code, message string) *Base {
	return &Base{Code: code, Message: message}
}

// ValidationErrors maps a field name to its first failed-rule message.
type ValidationErrors map[string]string

// ProcessValidatorErrors flattens validator.ValidationErrors into per-field
// messages. The message function may return "" to fall back to a generic
// rule description.
func ProcessValidatorErrors(errs validator.ValidationErrors, message func(fe validator.FieldError) string) ValidationErrors {
	out := make(ValidationErrors, len(errs))
	for _, fe := range errs {
		field := fe.Field()
		if _, ok := out[field]; ok {
			continue
		}
		msg := ""
		if message != nil {
			msg = message(fe)
		}
		if msg == "" {
			msg = DescribeRule(fe)
		}
		out[field] = msg
	}
	return out
}

// DescribeRule renders a plain-English message for a failed validator rule.
func DescribeRule(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", fe.Field())
	case "e164":
		return fmt.Sprintf("%s must be a phone number in E.164 format", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
