package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Settings are the user preferences shown on the settings tab. They live
// only as long as the process.
type Settings struct {
	UserName string `json:"user_name" validate:"max=64"`
	Email    string `json:"email" validate:"omitempty,email"`
	Language string `json:"language" validate:"required,oneof=ja en"`
	DarkMode bool   `json:"dark_mode"`
}

// DefaultSettings returns the preferences of a fresh session.
func DefaultSettings() Settings {
	return Settings{Language: "ja"}
}

var validate = validator.New()

// Validate checks the settings and reports every invalid field.
func (s Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			msgs := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				msgs = append(msgs, formatFieldError(fe))
			}
			return fmt.Errorf("%w: %s", ErrInvalidSettings, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	return nil
}

func formatFieldError(e validator.FieldError) string {
	field := strings.ToLower(e.Field())
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, e.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
