// Package validate holds the input rules shared by signup, login and profile
// editing, plus struct validation for request payloads.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/dom/profile-feed/internal/domain"
	"github.com/go-playground/validator/v10"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[a-zA-Z0-9-]+(\.[a-zA-Z0-9-]+)*\.[a-zA-Z]{2,}$`)

// PasswordSymbols is the punctuation set a strong password must draw from.
const PasswordSymbols = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

const MinPasswordLength = 8

// IsValidEmail checks the shape of an already sanitized address.
func IsValidEmail(s string) bool {
	if strings.Contains(s, "..") {
		return false
	}
	return emailPattern.MatchString(s)
}

// IsStrongPassword requires MinPasswordLength characters with an ASCII upper,
// an ASCII lower, an ASCII digit and a symbol, and no whitespace at all.
func IsStrongPassword(s string) bool {
	if len([]rune(s)) < MinPasswordLength {
		return false
	}

	var upper, lower, digit, symbol bool
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			return false
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(PasswordSymbols, r):
			symbol = true
		}
	}
	return upper && lower && digit && symbol
}

// SanitizeEmail trims and lower-cases. Used for every write and lookup.
func SanitizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SanitizePassword trims surrounding whitespace only. Signup and login must
// both go through it or stored hashes stop matching.
func SanitizePassword(s string) string {
	return strings.TrimSpace(s)
}

var (
	once     sync.Once
	instance *validator.Validate
)

func get() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		mustRegister(v, "email_shape", func(fl validator.FieldLevel) bool {
			return IsValidEmail(fl.Field().String())
		})
		mustRegister(v, "strong_password", func(fl validator.FieldLevel) bool {
			return IsStrongPassword(fl.Field().String())
		})
		instance = v
	})
	return instance
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validate: register %q: %v", tag, err))
	}
}

// Struct validates v against its `validate` tags. Failures come back as a
// domain.ValidationError naming the first offending field.
func Struct(v any) error {
	err := get().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return domain.NewValidationError(message(verrs[0]))
	}
	return err
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "url", "http_url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "email_shape":
		return "Invalid email format"
	case "strong_password":
		return WeakPasswordMessage
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

const WeakPasswordMessage = "Password must be at least 8 characters long, contain uppercase and lowercase letters, numbers, and special characters"
