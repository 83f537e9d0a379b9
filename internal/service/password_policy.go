package service

import (
	"fmt"
	"unicode"

	"github.com/cardmart-next/internal/config"
)

func validatePassword(policy config.PasswordPolicyConfig, password string) error {
	var fields []FieldError
	if policy.MinLength > 0 && len([]rune(password)) < policy.MinLength {
		fields = append(fields, FieldError{Field: "password", Message: fmt.Sprintf("must be at least %d characters", policy.MinLength)})
	}

	var hasUpper, hasLower, hasNumber, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasNumber = true
		default:
			hasSpecial = true
		}
	}

	if policy.RequireUpper && !hasUpper {
		fields = append(fields, FieldError{Field: "password", Message: "must contain an uppercase letter"})
	}
	if policy.RequireLower && !hasLower {
		fields = append(fields, FieldError{Field: "password", Message: "must contain a lowercase letter"})
	}
	if policy.RequireNumber && !hasNumber {
		fields = append(fields, FieldError{Field: "password", Message: "must contain a digit"})
	}
	if policy.RequireSpecial && !hasSpecial {
		fields = append(fields, FieldError{Field: "password", Message: "must contain a special character"})
	}
	if len(fields) == 0 {
		return nil
	}
	return &DetailError{Kind: ErrRequestValidation, Detail: ErrWeakPassword.Detail, Fields: fields}
}
