package utils

import (
	"regexp"
	"strings"

	"github.com/SscSPs/pocket_wallet/internal/core/domain"
	"github.com/go-playground/validator/v10"
)

// Wallet-specific validation tags.
const (
	// AliasTag validates transfer handles.
	AliasTag = "alias"
	// HandleEmailTag validates an email after surrounding whitespace is trimmed,
	// matching how emails are normalized before storage.
	HandleEmailTag = "handle_email"
)

var aliasPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]{2,31}$`)

var emailValidator = validator.New()

// IsValidAlias reports whether s, once normalized, is 3 to 32 characters of lower-case
// letters, digits, dots, underscores or hyphens, starting with a letter or digit.
func IsValidAlias(s string) bool {
	return aliasPattern.MatchString(domain.NormalizeHandle(s))
}

// IsValidEmail reports whether s is a well-formed email once trimmed.
func IsValidEmail(s string) bool {
	return emailValidator.Var(strings.TrimSpace(s), "required,email") == nil
}

// ValidateAlias is the validator.Func behind the alias tag.
func ValidateAlias(fl validator.FieldLevel) bool {
	return IsValidAlias(fl.Field().String())
}

// ValidateHandleEmail is the validator.Func behind the handle_email tag.
func ValidateHandleEmail(fl validator.FieldLevel) bool {
	return IsValidEmail(fl.Field().String())
}

// RegisterValidations adds the wallet-specific tags to v.
func RegisterValidations(v *validator.Validate) error {
	if err := v.RegisterValidation(AliasTag, ValidateAlias); err != nil {
		return err
	}
	return v.RegisterValidation(HandleEmailTag, ValidateHandleEmail)
}
