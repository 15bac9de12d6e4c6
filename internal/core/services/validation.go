package services

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/SscSPs/pocket_wallet/internal/apperrors"
	"github.com/SscSPs/pocket_wallet/internal/utils"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// validate reads the same binding tags gin uses, so requests that bypass the HTTP layer
// are held to the same rules.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName("binding")
	if err := utils.RegisterValidations(v); err != nil {
		panic(fmt.Sprintf("register validations: %v", err))
	}
	return v
}

// validateStruct returns nil or an apperrors.ErrValidation naming every failed field.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return fmt.Errorf("%w: %s", apperrors.ErrValidation, strings.Join(msgs, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email", utils.HandleEmailTag:
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case utils.AliasTag:
		return field + " must be 3 to 32 letters, digits, '.', '_' or '-'"
	}
	return fmt.Sprintf("%s failed on %s", field, fe.Tag())
}

// validateAmount enforces a positive amount with at most two decimal places.
func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than zero", apperrors.ErrValidation)
	}
	if !utils.HasMoneyPrecision(amount) {
		return fmt.Errorf("%w: amount must have at most %d decimal places", apperrors.ErrValidation, utils.MoneyPrecision)
	}
	return nil
}

const maxDescriptionLength = 140

func validateDescription(description string) error {
	if utf8.RuneCountInString(description) > maxDescriptionLength {
		return fmt.Errorf("%w: description must be at most %d characters", apperrors.ErrValidation, maxDescriptionLength)
	}
	return nil
}
