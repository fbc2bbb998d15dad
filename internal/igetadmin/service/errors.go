package service

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("validation failed")

	ErrInvalidAmount     = fmt.Errorf("%w: amount must be greater than zero", ErrValidation)
	ErrMissingUser       = fmt.Errorf("%w: user is required", ErrValidation)
	ErrEmptySelection    = fmt.Errorf("%w: no users selected", ErrValidation)
	ErrMissingReason     = fmt.Errorf("%w: a reason is required", ErrValidation)
	ErrInvalidRole       = fmt.Errorf("%w: unknown role", ErrValidation)
	ErrMissingBundle     = fmt.Errorf("%w: bundle is required", ErrValidation)
	ErrInvalidPrice      = fmt.Errorf("%w: prices must not be negative", ErrValidation)
	ErrInvalidQuantity   = fmt.Errorf("%w: quantity must not be negative", ErrValidation)
	ErrInvalidAdjustment = fmt.Errorf("%w: adjustment must not be zero", ErrValidation)
	ErrMissingNetwork    = fmt.Errorf("%w: network is required", ErrValidation)
	ErrMissingAccount    = fmt.Errorf("%w: account number and bank are required", ErrValidation)
	ErrInvalidPhone      = fmt.Errorf("%w: phone number must be 10 digits", ErrValidation)
	ErrMissingField      = fmt.Errorf("%w: required field is missing", ErrValidation)

	ErrNotEnoughBalance = errors.New("not enough balance")
)

// missing names the absent field while still matching ErrMissingField.
func missing(field string) error {
	return fmt.Errorf("%w: %s", ErrMissingField, field)
}
