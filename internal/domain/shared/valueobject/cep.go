package valueobject

import (
	"errors"
	"fmt"
)

// CEP is a value object for a Brazilian postal code.
// Valid CEPs are exactly 8 digits once the "12345-678" mask is stripped.
type CEP struct {
	digits string
}

// ErrInvalidCEP is returned when the input does not contain exactly 8 digits
var ErrInvalidCEP = errors.New("invalid CEP")

// NewCEP parses a CEP, accepting masked ("01310-100") or plain digit input
func NewCEP(input string) (CEP, error) {
	digits := stripNonDigits(input)
	if len(digits) != 8 {
		return CEP{}, fmt.Errorf("%w: expected 8 digits, got %d", ErrInvalidCEP, len(digits))
	}
	return CEP{digits: digits}, nil
}

// Digits returns the unmasked 8-digit string
func (c CEP) Digits() string {
	return c.digits
}

// IsZero returns true for the zero-value CEP
func (c CEP) IsZero() bool {
	return c.digits == ""
}

// Masked returns the conventional "12345-678" display form
func (c CEP) Masked() string {
	if len(c.digits) != 8 {
		return c.digits
	}
	return c.digits[0:5] + "-" + c.digits[5:8]
}

// String returns the unmasked digit form
func (c CEP) String() string {
	return c.digits
}
