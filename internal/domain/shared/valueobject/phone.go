package valueobject

import (
	"errors"
	"fmt"
	"strings"
)

// Phone is a value object for a Brazilian phone number. It is stored in
// national digit form (DDD + number, 10 or 11 digits); a leading +55 or 55
// country code is stripped on parse.
type Phone struct {
	digits string
}

// ErrInvalidPhone is returned when the input is not a plausible Brazilian phone
var ErrInvalidPhone = errors.New("invalid phone number")

// NewPhone parses a phone number, accepting masked ("(11) 98765-4321"),
// international ("+55 11 98765-4321") or plain digit input
func NewPhone(input string) (Phone, error) {
	digits := stripNonDigits(input)
	if (len(digits) == 12 || len(digits) == 13) && strings.HasPrefix(digits, "55") {
		digits = digits[2:]
	}
	if len(digits) != 10 && len(digits) != 11 {
		return Phone{}, fmt.Errorf("%w: expected 10 or 11 digits (DDD + number), got %d", ErrInvalidPhone, len(digits))
	}
	if digits[0] == '0' {
		return Phone{}, fmt.Errorf("%w: DDD cannot start with zero", ErrInvalidPhone)
	}
	return Phone{digits: digits}, nil
}

// Digits returns the national digit form
func (p Phone) Digits() string {
	return p.digits
}

// IsZero returns true for the zero-value Phone
func (p Phone) IsZero() bool {
	return p.digits == ""
}

// IsMobile reports whether the number looks like a mobile line
func (p Phone) IsMobile() bool {
	return len(p.digits) == 11 && p.digits[2] == '9'
}

// DDD returns the two-digit area code
func (p Phone) DDD() string {
	if len(p.digits) < 2 {
		return ""
	}
	return p.digits[0:2]
}

// Suffix returns the last n digits, used for public order tracking checks
func (p Phone) Suffix(n int) string {
	if n <= 0 || n > len(p.digits) {
		return p.digits
	}
	return p.digits[len(p.digits)-n:]
}

// Masked returns the conventional "(11) 98765-4321" display form
func (p Phone) Masked() string {
	switch len(p.digits) {
	case 11:
		return "(" + p.digits[0:2] + ") " + p.digits[2:7] + "-" + p.digits[7:11]
	case 10:
		return "(" + p.digits[0:2] + ") " + p.digits[2:6] + "-" + p.digits[6:10]
	}
	return p.digits
}

// E164 returns the +55 international form
func (p Phone) E164() string {
	if p.IsZero() {
		return ""
	}
	return "+55" + p.digits
}

// String returns the national digit form
func (p Phone) String() string {
	return p.digits
}
