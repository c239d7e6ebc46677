package valueobject

import (
	"errors"
	"fmt"
	"strings"
)

// DocumentKind identifies the kind of Brazilian taxpayer document
type DocumentKind string

const (
	DocumentCPF  DocumentKind = "CPF"  // natural person, 11 digits
	DocumentCNPJ DocumentKind = "CNPJ" // legal entity, 14 digits
)

// Document is a value object for a Brazilian taxpayer document (CPF or CNPJ).
// It is stored and compared in its unmasked digit form.
type Document struct {
	digits string
	kind   DocumentKind
}

var (
	// ErrInvalidDocument is returned when the input is not a valid CPF or CNPJ
	ErrInvalidDocument = errors.New("invalid CPF/CNPJ document")
)

// NewDocument parses a CPF or CNPJ, accepting masked ("123.456.789-09",
// "12.345.678/0001-95") or plain digit input. The kind is inferred from the
// digit count: 11 digits is a CPF, 14 a CNPJ.
func NewDocument(input string) (Document, error) {
	digits := stripNonDigits(input)
	switch len(digits) {
	case 11:
		if !validCPF(digits) {
			return Document{}, fmt.Errorf("%w: CPF check digits do not match", ErrInvalidDocument)
		}
		return Document{digits: digits, kind: DocumentCPF}, nil
	case 14:
		if !validCNPJ(digits) {
			return Document{}, fmt.Errorf("%w: CNPJ check digits do not match", ErrInvalidDocument)
		}
		return Document{digits: digits, kind: DocumentCNPJ}, nil
	default:
		return Document{}, fmt.Errorf("%w: expected 11 (CPF) or 14 (CNPJ) digits, got %d", ErrInvalidDocument, len(digits))
	}
}

// Digits returns the unmasked digit string
func (d Document) Digits() string {
	return d.digits
}

// Kind returns whether the document is a CPF or CNPJ
func (d Document) Kind() DocumentKind {
	return d.kind
}

// IsZero returns true for the zero-value Document
func (d Document) IsZero() bool {
	return d.digits == ""
}

// Masked returns the conventional display form of the document
func (d Document) Masked() string {
	switch d.kind {
	case DocumentCPF:
		return fmt.Sprintf("%s.%s.%s-%s", d.digits[0:3], d.digits[3:6], d.digits[6:9], d.digits[9:11])
	case DocumentCNPJ:
		return fmt.Sprintf("%s.%s.%s/%s-%s", d.digits[0:2], d.digits[2:5], d.digits[5:8], d.digits[8:12], d.digits[12:14])
	}
	return d.digits
}

// String returns the unmasked digit form
func (d Document) String() string {
	return d.digits
}

func stripNonDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// validCPF verifies the two CPF check digits (mod 11 over weighted sums).
// Sequences of a single repeated digit are rejected; they pass the checksum
// but are not issued documents.
func validCPF(digits string) bool {
	if allSameDigit(digits) {
		return false
	}

	sum := 0
	for i := 0; i < 9; i++ {
		sum += int(digits[i]-'0') * (10 - i)
	}
	if checkDigit(sum) != int(digits[9]-'0') {
		return false
	}

	sum = 0
	for i := 0; i < 10; i++ {
		sum += int(digits[i]-'0') * (11 - i)
	}
	return checkDigit(sum) == int(digits[10]-'0')
}

// validCNPJ verifies the two CNPJ check digits
func validCNPJ(digits string) bool {
	if allSameDigit(digits) {
		return false
	}

	weightsFirst := []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	sum := 0
	for i, w := range weightsFirst {
		sum += int(digits[i]-'0') * w
	}
	if checkDigit(sum) != int(digits[12]-'0') {
		return false
	}

	weightsSecond := []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	sum = 0
	for i, w := range weightsSecond {
		sum += int(digits[i]-'0') * w
	}
	return checkDigit(sum) == int(digits[13]-'0')
}

func checkDigit(sum int) int {
	rem := sum % 11
	if rem < 2 {
		return 0
	}
	return 11 - rem
}

func allSameDigit(digits string) bool {
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			return false
		}
	}
	return true
}
