package valueobject

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Address is a Brazilian delivery address. It is stored as JSON on the
// aggregates that carry it (customer address book, order delivery info).
type Address struct {
	Label      string `json:"label,omitempty"` // e.g. "Casa", "Trabalho"
	CEP        string `json:"cep"`             // 8 digits, unmasked
	Street     string `json:"street"`
	Number     string `json:"number"`
	Complement string `json:"complement,omitempty"`
	District   string `json:"district"`
	City       string `json:"city"`
	State      string `json:"state"` // two-letter UF code
	Reference  string `json:"reference,omitempty"`
}

// NewAddress builds a validated Address. The cep input may be masked;
// it is stored unmasked.
func NewAddress(label, cep, street, number, complement, district, city, state, reference string) (Address, error) {
	parsedCEP, err := NewCEP(cep)
	if err != nil {
		return Address{}, err
	}
	if strings.TrimSpace(street) == "" {
		return Address{}, fmt.Errorf("street is required")
	}
	if strings.TrimSpace(number) == "" {
		return Address{}, fmt.Errorf("number is required")
	}
	if strings.TrimSpace(district) == "" {
		return Address{}, fmt.Errorf("district is required")
	}
	if strings.TrimSpace(city) == "" {
		return Address{}, fmt.Errorf("city is required")
	}
	state = strings.ToUpper(strings.TrimSpace(state))
	if len(state) != 2 {
		return Address{}, fmt.Errorf("state must be a two-letter UF code")
	}

	return Address{
		Label:      strings.TrimSpace(label),
		CEP:        parsedCEP.Digits(),
		Street:     strings.TrimSpace(street),
		Number:     strings.TrimSpace(number),
		Complement: strings.TrimSpace(complement),
		District:   strings.TrimSpace(district),
		City:       strings.TrimSpace(city),
		State:      state,
		Reference:  strings.TrimSpace(reference),
	}, nil
}

// IsZero returns true for the zero-value Address
func (a Address) IsZero() bool {
	return a.CEP == "" && a.Street == ""
}

// OneLine renders the address as a single display line
func (a Address) OneLine() string {
	var b strings.Builder
	b.WriteString(a.Street)
	b.WriteString(", ")
	b.WriteString(a.Number)
	if a.Complement != "" {
		b.WriteString(" - ")
		b.WriteString(a.Complement)
	}
	b.WriteString(" - ")
	b.WriteString(a.District)
	b.WriteString(", ")
	b.WriteString(a.City)
	b.WriteString("/")
	b.WriteString(a.State)
	if a.CEP != "" {
		cep := CEP{digits: a.CEP}
		b.WriteString(" - CEP ")
		b.WriteString(cep.Masked())
	}
	return b.String()
}

// MarshalBinary supports storage in caches that take encoding.BinaryMarshaler
func (a Address) MarshalBinary() ([]byte, error) {
	return json.Marshal(a)
}

// UnmarshalBinary supports retrieval from caches
func (a *Address) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, a)
}
