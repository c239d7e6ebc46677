package storefront

import (
	"context"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared/valueobject"
)

// ShippingQuote is the delivery price for a destination. Estimated is
// set when the carrier could not be reached and the store's flat fee
// was used instead.
type ShippingQuote struct {
	Fee       valueobject.Money `json:"fee"`
	Estimated bool              `json:"estimated"`
	Carrier   string            `json:"carrier,omitempty"`
}

// ShippingQuoter prices a delivery from the store to a destination CEP.
// Implementations wrap carrier HTTP APIs; the store's flat fee serves
// as the fallback.
type ShippingQuoter interface {
	Quote(ctx context.Context, origin, destination valueobject.CEP, subtotal valueobject.Money) (*ShippingQuote, error)
}
