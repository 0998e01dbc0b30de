package negotiation

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is applied to amounts that arrive without a currency.
const DefaultCurrency = "BRL"

// Amount is a monetary value that always travels with its currency. Value is
// nullable so that "amount given without a value" can be told apart from zero.
type Amount struct {
	Value    decimal.NullDecimal `json:"value"`
	Currency string              `json:"currency"`
}

func NewAmount(value decimal.Decimal, currency string) Amount {
	if currency == "" {
		currency = DefaultCurrency
	}
	return Amount{Value: decimal.NewNullDecimal(value), Currency: currency}
}

// Decimal returns the value, or zero when it is absent.
func (a Amount) Decimal() decimal.Decimal {
	if !a.Value.Valid {
		return decimal.Zero
	}
	return a.Value.Decimal
}

func (a Amount) withDefaults() Amount {
	if a.Currency == "" {
		a.Currency = DefaultCurrency
	}
	return a
}

type MediaType string

const (
	MediaImage    MediaType = "IMAGE"
	MediaVideo    MediaType = "VIDEO"
	MediaDocument MediaType = "DOCUMENT"
)

type Media struct {
	URL         string    `json:"url"`
	Type        MediaType `json:"type"`
	Description *string   `json:"description,omitempty"`
}

type GarnishItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    Amount `json:"price"`
	Quantity int    `json:"quantity"`
}

type Item struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Price        Amount        `json:"price"`
	Quantity     int           `json:"quantity"`
	GarnishItems []GarnishItem `json:"garnish_items,omitempty"`
	Observation  *string       `json:"observation,omitempty"`
}

func (i Item) withDefaults() Item {
	i.Price = i.Price.withDefaults()
	if len(i.GarnishItems) > 0 {
		garnish := make([]GarnishItem, len(i.GarnishItems))
		for k, g := range i.GarnishItems {
			g.Price = g.Price.withDefaults()
			garnish[k] = g
		}
		i.GarnishItems = garnish
	}
	return i
}

type AlternativeType string

const (
	AlternativeRefund        AlternativeType = "REFUND"
	AlternativePartialRefund AlternativeType = "PARTIAL_REFUND"
	AlternativeReplacement   AlternativeType = "REPLACEMENT"
	AlternativeVoucher       AlternativeType = "VOUCHER"
	AlternativeCustom        AlternativeType = "CUSTOM"
	// AlternativeNoAction only appears in settlement details.
	AlternativeNoAction AlternativeType = "NO_ACTION"
)

// ProposableAlternatives are the types a merchant may offer.
var ProposableAlternatives = []AlternativeType{
	AlternativeRefund,
	AlternativePartialRefund,
	AlternativeReplacement,
	AlternativeVoucher,
	AlternativeCustom,
}

type Alternative struct {
	Type        AlternativeType `json:"type"`
	Description *string         `json:"description,omitempty"`
	Amount      *Amount         `json:"amount,omitempty"`
	Items       []Item          `json:"items,omitempty"`
	Media       []Media         `json:"media,omitempty"`
	IsAvailable bool            `json:"is_available"`
}

// clone returns a deep copy so records never share slices with their inputs.
func (a Alternative) clone() Alternative {
	if a.Amount != nil {
		amount := a.Amount.withDefaults()
		a.Amount = &amount
	}
	if a.Items != nil {
		items := make([]Item, len(a.Items))
		for i, it := range a.Items {
			items[i] = it.withDefaults()
		}
		a.Items = items
	}
	if a.Media != nil {
		a.Media = append([]Media(nil), a.Media...)
	}
	return a
}

type SelectedAlternative struct {
	Alternative
	SelectedAt time.Time `json:"selected_at"`
}
