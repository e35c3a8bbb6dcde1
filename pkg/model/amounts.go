package model

// CurrencyCents holds an amount in integer cents per ISO currency code.
// The XML dialect nests one child element per currency:
//
//	<unit_amount_in_cents>
//	  <USD type="integer">1000</USD>
//	  <EUR type="integer">800</EUR>
//	</unit_amount_in_cents>
type CurrencyCents struct {
	USD int `xml:"USD,omitempty"`
	EUR int `xml:"EUR,omitempty"`
	GBP int `xml:"GBP,omitempty"`
	CAD int `xml:"CAD,omitempty"`
	AUD int `xml:"AUD,omitempty"`
	SEK int `xml:"SEK,omitempty"`
}

// ForCurrency returns the amount for the given ISO currency code, or 0 when
// the currency is not present.
func (c CurrencyCents) ForCurrency(code string) int {
	switch code {
	case "USD":
		return c.USD
	case "EUR":
		return c.EUR
	case "GBP":
		return c.GBP
	case "CAD":
		return c.CAD
	case "AUD":
		return c.AUD
	case "SEK":
		return c.SEK
	default:
		return 0
	}
}

// SetCurrency sets the amount for the given ISO currency code. Unknown codes
// are ignored.
func (c *CurrencyCents) SetCurrency(code string, cents int) {
	switch code {
	case "USD":
		c.USD = cents
	case "EUR":
		c.EUR = cents
	case "GBP":
		c.GBP = cents
	case "CAD":
		c.CAD = cents
	case "AUD":
		c.AUD = cents
	case "SEK":
		c.SEK = cents
	}
}

// IsZero reports whether no currency carries an amount.
func (c CurrencyCents) IsZero() bool {
	return c == CurrencyCents{}
}
