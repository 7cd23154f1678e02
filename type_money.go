package stocksboard

import (
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is the currency prices are displayed in unless configured
// otherwise. The backend does not transmit any currency.
const DefaultCurrency = "USD"

// Money is a price or an amount in a currency, for display.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

// M returns v in currency cur. An empty or unknown currency displays in
// DefaultCurrency.
func M(v decimal.Decimal, cur string) Money {
	if cur == "" || money.GetCurrency(cur) == nil {
		cur = DefaultCurrency
	}
	return Money{value: v, cur: cur}
}

// currency returns the money's currency
func (m Money) currency() money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, m.cur).Currency()
}

// String returns the amount formatted with the currency symbol, rounded to
// the currency fraction ("$150.00").
func (m Money) String() string {
	cur := m.currency()
	v := m.value.Round(int32(cur.Fraction))
	if minor := v.Shift(int32(cur.Fraction)); minor.Abs().Cmp(maxMinor) <= 0 {
		return cur.Formatter().Format(minor.IntPart())
	}
	return formatLarge(cur, v)
}

// maxMinor is the largest amount, in minor units, go-money can format.
var maxMinor = decimal.NewFromInt(math.MaxInt64)

// formatLarge formats v like go-money does, from its decimal digits.
func formatLarge(cur money.Currency, v decimal.Decimal) string {
	whole, frac, _ := strings.Cut(v.Abs().StringFixed(int32(cur.Fraction)), ".")
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteString(cur.Thousand)
		}
		b.WriteRune(r)
	}
	if frac != "" {
		b.WriteString(cur.Decimal)
		b.WriteString(frac)
	}
	out := strings.Replace(cur.Template, "1", b.String(), 1)
	out = strings.Replace(out, "$", cur.Grapheme, 1)
	if v.IsNegative() {
		out = "-" + out
	}
	return out
}

func (m Money) Currency() string       { return m.cur }
func (m Money) Value() decimal.Decimal { return m.value }
func (m Money) IsNegative() bool       { return m.value.IsNegative() }
func (m Money) IsZero() bool           { return m.value.IsZero() }
func (m Money) Equal(n Money) bool     { return m.value.Equal(n.value) && m.cur == n.cur }
