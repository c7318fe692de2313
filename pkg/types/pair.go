package types

import (
	"fmt"
	"strings"
)

// Pair identifies a tradable market: Base priced in Quote (e.g. XLM/ETH).
// Immutable once constructed.
type Pair struct {
	Base  string
	Quote string
}

// ParsePair parses a "BASE/QUOTE" string into a Pair.
func ParsePair(s string) (Pair, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Pair{}, fmt.Errorf("invalid pair: %q", s)
	}
	return Pair{
		Base:  strings.ToUpper(parts[0]),
		Quote: strings.ToUpper(parts[1]),
	}, nil
}

// PairFromSymbol splits an exchange-local symbol back into a Pair by
// matching a known quote-asset suffix. Symbols carry no separator, so the
// quote set must be supplied; the first match in order wins.
func PairFromSymbol(symbol string, knownQuotes []string) (Pair, error) {
	symbol = strings.ToUpper(symbol)
	for _, quote := range knownQuotes {
		quote = strings.ToUpper(quote)
		if len(symbol) > len(quote) && strings.HasSuffix(symbol, quote) {
			return Pair{Base: symbol[:len(symbol)-len(quote)], Quote: quote}, nil
		}
	}
	return Pair{}, fmt.Errorf("cannot split symbol %q with known quotes %v", symbol, knownQuotes)
}

// Symbol returns the exchange-local symbol, e.g. "XLMETH".
func (p Pair) Symbol() string {
	return p.Base + p.Quote
}

func (p Pair) String() string {
	return p.Base + "/" + p.Quote
}

func (p Pair) IsZero() bool {
	return p.Base == "" || p.Quote == ""
}
