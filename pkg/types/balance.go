package types

// Balance is a point-in-time account balance for a single asset. Free is
// what can be traded right now; Locked is reserved in open orders.
// Balances mutate on every fill, so callers must refetch rather than cache.
type Balance struct {
	Asset  string
	Free   float64
	Locked float64
}

func (b Balance) Total() float64 {
	return b.Free + b.Locked
}
