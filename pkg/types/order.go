package types

import "encoding/json"

type OrderSide string

const (
	OrderSideBuy  = OrderSide("buy")
	OrderSideSell = OrderSide("sell")
)

type OrderType string

const (
	OrderLimit  = OrderType("limit")
	OrderMarket = OrderType("market")
)

type OrderStatus string

const (
	OrderStatusNew           = OrderStatus("new")
	OrderStatusPartialFilled = OrderStatus("partial_filled")
	OrderStatusFilled        = OrderStatus("filled")
	OrderStatusCanceled      = OrderStatus("canceled")
	OrderStatusRejected      = OrderStatus("rejected")
	OrderStatusExpired       = OrderStatus("expired")
)

// OrderRequest is a concrete, already-sized order handed to the exchange.
// Quantity is always in the base asset.
type OrderRequest struct {
	Pair     Pair
	Side     OrderSide
	Type     OrderType
	Quantity float64
	Price    float64 // limit orders only
}

// OrderRecord is the normalized result of an order placed on (or fetched
// from) the exchange. Raw carries the exchange payload untouched so callers
// can log it without this package knowing its shape.
type OrderRecord struct {
	ID        string
	Symbol    string
	Side      OrderSide
	Type      OrderType
	Status    OrderStatus
	Price     float64 // limit price, or average fill price for market orders
	OrigQty   float64
	FilledQty float64
	QuoteQty  float64 // cumulative quote-asset value of fills
	Raw       json.RawMessage
}

// Proceeds returns the realized quote-asset value of the order's fills.
// Falls back to FilledQty*Price when the exchange did not report a
// cumulative quote quantity.
func (o *OrderRecord) Proceeds() float64 {
	if o.QuoteQty > 0 {
		return o.QuoteQty
	}
	return o.FilledQty * o.Price
}
