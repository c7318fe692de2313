package market

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Zane-/cryptobot/pkg/types"
)

// Market holds the exchange-published precision and limit rules for one
// trading pair. Loaded once from exchange metadata and read-only for the
// life of the process; the exchange may change it between runs.
type Market struct {
	Pair         types.Pair
	ExchangeName types.ExchangeName

	AmountPrecision int32   // decimal places accepted for order quantity
	PricePrecision  int32   // decimal places accepted for order price
	MinNotional     float64 // min order value in the quote asset
	MinQty          float64 // min order quantity
	MaxQty          float64 // max order quantity
	StepSize        float64 // quantity granularity
	TickSize        float64 // price granularity
}

func New(exchangeName types.ExchangeName, pair types.Pair) *Market {
	return &Market{
		ExchangeName: exchangeName,
		Pair:         pair,
	}
}

// RoundDown floors value to the precision grid. Use whenever rounding could
// otherwise push an order above what the account actually holds.
func RoundDown(value float64, precision int32) float64 {
	f, _ := decimal.NewFromFloat(value).RoundFloor(precision).Float64()
	return f
}

// RoundUp ceils value to the precision grid. Use whenever rounding could
// otherwise push an order below the exchange minimum.
func RoundUp(value float64, precision int32) float64 {
	f, _ := decimal.NewFromFloat(value).RoundCeil(precision).Float64()
	return f
}

// PrecisionFromStep derives the decimal-place precision from an exchange
// step/tick size string, e.g. "0.00100000" -> 3, "1.00000000" -> 0.
func PrecisionFromStep(step string) int32 {
	s := strings.TrimRight(step, "0")
	if i := strings.Index(s, "."); i >= 0 {
		return int32(len(s) - i - 1)
	}
	return 0
}

// FormatQty renders a quantity at the market's amount precision for the wire.
func (m *Market) FormatQty(qty float64) string {
	return strconv.FormatFloat(RoundDown(qty, m.AmountPrecision), 'f', int(m.AmountPrecision), 64)
}

// FormatPrice renders a price at the market's price precision for the wire.
func (m *Market) FormatPrice(price float64) string {
	return strconv.FormatFloat(RoundDown(price, m.PricePrecision), 'f', int(m.PricePrecision), 64)
}
