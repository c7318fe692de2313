package types

import "time"

// Ticker is a normalized 24h market snapshot for one symbol.
type Ticker struct {
	Symbol    string
	Bid       float64
	Ask       float64
	Last      float64
	High      float64
	Low       float64
	ChangePct float64 // 24h change in percent
	Volume    float64 // base-asset volume
}

// TickerEvent is a live ticker update delivered over a market stream.
type TickerEvent struct {
	Symbol       string
	Time         time.Time
	Last         float64
	High         float64
	Low          float64
	ChangePct    float64
	Volume       float64
	ReceivedTime time.Time
}

type Stream string

const (
	StreamTicker = Stream("Ticker")
)
