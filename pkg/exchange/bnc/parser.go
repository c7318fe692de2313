package bnc

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/adshao/go-binance/v2"

	"github.com/Zane-/cryptobot/pkg/types"
	"github.com/Zane-/cryptobot/pkg/utils"
)

func parseBalance(b binance.Balance) (types.Balance, error) {
	free, err := utils.StrToFloat(b.Free)
	if err != nil {
		return types.Balance{}, fmt.Errorf("fail to parse free balance of %s: %w", b.Asset, err)
	}
	locked, err := utils.StrToFloat(b.Locked)
	if err != nil {
		return types.Balance{}, fmt.Errorf("fail to parse locked balance of %s: %w", b.Asset, err)
	}
	return types.Balance{Asset: b.Asset, Free: free, Locked: locked}, nil
}

func parseTicker(s *binance.PriceChangeStats) (types.Ticker, error) {
	fields := map[string]string{
		"bid":    s.BidPrice,
		"ask":    s.AskPrice,
		"last":   s.LastPrice,
		"high":   s.HighPrice,
		"low":    s.LowPrice,
		"change": s.PriceChangePercent,
		"volume": s.Volume,
	}
	parsed := make(map[string]float64, len(fields))
	for name, raw := range fields {
		f, err := utils.StrToFloat(raw)
		if err != nil {
			return types.Ticker{}, fmt.Errorf("fail to parse ticker %s of %s: %w", name, s.Symbol, err)
		}
		parsed[name] = f
	}
	return types.Ticker{
		Symbol:    s.Symbol,
		Bid:       parsed["bid"],
		Ask:       parsed["ask"],
		Last:      parsed["last"],
		High:      parsed["high"],
		Low:       parsed["low"],
		ChangePct: parsed["change"],
		Volume:    parsed["volume"],
	}, nil
}

func parseCreateOrder(res *binance.CreateOrderResponse) (*types.OrderRecord, error) {
	origQty, err := utils.StrToFloat(res.OrigQuantity)
	if err != nil {
		return nil, fmt.Errorf("fail to parse order quantity: %w", err)
	}
	filledQty, err := utils.StrToFloat(res.ExecutedQuantity)
	if err != nil {
		return nil, fmt.Errorf("fail to parse executed quantity: %w", err)
	}
	quoteQty, err := utils.StrToFloat(res.CummulativeQuoteQuantity)
	if err != nil {
		return nil, fmt.Errorf("fail to parse quote quantity: %w", err)
	}
	price, err := utils.StrToFloat(res.Price)
	if err != nil {
		return nil, fmt.Errorf("fail to parse order price: %w", err)
	}
	// market orders report price 0; recover the average fill price
	if price == 0 {
		price = avgFillPrice(res.Fills)
	}

	raw, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("fail to keep raw order payload: %w", err)
	}
	return &types.OrderRecord{
		ID:        strconv.FormatInt(res.OrderID, 10),
		Symbol:    res.Symbol,
		Side:      parseSide(res.Side),
		Type:      parseType(res.Type),
		Status:    parseStatus(res.Status),
		Price:     price,
		OrigQty:   origQty,
		FilledQty: filledQty,
		QuoteQty:  quoteQty,
		Raw:       raw,
	}, nil
}

func parseOpenOrder(o *binance.Order) (*types.OrderRecord, error) {
	origQty, err := utils.StrToFloat(o.OrigQuantity)
	if err != nil {
		return nil, fmt.Errorf("fail to parse order quantity: %w", err)
	}
	filledQty, err := utils.StrToFloat(o.ExecutedQuantity)
	if err != nil {
		return nil, fmt.Errorf("fail to parse executed quantity: %w", err)
	}
	quoteQty, err := utils.StrToFloat(o.CummulativeQuoteQuantity)
	if err != nil {
		return nil, fmt.Errorf("fail to parse quote quantity: %w", err)
	}
	price, err := utils.StrToFloat(o.Price)
	if err != nil {
		return nil, fmt.Errorf("fail to parse order price: %w", err)
	}
	raw, err := json.Marshal(o)
	if err != nil {
		return nil, fmt.Errorf("fail to keep raw order payload: %w", err)
	}
	return &types.OrderRecord{
		ID:        strconv.FormatInt(o.OrderID, 10),
		Symbol:    o.Symbol,
		Side:      parseSide(o.Side),
		Type:      parseType(o.Type),
		Status:    parseStatus(o.Status),
		Price:     price,
		OrigQty:   origQty,
		FilledQty: filledQty,
		QuoteQty:  quoteQty,
		Raw:       raw,
	}, nil
}

func avgFillPrice(fills []*binance.Fill) float64 {
	var quoteQty, baseQty float64
	for _, fill := range fills {
		price, err := utils.StrToFloat(fill.Price)
		if err != nil {
			continue
		}
		qty, err := utils.StrToFloat(fill.Quantity)
		if err != nil {
			continue
		}
		quoteQty += price * qty
		baseQty += qty
	}
	if baseQty == 0 {
		return 0
	}
	return quoteQty / baseQty
}

func parseSide(side binance.SideType) types.OrderSide {
	if side == binance.SideTypeSell {
		return types.OrderSideSell
	}
	return types.OrderSideBuy
}

func parseType(orderType binance.OrderType) types.OrderType {
	if orderType == binance.OrderTypeLimit {
		return types.OrderLimit
	}
	return types.OrderMarket
}

func parseStatus(status binance.OrderStatusType) types.OrderStatus {
	switch status {
	case binance.OrderStatusTypeNew:
		return types.OrderStatusNew
	case binance.OrderStatusTypePartiallyFilled:
		return types.OrderStatusPartialFilled
	case binance.OrderStatusTypeFilled:
		return types.OrderStatusFilled
	case binance.OrderStatusTypeCanceled:
		return types.OrderStatusCanceled
	case binance.OrderStatusTypeRejected:
		return types.OrderStatusRejected
	default:
		return types.OrderStatusExpired
	}
}

func parseOrderID(orderID string) (int64, error) {
	id, err := strconv.ParseInt(orderID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad order id %q: %w", orderID, err)
	}
	return id, nil
}

// ╔══════════════╗
//     Ws Event
// ╚══════════════╝

type wsMiniTickerEvent struct {
	Event       string `json:"e"`
	Time        int64  `json:"E"`
	Symbol      string `json:"s"`
	Close       string `json:"c"`
	Open        string `json:"o"`
	High        string `json:"h"`
	Low         string `json:"l"`
	Volume      string `json:"v"`
	QuoteVolume string `json:"q"`
}

func parseMiniTickerEvents(msg []byte) ([]types.TickerEvent, error) {
	var raw []wsMiniTickerEvent
	if err := json.Unmarshal(msg, &raw); err != nil {
		return nil, err
	}
	events := make([]types.TickerEvent, 0, len(raw))
	for _, e := range raw {
		last, err := utils.StrToFloat(e.Close)
		if err != nil {
			return nil, err
		}
		open, err := utils.StrToFloat(e.Open)
		if err != nil {
			return nil, err
		}
		high, err := utils.StrToFloat(e.High)
		if err != nil {
			return nil, err
		}
		low, err := utils.StrToFloat(e.Low)
		if err != nil {
			return nil, err
		}
		volume, err := utils.StrToFloat(e.Volume)
		if err != nil {
			return nil, err
		}
		changePct := 0.0
		if open != 0 {
			changePct = (last - open) / open * 100
		}
		events = append(events, types.TickerEvent{
			Symbol:       e.Symbol,
			Time:         time.UnixMilli(e.Time),
			Last:         last,
			High:         high,
			Low:          low,
			ChangePct:    changePct,
			Volume:       volume,
			ReceivedTime: time.Now(),
		})
	}
	return events, nil
}
