package bnc

import (
	"errors"
	"strings"

	"github.com/adshao/go-binance/v2/common"

	"github.com/Zane-/cryptobot/pkg/types"
)

// Binance spot error codes this bot reacts to.
// ref: https://binance-docs.github.io/apidocs/spot/en/#error-codes
const (
	codeUnknown           = -1000
	codeDisconnected      = -1001
	codeTooManyRequests   = -1003
	codeUnexpectedResp    = -1006
	codeTimeout           = -1007
	codeIPBanned          = -1015
	codeFilterFailure     = -1013 // PRICE_FILTER / LOT_SIZE / MIN_NOTIONAL violations
	codeBadPrecision      = -1111
	codeInvalidSymbol     = -1121
	codeNewOrderRejected  = -2010
	codeCancelRejected    = -2011
)

// classify maps an exchange failure onto the taxonomy. Transport errors and
// retriable API outages become ErrNetwork; order-constraint rejections
// become ErrInvalidOrder or ErrInsufficientFunds; anything unrecognized is
// ErrUnknown and is never retried.
func classify(err error) types.ErrKind {
	var apiErr *common.APIError
	if !errors.As(err, &apiErr) {
		// transport-level failure (conn reset, DNS, context deadline)
		return types.ErrNetwork
	}
	switch apiErr.Code {
	case codeUnknown, codeDisconnected, codeTooManyRequests, codeUnexpectedResp, codeTimeout, codeIPBanned:
		return types.ErrNetwork
	case codeFilterFailure, codeBadPrecision, codeCancelRejected:
		return types.ErrInvalidOrder
	case codeInvalidSymbol:
		return types.ErrConfiguration
	case codeNewOrderRejected:
		if strings.Contains(strings.ToLower(apiErr.Message), "insufficient balance") {
			return types.ErrInsufficientFunds
		}
		return types.ErrInvalidOrder
	case 0:
		// go-binance reports unparseable (usually 5xx) responses as code 0
		return types.ErrNetwork
	default:
		return types.ErrUnknown
	}
}

func classifyErr(op string, err error) error {
	return &types.TradeError{
		Kind:       classify(err),
		Constraint: op,
		Err:        err,
	}
}

func classifyOrderErr(op string, err error, req types.OrderRequest) error {
	return &types.TradeError{
		Kind:       classify(err),
		Pair:       req.Pair,
		Side:       req.Side,
		Amount:     req.Quantity,
		Constraint: op,
		Err:        err,
	}
}
