package types

import (
	"errors"
	"fmt"
)

// ErrKind is the taxonomy of failures the order core distinguishes.
// Everything the exchange boundary returns is classified into one of these
// immediately, so downstream retry logic can branch on kind instead of
// sniffing exchange payloads.
type ErrKind string

const (
	ErrUnknown           = ErrKind("unknown")
	ErrNetwork           = ErrKind("network")            // transient transport/API outage
	ErrInvalidOrder      = ErrKind("invalid_order")      // violates price/amount/cost constraints
	ErrInsufficientFunds = ErrKind("insufficient_funds") // balance does not cover the order
	ErrConfiguration     = ErrKind("configuration")      // precondition violation, never retried
	ErrDataUnavailable   = ErrKind("data_unavailable")   // read retry budget exhausted
	ErrSubmissionFailed  = ErrKind("submission_failed")  // write retry budget exhausted
)

// TradeError carries an ErrKind plus enough structured context (pair, side,
// computed amount, violated constraint) to log a terminal failure without
// re-deriving anything from raw exchange payloads.
type TradeError struct {
	Kind       ErrKind
	Pair       Pair
	Side       OrderSide
	Amount     float64
	Constraint string
	Err        error
}

func (e *TradeError) Error() string {
	msg := string(e.Kind)
	if !e.Pair.IsZero() {
		msg += " " + e.Pair.String()
	}
	if e.Side != "" {
		msg = fmt.Sprintf("%s %s", msg, e.Side)
	}
	if e.Amount != 0 {
		msg = fmt.Sprintf("%s amount=%v", msg, e.Amount)
	}
	if e.Constraint != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Constraint)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *TradeError) Unwrap() error {
	return e.Err
}

// KindOf extracts the taxonomy kind from an error chain.
func KindOf(err error) ErrKind {
	var te *TradeError
	if errors.As(err, &te) {
		return te.Kind
	}
	return ErrUnknown
}
