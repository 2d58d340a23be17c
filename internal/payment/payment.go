// Package payment orchestrates card and cash payment flows against an
// external terminal provider
package payment

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Result is the outcome of one payment attempt, in the shape the
// till's payment-complete callback expects: success carries the
// transaction details, cancellation sets cancelled, failure sets
// error.
type Result struct {
	Success       bool            `json:"success"`
	Cancelled     bool            `json:"cancelled,omitempty"`
	TransactionID string          `json:"transactionId,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"paymentMethod,omitempty"`
	CardType      string          `json:"cardType,omitempty"`
	CardLastFour  string          `json:"cardLastFour,omitempty"`
	AuthCode      string          `json:"authCode,omitempty"`
	Error         string          `json:"error,omitempty"`
}

// MarshalJSON renders the till wire form. The amount is a JSON number
// and only present on success; the other outcomes carry just their
// discriminator.
func (r Result) MarshalJSON() ([]byte, error) {
	type wire struct {
		Success       bool        `json:"success"`
		Cancelled     bool        `json:"cancelled,omitempty"`
		TransactionID string      `json:"transactionId,omitempty"`
		Amount        json.Number `json:"amount,omitempty"`
		PaymentMethod string      `json:"paymentMethod,omitempty"`
		CardType      string      `json:"cardType,omitempty"`
		CardLastFour  string      `json:"cardLastFour,omitempty"`
		AuthCode      string      `json:"authCode,omitempty"`
		Error         string      `json:"error,omitempty"`
	}

	w := wire{
		Success:       r.Success,
		Cancelled:     r.Cancelled,
		TransactionID: r.TransactionID,
		PaymentMethod: r.PaymentMethod,
		CardType:      r.CardType,
		CardLastFour:  r.CardLastFour,
		AuthCode:      r.AuthCode,
		Error:         r.Error,
	}
	if r.Success {
		w.Amount = json.Number(r.Amount.String())
	}
	return json.Marshal(w)
}

// Approved builds a successful result
func Approved(transactionID string, amount decimal.Decimal, method string) Result {
	return Result{
		Success:       true,
		TransactionID: transactionID,
		Amount:        amount,
		PaymentMethod: method,
	}
}

// Cancelled builds a shopper-cancelled result
func Cancelled() Result {
	return Result{Cancelled: true}
}

// Failed builds a failed result with a human-readable message
func Failed(message string) Result {
	return Result{Error: message}
}

// Normalize folds provider-reported outcomes into the three shapes the
// till understands. Terminals tend to report shopper cancellation as
// just another error message, so it is detected by text.
func Normalize(r Result) Result {
	if r.Success {
		r.Cancelled = false
		r.Error = ""
		return r
	}

	if r.Cancelled || strings.Contains(strings.ToLower(r.Error), "cancel") {
		return Cancelled()
	}

	if r.Error == "" {
		r.Error = "payment failed"
	}
	return r
}
