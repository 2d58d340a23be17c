// Package receipt defines the receipt document sent by the POS web app
package receipt

import (
	"github.com/shopspring/decimal"
)

// Document represents one receipt to be printed. It is built once per
// print job and never mutated afterwards.
type Document struct {
	ShopName      string          `json:"shop_name"`
	ShopAddress   string          `json:"shop_address"`
	ShopPhone     string          `json:"shop_phone"`
	ReceiptNumber string          `json:"receipt_number"`
	DateTime      string          `json:"date_time"`
	OrderType     string          `json:"order_type"`
	Employee      string          `json:"employee"`
	Items         []Item          `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`
	Tax           decimal.Decimal `json:"tax"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod string          `json:"payment_method"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	Change        decimal.Decimal `json:"change"`

	// Card payment details (populated after a card payment)
	CardType      string `json:"card_type,omitempty"`
	CardLastFour  string `json:"card_last_four,omitempty"`
	AuthCode      string `json:"auth_code,omitempty"`
	TransactionID string `json:"transaction_id,omitempty"`
}

// Item is a single line on the receipt. Price is the line total, not a
// unit price; Quantity is informational and never multiplied in.
type Item struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Modifiers []Modifier      `json:"modifiers,omitempty"`
}

// Modifier is an option applied to an item. A zero price means "no
// charge" and suppresses the price column when printed.
type Modifier struct {
	Name   string          `json:"name"`
	Option string          `json:"option"`
	Price  decimal.Decimal `json:"price"`
}
