package receipt

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParse_FullDocument(t *testing.T) {
	jsonData := `{
		"shop_name": "Corner Cafe",
		"shop_address": "12 High Street",
		"shop_phone": "020 555 0123",
		"receipt_number": "R-1042",
		"date_time": "2026-01-15 13:45",
		"order_type": "Takeaway",
		"employee": "Sam",
		"items": [
			{
				"name": "Latte",
				"quantity": 2,
				"price": 7.00,
				"modifiers": [
					{"name": "Milk", "option": "Oat", "price": 0.40}
				]
			}
		],
		"subtotal": 7.40,
		"discount": 0.50,
		"tax": 0,
		"total": 6.90,
		"payment_method": "Card",
		"amount_paid": 6.90,
		"change": 0,
		"card_type": "Visa",
		"card_last_four": "4242",
		"auth_code": "A1B2C3",
		"transaction_id": "TX-900"
	}`

	doc, err := Parse([]byte(jsonData))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if doc.ShopName != "Corner Cafe" {
		t.Errorf("shop name = %q", doc.ShopName)
	}
	if len(doc.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(doc.Items))
	}
	if doc.Items[0].Quantity != 2 {
		t.Errorf("quantity = %d, want 2", doc.Items[0].Quantity)
	}
	if !doc.Items[0].Price.Equal(decimal.RequireFromString("7.00")) {
		t.Errorf("item price = %s", doc.Items[0].Price)
	}
	if len(doc.Items[0].Modifiers) != 1 || doc.Items[0].Modifiers[0].Option != "Oat" {
		t.Errorf("modifiers = %+v", doc.Items[0].Modifiers)
	}
	if !doc.Discount.Equal(decimal.RequireFromString("0.5")) {
		t.Errorf("discount = %s", doc.Discount)
	}
	if doc.CardType != "Visa" || doc.CardLastFour != "4242" {
		t.Errorf("card fields = %q %q", doc.CardType, doc.CardLastFour)
	}
}

func TestParse_AbsentFieldsDefault(t *testing.T) {
	doc, err := Parse([]byte(`{"items": [{"name": "Tea", "price": 2.5}]}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if doc.ShopName != "" || doc.PaymentMethod != "" || doc.CardType != "" {
		t.Error("absent strings should default to empty")
	}
	if !doc.Total.IsZero() || !doc.Discount.IsZero() {
		t.Error("absent amounts should default to zero")
	}
	if doc.Items[0].Quantity != 1 {
		t.Errorf("absent quantity = %d, want 1", doc.Items[0].Quantity)
	}
	if doc.Items[0].Modifiers != nil && len(doc.Items[0].Modifiers) != 0 {
		t.Error("absent modifiers should be empty")
	}
}

func TestParse_InvalidJSON(t *testing.T) {
	if _, err := Parse([]byte(`{not json`)); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestRoundTrip(t *testing.T) {
	doc := &Document{
		ShopName:      "The Tea House",
		ReceiptNumber: "R-7",
		DateTime:      "2026-01-15 10:30",
		Items: []Item{
			{
				Name:     "Tea",
				Quantity: 1,
				Price:    decimal.RequireFromString("2.50"),
				Modifiers: []Modifier{
					{Name: "Sugar", Option: "None", Price: decimal.Zero},
				},
			},
		},
		Subtotal:      decimal.RequireFromString("2.50"),
		Total:         decimal.RequireFromString("2.50"),
		PaymentMethod: "Cash",
		AmountPaid:    decimal.RequireFromString("5.00"),
		Change:        decimal.RequireFromString("2.50"),
	}

	data, err := doc.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}

	parsed, err := Parse(data)
	if err != nil {
		t.Fatalf("re-parse failed: %v", err)
	}

	if parsed.ShopName != doc.ShopName || parsed.ReceiptNumber != doc.ReceiptNumber {
		t.Error("header fields did not survive round-trip")
	}
	if parsed.PaymentMethod != doc.PaymentMethod {
		t.Error("payment method did not survive round-trip")
	}
	if !parsed.Total.Equal(doc.Total) || !parsed.Change.Equal(doc.Change) {
		t.Error("amounts did not survive round-trip")
	}
	if len(parsed.Items) != 1 || parsed.Items[0].Name != "Tea" {
		t.Error("items did not survive round-trip")
	}
	if !parsed.Items[0].Price.Equal(doc.Items[0].Price) {
		t.Error("item price did not survive round-trip")
	}
	if len(parsed.Items[0].Modifiers) != 1 || parsed.Items[0].Modifiers[0].Option != "None" {
		t.Error("modifiers did not survive round-trip")
	}
}
