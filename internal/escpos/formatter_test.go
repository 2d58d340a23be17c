package escpos

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/tillbridge/tillbridge/pkg/receipt"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestPackLine_Pads(t *testing.T) {
	f := NewFormatter(true)

	got := f.PackLine("Latte", "£3.50")
	if utf8.RuneCountInString(got) != 32 {
		t.Errorf("expected 32 chars, got %d: %q", utf8.RuneCountInString(got), got)
	}
	want := "Latte" + strings.Repeat(" ", 22) + "£3.50"
	if got != want {
		t.Errorf("PackLine() = %q, want %q", got, want)
	}
}

func TestPackLine_TruncatesLeft(t *testing.T) {
	f := NewFormatter(true)

	left := strings.Repeat("A", 30)
	got := f.PackLine(left, "£12.00")

	if utf8.RuneCountInString(got) != 32 {
		t.Errorf("expected 32 chars, got %d: %q", utf8.RuneCountInString(got), got)
	}
	// 32 - 6 - 1 = 25 chars of left text, one space, full right column
	want := strings.Repeat("A", 25) + " £12.00"
	if got != want {
		t.Errorf("PackLine() = %q, want %q", got, want)
	}
}

func TestPackLine_ExactFitTruncates(t *testing.T) {
	f := NewFormatter(true)

	// left+right exactly fill the width: still goes through truncation
	left := strings.Repeat("B", 27)
	got := f.PackLine(left, "£9.99")
	want := strings.Repeat("B", 26) + " £9.99"
	if got != want {
		t.Errorf("PackLine() = %q, want %q", got, want)
	}
}

func TestMoney(t *testing.T) {
	f := NewFormatter(true)

	tests := []struct {
		in   string
		want string
	}{
		{"2.5", "£2.50"},
		{"0", "£0.00"},
		{"10", "£10.00"},
		{"3.999", "£4.00"},
		{"-1.5", "£-1.50"},
	}

	for _, tt := range tests {
		if got := f.Money(dec(tt.in)); got != tt.want {
			t.Errorf("Money(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func sampleDocument() *receipt.Document {
	return &receipt.Document{
		ShopName:      "The Tea House",
		ShopAddress:   "12 High Street",
		ShopPhone:     "020 555 0123",
		ReceiptNumber: "R-1042",
		DateTime:      "2026-01-15 13:45",
		OrderType:     "Takeaway",
		Items: []receipt.Item{
			{
				Name:     "Latte",
				Quantity: 1,
				Price:    dec("3.50"),
				Modifiers: []receipt.Modifier{
					{Name: "Milk", Option: "Oat", Price: dec("0.40")},
					{Name: "Size", Option: "Large", Price: dec("0")},
				},
			},
			{Name: "Croissant", Quantity: 2, Price: dec("5.00")},
		},
		Subtotal:      dec("8.50"),
		Discount:      dec("0"),
		Tax:           dec("0"),
		Total:         dec("8.90"),
		PaymentMethod: "Card",
		CardType:      "Visa",
		CardLastFour:  "4242",
		AuthCode:      "A1B2C3",
		TransactionID: "TX-900",
	}
}

func TestFormatReceipt_Deterministic(t *testing.T) {
	f := NewFormatter(true)
	doc := sampleDocument()

	first := f.FormatReceipt(doc)
	second := f.FormatReceipt(doc)

	if !bytes.Equal(first, second) {
		t.Error("expected byte-identical output for the same document")
	}
}

func TestFormatReceipt_DiscountOnlyWhenPositive(t *testing.T) {
	f := NewFormatter(true)

	doc := sampleDocument()
	out := string(f.FormatReceipt(doc))
	if strings.Contains(out, "Discount:") {
		t.Error("discount line printed for zero discount")
	}

	doc.Discount = dec("1.25")
	out = string(f.FormatReceipt(doc))
	if !strings.Contains(out, "Discount:") {
		t.Error("expected discount line for positive discount")
	}
	if !strings.Contains(out, "-£1.25") {
		t.Error("expected negated discount amount")
	}
}

func TestFormatReceipt_CardBlockOnlyWithCardType(t *testing.T) {
	f := NewFormatter(true)

	doc := sampleDocument()
	out := string(f.FormatReceipt(doc))
	if !strings.Contains(out, "Visa ****4242") {
		t.Error("expected card detail line")
	}
	if !strings.Contains(out, "APPROVED") {
		t.Error("expected APPROVED line")
	}

	doc.CardType = "  "
	out = string(f.FormatReceipt(doc))
	if strings.Contains(out, "****") || strings.Contains(out, "APPROVED") {
		t.Error("card block printed for blank card type")
	}
}

func TestFormatReceipt_EmptyItems(t *testing.T) {
	f := NewFormatter(true)

	doc := &receipt.Document{
		ShopName:      "Empty Shop",
		ReceiptNumber: "R-1",
		DateTime:      "2026-01-15 09:00",
		Total:         dec("0"),
	}

	out := string(f.FormatReceipt(doc))
	if !strings.Contains(out, "RECEIPT") {
		t.Error("expected header for empty receipt")
	}
	if !strings.Contains(out, "TOTAL:") {
		t.Error("expected total line for empty receipt")
	}
}

func TestFormatReceipt_ModifierWithoutCharge(t *testing.T) {
	f := NewFormatter(true)
	doc := sampleDocument()

	out := string(f.FormatReceipt(doc))

	// Priced modifier packs into two columns
	if !strings.Contains(out, "£0.40") {
		t.Error("expected priced modifier column")
	}

	// Free modifier renders plain, with no price column on its line
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "Size: Large") {
			if strings.Contains(line, CurrencySymbol) {
				t.Errorf("free modifier line carries a price: %q", line)
			}
			if !strings.HasPrefix(line, "  Size") {
				t.Errorf("free modifier not indented: %q", line)
			}
		}
	}
}

func TestFormatReceipt_EndToEnd(t *testing.T) {
	f := NewFormatter(true)

	doc := &receipt.Document{
		ShopName:      "Corner Cafe",
		ReceiptNumber: "R-7",
		DateTime:      "2026-01-15 10:30",
		Items: []receipt.Item{
			{Name: "Tea", Quantity: 1, Price: dec("2.50")},
		},
		Total:         dec("2.50"),
		PaymentMethod: "Cash",
	}

	out := string(f.FormatReceipt(doc))

	itemLine := "Tea" + strings.Repeat(" ", 24) + "£2.50"
	if !strings.Contains(out, itemLine) {
		t.Errorf("missing packed item line %q", itemLine)
	}
	if utf8.RuneCountInString(itemLine) != 32 {
		t.Errorf("item line is %d chars, want 32", utf8.RuneCountInString(itemLine))
	}

	if !strings.Contains(out, "TOTAL:") || !strings.Contains(out, "£2.50") {
		t.Error("missing total line")
	}
	if !strings.Contains(out, "PAYMENT: CASH") {
		t.Error("missing payment method line")
	}
	if strings.Contains(out, "****") || strings.Contains(out, "APPROVED") {
		t.Error("card block printed for cash payment")
	}
}

func TestFormatReceipt_CutterOption(t *testing.T) {
	doc := sampleDocument()

	withCutter := NewFormatter(true).FormatReceipt(doc)
	if !bytes.HasSuffix(withCutter, PartialCut) {
		t.Error("expected partial cut after feed")
	}

	withoutCutter := NewFormatter(false).FormatReceipt(doc)
	if bytes.HasSuffix(withoutCutter, PartialCut) {
		t.Error("cut command emitted without a paper cutter")
	}
	if !bytes.HasSuffix(withoutCutter, FeedLines) {
		t.Error("expected feed to end the stream")
	}
}

func TestFormatTestPage(t *testing.T) {
	f := NewFormatter(true)

	out := f.FormatTestPage()
	if !bytes.HasPrefix(out, Init) {
		t.Error("test page must start with initialize")
	}

	text := string(out)
	if !strings.Contains(text, "PRINTER TEST") {
		t.Error("missing test page title")
	}
	if !strings.Contains(text, "Bold text") || !strings.Contains(text, "Normal text") {
		t.Error("missing sample text lines")
	}
	if !strings.Contains(text, strings.Repeat("-", DefaultWidth)) {
		t.Error("missing separator line")
	}
}
