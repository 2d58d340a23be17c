package escpos

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/tillbridge/tillbridge/pkg/receipt"
)

// DefaultWidth is the character width of narrow (58mm) thermal paper
const DefaultWidth = 32

// CurrencySymbol prefixes every printed amount
const CurrencySymbol = "£"

// Formatter turns a receipt document into an ordered ESC/POS byte
// stream. Formatting is deterministic: the same document always yields
// byte-identical output.
type Formatter struct {
	Width          int
	HasPaperCutter bool
}

// NewFormatter creates a formatter for narrow thermal paper
func NewFormatter(hasPaperCutter bool) *Formatter {
	return &Formatter{
		Width:          DefaultWidth,
		HasPaperCutter: hasPaperCutter,
	}
}

// FormatReceipt renders a complete receipt
func (f *Formatter) FormatReceipt(doc *receipt.Document) []byte {
	var buf bytes.Buffer

	buf.Write(Init)
	buf.Write(LineSpacingDefault)

	// Header - shop name large and centered
	buf.Write(AlignCenter)
	buf.Write(DoubleSize)
	buf.Write(BoldOn)
	f.line(&buf, doc.ShopName)
	buf.Write(NormalSize)
	buf.Write(BoldOff)

	if addr := strings.TrimSpace(doc.ShopAddress); addr != "" {
		f.line(&buf, addr)
	}
	if phone := strings.TrimSpace(doc.ShopPhone); phone != "" {
		f.line(&buf, phone)
	}
	f.line(&buf, "")

	buf.Write(BoldOn)
	f.line(&buf, "RECEIPT")
	buf.Write(BoldOff)
	f.line(&buf, "")

	buf.Write(AlignLeft)
	f.line(&buf, "Date: "+doc.DateTime)
	f.line(&buf, "Receipt: "+doc.ReceiptNumber)
	if ot := strings.TrimSpace(doc.OrderType); ot != "" {
		f.line(&buf, "Order: "+ot)
	}
	f.line(&buf, f.separator())

	// Items print in document order
	for _, item := range doc.Items {
		f.line(&buf, f.PackLine(item.Name, f.Money(item.Price)))

		for _, mod := range item.Modifiers {
			label := "  " + mod.Name + ": " + mod.Option
			if mod.Price.IsPositive() {
				f.line(&buf, f.PackLine(label, f.Money(mod.Price)))
			} else {
				f.line(&buf, label)
			}
		}
	}

	f.line(&buf, f.separator())

	if doc.Discount.IsPositive() {
		f.line(&buf, f.PackLine("Discount:", "-"+f.Money(doc.Discount)))
	}

	buf.Write(BoldOn)
	buf.Write(DoubleHeight)
	f.line(&buf, f.PackLine("TOTAL:", f.Money(doc.Total)))
	buf.Write(NormalSize)
	buf.Write(BoldOff)
	f.line(&buf, "")

	if pm := strings.TrimSpace(doc.PaymentMethod); pm != "" {
		buf.Write(AlignCenter)
		f.line(&buf, "PAYMENT: "+strings.ToUpper(pm))

		if ct := strings.TrimSpace(doc.CardType); ct != "" {
			f.line(&buf, ct+" ****"+doc.CardLastFour)
			if ac := strings.TrimSpace(doc.AuthCode); ac != "" {
				f.line(&buf, "Auth: "+ac)
			}
			if tx := strings.TrimSpace(doc.TransactionID); tx != "" {
				f.line(&buf, "Trans: "+tx)
			}
			f.line(&buf, "")
			buf.Write(BoldOn)
			f.line(&buf, "APPROVED")
			buf.Write(BoldOff)
		}
	}

	f.line(&buf, "")
	buf.Write(AlignCenter)
	f.line(&buf, "Thank you!")
	f.line(&buf, "")

	buf.Write(FeedLines)
	if f.HasPaperCutter {
		buf.Write(PartialCut)
	}

	return buf.Bytes()
}

// FormatTestPage renders a fixed diagnostic page for hardware
// verification without needing a full receipt document
func (f *Formatter) FormatTestPage() []byte {
	var buf bytes.Buffer

	buf.Write(Init)
	buf.Write(AlignCenter)
	buf.Write(DoubleSize)
	buf.Write(BoldOn)
	f.line(&buf, "PRINTER TEST")
	buf.Write(NormalSize)
	buf.Write(BoldOff)
	f.line(&buf, "")
	f.line(&buf, "TillBridge POS")
	f.line(&buf, "")
	buf.Write(AlignLeft)
	f.line(&buf, "Normal text")
	buf.Write(BoldOn)
	f.line(&buf, "Bold text")
	buf.Write(BoldOff)
	f.line(&buf, f.separator())
	f.line(&buf, "If you can read this,")
	f.line(&buf, "printing is working!")
	f.line(&buf, "")
	buf.Write(FeedLines)
	if f.HasPaperCutter {
		buf.Write(PartialCut)
	}

	return buf.Bytes()
}

// Money formats an amount to two decimal places with the currency prefix.
// Negative amounts render as-is; validation happens upstream.
func (f *Formatter) Money(amount decimal.Decimal) string {
	return CurrencySymbol + amount.StringFixed(2)
}

// PackLine lays out a two-column line: left text left-justified, right
// text right-justified, padded to exactly the paper width. When the two
// don't fit, the left side is truncated so that one space and the full
// right side remain - the right column is never cut.
func (f *Formatter) PackLine(left, right string) string {
	leftLen := utf8.RuneCountInString(left)
	rightLen := utf8.RuneCountInString(right)

	spaces := f.Width - leftLen - rightLen
	if spaces > 0 {
		return left + strings.Repeat(" ", spaces) + right
	}

	keep := f.Width - rightLen - 1
	if keep < 0 {
		keep = 0
	}
	runes := []rune(left)
	if keep > len(runes) {
		keep = len(runes)
	}
	return string(runes[:keep]) + " " + right
}

func (f *Formatter) separator() string {
	return strings.Repeat("-", f.Width)
}

func (f *Formatter) line(buf *bytes.Buffer, text string) {
	buf.Write(Line(text))
}
