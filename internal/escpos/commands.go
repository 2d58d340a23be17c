// Package escpos encodes receipts into ESC/POS byte streams for thermal printers
package escpos

// Control-code prefixes
const (
	ESC byte = 0x1B
	GS  byte = 0x1D
	LF  byte = 0x0A
)

// Printer directives. These byte sequences are the wire-compatibility
// contract: any printer advertising ESC/POS support accepts them verbatim.
var (
	Init               = []byte{ESC, '@'}
	AlignLeft          = []byte{ESC, 'a', 0x00}
	AlignCenter        = []byte{ESC, 'a', 0x01}
	AlignRight         = []byte{ESC, 'a', 0x02}
	BoldOn             = []byte{ESC, 'E', 0x01}
	BoldOff            = []byte{ESC, 'E', 0x00}
	DoubleHeight       = []byte{ESC, '!', 0x10}
	DoubleWidth        = []byte{ESC, '!', 0x20}
	DoubleSize         = []byte{ESC, '!', 0x30}
	NormalSize         = []byte{ESC, '!', 0x00}
	UnderlineOn        = []byte{ESC, '-', 0x01}
	UnderlineOff       = []byte{ESC, '-', 0x00}
	FullCut            = []byte{GS, 'V', 0x00}
	PartialCut         = []byte{GS, 'V', 0x01}
	FeedLines          = []byte{ESC, 'd', 0x04}
	CashDrawerPulse    = []byte{ESC, 'p', 0x00, 0x19, 0xFA}
	LineSpacingDefault = []byte{ESC, '2'}
)

// Line encodes a line of text as UTF-8 terminated by a line feed
func Line(text string) []byte {
	out := make([]byte, 0, len(text)+1)
	out = append(out, text...)
	out = append(out, LF)
	return out
}
