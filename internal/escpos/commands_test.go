package escpos

import (
	"bytes"
	"fmt"
	"testing"
)

func TestDirectiveBytes(t *testing.T) {
	tests := []struct {
		name string
		got  []byte
		want []byte
	}{
		{"initialize", Init, []byte{0x1B, 0x40}},
		{"align left", AlignLeft, []byte{0x1B, 0x61, 0x00}},
		{"align center", AlignCenter, []byte{0x1B, 0x61, 0x01}},
		{"align right", AlignRight, []byte{0x1B, 0x61, 0x02}},
		{"bold on", BoldOn, []byte{0x1B, 0x45, 0x01}},
		{"bold off", BoldOff, []byte{0x1B, 0x45, 0x00}},
		{"double height", DoubleHeight, []byte{0x1B, 0x21, 0x10}},
		{"double width", DoubleWidth, []byte{0x1B, 0x21, 0x20}},
		{"double size", DoubleSize, []byte{0x1B, 0x21, 0x30}},
		{"normal size", NormalSize, []byte{0x1B, 0x21, 0x00}},
		{"underline on", UnderlineOn, []byte{0x1B, 0x2D, 0x01}},
		{"underline off", UnderlineOff, []byte{0x1B, 0x2D, 0x00}},
		{"full cut", FullCut, []byte{0x1D, 0x56, 0x00}},
		{"partial cut", PartialCut, []byte{0x1D, 0x56, 0x01}},
		{"feed lines", FeedLines, []byte{0x1B, 0x64, 0x04}},
		{"cash drawer pulse", CashDrawerPulse, []byte{0x1B, 0x70, 0x00, 0x19, 0xFA}},
		{"default line spacing", LineSpacingDefault, []byte{0x1B, 0x32}},
	}

	seen := make(map[string]string)

	for _, tt := range tests {
		if !bytes.Equal(tt.got, tt.want) {
			t.Errorf("%s: got % X, want % X", tt.name, tt.got, tt.want)
		}

		// No two directives may share a byte sequence
		key := fmt.Sprintf("% X", tt.got)
		if prev, dup := seen[key]; dup {
			t.Errorf("%s and %s share byte sequence % X", tt.name, prev, tt.got)
		}
		seen[key] = tt.name
	}
}

func TestLine(t *testing.T) {
	got := Line("Hello")
	want := []byte("Hello\n")
	if !bytes.Equal(got, want) {
		t.Errorf("Line() = % X, want % X", got, want)
	}

	// UTF-8 payload passes through unchanged
	got = Line("£3.50")
	want = append([]byte("£3.50"), 0x0A)
	if !bytes.Equal(got, want) {
		t.Errorf("Line() = % X, want % X", got, want)
	}
}
