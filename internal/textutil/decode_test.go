package textutil

import (
	"errors"
	"testing"
)

func TestDecodeInput(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		want    string
	}{
		{"empty", nil, ""},
		{"plain utf8", []byte("# Zażółć\n"), "# Zażółć\n"},
		{"utf8 bom", []byte{0xEF, 0xBB, 0xBF, 'h', 'i'}, "hi"},
		{"utf16 le", []byte{0xFF, 0xFE, '#', 0x00, ' ', 0x00, 'a', 0x00}, "# a"},
		{"utf16 be", []byte{0xFE, 0xFF, 0x00, 'o', 0x00, 'k'}, "ok"},
		{"latin1 text", []byte("caf\xe9 au lait"), "caf\xe9 au lait"},
	}
	for _, tt := range tests {
		got, err := DecodeInput(tt.content)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", tt.name, err)
		}
		if got != tt.want {
			t.Fatalf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestDecodeInputRejectsBinary(t *testing.T) {
	for _, content := range [][]byte{
		{'a', 0x00, 'b'},
		{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08},
	} {
		if _, err := DecodeInput(content); !errors.Is(err, ErrBinaryInput) {
			t.Fatalf("expected ErrBinaryInput for %v, got %v", content, err)
		}
	}
}
