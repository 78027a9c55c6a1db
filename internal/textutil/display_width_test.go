package textutil

import (
	"slices"
	"testing"
)

func TestDisplayWidthGraphemeClusters(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"ascii", "abc", 3},
		{"wide cjk", "你好", 4},
		{"combining acute", "e\u0301", 1},
		{"thumbs up with skin tone", "\U0001F44D\U0001F3FB", 2},
		{"family zwj", "\U0001F468\u200d\U0001F469\u200d\U0001F467", 2},
		{"mixed ascii + cjk", "a你b", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DisplayWidth(tt.text); got != tt.want {
				t.Fatalf("DisplayWidth(%q)=%d want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestTabStop(t *testing.T) {
	if got := TabStop(1, 4); got != 3 {
		t.Fatalf("expected 3 columns, got %d", got)
	}
	if got := TabStop(4, 4); got != 4 {
		t.Fatalf("expected full tab at stop, got %d", got)
	}
	if got := TabStop(3, 0); got != 1 {
		t.Fatalf("expected 1 column without tab width, got %d", got)
	}
}

func TestNormalizeInput(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"composes to NFC", "e\u0301", "\u00e9"},
		{"folds CRLF", "a\r\nb", "a\nb"},
		{"lone CR becomes LF", "a\rb", "a\nb"},
		{"drops escape", "a\x1b[31mb", "a[31mb"},
		{"keeps tab", "a\tb", "a\tb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeInput(tt.text); got != tt.want {
				t.Fatalf("NormalizeInput(%q)=%q want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestWrapPoints(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  []int
	}{
		{"fits", "hello", 10, []int{0}},
		{"breaks after space", "hello world", 8, []int{0, 6}},
		{"hard break without space", "abcdef", 4, []int{0, 4}},
		{"several rows", "aa bb cc dd", 5, []int{0, 3, 6}},
		{"wide runes", "你好世界", 5, []int{0, 2}},
		{"empty", "", 4, []int{0}},
		{"zero width", "abc", 0, []int{0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapPoints([]rune(tt.text), tt.width)
			if !slices.Equal(got, tt.want) {
				t.Fatalf("WrapPoints(%q, %d)=%v want %v", tt.text, tt.width, got, tt.want)
			}
		})
	}
}
