package textutil

import (
	"bytes"
	"errors"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrBinaryInput is returned by DecodeInput for content that is not text.
var ErrBinaryInput = errors.New("input is not text")

// Only the head of a pipe is inspected when deciding whether it is text.
const (
	sniffLimit        = 4096
	maxControlPercent = 30
)

var byteOrderMarks = [][]byte{
	{0xEF, 0xBB, 0xBF},
	{0xFF, 0xFE},
	{0xFE, 0xFF},
}

// DecodeInput turns raw bytes from a pipe into a UTF-8 string. Input that
// starts with a UTF-8 or UTF-16 byte order mark is decoded accordingly and
// the mark dropped; anything else must look like text to be accepted.
func DecodeInput(content []byte) (string, error) {
	if len(content) == 0 {
		return "", nil
	}
	if hasByteOrderMark(content) {
		out, _, err := transform.Bytes(unicode.BOMOverride(transform.Nop), content)
		if err != nil {
			return "", err
		}
		return string(out), nil
	}
	if !looksLikeText(content) {
		return "", ErrBinaryInput
	}
	return string(content), nil
}

func hasByteOrderMark(content []byte) bool {
	for _, bom := range byteOrderMarks {
		if bytes.HasPrefix(content, bom) {
			return true
		}
	}
	return false
}

// looksLikeText rejects NUL bytes outright. Legacy 8-bit encodings pass as
// long as few bytes are control characters.
func looksLikeText(content []byte) bool {
	head := content[:min(len(content), sniffLimit)]
	if bytes.IndexByte(head, 0) >= 0 {
		return false
	}
	controls := 0
	for _, b := range head {
		if (b < 0x20 && b != '\t' && b != '\n' && b != '\r') || b == 0x7f {
			controls++
		}
	}
	return controls*100 < maxControlPercent*len(head)
}
