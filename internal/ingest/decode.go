package ingest

import (
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// decodeText converts raw CSV bytes to UTF-8 text. Exports from the vendor
// consoles arrive in a mix of encodings: UTF-8 (with or without BOM),
// UTF-16 with BOM, and Windows-1252 from older tooling. The BOM decides
// first; otherwise valid UTF-8 passes through and anything else is read as
// Windows-1252, which cannot fail.
func decodeText(raw []byte) (string, error) {
	switch {
	case bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}):
		return string(raw[3:]), nil
	case bytes.HasPrefix(raw, []byte{0xFF, 0xFE}), bytes.HasPrefix(raw, []byte{0xFE, 0xFF}):
		dec := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
		out, err := io.ReadAll(transform.NewReader(bytes.NewReader(raw), dec))
		if err != nil {
			return "", fmt.Errorf("decoding UTF-16: %w", err)
		}
		return string(out), nil
	case utf8.Valid(raw):
		return string(raw), nil
	default:
		dec := charmap.Windows1252.NewDecoder()
		out, err := io.ReadAll(transform.NewReader(bytes.NewReader(raw), dec))
		if err != nil {
			return "", fmt.Errorf("decoding Windows-1252: %w", err)
		}
		return string(out), nil
	}
}
