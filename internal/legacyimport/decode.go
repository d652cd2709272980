package legacyimport

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeUpload normalizes an uploaded file to UTF-8 text. The prior system's
// exports are usually UTF-8 with an occasional BOM, but older dumps arrive as
// Latin-1; those are transcoded instead of being rejected.
func DecodeUpload(data []byte) string {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data)
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return string(data)
	}
	return string(decoded)
}
