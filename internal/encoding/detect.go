package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/korean"
	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const peekSize = 4096

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// NewUTF8Reader detects the encoding of the input and returns a reader
// that decodes the content to UTF-8.
//
// Detection order:
//  1. BOM (UTF-8 BOM is stripped; UTF-16 LE/BE is decoded)
//  2. Valid UTF-8 is returned as-is
//  3. Text that decodes cleanly as EUC-KR and contains Hangul is EUC-KR,
//     which is what Korean spreadsheet tools export by default
//  4. Heuristic detection via chardet
//  5. Fallback to Windows-1252
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReaderSize(r, peekSize)

	buf, err := br.Peek(peekSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("peek: %w", err)
	}

	// A full buffer may end in the middle of a multi-byte character.
	truncated := len(buf) == peekSize

	switch {
	case bytes.HasPrefix(buf, bomUTF8):
		_, _ = br.Discard(len(bomUTF8))
		return br, nil
	case bytes.HasPrefix(buf, bomUTF16LE):
		decoder := xunicode.UTF16(xunicode.LittleEndian, xunicode.UseBOM).NewDecoder()
		return transform.NewReader(br, decoder), nil
	case bytes.HasPrefix(buf, bomUTF16BE):
		decoder := xunicode.UTF16(xunicode.BigEndian, xunicode.UseBOM).NewDecoder()
		return transform.NewReader(br, decoder), nil
	}

	if validUTF8(buf, truncated) {
		return br, nil
	}

	if looksEUCKR(buf, truncated) {
		return transform.NewReader(br, korean.EUCKR.NewDecoder()), nil
	}

	result, detectErr := chardet.NewTextDetector().DetectBest(buf)
	if detectErr == nil {
		switch result.Charset {
		case "UTF-8":
			return br, nil
		case "ISO-8859-1", "windows-1252":
			return transform.NewReader(br, charmap.Windows1252.NewDecoder()), nil
		case "EUC-KR":
			return transform.NewReader(br, korean.EUCKR.NewDecoder()), nil
		}
	}

	return transform.NewReader(br, charmap.Windows1252.NewDecoder()), nil
}

func validUTF8(buf []byte, truncated bool) bool {
	if utf8.Valid(buf) {
		return true
	}

	if !truncated {
		return false
	}

	// Drop an incomplete trailing rune, at most utf8.UTFMax-1 bytes.
	for cut := 1; cut < utf8.UTFMax && cut < len(buf); cut++ {
		if utf8.Valid(buf[:len(buf)-cut]) {
			return true
		}
	}

	return false
}

func looksEUCKR(buf []byte, truncated bool) bool {
	if truncated {
		// Multi-byte characters are pairs of high bytes, so an odd run at the
		// end means the last character was cut.
		run := 0
		for i := len(buf) - 1; i >= 0 && buf[i] >= 0x80; i-- {
			run++
		}

		if run%2 == 1 {
			buf = buf[:len(buf)-1]
		}
	}

	decoded, err := korean.EUCKR.NewDecoder().Bytes(buf)
	if err != nil {
		return false
	}

	hangul := 0

	for _, r := range string(decoded) {
		if r == utf8.RuneError {
			return false
		}

		if unicode.Is(unicode.Hangul, r) {
			hangul++
		}
	}

	return hangul > 0
}
