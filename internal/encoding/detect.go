package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const sniffSize = 4096

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Charset names reported by detect.
const (
	charsetUTF8        = "UTF-8"
	charsetUTF16LE     = "UTF-16LE"
	charsetUTF16BE     = "UTF-16BE"
	charsetWindows1252 = "windows-1252"
	charsetISO88599    = "ISO-8859-9"
)

// NewUTF8Reader wraps r so that it yields UTF-8 regardless of how the
// document was saved. A hand-edited data file can come back from any editor.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	out, _, err := detect(r)
	return out, err
}

// detect sniffs the first bytes of r and returns a UTF-8 reader over the
// whole input along with the charset it decided on.
//
// Order: BOM, valid UTF-8, chardet heuristics, Windows-1252 fallback.
func detect(r io.Reader) (io.Reader, string, error) {
	br := bufio.NewReaderSize(r, sniffSize)

	buf, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, "", fmt.Errorf("peek: %w", err)
	}

	switch {
	case bytes.HasPrefix(buf, bomUTF8):
		_, _ = br.Discard(len(bomUTF8))
		return br, charsetUTF8, nil
	case bytes.HasPrefix(buf, bomUTF16LE):
		return decode(br, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)), charsetUTF16LE, nil
	case bytes.HasPrefix(buf, bomUTF16BE):
		return decode(br, unicode.UTF16(unicode.BigEndian, unicode.UseBOM)), charsetUTF16BE, nil
	}

	if utf8.Valid(buf) {
		return br, charsetUTF8, nil
	}

	if result, err := chardet.NewTextDetector().DetectBest(buf); err == nil {
		switch result.Charset {
		case "UTF-8":
			return br, charsetUTF8, nil
		case "ISO-8859-1", "windows-1252":
			return decode(br, charmap.Windows1252), charsetWindows1252, nil
		case "ISO-8859-9":
			return decode(br, charmap.ISO8859_9), charsetISO88599, nil
		}
	}

	return decode(br, charmap.Windows1252), charsetWindows1252, nil
}

// ReadAll decodes the whole of r to UTF-8.
func ReadAll(r io.Reader) ([]byte, error) {
	ur, err := NewUTF8Reader(r)
	if err != nil {
		return nil, err
	}

	b, err := io.ReadAll(ur)
	if err != nil {
		return nil, fmt.Errorf("decoding: %w", err)
	}

	return b, nil
}

func decode(r io.Reader, enc encoding.Encoding) io.Reader {
	return transform.NewReader(r, enc.NewDecoder())
}
