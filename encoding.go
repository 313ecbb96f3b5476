package ofxparse

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/golang/glog"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	nameUTF8        = "UTF-8"
	nameUTF16LE     = "UTF-16LE"
	nameUTF16BE     = "UTF-16BE"
	nameWindows1252 = "windows-1252"
	nameISO88591    = "ISO-8859-1"
)

var (
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// sniffUTF16 returns the UTF-16 encoding announced by a byte order mark at the start of data.
func sniffUTF16(data []byte) (string, encoding.Encoding) {
	switch {
	case bytes.HasPrefix(data, bomUTF16LE):
		return nameUTF16LE, unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM)
	case bytes.HasPrefix(data, bomUTF16BE):
		return nameUTF16BE, unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM)
	}
	return "", nil
}

// resolveEncoding picks the body encoding from the ENCODING and CHARSET headers, or from the
// XML declaration. Unrecognized combinations fall back to UTF-8, or Windows-1252 when the body
// is not valid UTF-8.
func resolveEncoding(block *headerBlock) (string, encoding.Encoding) {
	if block.flavor == FlavorXML {
		if block.xmlEncoding != "" {
			enc, err := htmlindex.Get(block.xmlEncoding)
			if err == nil {
				name, _ := htmlindex.Name(enc)
				return name, enc
			}
			glog.Warningf("unknown xml encoding %q, falling back", block.xmlEncoding)
		}
		return fallbackEncoding(block.body)
	}

	charset := block.lookup("CHARSET")
	switch block.lookup("ENCODING") {
	case "UNICODE", "UTF-8", "UTF8":
		if name, enc := sniffUTF16(block.body); enc != nil {
			return name, enc
		}
		return nameUTF8, unicode.UTF8BOM
	case "USASCII":
		switch charset {
		case "", "1252", "WINDOWS-1252", "CP1252":
			return nameWindows1252, charmap.Windows1252
		case "8859-1", "ISO-8859-1", "ISO8859-1", "LATIN1":
			return nameISO88591, charmap.ISO8859_1
		}
	}
	glog.V(2).Infof("unrecognized ENCODING %q with CHARSET %q", block.lookup("ENCODING"), charset)
	return fallbackEncoding(block.body)
}

func fallbackEncoding(body []byte) (string, encoding.Encoding) {
	body = bytes.TrimPrefix(body, utf8BOM)
	if utf8.Valid(body) {
		return nameUTF8, unicode.UTF8BOM
	}
	glog.Warningf("body is not valid UTF-8, decoding as %s", nameWindows1252)
	return nameWindows1252, charmap.Windows1252
}

// decodeBytes converts data to UTF-8 with enc. A nil enc means data is already UTF-8.
func decodeBytes(name string, enc encoding.Encoding, data []byte) ([]byte, error) {
	if enc == nil {
		return data, nil
	}
	out, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return nil, &EncodingError{Encoding: name, Err: err}
	}
	return out, nil
}

// headerEncoding is the encoding of header lines read ahead of the body. UTF-16 applies
// to the body only, the header lines before it are ASCII.
func headerEncoding(name string, enc encoding.Encoding) encoding.Encoding {
	if name == nameUTF16LE || name == nameUTF16BE {
		return nil
	}
	return enc
}

// decodeHeaders converts the raw header lines to text with the body encoding.
func decodeHeaders(block *headerBlock, enc encoding.Encoding) (Headers, error) {
	var (
		headers = make(Headers, len(block.raw))
		decode  transform.Transformer
	)
	if enc != nil {
		decode = enc.NewDecoder()
	}
	text := func(b []byte) (string, error) {
		if decode == nil {
			return string(b), nil
		}
		s, _, err := transform.String(decode, string(b))
		if err != nil {
			return "", &EncodingError{Encoding: "header", Err: err}
		}
		return s, nil
	}
	for _, h := range block.raw {
		key, err := text(h.key)
		if err != nil {
			return nil, err
		}
		value, err := text(h.value)
		if err != nil {
			return nil, err
		}
		if strings.EqualFold(value, "NONE") {
			headers[key] = nil
			continue
		}
		v := value
		headers[key] = &v
	}
	return headers, nil
}
