package ofxparse

import (
	"bytes"
	"regexp"
	"strings"
)

// Headers maps upper-cased OFX header keys to their values. A nil value is a header declared
// as NONE.
type Headers map[string]*string

// Value returns the value for key, or "" when the key is absent or NONE.
func (h Headers) Value(key string) string {
	if v := h[strings.ToUpper(key)]; v != nil {
		return *v
	}
	return ""
}

// Flavor is the OFX syntax family of a document.
type Flavor int

const (
	// FlavorSGML is OFX 1.x with colon delimited headers.
	FlavorSGML Flavor = iota
	// FlavorXML is OFX 2.x with an <?OFX ...?> processing instruction.
	FlavorXML
)

var (
	utf8BOM = []byte{0xEF, 0xBB, 0xBF}

	ofxInstruction = regexp.MustCompile(`(?is)<\?OFX\s+(.*?)\?>`)
	xmlDeclaration = regexp.MustCompile(`(?is)^<\?xml\s+(.*?)\?>`)
	attribute      = regexp.MustCompile(`([A-Za-z][\w.-]*)\s*=\s*(?:"([^"]*)"|'([^']*)')`)
)

type rawHeader struct {
	key, value []byte
}

// headerBlock is the undecoded result of splitting a stream into headers and body.
type headerBlock struct {
	flavor      Flavor
	raw         []rawHeader
	xmlEncoding string
	body        []byte
}

// lookup returns the upper-cased raw value for key, "" when absent or NONE.
func (b *headerBlock) lookup(key string) string {
	for _, h := range b.raw {
		if string(h.key) == key {
			if v := strings.ToUpper(string(h.value)); v != "NONE" {
				return v
			}
			return ""
		}
	}
	return ""
}

// ReadHeaders splits data into its header mapping and the remaining body bytes.
// Header values are decoded with the encoding the headers declare; the body is left as is.
func ReadHeaders(data []byte) (Headers, []byte, error) {
	block, err := readHeaderBlock(data)
	if err != nil {
		return nil, nil, err
	}
	name, enc := resolveEncoding(block)
	headers, err := decodeHeaders(block, headerEncoding(name, enc))
	if err != nil {
		return nil, nil, err
	}
	return headers, block.body, nil
}

// readHeaderBlock reads header lines until the first blank line, a line starting markup, or
// the end of data. Lines may end in \r, \n or \r\n.
func readHeaderBlock(data []byte) (*headerBlock, error) {
	if len(data) == 0 {
		return nil, &HeaderError{Reason: "empty input"}
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	start := 0
	for start < len(data) && isSpace(data[start]) {
		start++
	}
	if start == len(data) {
		return nil, &HeaderError{Reason: "no recognizable header block"}
	}
	if data[start] == '<' {
		return readXMLHeaderBlock(data[start:])
	}

	block := &headerBlock{flavor: FlavorSGML}
	pos := start
	for pos < len(data) {
		end, next := lineEnd(data, pos)
		line := bytes.TrimSpace(data[pos:end])
		if len(line) == 0 {
			pos = next
			break
		}
		colon := bytes.IndexByte(line, ':')
		if line[0] == '<' || colon < 0 {
			break
		}
		block.raw = append(block.raw, rawHeader{
			key:   bytes.ToUpper(bytes.TrimSpace(line[:colon])),
			value: bytes.TrimSpace(line[colon+1:]),
		})
		pos = next
	}
	if len(block.raw) == 0 {
		return nil, &HeaderError{Reason: "no recognizable header block"}
	}
	block.body = data[pos:]
	return block, nil
}

// readXMLHeaderBlock takes the headers from the <?OFX ...?> processing instruction. The body
// keeps the instructions, the tree builder skips them.
func readXMLHeaderBlock(data []byte) (*headerBlock, error) {
	pi := ofxInstruction.FindSubmatch(data)
	if pi == nil {
		return nil, &HeaderError{Reason: "no recognizable header block"}
	}
	block := &headerBlock{flavor: FlavorXML, body: data}
	for _, attr := range attribute.FindAllSubmatch(pi[1], -1) {
		value := attr[2]
		if value == nil {
			value = attr[3]
		}
		block.raw = append(block.raw, rawHeader{key: bytes.ToUpper(attr[1]), value: bytes.TrimSpace(value)})
	}
	if decl := xmlDeclaration.FindSubmatch(data); decl != nil {
		for _, attr := range attribute.FindAllSubmatch(decl[1], -1) {
			if strings.EqualFold(string(attr[1]), "encoding") {
				block.xmlEncoding = string(attr[2]) + string(attr[3])
			}
		}
	}
	return block, nil
}

// lineEnd returns the end of the line starting at pos and the start of the next line.
func lineEnd(data []byte, pos int) (int, int) {
	for i := pos; i < len(data); i++ {
		switch data[i] {
		case '\n':
			return i, i + 1
		case '\r':
			if i+1 < len(data) && data[i+1] == '\n' {
				return i, i + 2
			}
			return i, i + 1
		}
	}
	return len(data), len(data)
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}
