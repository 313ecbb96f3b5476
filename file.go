package ofxparse

import (
	"fmt"
	"io"
	"reflect"

	"golang.org/x/text/encoding"
)

// File is an OFX stream split into its headers and the body decoded to text.
type File struct {
	Headers Headers
	Flavor  Flavor
	// Encoding is the name of the encoding the body was decoded from.
	Encoding string
	Body     string
}

// NewFile reads r to the end and resolves its headers and text encoding.
func NewFile(r io.Reader) (*File, error) {
	data, err := readAll(r)
	if err != nil {
		return nil, err
	}
	return decodeFile(data)
}

func readAll(r io.Reader) ([]byte, error) {
	if r == nil {
		return nil, &InputTypeError{Reason: "source is nil, expected an io.Reader"}
	}
	if v := reflect.ValueOf(r); v.Kind() == reflect.Ptr && v.IsNil() {
		return nil, &InputTypeError{Reason: fmt.Sprintf("source is a nil %T", r)}
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &InputTypeError{Reason: "source can not be read", Err: err}
	}
	return data, nil
}

func decodeFile(data []byte) (*File, error) {
	var err error

	// A stream starting with a UTF-16 byte order mark is decoded whole, headers included.
	name, whole := sniffUTF16(data)
	if whole != nil {
		if data, err = decodeBytes(name, whole, data); err != nil {
			return nil, err
		}
	}

	block, err := readHeaderBlock(data)
	if err != nil {
		return nil, err
	}

	var headers Headers
	body := block.body
	if whole != nil {
		headers, err = decodeHeaders(block, nil)
	} else {
		var enc encoding.Encoding
		name, enc = resolveEncoding(block)
		if headers, err = decodeHeaders(block, headerEncoding(name, enc)); err == nil {
			body, err = decodeBytes(name, enc, body)
		}
	}
	if err != nil {
		return nil, err
	}
	return &File{Headers: headers, Flavor: block.flavor, Encoding: name, Body: string(body)}, nil
}
