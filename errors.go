package ofxparse

import "fmt"

// HeaderError is returned when the OFX header block is missing or the input is empty.
type HeaderError struct {
	Reason string
}

func (e *HeaderError) Error() string {
	return "error - invalid header, " + e.Reason
}

// EncodingError is returned when the document body can not be decoded to text.
type EncodingError struct {
	Encoding string
	Err      error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("error - can not decode %s data: %v", e.Encoding, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

// TagStructureError is returned when the tag tree can not be placed or a required element is
// missing from a record.
type TagStructureError struct {
	Tag    string
	Reason string
}

func (e *TagStructureError) Error() string {
	if e.Tag == "" {
		return "error - " + e.Reason
	}
	return fmt.Sprintf("error - %s: %s", e.Tag, e.Reason)
}

// DateFormatError is returned for a malformed OFX date time value.
type DateFormatError struct {
	Value  string
	Reason string
}

func (e *DateFormatError) Error() string {
	return fmt.Sprintf("error - date string %q can not be parsed: %s", e.Value, e.Reason)
}

// AmountFormatError is returned for a malformed decimal amount.
type AmountFormatError struct {
	Value string
}

func (e *AmountFormatError) Error() string {
	return fmt.Sprintf("error - amount %q is not a decimal number", e.Value)
}

// InputTypeError is returned when the parse source is not a readable stream.
type InputTypeError struct {
	Reason string
	Err    error
}

func (e *InputTypeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("error - invalid input, %s: %v", e.Reason, e.Err)
	}
	return "error - invalid input, " + e.Reason
}

func (e *InputTypeError) Unwrap() error { return e.Err }

// ParserError identifies the record or statement field that aborted a fail fast parse.
type ParserError struct {
	// Record is the tag of the failing record or field, e.g. STMTTRN or DTSTART.
	Record string
	// Index is the position of the record within its list, -1 for statement fields.
	Index int
	// ID is the FITID of the failing record when one was present.
	ID  string
	Err error
}

func (e *ParserError) Error() string {
	switch {
	case e.Index < 0:
		return fmt.Sprintf("error - failed to parse %s: %v", e.Record, e.Err)
	case e.ID != "":
		return fmt.Sprintf("error - failed to parse %s #%d (FITID %s): %v", e.Record, e.Index, e.ID, e.Err)
	default:
		return fmt.Sprintf("error - failed to parse %s #%d: %v", e.Record, e.Index, e.Err)
	}
}

func (e *ParserError) Unwrap() error { return e.Err }
