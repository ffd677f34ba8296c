package candb

import "fmt"

// ParseError reports a malformed DBC record. Parsing halts at the first
// one; a partial Database is never returned.
type ParseError struct {
	Line   int
	Column int
	Detail string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("dbc:%d:%d: %s", e.Line, e.Column, e.Detail)
}

// DuplicateError reports that add_dbc/add_node/add_message found a
// node or message name, or a message frame id, that already exists in
// the Database. Name is the name of the node or message being added.
type DuplicateError struct {
	Name string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate name %q", e.Name)
}

// NotFoundError reports a lookup miss by frame id or name.
type NotFoundError struct {
	Key any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("not found: %v", e.Key)
}

// MissingSignalError reports that encode_message was not given a value
// for a signal in the active signal set.
type MissingSignalError struct {
	Signal string
}

func (e *MissingSignalError) Error() string {
	return fmt.Sprintf("missing value for signal %q", e.Signal)
}

// UnknownChoiceError reports that an encode string value does not match
// any entry in the signal's choices table.
type UnknownChoiceError struct {
	Signal string
	Label  string
}

func (e *UnknownChoiceError) Error() string {
	return fmt.Sprintf("signal %q has no choice labelled %q", e.Signal, e.Label)
}

// OutOfRangeError reports that a value, after scaling, does not fit in
// the signal's declared bit length. It is never raised by EncodeMessage
// itself (spec: raw values outside the declared range encode silently,
// matching established tooling); it is available for callers who opt in
// via CheckRange.
type OutOfRangeError struct {
	Signal string
	Value  float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("signal %q value %v out of range", e.Signal, e.Value)
}

// TruncatedError reports that a payload handed to DecodeMessage is
// shorter than the message's declared length.
type TruncatedError struct {
	Expected int
	Got      int
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("payload truncated: expected at least %d bytes, got %d", e.Expected, e.Got)
}
