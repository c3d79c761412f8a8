package savefile

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat is returned when an attribute that must hold an integer does not.
	ErrFormat = errors.New("savefile: malformed integer attribute")
	// ErrSequence is returned in strict mode when a Titan element appears
	// before any Kills element.
	ErrSequence = errors.New("savefile: element out of order")
	// ErrMarkup is returned when the payload is not well-formed markup.
	ErrMarkup = errors.New("savefile: malformed payload")
)

// FormatError reports an attribute that could not be read as a count.
type FormatError struct {
	Element string
	Attr    string
	Value   string
	Err     error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("savefile: <%s %s=%q>: %v", e.Element, e.Attr, e.Value, e.Err)
	}
	return fmt.Sprintf("savefile: <%s %s=%q>: not an integer", e.Element, e.Attr, e.Value)
}

func (e *FormatError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrFormat}
	}
	return []error{ErrFormat, e.Err}
}

// SequenceError reports an element that appeared before the one it needs.
type SequenceError struct {
	Element string
	Needs   string
}

func (e *SequenceError) Error() string {
	return fmt.Sprintf("savefile: <%s> before <%s>", e.Element, e.Needs)
}

func (e *SequenceError) Unwrap() error { return ErrSequence }

// MarkupError reports a tokenizer failure at a byte offset in the payload.
type MarkupError struct {
	Offset int64
	Err    error
}

func (e *MarkupError) Error() string {
	return fmt.Sprintf("savefile: payload offset %d: %v", e.Offset, e.Err)
}

func (e *MarkupError) Unwrap() []error { return []error{ErrMarkup, e.Err} }
