package app

import "errors"

const (
	ParseReasonUnreadable  = "malformed or unreadable file"
	ParseReasonTooFewRows  = "file must contain at least a header row and one data row"
	ParseReasonUnsupported = "unsupported file format"
)

// ParseError is the only failure that aborts an import.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return e.Reason + ": " + e.Err.Error()
	}
	return e.Reason
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func NewParseError(reason string, err error) *ParseError {
	return &ParseError{Reason: reason, Err: err}
}

func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

var ErrImportRunNotFound = errors.New("import run not found")
