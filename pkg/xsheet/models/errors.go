package models

import (
	"errors"
	"fmt"
)

// ErrNoTable indicates the input markup contains no table element.
var ErrNoTable = errors.New("could not find <table>")

// Sheet naming failures.
var (
	ErrNameEmpty       = errors.New("sheet name is empty")
	ErrNameTooLong     = errors.New("sheet names cannot exceed 31 chars")
	ErrNameInvalidChar = errors.New("sheet name cannot contain \\ / ? * [ ]")
	ErrNameDuplicate   = errors.New("sheet name already exists")
	ErrTooManySheets   = errors.New("too many worksheets")
)

// FormatError reports input that cannot be converted at all.
type FormatError struct {
	Err error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid HTML: %v", e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// TypeError reports a cell value of a type the converters do not know.
type TypeError struct {
	Value any
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("unrecognized cell type %T", e.Value)
}

// NamingError reports a rejected sheet name.
type NamingError struct {
	Name string
	Err  error
}

func (e *NamingError) Error() string {
	return fmt.Sprintf("worksheet %q: %v", e.Name, e.Err)
}

func (e *NamingError) Unwrap() error {
	return e.Err
}
