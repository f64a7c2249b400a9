package xsheet

import (
	"errors"
	"fmt"
)

// ErrInvalidMode indicates an unknown render mode.
var ErrInvalidMode = errors.New("invalid render mode")

// Conversion stages reported by ConversionError.
const (
	StageParse  = "parse"
	StageEditor = "editor"
	StageRender = "render"
	StageXLSX   = "xlsx"
)

// ConversionError represents an error during conversion.
type ConversionError struct {
	Sheet string
	Stage string // StageParse, StageEditor, StageRender or StageXLSX
	Err   error
}

func (e *ConversionError) Error() string {
	if e.Sheet == "" {
		return fmt.Sprintf("conversion error (%s): %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("conversion error in sheet %q (%s): %v", e.Sheet, e.Stage, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// NewConversionError creates a new ConversionError.
func NewConversionError(sheet, stage string, err error) *ConversionError {
	return &ConversionError{
		Sheet: sheet,
		Stage: stage,
		Err:   err,
	}
}
