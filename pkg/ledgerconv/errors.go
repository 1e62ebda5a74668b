package ledgerconv

import (
	"errors"
	"fmt"
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrUnsupportedFormat indicates an input extension no reader handles.
var ErrUnsupportedFormat = errors.New("unsupported input format")

// ErrNoData indicates that the input holds no readable sheet.
var ErrNoData = errors.New("no data found")

// ExtractionError represents an error reading one sheet.
type ExtractionError struct {
	SheetName string
	Component string // "cells", "print_areas"
	Err       error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction error in sheet %q (%s): %v", e.SheetName, e.Component, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// NewExtractionError creates a new ExtractionError.
func NewExtractionError(sheetName, component string, err error) *ExtractionError {
	return &ExtractionError{
		SheetName: sheetName,
		Component: component,
		Err:       err,
	}
}
