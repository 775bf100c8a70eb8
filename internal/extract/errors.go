// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"errors"
	"fmt"
)

var (
	// ErrFormatMismatch matches any error raised for a line that does not
	// fit the fixed voter group layout.
	ErrFormatMismatch = errors.New("format mismatch")

	// ErrInsufficientData matches any error raised when fewer lines than a
	// voter group needs were supplied.
	ErrInsufficientData = errors.New("insufficient data")
)

// FormatMismatchError reports a voter group line that does not match its
// expected pattern.
type FormatMismatchError struct {
	// Line is the offending line, verbatim.
	Line string
	// Field names the line role ("identity" or "party/ballot").
	Field string
}

func (e *FormatMismatchError) Error() string {
	return fmt.Sprintf("%s line does not match the voter layout: %q", e.Field, e.Line)
}

func (e *FormatMismatchError) Is(target error) bool { return target == ErrFormatMismatch }

// InsufficientDataError reports a voter group with too few lines.
type InsufficientDataError struct {
	Lines []string
	Want  int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("voter group needs %d lines, got %d: %q", e.Want, len(e.Lines), e.Lines)
}

func (e *InsufficientDataError) Is(target error) bool { return target == ErrInsufficientData }

// PageError locates a group failure within the document.
type PageError struct {
	// Page is the page label from the footer, or "unknown".
	Page string
	// Group is the 1-based index of the failing group on the page.
	Group int
	Err   error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("page %s, voter %d: %v", e.Page, e.Group, e.Err)
}

func (e *PageError) Unwrap() error { return e.Err }
