// Package parser provides tree-sitter based parsing for Java source files.
package parser

import "fmt"

// ParseError represents a parsing error with location information.
type ParseError struct {
	Message string
	File    string
	Line    uint32
	Column  uint32
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// FileReadError is returned when a file cannot be read.
type FileReadError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *FileReadError) Error() string {
	return fmt.Sprintf("failed to read file %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *FileReadError) Unwrap() error {
	return e.Err
}

// PositionError is returned when a line:column position does not exist
// in the source being addressed.
type PositionError struct {
	File string
	Line int
	Col  int
}

// Error implements the error interface.
func (e *PositionError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("position %d:%d does not exist in %s", e.Line, e.Col, e.File)
	}
	return fmt.Sprintf("position %d:%d does not exist", e.Line, e.Col)
}
