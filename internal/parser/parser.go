// Package parser provides tree-sitter based parsing for Java source files.
//
// The parser package wraps the tree-sitter library and adds the position
// helpers the intention machinery needs: mapping a 1-based line:column to a
// byte offset, and locating the leaf token under a caret offset.
package parser

import (
	"context"
	"os"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"
)

// Parser wraps tree-sitter for Java code parsing.
type Parser struct {
	parser *sitter.Parser
}

// ParseResult contains the parsed AST and metadata.
type ParseResult struct {
	// Tree is the complete tree-sitter parse tree.
	Tree *sitter.Tree
	// Root is the root node of the AST.
	Root *sitter.Node
	// Source is the original source code that was parsed.
	Source []byte
	// FilePath is the path to the source file (empty for in-memory parsing).
	FilePath string
}

// NewParser creates a parser configured for Java.
func NewParser() (*Parser, error) {
	p := sitter.NewParser()
	p.SetLanguage(java.GetLanguage())
	return &Parser{parser: p}, nil
}

// Parse parses source code and returns the AST.
func (p *Parser) Parse(source []byte) (*ParseResult, error) {
	tree, err := p.parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, &ParseError{
			Message: err.Error(),
		}
	}

	return &ParseResult{
		Tree:   tree,
		Root:   tree.RootNode(),
		Source: source,
	}, nil
}

// ParseFile parses a file from disk.
func (p *Parser) ParseFile(path string) (*ParseResult, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileReadError{Path: path, Err: err}
	}

	result, err := p.Parse(source)
	if err != nil {
		if pe, ok := err.(*ParseError); ok {
			pe.File = path
		}
		return nil, err
	}

	result.FilePath = path
	return result, nil
}

// Close releases parser resources.
// After calling Close, the parser should not be used.
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
		p.parser = nil
	}
}

// Close releases the parse tree resources.
func (r *ParseResult) Close() {
	if r.Tree != nil {
		r.Tree.Close()
		r.Tree = nil
		r.Root = nil
	}
}

// HasErrors returns true if the parse tree contains syntax errors.
func (r *ParseResult) HasErrors() bool {
	if r.Root == nil {
		return false
	}
	return r.Root.HasError()
}

// WalkNodes traverses the AST depth-first, calling the visitor function
// for each node. If the visitor returns false, traversal stops.
func (r *ParseResult) WalkNodes(visitor func(*sitter.Node) bool) {
	if r.Root == nil {
		return
	}
	walkNode(r.Root, visitor)
}

// walkNode is a helper for depth-first AST traversal.
func walkNode(node *sitter.Node, visitor func(*sitter.Node) bool) bool {
	if !visitor(node) {
		return false
	}
	for i := uint32(0); i < node.ChildCount(); i++ {
		if !walkNode(node.Child(int(i)), visitor) {
			return false
		}
	}
	return true
}

// FindNodes returns all nodes matching the given predicate.
func (r *ParseResult) FindNodes(predicate func(*sitter.Node) bool) []*sitter.Node {
	var nodes []*sitter.Node
	r.WalkNodes(func(node *sitter.Node) bool {
		if predicate(node) {
			nodes = append(nodes, node)
		}
		return true
	})
	return nodes
}

// FindNodesByType returns all nodes of the specified type.
func (r *ParseResult) FindNodesByType(nodeType string) []*sitter.Node {
	return r.FindNodes(func(node *sitter.Node) bool {
		return node.Type() == nodeType
	})
}

// NodeText returns the source text for a node.
func (r *ParseResult) NodeText(node *sitter.Node) string {
	if node == nil || r.Source == nil {
		return ""
	}
	return node.Content(r.Source)
}

// LeafAt returns the deepest node whose byte range covers the given offset.
// Returns nil if the offset falls outside the tree (e.g. past end of file).
func (r *ParseResult) LeafAt(offset int) *sitter.Node {
	if r.Root == nil || offset < 0 {
		return nil
	}
	off := uint32(offset)
	node := r.Root
	if off < node.StartByte() || off >= node.EndByte() {
		return nil
	}
	for {
		var next *sitter.Node
		for i := uint32(0); i < node.ChildCount(); i++ {
			child := node.Child(int(i))
			if off >= child.StartByte() && off < child.EndByte() {
				next = child
				break
			}
		}
		if next == nil {
			return node
		}
		node = next
	}
}

// OffsetOf converts a 1-based line and column to a byte offset into Source.
// Columns count bytes, matching how editors report caret positions for
// ASCII-dominant Java sources.
func (r *ParseResult) OffsetOf(line, col int) (int, error) {
	if line < 1 || col < 1 {
		return 0, &PositionError{File: r.FilePath, Line: line, Col: col}
	}

	cur := 1
	lineStart := 0
	for i, b := range r.Source {
		if cur == line {
			lineStart = i
			break
		}
		if b == '\n' {
			cur++
			lineStart = i + 1
		}
	}
	if cur < line {
		return 0, &PositionError{File: r.FilePath, Line: line, Col: col}
	}

	offset := lineStart + col - 1
	// The offset must stay on the requested line.
	for i := lineStart; i < offset && i < len(r.Source); i++ {
		if r.Source[i] == '\n' {
			return 0, &PositionError{File: r.FilePath, Line: line, Col: col}
		}
	}
	// One position past the last character is a legal caret (an editor
	// cursor at end of file); LeafAt finds no leaf there, so actions
	// treat it as inapplicable rather than an error.
	if offset > len(r.Source) {
		return 0, &PositionError{File: r.FilePath, Line: line, Col: col}
	}
	return offset, nil
}

// LineCol converts a byte offset to a 1-based line and column.
func (r *ParseResult) LineCol(offset int) (uint32, uint32) {
	var line, col uint32 = 1, 1
	for i := 0; i < offset && i < len(r.Source); i++ {
		if r.Source[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}
