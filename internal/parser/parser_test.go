package parser

import (
	"strings"
	"testing"
)

func parseJava(t *testing.T, code string) *ParseResult {
	t.Helper()
	p, err := NewParser()
	if err != nil {
		t.Fatalf("failed to create parser: %v", err)
	}
	defer p.Close()

	result, err := p.Parse([]byte(code))
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}
	return result
}

func TestParseValidJava(t *testing.T) {
	code := `package com.example;

public class Foo {
    public void run() {
    }
}
`
	result := parseJava(t, code)
	defer result.Close()

	if result.HasErrors() {
		t.Error("expected no parse errors")
	}

	classes := result.FindNodesByType(NodeClassDeclaration)
	if len(classes) != 1 {
		t.Fatalf("expected 1 class declaration, got %d", len(classes))
	}

	name := classes[0].ChildByFieldName("name")
	if got := result.NodeText(name); got != "Foo" {
		t.Errorf("expected class name Foo, got %q", got)
	}
}

func TestHasErrors(t *testing.T) {
	result := parseJava(t, "public class {{{")
	defer result.Close()

	if !result.HasErrors() {
		t.Error("expected parse errors for malformed source")
	}
}

func TestOffsetOf(t *testing.T) {
	code := "package p;\nclass A {\n}\n"
	result := parseJava(t, code)
	defer result.Close()

	tests := []struct {
		name    string
		line    int
		col     int
		want    int
		wantErr bool
	}{
		{"first byte", 1, 1, 0, false},
		{"second line", 2, 1, 11, false},
		{"class keyword end", 2, 6, 16, false},
		{"end of file", 4, 1, 23, false},
		{"zero line", 0, 1, 0, true},
		{"zero col", 1, 0, 0, true},
		{"line past end", 9, 1, 0, true},
		{"col past line end", 1, 80, 0, true},
		{"col past end of file", 4, 2, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := result.OffsetOf(tt.line, tt.col)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got offset %d", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected offset %d, got %d", tt.want, got)
			}
		})
	}
}

func TestLeafAt(t *testing.T) {
	code := "class A { void builder() {} }"
	result := parseJava(t, code)
	defer result.Close()

	offset := strings.Index(code, "builder")
	leaf := result.LeafAt(offset)
	if leaf == nil {
		t.Fatal("expected a leaf node")
	}
	if leaf.Type() != NodeIdentifier {
		t.Errorf("expected identifier leaf, got %s", leaf.Type())
	}
	if got := result.NodeText(leaf); got != "builder" {
		t.Errorf("expected leaf text builder, got %q", got)
	}

	if leaf := result.LeafAt(len(code)); leaf != nil {
		t.Errorf("expected nil leaf at end of file, got %s", leaf.Type())
	}
	if leaf := result.LeafAt(len(code) + 10); leaf != nil {
		t.Errorf("expected nil leaf past end of file, got %s", leaf.Type())
	}
	if leaf := result.LeafAt(-1); leaf != nil {
		t.Error("expected nil leaf for negative offset")
	}
}

func TestLineCol(t *testing.T) {
	code := "ab\ncd\n"
	result := parseJava(t, code)
	defer result.Close()

	line, col := result.LineCol(4)
	if line != 2 || col != 2 {
		t.Errorf("expected 2:2, got %d:%d", line, col)
	}
}

func TestTypeDeclarationKind(t *testing.T) {
	code := `class A {}
interface B {}
enum C { X }
record D(int x) {}
`
	result := parseJava(t, code)
	defer result.Close()

	want := map[string]string{
		NodeClassDeclaration:     "class",
		NodeInterfaceDeclaration: "interface",
		NodeEnumDeclaration:      "enum",
		NodeRecordDeclaration:    "record",
	}
	for nodeType, kind := range want {
		nodes := result.FindNodesByType(nodeType)
		if len(nodes) != 1 {
			t.Fatalf("expected 1 %s, got %d", nodeType, len(nodes))
		}
		if got := TypeDeclarationKind(nodes[0]); got != kind {
			t.Errorf("expected kind %s for %s, got %s", kind, nodeType, got)
		}
		if !IsTypeDeclaration(nodes[0]) {
			t.Errorf("expected IsTypeDeclaration true for %s", nodeType)
		}
	}

	if IsTypeDeclaration(nil) {
		t.Error("expected IsTypeDeclaration false for nil")
	}
}
