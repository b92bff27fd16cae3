package java

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/anthropics/jfix/internal/parser"
)

func parseUnit(t *testing.T, code string) *Unit {
	t.Helper()
	p, err := parser.NewParser()
	if err != nil {
		t.Fatalf("failed to create parser: %v", err)
	}
	defer p.Close()

	result, err := p.Parse([]byte(code))
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}
	t.Cleanup(result.Close)
	return NewUnit(result)
}

func TestNewUnit(t *testing.T) {
	code := `package com.example.app;

import lombok.Builder;
import java.util.*;
import static java.util.Collections.emptyList;

public class Account {
    private String id;

    public String getId() {
        return id;
    }
}

interface Audited {
}

enum Status { OPEN, CLOSED }
`
	u := parseUnit(t, code)

	if u.Package != "com.example.app" {
		t.Errorf("expected package com.example.app, got %q", u.Package)
	}

	wantImports := []Import{
		{Path: "lombok.Builder"},
		{Path: "java.util", Wildcard: true},
		{Path: "java.util.Collections.emptyList", Static: true},
	}
	gotImports := make([]Import, len(u.Imports))
	for i, imp := range u.Imports {
		gotImports[i] = Import{Path: imp.Path, Wildcard: imp.Wildcard, Static: imp.Static}
	}
	if diff := cmp.Diff(wantImports, gotImports, cmpopts.IgnoreFields(Import{}, "Node")); diff != "" {
		t.Errorf("imports mismatch (-want +got):\n%s", diff)
	}

	kinds := map[string]string{}
	for _, cls := range u.Classes {
		kinds[cls.Name] = cls.Kind
	}
	wantKinds := map[string]string{
		"Account": KindClass,
		"Audited": KindInterface,
		"Status":  KindEnum,
	}
	if diff := cmp.Diff(wantKinds, kinds); diff != "" {
		t.Errorf("class kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestClassMethods(t *testing.T) {
	code := `class Order {
    static OrderBuilder builder() { return null; }
    void cancel() {}
}
`
	u := parseUnit(t, code)
	cls, ok := u.ClassByName("Order")
	if !ok {
		t.Fatal("Order class not found")
	}

	if diff := cmp.Diff([]string{"builder", "cancel"}, cls.MethodNames()); diff != "" {
		t.Errorf("methods mismatch (-want +got):\n%s", diff)
	}
	if !cls.HasMethod("builder") {
		t.Error("expected HasMethod(builder) true")
	}
	if cls.HasMethod("create") {
		t.Error("expected HasMethod(create) false")
	}
}

func TestHasAnnotation(t *testing.T) {
	tests := []struct {
		name string
		code string
		fqn  string
		want bool
	}{
		{
			name: "fully qualified annotation",
			code: "@lombok.Builder\nclass Foo {}",
			fqn:  "lombok.Builder",
			want: true,
		},
		{
			name: "short name with single import",
			code: "import lombok.Builder;\n@Builder\nclass Foo {}",
			fqn:  "lombok.Builder",
			want: true,
		},
		{
			name: "short name with wildcard import",
			code: "import lombok.*;\n@Builder\nclass Foo {}",
			fqn:  "lombok.Builder",
			want: true,
		},
		{
			name: "short name without import",
			code: "@Builder\nclass Foo {}",
			fqn:  "lombok.Builder",
			want: false,
		},
		{
			name: "short name bound to another package",
			code: "import other.Builder;\n@Builder\nclass Foo {}",
			fqn:  "lombok.Builder",
			want: false,
		},
		{
			name: "unrelated annotation",
			code: "import lombok.Builder;\n@Deprecated\nclass Foo {}",
			fqn:  "lombok.Builder",
			want: false,
		},
		{
			name: "annotation with arguments",
			code: "@lombok.Builder(toBuilder = true)\nclass Foo {}",
			fqn:  "lombok.Builder",
			want: true,
		},
		{
			name: "no annotations",
			code: "class Foo {}",
			fqn:  "lombok.Builder",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := parseUnit(t, tt.code)
			cls, ok := u.ClassByName("Foo")
			if !ok {
				t.Fatal("Foo class not found")
			}
			if got := cls.HasAnnotation(tt.fqn); got != tt.want {
				t.Errorf("HasAnnotation(%q) = %v, want %v", tt.fqn, got, tt.want)
			}
		})
	}
}

func TestSimpleNameTaken(t *testing.T) {
	tests := []struct {
		name string
		code string
		fqn  string
		want bool
	}{
		{
			name: "conflicting import",
			code: "import other.Builder;\nclass Foo {}",
			fqn:  "lombok.Builder",
			want: true,
		},
		{
			name: "same import is not a conflict",
			code: "import lombok.Builder;\nclass Foo {}",
			fqn:  "lombok.Builder",
			want: false,
		},
		{
			name: "declared type shadows",
			code: "class Builder {}\nclass Foo {}",
			fqn:  "lombok.Builder",
			want: true,
		},
		{
			name: "no conflict",
			code: "class Foo {}",
			fqn:  "lombok.Builder",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := parseUnit(t, tt.code)
			if got := u.SimpleNameTaken(tt.fqn); got != tt.want {
				t.Errorf("SimpleNameTaken(%q) = %v, want %v", tt.fqn, got, tt.want)
			}
		})
	}
}

func TestImportAnchors(t *testing.T) {
	code := "package p;\n\nimport a.B;\nimport c.D;\n\nclass Foo {}\n"
	u := parseUnit(t, code)

	wantLast := strings.Index(code, "import c.D;") + len("import c.D;")
	if got := u.LastImportEnd(); got != wantLast {
		t.Errorf("expected LastImportEnd %d, got %d", wantLast, got)
	}
	wantPkg := len("package p;")
	if got := u.PackageEnd(); got != wantPkg {
		t.Errorf("expected PackageEnd %d, got %d", wantPkg, got)
	}

	bare := parseUnit(t, "class Foo {}\n")
	if got := bare.LastImportEnd(); got != -1 {
		t.Errorf("expected LastImportEnd -1 without imports, got %d", got)
	}
	if got := bare.PackageEnd(); got != -1 {
		t.Errorf("expected PackageEnd -1 without package, got %d", got)
	}
}

func TestIndent(t *testing.T) {
	code := "class Outer {\n    class Inner {\n    }\n}\n"
	u := parseUnit(t, code)

	inner, ok := u.ClassByName("Inner")
	if !ok {
		t.Fatal("Inner class not found")
	}
	if got := inner.Indent(); got != "    " {
		t.Errorf("expected 4-space indent, got %q", got)
	}

	outer, ok := u.ClassByName("Outer")
	if !ok {
		t.Fatal("Outer class not found")
	}
	if got := outer.Indent(); got != "" {
		t.Errorf("expected empty indent, got %q", got)
	}
}
