package intention

import (
	"strings"
	"testing"

	"github.com/anthropics/jfix/internal/edit"
	"github.com/anthropics/jfix/internal/java"
	"github.com/anthropics/jfix/internal/parser"
	"github.com/anthropics/jfix/internal/resolve"
)

// caretAt parses code and places a caret on the first occurrence of
// marker, resolving against the unit itself.
func caretAt(t *testing.T, code, marker string) *Caret {
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

	offset := strings.Index(code, marker)
	if offset < 0 {
		t.Fatalf("marker %q not found in fixture", marker)
	}
	return At(java.NewUnit(result), offset, resolve.UnitResolver{})
}

func TestAddBuilderIsAvailable(t *testing.T) {
	tests := []struct {
		name   string
		code   string
		marker string
		want   bool
	}{
		{
			name: "plain class without builder",
			code: `class Foo {
}

class Use {
    void run() {
        Object b = Foo.builder();
    }
}
`,
			marker: "builder",
			want:   true,
		},
		{
			name: "caret on qualifier identifier",
			code: `class Foo {}
class Use {
    void run() {
        Object b = Foo.builder();
    }
}
`,
			marker: "Foo.builder",
			want:   false,
		},
		{
			name: "caret not on an identifier",
			code: `class Foo {}
class Use {
    void run() {
        Object b = Foo.builder();
    }
}
`,
			marker: "();",
			want:   false,
		},
		{
			name: "class already declares builder method",
			code: `class Foo {
    static Object builder(int seed) { return null; }
}
class Use {
    void run() {
        Object b = Foo.builder();
    }
}
`,
			marker: "Foo.b",
			want:   false,
		},
		{
			name: "class already annotated with FQN",
			code: `@lombok.Builder
class Foo {}
class Use {
    void run() {
        Object b = Foo.builder();
    }
}
`,
			marker: "builder();",
			want:   false,
		},
		{
			name: "class already annotated with imported short name",
			code: `import lombok.Builder;

@Builder
class Foo {}
class Use {
    void run() {
        Object b = Foo.builder();
    }
}
`,
			marker: "builder();",
			want:   false,
		},
		{
			name: "bare field access without call",
			code: `class Foo {}
class Use {
    Object b = Foo.builder;
}
`,
			marker: "builder",
			want:   false,
		},
		{
			name: "call with arguments",
			code: `class Foo {}
class Use {
    void run() {
        Object b = Foo.builder(42);
    }
}
`,
			marker: "builder",
			want:   false,
		},
		{
			name: "qualifier is an interface",
			code: `interface Foo {}
class Use {
    void run() {
        Object b = Foo.builder();
    }
}
`,
			marker: "builder",
			want:   false,
		},
		{
			name: "qualifier is an enum",
			code: `enum Foo { A }
class Use {
    void run() {
        Object b = Foo.builder();
    }
}
`,
			marker: "builder",
			want:   false,
		},
		{
			name: "unresolvable qualifier",
			code: `class Use {
    void run() {
        Object b = Elsewhere.builder();
    }
}
`,
			marker: "builder",
			want:   false,
		},
		{
			name: "unqualified call",
			code: `class Use {
    void run() {
        Object b = builder();
    }
}
`,
			marker: "builder",
			want:   false,
		},
		{
			name: "identifier with different text",
			code: `class Foo {}
class Use {
    void run() {
        Object b = Foo.create();
    }
}
`,
			marker: "create",
			want:   false,
		},
		{
			name: "declaration of a builder method is not a call site",
			code: `class Use {
    Object builder() { return null; }
}
`,
			marker: "builder",
			want:   false,
		},
	}

	action := NewAddBuilder()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := caretAt(t, tt.code, tt.marker)
			if got := action.IsAvailable(c); got != tt.want {
				t.Errorf("IsAvailable = %v, want %v (caret on %q)", got, tt.want, c.Text())
			}
		})
	}
}

func TestAddBuilderIsAvailableNilCaret(t *testing.T) {
	action := NewAddBuilder()
	if action.IsAvailable(nil) {
		t.Error("expected false for nil caret")
	}
}

func TestAddBuilderInvoke(t *testing.T) {
	code := `class Foo {
}

class Use {
    void run() {
        Object b = Foo.builder();
    }
}
`
	want := `import lombok.Builder;

@Builder
class Foo {
}

class Use {
    void run() {
        Object b = Foo.builder();
    }
}
`
	c := caretAt(t, code, "builder")
	action := NewAddBuilder()
	if !action.IsAvailable(c) {
		t.Fatal("expected action to be available")
	}

	tx := edit.BeginFromSource([]byte(code))
	if err := action.Invoke(tx, c); err != nil {
		t.Fatalf("invoke: %v", err)
	}
	got, err := tx.Preview()
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if string(got) != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, got)
	}
}

func TestAddBuilderInvokeWithoutShortening(t *testing.T) {
	code := `class Foo {
}

class Use {
    void run() {
        Object b = Foo.builder();
    }
}
`
	want := `@lombok.Builder
class Foo {
}

class Use {
    void run() {
        Object b = Foo.builder();
    }
}
`
	c := caretAt(t, code, "builder")
	action := NewAddBuilder()
	action.ShortenReferences = false

	tx := edit.BeginFromSource([]byte(code))
	if err := action.Invoke(tx, c); err != nil {
		t.Fatalf("invoke: %v", err)
	}
	got, err := tx.Preview()
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if string(got) != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, got)
	}
}

func TestAddBuilderIdempotent(t *testing.T) {
	code := `class Foo {
}

class Use {
    void run() {
        Object b = Foo.builder();
    }
}
`
	c := caretAt(t, code, "builder")
	action := NewAddBuilder()
	if !action.IsAvailable(c) {
		t.Fatal("expected action to be available before the fix")
	}

	tx := edit.BeginFromSource([]byte(code))
	if err := action.Invoke(tx, c); err != nil {
		t.Fatalf("invoke: %v", err)
	}
	fixed, err := tx.Preview()
	if err != nil {
		t.Fatalf("preview: %v", err)
	}

	// Re-checking the same logical site on the mutated source must
	// come back unavailable: the class now carries the annotation.
	after := caretAt(t, string(fixed), "Foo.builder()")
	after.Leaf = after.Unit.Result.LeafAt(strings.Index(string(fixed), "builder();"))
	if action.IsAvailable(after) {
		t.Error("expected action to be unavailable after the fix")
	}
}

func TestAddBuilderInvokeStaleCaret(t *testing.T) {
	// The caret shape no longer matches; Invoke must stage nothing.
	code := `class Use {
    Object b = Foo.builder;
}
`
	c := caretAt(t, code, "builder")
	action := NewAddBuilder()

	tx := edit.BeginFromSource([]byte(code))
	if err := action.Invoke(tx, c); err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if tx.Pending() != 0 {
		t.Errorf("expected no staged edits, got %d", tx.Pending())
	}
}

func TestAddBuilderInvokeKeepsIndent(t *testing.T) {
	code := `class Outer {
    class Inner {
    }

    void run() {
        Object b = Inner.builder();
    }
}
`
	c := caretAt(t, code, "builder")
	action := NewAddBuilder()
	action.ShortenReferences = false
	if !action.IsAvailable(c) {
		t.Fatal("expected action to be available")
	}

	tx := edit.BeginFromSource([]byte(code))
	if err := action.Invoke(tx, c); err != nil {
		t.Fatalf("invoke: %v", err)
	}
	got, err := tx.Preview()
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if !strings.Contains(string(got), "    @lombok.Builder\n    class Inner {") {
		t.Errorf("annotation not aligned with nested class:\n%s", got)
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	action := NewAddBuilder()
	r.Register(action)

	if len(r.All()) != 1 {
		t.Fatalf("expected 1 registered action, got %d", len(r.All()))
	}

	got, ok := r.ByFamily("AddLombokBuilder")
	if !ok {
		t.Fatal("expected to find action by family name")
	}
	if got.Text() != "Add lombok builder" {
		t.Errorf("unexpected action text %q", got.Text())
	}
	if !got.StartInWriteAction() {
		t.Error("expected StartInWriteAction true")
	}

	if _, ok := r.ByFamily("Nope"); ok {
		t.Error("expected lookup miss for unknown family")
	}

	code := `class Foo {}
class Use {
    void run() {
        Object b = Foo.builder();
    }
}
`
	c := caretAt(t, code, "builder")
	if avail := r.AvailableAt(c); len(avail) != 1 {
		t.Errorf("expected 1 available action, got %d", len(avail))
	}
}
