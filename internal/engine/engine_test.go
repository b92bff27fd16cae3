package engine

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/anthropics/jfix/internal/config"
	"github.com/anthropics/jfix/internal/index"
	"github.com/anthropics/jfix/internal/resolve"
)

func writeJava(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
	return path
}

func newEngine(t *testing.T, opts Options) *Engine {
	t.Helper()
	e, err := New(opts)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	t.Cleanup(e.Close)
	return e
}

const sameFileFixture = `class Account {
}

class Service {
    void run() {
        Object a = Account.builder();
        Object b = Account.builder();
    }
}
`

func TestCheckFile(t *testing.T) {
	root := t.TempDir()
	path := writeJava(t, root, "Account.java", sameFileFixture)

	e := newEngine(t, Options{})
	findings, err := e.CheckFile(path)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if len(findings) != 2 {
		t.Fatalf("expected 2 findings, got %d: %+v", len(findings), findings)
	}
	for _, f := range findings {
		if f.Class != "Account" {
			t.Errorf("class = %q, want Account", f.Class)
		}
		if f.Action != "AddLombokBuilder" {
			t.Errorf("action = %q", f.Action)
		}
	}
	if findings[0].Line != 6 || findings[1].Line != 7 {
		t.Errorf("finding lines = %d, %d", findings[0].Line, findings[1].Line)
	}
}

func TestCheckFileNoFindings(t *testing.T) {
	root := t.TempDir()
	path := writeJava(t, root, "Done.java", `@lombok.Builder
class Done {
}

class Service {
    void run() {
        Object d = Done.builder();
    }
}
`)

	e := newEngine(t, Options{})
	findings, err := e.CheckFile(path)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if len(findings) != 0 {
		t.Errorf("expected no findings, got %+v", findings)
	}
}

func TestCheckAt(t *testing.T) {
	root := t.TempDir()
	path := writeJava(t, root, "Account.java", sameFileFixture)

	e := newEngine(t, Options{})

	// Caret on the first builder call (line 6, "Account.builder()").
	col := strings.Index("        Object a = Account.builder();", "builder") + 1
	findings, err := e.CheckAt(path, 6, col)
	if err != nil {
		t.Fatalf("check at: %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}

	// Caret on the receiver is not a match.
	findings, err = e.CheckAt(path, 6, strings.Index("        Object a = Account.builder();", "Account")+1)
	if err != nil {
		t.Fatalf("check at receiver: %v", err)
	}
	if len(findings) != 0 {
		t.Errorf("expected no findings on receiver, got %+v", findings)
	}

	// A caret parked at end of file is a legal position with no findings.
	findings, err = e.CheckAt(path, 10, 1)
	if err != nil {
		t.Fatalf("check at end of file: %v", err)
	}
	if len(findings) != 0 {
		t.Errorf("expected no findings at end of file, got %+v", findings)
	}

	// Out-of-range positions are reported as errors, not findings.
	if _, err := e.CheckAt(path, 999, 1); err == nil {
		t.Error("expected error for out-of-range line")
	}
}

func TestFixAt(t *testing.T) {
	root := t.TempDir()
	path := writeJava(t, root, "Account.java", sameFileFixture)

	e := newEngine(t, Options{})
	col := strings.Index("        Object a = Account.builder();", "builder") + 1

	res, err := e.FixAt(path, 6, col, false)
	if err != nil {
		t.Fatalf("fix: %v", err)
	}
	if !res.Applied {
		t.Fatal("expected fix to apply")
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(content), "@Builder\nclass Account {") {
		t.Errorf("annotation missing:\n%s", content)
	}
	if !strings.Contains(string(content), "import lombok.Builder;") {
		t.Errorf("import missing:\n%s", content)
	}

	// Both call sites are satisfied by the one annotation.
	findings, err := e.CheckFile(path)
	if err != nil {
		t.Fatalf("recheck: %v", err)
	}
	if len(findings) != 0 {
		t.Errorf("expected no findings after fix, got %+v", findings)
	}
}

func TestFixAtShorteningDisabled(t *testing.T) {
	root := t.TempDir()
	path := writeJava(t, root, "Account.java", sameFileFixture)

	cfg := config.DefaultConfig()
	disabled := false
	cfg.Fix.ShortenReferences = &disabled

	e := newEngine(t, Options{Config: cfg})
	col := strings.Index("        Object a = Account.builder();", "builder") + 1

	res, err := e.FixAt(path, 6, col, false)
	if err != nil {
		t.Fatalf("fix: %v", err)
	}
	if !res.Applied {
		t.Fatal("expected fix to apply")
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(content), "@lombok.Builder\nclass Account {") {
		t.Errorf("expected fully qualified annotation:\n%s", content)
	}
	if strings.Contains(string(content), "import lombok.Builder;") {
		t.Errorf("unexpected import with shortening disabled:\n%s", content)
	}
}

func TestFixAtDryRun(t *testing.T) {
	root := t.TempDir()
	path := writeJava(t, root, "Account.java", sameFileFixture)

	e := newEngine(t, Options{})
	col := strings.Index("        Object a = Account.builder();", "builder") + 1

	res, err := e.FixAt(path, 6, col, true)
	if err != nil {
		t.Fatalf("fix: %v", err)
	}
	if res.Applied {
		t.Error("dry run must not report applied")
	}
	if !strings.Contains(res.Preview, "@Builder") {
		t.Errorf("preview missing annotation:\n%s", res.Preview)
	}

	content, _ := os.ReadFile(path)
	if string(content) != sameFileFixture {
		t.Error("dry run modified the file")
	}
}

func TestFixAtUnavailable(t *testing.T) {
	root := t.TempDir()
	path := writeJava(t, root, "Account.java", sameFileFixture)

	e := newEngine(t, Options{})

	// Caret on "class" keyword.
	res, err := e.FixAt(path, 1, 1, false)
	if err != nil {
		t.Fatalf("fix: %v", err)
	}
	if res.Applied {
		t.Error("expected no-op for unavailable position")
	}
	content, _ := os.ReadFile(path)
	if string(content) != sameFileFixture {
		t.Error("no-op fix modified the file")
	}
}

func TestFixFile(t *testing.T) {
	root := t.TempDir()
	path := writeJava(t, root, "Account.java", sameFileFixture)

	e := newEngine(t, Options{})
	results, err := e.FixFile(path, false)
	if err != nil {
		t.Fatalf("fix file: %v", err)
	}
	// The first apply satisfies both call sites.
	if len(results) != 1 || !results[0].Applied {
		t.Errorf("results = %+v", results)
	}
}

func crossFileEngine(t *testing.T, root string) *Engine {
	t.Helper()
	idx, err := index.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open index: %v", err)
	}
	t.Cleanup(func() { idx.Close() })
	if _, err := index.NewScanner(idx, nil).Scan(root); err != nil {
		t.Fatalf("scan: %v", err)
	}

	r, err := resolve.NewIndexResolver(idx)
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}
	t.Cleanup(r.Close)

	return newEngine(t, Options{Resolver: r})
}

func TestFixAcrossFiles(t *testing.T) {
	root := t.TempDir()
	classFile := writeJava(t, root, "com/acme/Account.java", `package com.acme;

public class Account {
}
`)
	callerFile := writeJava(t, root, "com/acme/app/Service.java", `package com.acme.app;

import com.acme.Account;

class Service {
    void run() {
        Object a = Account.builder();
    }
}
`)

	e := crossFileEngine(t, root)

	findings, err := e.CheckFile(callerFile)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %+v", findings)
	}
	if findings[0].Class != "com.acme.Account" {
		t.Errorf("class = %q", findings[0].Class)
	}
	if findings[0].ClassFile != classFile {
		t.Errorf("class file = %q, want %q", findings[0].ClassFile, classFile)
	}

	res, err := e.FixAt(callerFile, findings[0].Line, findings[0].Col, false)
	if err != nil {
		t.Fatalf("fix: %v", err)
	}
	if !res.Applied {
		t.Fatal("expected fix to apply")
	}

	// The annotation lands in the class's file, not the caller's.
	classContent, _ := os.ReadFile(classFile)
	if !strings.Contains(string(classContent), "@Builder\npublic class Account {") {
		t.Errorf("class file not annotated:\n%s", classContent)
	}
	callerContent, _ := os.ReadFile(callerFile)
	if strings.Contains(string(callerContent), "@Builder") {
		t.Error("caller file was modified")
	}

	// The resolver sees the updated class on the next check.
	findings, err = e.CheckFile(callerFile)
	if err != nil {
		t.Fatalf("recheck: %v", err)
	}
	if len(findings) != 0 {
		t.Errorf("expected no findings after cross-file fix, got %+v", findings)
	}
}

func TestCheckDirAndFixAll(t *testing.T) {
	root := t.TempDir()
	writeJava(t, root, "src/One.java", `class One {}
class UseOne {
    void run() {
        Object o = One.builder();
    }
}
`)
	writeJava(t, root, "src/Two.java", `class Two {}
class UseTwo {
    void run() {
        Object o = Two.builder();
    }
}
`)
	// Default excludes cover build output.
	writeJava(t, root, "build/Gen.java", `class Gen {}
class UseGen {
    void run() {
        Object o = Gen.builder();
    }
}
`)

	e := newEngine(t, Options{})

	findings, err := e.CheckDir(root)
	if err != nil {
		t.Fatalf("check dir: %v", err)
	}
	if len(findings) != 2 {
		t.Fatalf("expected 2 findings, got %+v", findings)
	}

	results, err := e.FixAll(root, false)
	if err != nil {
		t.Fatalf("fix all: %v", err)
	}
	applied := 0
	for _, r := range results {
		if r.Applied {
			applied++
		}
	}
	if applied != 2 {
		t.Errorf("applied = %d, want 2", applied)
	}

	findings, err = e.CheckDir(root)
	if err != nil {
		t.Fatalf("recheck dir: %v", err)
	}
	if len(findings) != 0 {
		t.Errorf("expected clean workspace, got %+v", findings)
	}

	// Excluded tree stays untouched.
	gen, _ := os.ReadFile(filepath.Join(root, "build", "Gen.java"))
	if strings.Contains(string(gen), "@") {
		t.Error("excluded file was modified")
	}
}
