package service

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ludo-technologies/docaudit/domain"
	"github.com/ludo-technologies/docaudit/internal/parser"
)

// parseUnits extracts function units so fix tests work with real spans
func parseUnits(t *testing.T, source string) []domain.FunctionUnit {
	t.Helper()
	p := parser.NewParser()
	defer p.Close()

	units, err := p.ExtractFunctions("test.py", []byte(source))
	if err != nil {
		t.Fatalf("ExtractFunctions failed: %v", err)
	}
	return units
}

func errorCritique(name, suggestion string) *domain.Critique {
	return &domain.Critique{
		FunctionName:   name,
		Classification: domain.SeverityError,
		Findings:       []domain.Finding{{Severity: domain.SeverityError, Message: "docs mismatch"}},
		SuggestedDoc:   suggestion,
	}
}

func TestApplyReplacesExistingDocstring(t *testing.T) {
	source := `def add(a, b):
    """Subtract b from a."""
    return a + b
`
	units := parseUnits(t, source)

	fixed, applied, err := NewFixApplier().Apply(source, &units[0], errorCritique("add", "Add two numbers."))
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if !applied {
		t.Fatal("expected the fix to apply")
	}

	want := `def add(a, b):
    """
    Add two numbers.
    """
    return a + b
`
	if fixed != want {
		t.Errorf("fixed =\n%s\nwant\n%s", fixed, want)
	}
}

func TestApplyInsertsWhenDocstringAbsent(t *testing.T) {
	source := `def add(a, b):
    return a + b
`
	units := parseUnits(t, source)

	fixed, applied, err := NewFixApplier().Apply(source, &units[0], errorCritique("add", "Add two numbers."))
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if !applied {
		t.Fatal("expected the fix to apply")
	}

	want := `def add(a, b):
    """
    Add two numbers.
    """
    return a + b
`
	if fixed != want {
		t.Errorf("fixed =\n%s\nwant\n%s", fixed, want)
	}
}

func TestApplyIsIdentityWithoutErrorClassification(t *testing.T) {
	source := `def add(a, b):
    """Add two numbers."""
    return a + b
`
	units := parseUnits(t, source)
	applier := NewFixApplier()

	tests := []struct {
		name     string
		critique *domain.Critique
	}{
		{"nil critique", nil},
		{"ok classification", &domain.Critique{Classification: domain.SeverityOK}},
		{"warning classification", &domain.Critique{
			Classification: domain.SeverityWarning,
			Findings:       []domain.Finding{{Severity: domain.SeverityWarning, Message: "typo"}},
			SuggestedDoc:   "Add two numbers, carefully.",
		}},
		{"error without suggestion", &domain.Critique{
			Classification: domain.SeverityError,
			Findings:       []domain.Finding{{Severity: domain.SeverityError, Message: "mismatch"}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixed, applied, err := applier.Apply(source, &units[0], tt.critique)
			if err != nil {
				t.Fatalf("Apply failed: %v", err)
			}
			if applied {
				t.Error("no fix should apply")
			}
			if fixed != source {
				t.Error("source must come back byte-identical")
			}
		})
	}
}

func TestApplyHandlesSuggestionWithQuotes(t *testing.T) {
	source := `def add(a, b):
    """Wrong."""
    return a + b
`
	units := parseUnits(t, source)

	suggestion := "\"\"\"Add two numbers.\"\"\""
	fixed, applied, err := NewFixApplier().Apply(source, &units[0], errorCritique("add", suggestion))
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if !applied {
		t.Fatal("expected the fix to apply")
	}
	if strings.Count(fixed, `"""`) != 2 {
		t.Errorf("expected exactly one docstring block, got:\n%s", fixed)
	}
	if !strings.Contains(fixed, "Add two numbers.") {
		t.Errorf("fixed text missing suggestion content:\n%s", fixed)
	}
}

func TestApplyAllShiftsLaterSpans(t *testing.T) {
	source := `# module header
def first():
    """Bad one."""
    return 1

def second():
    """Bad two."""
    return 2

# trailing comment
`
	units := parseUnits(t, source)
	if len(units) != 2 {
		t.Fatalf("expected 2 units, got %d", len(units))
	}

	candidates := []FixCandidate{
		{Unit: &units[0], Critique: errorCritique("first", "Return one, a much longer description than before.")},
		{Unit: &units[1], Critique: errorCritique("second", "Return two.")},
	}

	fixed, results := NewFixApplier().ApplyAll(source, candidates)
	for i, res := range results {
		if res.Err != nil {
			t.Fatalf("candidate %d failed: %v", i, res.Err)
		}
		if !res.Applied {
			t.Fatalf("candidate %d did not apply", i)
		}
	}

	if !strings.Contains(fixed, "Return one, a much longer description than before.") {
		t.Error("first fix missing")
	}
	if !strings.Contains(fixed, "Return two.") {
		t.Error("second fix missing despite shifted spans")
	}
	if strings.Contains(fixed, "Bad one.") || strings.Contains(fixed, "Bad two.") {
		t.Error("old docstrings should be gone")
	}
	if !strings.HasPrefix(fixed, "# module header\n") {
		t.Error("bytes before the first span must be untouched")
	}
	if !strings.HasSuffix(fixed, "# trailing comment\n") {
		t.Error("bytes after the last span must be untouched")
	}
}

func TestApplyAllSkipsFailedCandidate(t *testing.T) {
	source := `def good():
    """Bad doc."""
    return 1
`
	units := parseUnits(t, source)

	stale := domain.FunctionUnit{
		Name: "ghost",
		Body: domain.Span{Start: len(source) + 100, End: len(source) + 120},
	}

	candidates := []FixCandidate{
		{Unit: &stale, Critique: errorCritique("ghost", "Does not matter.")},
		{Unit: &units[0], Critique: errorCritique("good", "Return one.")},
	}

	fixed, results := NewFixApplier().ApplyAll(source, candidates)
	if results[0].Err == nil || !domain.IsApplyFixError(results[0].Err) {
		t.Errorf("expected APPLY_FIX_ERROR for stale span, got %v", results[0].Err)
	}
	if !results[1].Applied {
		t.Error("valid candidate should still apply after a failed one")
	}
	if !strings.Contains(fixed, "Return one.") {
		t.Error("valid fix missing from output")
	}
}

func TestApplyRejectsSingleLineFunction(t *testing.T) {
	source := "def f(): return 1\n"
	units := parseUnits(t, source)

	fixed, applied, err := NewFixApplier().Apply(source, &units[0], errorCritique("f", "Return one."))
	if err == nil {
		t.Fatal("expected an error for a single-line function body")
	}
	if !domain.IsApplyFixError(err) {
		t.Errorf("expected APPLY_FIX_ERROR, got %v", err)
	}
	if applied || fixed != source {
		t.Error("source must come back unchanged")
	}
}

func TestApplyPreservesDeeperIndentation(t *testing.T) {
	source := `class C:
    def m(self):
        """Old."""
        return 1
`
	units := parseUnits(t, source)

	fixed, applied, err := NewFixApplier().Apply(source, &units[0], errorCritique("m", "New."))
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if !applied {
		t.Fatal("expected the fix to apply")
	}

	want := `class C:
    def m(self):
        """
        New.
        """
        return 1
`
	if fixed != want {
		t.Errorf("fixed =\n%s\nwant\n%s", fixed, want)
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "module.py")

	if err := os.WriteFile(path, []byte("original\n"), 0600); err != nil {
		t.Fatal(err)
	}

	if err := WriteFileAtomic(path, "rewritten\n", 0600); err != nil {
		t.Fatalf("WriteFileAtomic failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "rewritten\n" {
		t.Errorf("content = %q, want %q", string(data), "rewritten\n")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temp file left behind: %d entries in dir", len(entries))
	}
}
