package parser

import (
	"strings"
	"testing"

	"github.com/ludo-technologies/docaudit/domain"
)

func extract(t *testing.T, source string) []domain.FunctionUnit {
	t.Helper()
	p := NewParser()
	defer p.Close()

	units, err := p.ExtractFunctions("test.py", []byte(source))
	if err != nil {
		t.Fatalf("ExtractFunctions failed: %v", err)
	}
	return units
}

func TestExtractSimpleFunction(t *testing.T) {
	source := `def add(a, b):
    """Add two numbers."""
    return a + b
`
	units := extract(t, source)
	if len(units) != 1 {
		t.Fatalf("expected 1 unit, got %d", len(units))
	}

	u := units[0]
	if u.Name != "add" {
		t.Errorf("Name = %q, want %q", u.Name, "add")
	}
	if u.StartLine != 1 {
		t.Errorf("StartLine = %d, want 1", u.StartLine)
	}
	if !u.HasDoc() {
		t.Fatal("expected a docstring span")
	}
	doc := source[u.Doc.Start:u.Doc.End]
	if doc != `"""Add two numbers."""` {
		t.Errorf("doc span = %q", doc)
	}
}

func TestExtractMultipleFunctionsInOrder(t *testing.T) {
	source := `def first():
    pass

def second():
    pass

def third():
    pass
`
	units := extract(t, source)
	if len(units) != 3 {
		t.Fatalf("expected 3 units, got %d", len(units))
	}
	for i, want := range []string{"first", "second", "third"} {
		if units[i].Name != want {
			t.Errorf("units[%d].Name = %q, want %q", i, units[i].Name, want)
		}
	}
}

func TestSpanReconstruction(t *testing.T) {
	source := `x = 1

def compute(n):
    """Square n."""
    return n * n

y = 2
`
	units := extract(t, source)
	if len(units) != 1 {
		t.Fatalf("expected 1 unit, got %d", len(units))
	}

	u := units[0]
	reassembled := source[u.Signature.Start:u.Signature.End] + source[u.Body.Start:u.Body.End]
	if reassembled != u.Source {
		t.Errorf("signature+body = %q, Source = %q", reassembled, u.Source)
	}
	if !strings.HasPrefix(u.Source, "def compute") {
		t.Errorf("Source should start at the def keyword, got %q", u.Source)
	}
	if u.Doc == nil {
		t.Fatal("expected docstring span")
	}
	if !u.Body.Contains(*u.Doc) {
		t.Error("docstring span should sit inside the body span")
	}
}

func TestExtractDecoratedFunction(t *testing.T) {
	source := `@staticmethod
@functools.cache
def lookup(key):
    return TABLE[key]
`
	units := extract(t, source)
	if len(units) != 1 {
		t.Fatalf("expected 1 unit, got %d", len(units))
	}

	u := units[0]
	if u.Name != "lookup" {
		t.Errorf("Name = %q, want %q", u.Name, "lookup")
	}
	if u.StartLine != 1 {
		t.Errorf("StartLine = %d, want 1 (decorator line)", u.StartLine)
	}
	if !strings.HasPrefix(u.Source, "@staticmethod") {
		t.Errorf("Source should include decorators, got %q", u.Source)
	}
}

func TestExtractAsyncFunction(t *testing.T) {
	source := `async def fetch(url):
    """Fetch a URL."""
    return await session.get(url)
`
	units := extract(t, source)
	if len(units) != 1 {
		t.Fatalf("expected 1 unit, got %d", len(units))
	}
	if units[0].Name != "fetch" {
		t.Errorf("Name = %q, want %q", units[0].Name, "fetch")
	}
	if !units[0].HasDoc() {
		t.Error("expected docstring span")
	}
}

func TestExtractMethods(t *testing.T) {
	source := `class Point:
    """A 2D point."""

    def __init__(self, x, y):
        self.x = x
        self.y = y

    def norm(self):
        """Euclidean norm."""
        return (self.x ** 2 + self.y ** 2) ** 0.5
`
	units := extract(t, source)
	if len(units) != 2 {
		t.Fatalf("expected 2 units (methods only, no class unit), got %d", len(units))
	}
	if units[0].Name != "__init__" || units[1].Name != "norm" {
		t.Errorf("got %q and %q, want __init__ and norm", units[0].Name, units[1].Name)
	}
	if units[0].HasDoc() {
		t.Error("__init__ has no docstring")
	}
	if !units[1].HasDoc() {
		t.Error("norm should have a docstring")
	}
}

func TestNestedFunctionEmittedAfterEnclosing(t *testing.T) {
	source := `def outer():
    """Outer doc."""
    def inner():
        return 1
    return inner
`
	units := extract(t, source)
	if len(units) != 2 {
		t.Fatalf("expected 2 units, got %d", len(units))
	}
	if units[0].Name != "outer" || units[1].Name != "inner" {
		t.Errorf("got %q then %q, want outer then inner", units[0].Name, units[1].Name)
	}
	// The enclosing unit's source still contains the nested definition
	if !strings.Contains(units[0].Source, "def inner():") {
		t.Error("outer's source should contain the nested definition verbatim")
	}
	if strings.Contains(units[1].Source, "def outer") {
		t.Error("inner's source should not contain the enclosing definition")
	}
}

func TestNoDocstringWhenAbsent(t *testing.T) {
	source := `def bare():
    return 42
`
	units := extract(t, source)
	if len(units) != 1 {
		t.Fatalf("expected 1 unit, got %d", len(units))
	}
	if units[0].HasDoc() {
		t.Error("expected no docstring span")
	}
}

func TestNonLiteralFirstStatementIsNotDoc(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"call expression", "def f():\n    print(\"hello\")\n    return 1\n"},
		{"assignment", "def f():\n    x = \"not a doc\"\n    return x\n"},
		{"f-string", "def f():\n    f\"\"\"computed {x}\"\"\"\n    return 1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			units := extract(t, tt.source)
			if len(units) != 1 {
				t.Fatalf("expected 1 unit, got %d", len(units))
			}
			if units[0].HasDoc() {
				t.Error("first statement should not qualify as a docstring")
			}
		})
	}
}

func TestInvalidSyntaxFailsWithParseError(t *testing.T) {
	p := NewParser()
	defer p.Close()

	_, err := p.ExtractFunctions("broken.py", []byte("def broken(:\n    return\n"))
	if err == nil {
		t.Fatal("expected an error for invalid Python")
	}
	if !domain.IsParseError(err) {
		t.Errorf("expected PARSE_ERROR, got %v", err)
	}
	if !strings.Contains(err.Error(), "broken.py") {
		t.Errorf("error should name the file, got %v", err)
	}
}

func TestEmptyFileYieldsNoUnits(t *testing.T) {
	units := extract(t, "")
	if len(units) != 0 {
		t.Errorf("expected 0 units for empty file, got %d", len(units))
	}
}

func TestFilterByName(t *testing.T) {
	units := []domain.FunctionUnit{
		{Name: "alpha"},
		{Name: "beta"},
		{Name: "alpha"},
	}

	filtered := FilterByName(units, "alpha")
	if len(filtered) != 2 {
		t.Errorf("expected 2 matches, got %d", len(filtered))
	}

	if got := FilterByName(units, "missing"); len(got) != 0 {
		t.Errorf("expected 0 matches for unknown name, got %d", len(got))
	}

	if got := FilterByName(units, ""); len(got) != 3 {
		t.Errorf("empty name should keep all units, got %d", len(got))
	}
}
