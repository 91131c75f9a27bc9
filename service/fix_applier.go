package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ludo-technologies/docaudit/domain"
)

// FixApplier splices suggested docstrings back into source text. Fixes are
// restricted to error-classified critiques with a non-empty suggestion;
// everything else is an identity operation. All bytes outside the replaced
// span are preserved exactly.
type FixApplier struct{}

// NewFixApplier creates a new fix applier
func NewFixApplier() *FixApplier {
	return &FixApplier{}
}

// FixCandidate pairs a unit with its critique for a single-pass application
type FixCandidate struct {
	Unit     *domain.FunctionUnit
	Critique *domain.Critique
}

// FixResult reports the outcome for one candidate
type FixResult struct {
	Applied bool
	Err     error
}

// Apply splices one suggested docstring into source. Returns the new text
// and whether an edit was made; source comes back unchanged when the
// critique is not error-classified or carries no suggestion.
func (a *FixApplier) Apply(source string, unit *domain.FunctionUnit, critique *domain.Critique) (string, bool, error) {
	span, text, ok, err := a.computeFix(source, unit, critique, 0)
	if err != nil || !ok {
		return source, false, err
	}
	return source[:span.Start] + text + source[span.End:], true, nil
}

// ApplyAll applies every eligible fix in one left-to-right pass, shifting
// later spans by the size delta of earlier edits. Candidates must be in
// source order. A failed candidate is skipped, not fatal.
func (a *FixApplier) ApplyAll(source string, candidates []FixCandidate) (string, []FixResult) {
	results := make([]FixResult, len(candidates))
	delta := 0

	for i, c := range candidates {
		span, text, ok, err := a.computeFix(source, c.Unit, c.Critique, delta)
		if err != nil {
			results[i] = FixResult{Err: err}
			continue
		}
		if !ok {
			continue
		}
		source = source[:span.Start] + text + source[span.End:]
		delta += len(text) - span.Len()
		results[i] = FixResult{Applied: true}
	}

	return source, results
}

// computeFix resolves the replacement span (shifted by delta) and its new
// text. ok is false when no fix applies.
func (a *FixApplier) computeFix(source string, unit *domain.FunctionUnit, critique *domain.Critique, delta int) (domain.Span, string, bool, error) {
	if critique == nil || critique.Classification != domain.SeverityError || critique.SuggestedDoc == "" {
		return domain.Span{}, "", false, nil
	}

	bodyStart := unit.Body.Start + delta
	if bodyStart < 0 || bodyStart > len(source) {
		return domain.Span{}, "", false, domain.NewApplyFixError(
			fmt.Sprintf("stale body span for %s", unit.Name), nil)
	}

	indent, onOwnLine := bodyIndent(source, bodyStart)
	if !onOwnLine {
		return domain.Span{}, "", false, domain.NewApplyFixError(
			fmt.Sprintf("cannot place docstring in single-line function %s", unit.Name), nil)
	}

	block := formatDocstring(critique.SuggestedDoc, indent)

	if unit.Doc != nil {
		span := domain.Span{Start: unit.Doc.Start + delta, End: unit.Doc.End + delta}
		if span.Start < 0 || span.End > len(source) || span.Start > span.End {
			return domain.Span{}, "", false, domain.NewApplyFixError(
				fmt.Sprintf("stale docstring span for %s", unit.Name), nil)
		}
		return span, block, true, nil
	}

	// No existing docstring: insert before the first body statement
	insertion := block + "\n" + indent
	return domain.Span{Start: bodyStart, End: bodyStart}, insertion, true, nil
}

// bodyIndent returns the indentation of the body's first statement and
// whether that statement starts its own line (false for one-liners like
// "def f(): return 1", which have nowhere to put a docstring block)
func bodyIndent(source string, bodyStart int) (string, bool) {
	lineStart := strings.LastIndexByte(source[:bodyStart], '\n') + 1
	prefix := source[lineStart:bodyStart]
	if strings.TrimSpace(prefix) != "" {
		return "", false
	}
	return prefix, true
}

// formatDocstring normalizes a suggestion into a triple-quoted block at the
// given indentation. The model sometimes returns the quotes (or the whole
// function) and sometimes bare text; only the docstring content is kept.
func formatDocstring(suggestion, indent string) string {
	text := extractDocText(suggestion)
	lines := dedent(strings.Split(text, "\n"))

	var b strings.Builder
	b.WriteString(`"""`)
	b.WriteString("\n")
	for _, line := range lines {
		if line == "" {
			b.WriteString("\n")
			continue
		}
		b.WriteString(indent)
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(indent)
	b.WriteString(`"""`)
	return b.String()
}

// extractDocText pulls the docstring content out of a suggestion that may
// include surrounding quotes or a full function definition
func extractDocText(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, `"""`); i >= 0 {
		rest := s[i+3:]
		if j := strings.Index(rest, `"""`); j >= 0 {
			rest = rest[:j]
		}
		return strings.Trim(rest, "\n")
	}
	return s
}

// dedent strips the common leading whitespace of all non-empty lines
func dedent(lines []string) []string {
	common := -1
	for _, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" {
			continue
		}
		lead := len(line) - len(trimmed)
		if common < 0 || lead < common {
			common = lead
		}
	}
	if common <= 0 {
		for i, line := range lines {
			lines[i] = strings.TrimRight(line, " \t")
		}
		return lines
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		if len(line) >= common {
			line = line[common:]
		} else {
			line = strings.TrimLeft(line, " \t")
		}
		out[i] = strings.TrimRight(line, " \t")
	}
	return out
}

// WriteFileAtomic replaces path's contents via a temp file and rename so an
// interrupted fix never leaves a half-written source file
func WriteFileAtomic(path, content string, mode os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".docaudit-*.tmp")
	if err != nil {
		return domain.NewFileSystemError("failed to create temp file", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return domain.NewFileSystemError("failed to write temp file", err)
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return domain.NewFileSystemError("failed to set file mode", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return domain.NewFileSystemError("failed to close temp file", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return domain.NewFileSystemError("failed to replace "+path, err)
	}
	return nil
}
