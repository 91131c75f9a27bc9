package domain

import (
	"context"
	"io"
	"sync"
)

// OutputFormat represents the supported report formats
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
)

// Severity classifies a single finding or a whole critique
type Severity string

const (
	// SeverityOK means the docstring raised no concerns
	SeverityOK Severity = "ok"

	// SeverityWarning is a non-blocking concern (style, typos, convention)
	SeverityWarning Severity = "warning"

	// SeverityError is a blocking mismatch between docs and code
	SeverityError Severity = "error"
)

// rank orders severities for classification: error > warning > ok
func (s Severity) rank() int {
	switch s {
	case SeverityError:
		return 2
	case SeverityWarning:
		return 1
	default:
		return 0
	}
}

// MaxSeverity returns the more severe of a and b
func MaxSeverity(a, b Severity) Severity {
	if b.rank() > a.rank() {
		return b
	}
	return a
}

// IsValid reports whether s is a severity the critique schema accepts
func (s Severity) IsValid() bool {
	return s == SeverityOK || s == SeverityWarning || s == SeverityError
}

// Span is a half-open [Start, End) byte range into a source file
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of bytes the span covers
func (s Span) Len() int {
	return s.End - s.Start
}

// Contains reports whether other is fully inside s
func (s Span) Contains(other Span) bool {
	return s.Start <= other.Start && other.End <= s.End
}

// FunctionUnit is one discovered function definition: the atomic item of
// audit. Spans index into the original file text. Signature covers
// decorators and the def header up to the first body statement; Doc, when
// present, is the literal docstring expression sitting first inside Body.
type FunctionUnit struct {
	Name      string
	Signature Span
	Doc       *Span
	Body      Span
	Source    string
	File      string
	StartLine int
}

// HasDoc reports whether the function carries a docstring
func (u *FunctionUnit) HasDoc() bool {
	return u.Doc != nil
}

// Finding is one severity-tagged concern raised by the model
type Finding struct {
	Severity Severity `json:"severity" yaml:"severity"`
	Message  string   `json:"message" yaml:"message"`
}

// Critique is the structured result of auditing one function unit
type Critique struct {
	FunctionName   string    `json:"function" yaml:"function"`
	Classification Severity  `json:"classification" yaml:"classification"`
	Findings       []Finding `json:"findings,omitempty" yaml:"findings,omitempty"`
	SuggestedDoc   string    `json:"suggested_docstring,omitempty" yaml:"suggested_docstring,omitempty"`
}

// HasErrors reports whether any finding has error severity
func (c *Critique) HasErrors() bool {
	for _, f := range c.Findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// HasWarnings reports whether any finding has warning severity
func (c *Critique) HasWarnings() bool {
	for _, f := range c.Findings {
		if f.Severity == SeverityWarning {
			return true
		}
	}
	return false
}

// CompletionRequest is the payload submitted to the completion provider
type CompletionRequest struct {
	System string
	User   string
	Model  string
}

// CompletionClient is the port to the LLM provider. Implementations may fail
// with a TRANSPORT_ERROR or return text that is not well-formed per the
// critique schema; callers must not assume well-formedness.
type CompletionClient interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	Name() string
	Close() error
}

// AuditRequest carries the full configuration of one audit run
type AuditRequest struct {
	Paths           []string
	IgnoreDirs      []string
	ExcludePatterns []string
	Recursive       bool

	// FunctionName filters the audit to a single unit (empty = all)
	FunctionName string

	Model          string
	DocstringStyle string

	AutoFix         bool
	ErrorOnWarnings bool

	MaxWorkers int

	OutputFormat    OutputFormat
	OutputWriter    io.Writer
	ShowSuggestions bool
}

// FunctionCritique is one per-function entry of the rendered report
type FunctionCritique struct {
	File           string    `json:"file" yaml:"file"`
	Function       string    `json:"function" yaml:"function"`
	Line           int       `json:"line" yaml:"line"`
	Classification Severity  `json:"classification" yaml:"classification"`
	Findings       []Finding `json:"findings,omitempty" yaml:"findings,omitempty"`
	SuggestedDoc   string    `json:"suggested_docstring,omitempty" yaml:"suggested_docstring,omitempty"`

	// Unresolved marks units whose completion could not be decoded; they are
	// tallied apart from warnings and errors so "could not audit" never reads
	// as "audited and passed".
	Unresolved       bool   `json:"unresolved,omitempty" yaml:"unresolved,omitempty"`
	UnresolvedReason string `json:"unresolved_reason,omitempty" yaml:"unresolved_reason,omitempty"`

	Fixed bool `json:"fixed,omitempty" yaml:"fixed,omitempty"`
}

// FileAudit collects the critiques of one source file
type FileAudit struct {
	File      string             `json:"file" yaml:"file"`
	Critiques []FunctionCritique `json:"critiques" yaml:"critiques"`

	// ParseError holds the message of a file-scoped parse failure; the file
	// was skipped but the batch continued.
	ParseError string `json:"parse_error,omitempty" yaml:"parse_error,omitempty"`
}

// AuditSummary provides aggregate statistics for the run
type AuditSummary struct {
	FilesAudited       int `json:"files_audited" yaml:"files_audited"`
	FunctionsProcessed int `json:"functions_processed" yaml:"functions_processed"`
	Errors             int `json:"errors" yaml:"errors"`
	Warnings           int `json:"warnings" yaml:"warnings"`
	Unresolved         int `json:"unresolved" yaml:"unresolved"`
	FixesApplied       int `json:"fixes_applied" yaml:"fixes_applied"`
	ParseFailures      int `json:"parse_failures" yaml:"parse_failures"`
}

// AuditResponse is the complete result of one audit run
type AuditResponse struct {
	Files       []FileAudit  `json:"files" yaml:"files"`
	Summary     AuditSummary `json:"summary" yaml:"summary"`
	GeneratedAt string       `json:"generated_at" yaml:"generated_at"`
	DurationMs  int64        `json:"duration_ms" yaml:"duration_ms"`
}

// Process exit codes. Fatal is distinct from findings so CI can tell
// "your docs are wrong" apart from "the audit itself broke".
const (
	ExitOK       = 0
	ExitFindings = 1
	ExitFatal    = 2
)

// AuditSession accumulates run-wide counters. All mutation goes through the
// Count* methods so parallel file audits stay safe.
type AuditSession struct {
	mu      sync.Mutex
	summary AuditSummary
}

// NewAuditSession creates an empty session
func NewAuditSession() *AuditSession {
	return &AuditSession{}
}

// CountFile records one audited file
func (s *AuditSession) CountFile() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summary.FilesAudited++
}

// CountCritique records one processed unit and its findings
func (s *AuditSession) CountCritique(c *Critique) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summary.FunctionsProcessed++
	for _, f := range c.Findings {
		switch f.Severity {
		case SeverityError:
			s.summary.Errors++
		case SeverityWarning:
			s.summary.Warnings++
		}
	}
}

// CountUnresolved records a unit whose completion could not be decoded
func (s *AuditSession) CountUnresolved() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summary.FunctionsProcessed++
	s.summary.Unresolved++
}

// CountFix records one applied docstring fix
func (s *AuditSession) CountFix() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summary.FixesApplied++
}

// CountParseFailure records a file that could not be parsed
func (s *AuditSession) CountParseFailure() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summary.ParseFailures++
}

// Summary returns a snapshot of the accumulated counters
func (s *AuditSession) Summary() AuditSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary
}

// ExitCode derives the process exit status from the accumulated counters
func (s *AuditSession) ExitCode(errorOnWarnings bool) int {
	sum := s.Summary()
	if sum.ParseFailures > 0 || sum.Unresolved > 0 {
		return ExitFatal
	}
	if sum.Errors > 0 {
		return ExitFindings
	}
	if errorOnWarnings && sum.Warnings > 0 {
		return ExitFindings
	}
	return ExitOK
}

// ProgressManager abstracts progress reporting during an audit
type ProgressManager interface {
	StartTask(description string, total int) TaskProgress
	IsInteractive() bool
	Close()
}

// TaskProgress tracks the progress of a single task
type TaskProgress interface {
	Increment(n int)
	Describe(description string)
	Complete()
}
