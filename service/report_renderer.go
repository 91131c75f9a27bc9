package service

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/ludo-technologies/docaudit/domain"
)

// ReportRenderer formats critiques for human consumption. It only writes to
// the supplied writer; the caller owns ordering and the final summary call.
type ReportRenderer struct {
	out             io.Writer
	showSuggestions bool

	green  *color.Color
	red    *color.Color
	yellow *color.Color
	cyan   *color.Color
	bold   *color.Color
}

// NewReportRenderer creates a renderer writing to out
func NewReportRenderer(out io.Writer, showSuggestions bool) *ReportRenderer {
	return &ReportRenderer{
		out:             out,
		showSuggestions: showSuggestions,
		green:           color.New(color.FgGreen),
		red:             color.New(color.FgRed),
		yellow:          color.New(color.FgYellow),
		cyan:            color.New(color.FgCyan),
		bold:            color.New(color.Bold),
	}
}

// RenderFileAudit renders every critique of one file, in source order
func (r *ReportRenderer) RenderFileAudit(audit *domain.FileAudit) {
	if audit.ParseError != "" {
		r.red.Fprintf(r.out, "Skipped %s: %s\n\n", audit.File, audit.ParseError)
		return
	}
	for i := range audit.Critiques {
		r.RenderCritique(&audit.Critiques[i])
	}
}

// RenderCritique renders one per-function report section
func (r *ReportRenderer) RenderCritique(fc *domain.FunctionCritique) {
	r.bold.Fprintf(r.out, "%s (%s:%d)\n", fc.Function, fc.File, fc.Line)

	if fc.Unresolved {
		r.cyan.Fprintf(r.out, "  UNRESOLVED: %s\n\n", fc.UnresolvedReason)
		return
	}

	if len(fc.Findings) == 0 {
		r.green.Fprintf(r.out, "  No concerns found with the docstring\n\n")
		return
	}

	for _, f := range fc.Findings {
		switch f.Severity {
		case domain.SeverityError:
			r.red.Fprintf(r.out, "  ERROR: %s\n", f.Message)
		case domain.SeverityWarning:
			r.yellow.Fprintf(r.out, "  WARNING: %s\n", f.Message)
		}
	}

	if r.showSuggestions && fc.SuggestedDoc != "" {
		fmt.Fprintf(r.out, "  Suggested docstring:\n")
		for _, line := range strings.Split(fc.SuggestedDoc, "\n") {
			fmt.Fprintf(r.out, "    %s\n", line)
		}
	}
	if fc.Fixed {
		r.green.Fprintf(r.out, "  Fixed: docstring rewritten in place\n")
	}
	fmt.Fprintln(r.out)
}

// RenderSummary renders the final counts for the whole run
func (r *ReportRenderer) RenderSummary(s domain.AuditSummary) {
	r.bold.Fprintf(r.out, "Summary: ")
	fmt.Fprintf(r.out, "%d functions in %d files: ", s.FunctionsProcessed, s.FilesAudited)

	if s.Errors > 0 {
		r.red.Fprintf(r.out, "%d errors", s.Errors)
	} else {
		fmt.Fprintf(r.out, "0 errors")
	}
	fmt.Fprintf(r.out, ", ")
	if s.Warnings > 0 {
		r.yellow.Fprintf(r.out, "%d warnings", s.Warnings)
	} else {
		fmt.Fprintf(r.out, "0 warnings")
	}
	fmt.Fprintf(r.out, ", %d unresolved", s.Unresolved)
	if s.FixesApplied > 0 {
		fmt.Fprintf(r.out, ", %d fixed", s.FixesApplied)
	}
	if s.ParseFailures > 0 {
		r.red.Fprintf(r.out, ", %d files skipped (parse errors)", s.ParseFailures)
	}
	fmt.Fprintln(r.out)
}
