package service

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/docaudit/domain"
	"github.com/ludo-technologies/docaudit/internal/version"
)

// OutputFormatter serializes an audit response in the configured format
type OutputFormatter struct{}

// NewOutputFormatter creates a new output formatter
func NewOutputFormatter() *OutputFormatter {
	return &OutputFormatter{}
}

// AuditResponseDoc wraps AuditResponse with report metadata
type AuditResponseDoc struct {
	Version     string              `json:"version" yaml:"version"`
	GeneratedAt string              `json:"generated_at" yaml:"generated_at"`
	DurationMs  int64               `json:"duration_ms" yaml:"duration_ms"`
	Files       []domain.FileAudit  `json:"files" yaml:"files"`
	Summary     domain.AuditSummary `json:"summary" yaml:"summary"`
}

// Write serializes the response to writer in the requested format. Text
// output goes through the ReportRenderer; json and yaml emit the full
// structured report.
func (f *OutputFormatter) Write(response *domain.AuditResponse, format domain.OutputFormat, showSuggestions bool, writer io.Writer) error {
	switch format {
	case domain.OutputFormatJSON:
		return f.writeJSON(response, writer)
	case domain.OutputFormatYAML:
		return f.writeYAML(response, writer)
	case domain.OutputFormatText:
		return f.writeText(response, showSuggestions, writer)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func (f *OutputFormatter) doc(response *domain.AuditResponse) AuditResponseDoc {
	return AuditResponseDoc{
		Version:     version.Version,
		GeneratedAt: response.GeneratedAt,
		DurationMs:  response.DurationMs,
		Files:       response.Files,
		Summary:     response.Summary,
	}
}

func (f *OutputFormatter) writeJSON(response *domain.AuditResponse, writer io.Writer) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(f.doc(response))
}

func (f *OutputFormatter) writeYAML(response *domain.AuditResponse, writer io.Writer) error {
	encoder := yaml.NewEncoder(writer)
	defer encoder.Close()
	return encoder.Encode(f.doc(response))
}

func (f *OutputFormatter) writeText(response *domain.AuditResponse, showSuggestions bool, writer io.Writer) error {
	renderer := NewReportRenderer(writer, showSuggestions)
	for i := range response.Files {
		renderer.RenderFileAudit(&response.Files[i])
	}
	renderer.RenderSummary(response.Summary)
	return nil
}
