package service

import (
	"encoding/json"
	"strings"

	"github.com/ludo-technologies/docaudit/domain"
)

// CritiqueParser decodes raw completion text into a structured Critique.
// Models are instructed to return bare JSON but routinely wrap it in markdown
// fences or preamble text, so decoding is defensive; anything that still does
// not decode surfaces as a recoverable MALFORMED_RESPONSE.
type CritiqueParser struct{}

// NewCritiqueParser creates a new critique parser
func NewCritiqueParser() *CritiqueParser {
	return &CritiqueParser{}
}

// critiqueEnvelope mirrors the JSON schema requested in the prompt
type critiqueEnvelope struct {
	Function           string           `json:"function"`
	Findings           []domain.Finding `json:"findings"`
	SuggestedDocstring string           `json:"suggested_docstring"`
}

// Parse decodes raw completion text into a Critique.
//
// Classification is the maximum severity across findings. A suggested
// docstring without any finding violates the schema's invariant and is
// dropped rather than trusted.
func (p *CritiqueParser) Parse(raw string) (*domain.Critique, error) {
	payload := extractJSON(raw)
	if payload == "" {
		return nil, domain.NewMalformedResponseError("completion contains no JSON object", nil)
	}

	var env critiqueEnvelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		return nil, domain.NewMalformedResponseError("completion is not valid critique JSON", err)
	}

	classification := domain.SeverityOK
	for _, f := range env.Findings {
		if f.Severity != domain.SeverityError && f.Severity != domain.SeverityWarning {
			return nil, domain.NewMalformedResponseError(
				"finding has unknown severity: "+string(f.Severity), nil)
		}
		if f.Message == "" {
			return nil, domain.NewMalformedResponseError("finding has empty message", nil)
		}
		classification = domain.MaxSeverity(classification, f.Severity)
	}

	critique := &domain.Critique{
		FunctionName:   env.Function,
		Classification: classification,
		Findings:       env.Findings,
	}
	if len(env.Findings) > 0 {
		critique.SuggestedDoc = strings.TrimSpace(env.SuggestedDocstring)
	}
	return critique, nil
}

// extractJSON strips markdown fences and surrounding prose, returning the
// outermost {...} slice of raw, or "" when none exists
func extractJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx >= 0 {
			s = s[idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}
