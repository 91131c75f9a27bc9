// Package prompt builds the completion requests submitted for each function
// unit. Construction is deterministic: the same unit, style, and model always
// produce the same payload.
package prompt

import (
	"fmt"

	"github.com/ludo-technologies/docaudit/domain"
)

const systemInstruction = "You are a coding assistant. " +
	"You are detail orientated and precise. " +
	"You have extensive knowledge of all coding languages and packages. " +
	"You will review the documentation for Python functions that are provided to you. " +
	"The documentation you are helping to write is written for someone with very little coding experience. " +
	"Prefer verbose descriptions and ensure no assumptions are made in the documentation."

const queryTemplate = `Below is the code for a Python function, including its docstring. The docstring should follow the %s style.

Does the docstring describe the functionality provided by the code? Does it exclude any functionality in the description? Would an extended summary help the user understand the function better? Is there adequate description of types and defaults? Or does it document functionality that does not exist in the code?

Do not report findings about imports.

Respond with JSON only, no additional text, in exactly this format:
{
    "function": "the name of the function",
    "findings": [
        {"severity": "error", "message": "Functionality present in the code but missing from the docs, or documented functionality that does not exist in the code."},
        {"severity": "warning", "message": "A concern that is not an error: possible typos, grammar issues, or deviations from the %s convention."}
    ],
    "suggested_docstring": "If there were any findings, the corrected docstring text. Do not include code changes, only the improved docstring. Omit or leave empty when there are no findings."
}

Return an empty findings array when the docstring is accurate and well formed.

%s`

// Builder constructs completion requests for function units
type Builder struct {
	style string
}

// NewBuilder creates a Builder for the given docstring convention
// (e.g. "numpydoc", "google")
func NewBuilder(style string) *Builder {
	return &Builder{style: style}
}

// Style returns the configured docstring convention
func (b *Builder) Style() string {
	return b.style
}

// Build produces the request payload for one function unit
func (b *Builder) Build(unit *domain.FunctionUnit, model string) domain.CompletionRequest {
	return domain.CompletionRequest{
		System: systemInstruction,
		User:   fmt.Sprintf(queryTemplate, b.style, b.style, unit.Source),
		Model:  model,
	}
}
