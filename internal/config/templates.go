package config

import "fmt"

// Strictness selects how aggressively findings affect the exit status
type Strictness string

const (
	StrictnessRelaxed  Strictness = "relaxed"
	StrictnessStandard Strictness = "standard"
	StrictnessStrict   Strictness = "strict"
)

// DocstringStyles lists the conventions the audit prompt understands
var DocstringStyles = []string{"numpydoc", "google", "sphinx"}

// GetMinimalConfigTemplate returns a config file with essential options only
func GetMinimalConfigTemplate() string {
	return fmt.Sprintf(`# docaudit configuration
audit:
  docstring_style: %s
  ignore_dirs:
    - tests

llm:
  model: %s
`, DefaultDocstringStyle, DefaultModel)
}

// GetFullConfigTemplate returns a documented config file for the chosen
// docstring convention and strictness level
func GetFullConfigTemplate(style string, strictness Strictness) string {
	if style == "" {
		style = DefaultDocstringStyle
	}
	errorOnWarnings := strictness == StrictnessStrict
	maxRetries := 3
	if strictness == StrictnessRelaxed {
		maxRetries = 5
	}

	return fmt.Sprintf(`# docaudit configuration
# Audits Python docstrings against their code using an LLM.

audit:
  # Documentation convention docstrings are checked against:
  # numpydoc, google, sphinx
  docstring_style: %s

  # Directory names skipped while collecting .py files
  ignore_dirs:
    - tests

  # Rewrite error-classified docstrings in place with the model's suggestion
  auto_fix: false

  # Fail the run (exit 1) on warnings, not just errors
  error_on_warnings: %t

llm:
  # Completion model identifier, passed through to the provider
  model: %s

  # Bounded retry on transient provider failures (429/5xx, network)
  max_retries: %d

  # Upper bound for each individual provider call, in seconds
  timeout_seconds: 120

analysis:
  # Gitignore-style patterns for files to skip
  exclude_patterns: []

  # Traverse directories recursively
  recursive: true

  # Files audited concurrently; report order stays source order
  max_workers: 1

output:
  # Report format: text, json, yaml
  format: text

  # Include suggested docstrings in the report
  show_suggestions: true
`, style, errorOnWarnings, DefaultModel, maxRetries)
}
