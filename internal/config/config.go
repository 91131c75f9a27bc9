package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Default audit settings
const (
	// DefaultDocstringStyle is the documentation convention critiques are
	// checked against
	DefaultDocstringStyle = "numpydoc"

	// DefaultModel is the completion model identifier passed opaquely to the
	// provider
	DefaultModel = "gemini-2.5-flash"

	// DefaultMaxWorkers processes files sequentially; raise to audit files
	// concurrently
	DefaultMaxWorkers = 1
)

// DefaultIgnoreDirs are directory names pruned during file collection
var DefaultIgnoreDirs = []string{"tests"}

// Config represents the main configuration structure
type Config struct {
	// Audit holds docstring audit configuration
	Audit AuditConfig `json:"audit" mapstructure:"audit" yaml:"audit"`

	// LLM holds completion-provider configuration
	LLM LLMConfig `json:"llm" mapstructure:"llm" yaml:"llm"`

	// Analysis holds file collection configuration
	Analysis AnalysisConfig `json:"analysis" mapstructure:"analysis" yaml:"analysis"`

	// Output holds report formatting configuration
	Output OutputConfig `json:"output" mapstructure:"output" yaml:"output"`
}

// AuditConfig holds docstring audit configuration
type AuditConfig struct {
	// IgnoreDirs are directory names skipped while collecting .py files
	IgnoreDirs []string `json:"ignoreDirs" mapstructure:"ignore_dirs" yaml:"ignore_dirs"`

	// DocstringStyle is the convention docstrings are audited against
	// (numpydoc, google, sphinx)
	DocstringStyle string `json:"docstringStyle" mapstructure:"docstring_style" yaml:"docstring_style"`

	// AutoFix rewrites error-classified docstrings in place
	AutoFix bool `json:"autoFix" mapstructure:"auto_fix" yaml:"auto_fix"`

	// ErrorOnWarnings makes warnings affect the exit status
	ErrorOnWarnings bool `json:"errorOnWarnings" mapstructure:"error_on_warnings" yaml:"error_on_warnings"`
}

// LLMConfig holds completion-provider configuration
type LLMConfig struct {
	// Model is the completion model identifier
	Model string `json:"model" mapstructure:"model" yaml:"model"`

	// MaxRetries bounds retry attempts on transient transport failures
	MaxRetries int `json:"maxRetries" mapstructure:"max_retries" yaml:"max_retries"`

	// TimeoutSeconds bounds each individual provider call
	TimeoutSeconds int `json:"timeoutSeconds" mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// AnalysisConfig holds file collection configuration
type AnalysisConfig struct {
	// ExcludePatterns are gitignore-style patterns for files to skip
	ExcludePatterns []string `json:"excludePatterns" mapstructure:"exclude_patterns" yaml:"exclude_patterns"`

	// Recursive controls directory traversal
	Recursive bool `json:"recursive" mapstructure:"recursive" yaml:"recursive"`

	// MaxWorkers is the number of files audited concurrently
	MaxWorkers int `json:"maxWorkers" mapstructure:"max_workers" yaml:"max_workers"`
}

// OutputConfig holds report formatting configuration
type OutputConfig struct {
	// Format specifies the report format: text, json, yaml
	Format string `json:"format" mapstructure:"format" yaml:"format"`

	// ShowSuggestions includes suggested docstrings in the report
	ShowSuggestions bool `json:"showSuggestions" mapstructure:"show_suggestions" yaml:"show_suggestions"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Audit: AuditConfig{
			IgnoreDirs:      append([]string(nil), DefaultIgnoreDirs...),
			DocstringStyle:  DefaultDocstringStyle,
			AutoFix:         false,
			ErrorOnWarnings: false,
		},
		LLM: LLMConfig{
			Model:          DefaultModel,
			MaxRetries:     3,
			TimeoutSeconds: 120,
		},
		Analysis: AnalysisConfig{
			ExcludePatterns: []string{},
			Recursive:       true,
			MaxWorkers:      DefaultMaxWorkers,
		},
		Output: OutputConfig{
			Format:          "text",
			ShowSuggestions: true,
		},
	}
}

// Validate checks the configuration for inconsistent values
func (c *Config) Validate() error {
	switch c.Output.Format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("unsupported output format: %s", c.Output.Format)
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("llm.model must not be empty")
	}
	if c.LLM.MaxRetries < 1 {
		return fmt.Errorf("llm.max_retries must be at least 1")
	}
	if c.Analysis.MaxWorkers < 1 {
		return fmt.Errorf("analysis.max_workers must be at least 1")
	}
	return nil
}

// configFileNames lists recognized config files in order of preference
var configFileNames = []string{
	".docaudit.yaml",
	".docaudit.yml",
	"docaudit.yaml",
	"docaudit.yml",
}

// LoadConfig loads configuration from the given path, or from a discovered
// config file when path is empty. Missing config files are not an error;
// defaults apply.
func LoadConfig(path string) (*Config, error) {
	return LoadConfigWithTarget(path, "")
}

// LoadConfigWithTarget loads configuration, searching upward from the audit
// target's directory when no explicit path is given.
func LoadConfigWithTarget(path, target string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = findConfigFile(startDirFor(target))
		if path == "" {
			return cfg, nil
		}
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// startDirFor resolves the directory config discovery starts from
func startDirFor(target string) string {
	if target == "" {
		dir, err := os.Getwd()
		if err != nil {
			return "."
		}
		return dir
	}
	info, err := os.Stat(target)
	if err == nil && info.IsDir() {
		return target
	}
	return filepath.Dir(target)
}

// findConfigFile searches dir and its ancestors for a recognized config file
func findConfigFile(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	for {
		for _, name := range configFileNames {
			candidate := filepath.Join(abs, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return ""
		}
		abs = parent
	}
}
