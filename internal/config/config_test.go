package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Audit.DocstringStyle != "numpydoc" {
		t.Errorf("DocstringStyle = %q, want numpydoc", cfg.Audit.DocstringStyle)
	}
	if len(cfg.Audit.IgnoreDirs) != 1 || cfg.Audit.IgnoreDirs[0] != "tests" {
		t.Errorf("IgnoreDirs = %v, want [tests]", cfg.Audit.IgnoreDirs)
	}
	if cfg.LLM.Model == "" {
		t.Error("default model must not be empty")
	}
	if cfg.Analysis.MaxWorkers != 1 {
		t.Errorf("MaxWorkers = %d, want 1", cfg.Analysis.MaxWorkers)
	}
	if cfg.Output.Format != "text" {
		t.Errorf("Format = %q, want text", cfg.Output.Format)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".docaudit.yaml")
	content := `audit:
  docstring_style: google
  auto_fix: true
llm:
  model: custom-model
  max_retries: 5
analysis:
  max_workers: 4
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Audit.DocstringStyle != "google" {
		t.Errorf("DocstringStyle = %q, want google", cfg.Audit.DocstringStyle)
	}
	if !cfg.Audit.AutoFix {
		t.Error("AutoFix should be true")
	}
	if cfg.LLM.Model != "custom-model" {
		t.Errorf("Model = %q, want custom-model", cfg.LLM.Model)
	}
	if cfg.LLM.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d, want 5", cfg.LLM.MaxRetries)
	}
	if cfg.Analysis.MaxWorkers != 4 {
		t.Errorf("MaxWorkers = %d, want 4", cfg.Analysis.MaxWorkers)
	}
	// Unset keys keep their defaults
	if cfg.Output.Format != "text" {
		t.Errorf("Format = %q, want text", cfg.Output.Format)
	}
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfigWithTarget("", t.TempDir())
	if err != nil {
		t.Fatalf("missing config file must not be an error: %v", err)
	}
	if cfg.Audit.DocstringStyle != DefaultDocstringStyle {
		t.Errorf("DocstringStyle = %q, want default", cfg.Audit.DocstringStyle)
	}
}

func TestLoadConfigExplicitPathMissingFails(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("an explicitly named missing config file must fail")
	}
}

func TestConfigDiscoveryInAncestor(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "pkg", "sub")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	content := "audit:\n  docstring_style: sphinx\n"
	if err := os.WriteFile(filepath.Join(root, ".docaudit.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigWithTarget("", nested)
	if err != nil {
		t.Fatalf("LoadConfigWithTarget failed: %v", err)
	}
	if cfg.Audit.DocstringStyle != "sphinx" {
		t.Errorf("DocstringStyle = %q, want sphinx from ancestor config", cfg.Audit.DocstringStyle)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad format", func(c *Config) { c.Output.Format = "xml" }},
		{"empty model", func(c *Config) { c.LLM.Model = "" }},
		{"zero retries", func(c *Config) { c.LLM.MaxRetries = 0 }},
		{"zero workers", func(c *Config) { c.Analysis.MaxWorkers = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation to fail")
			}
		})
	}
}

func TestConfigTemplates(t *testing.T) {
	minimal := GetMinimalConfigTemplate()
	if !strings.Contains(minimal, "docstring_style") {
		t.Error("minimal template should set the docstring style")
	}

	full := GetFullConfigTemplate("google", StrictnessStrict)
	if !strings.Contains(full, "docstring_style: google") {
		t.Error("full template should carry the chosen style")
	}
	if !strings.Contains(full, "error_on_warnings: true") {
		t.Error("strict template should enable error_on_warnings")
	}

	standard := GetFullConfigTemplate("", StrictnessStandard)
	if !strings.Contains(standard, "docstring_style: "+DefaultDocstringStyle) {
		t.Error("empty style should fall back to the default")
	}
	if !strings.Contains(standard, "error_on_warnings: false") {
		t.Error("standard template should not enable error_on_warnings")
	}
}
