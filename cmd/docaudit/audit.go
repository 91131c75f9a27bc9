package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ludo-technologies/docaudit/app"
	"github.com/ludo-technologies/docaudit/domain"
	"github.com/ludo-technologies/docaudit/internal/config"
	"github.com/ludo-technologies/docaudit/internal/llm"
	"github.com/ludo-technologies/docaudit/internal/version"
	"github.com/ludo-technologies/docaudit/service"
)

var (
	auditIgnoreDirs      []string
	auditExcludePatterns []string
	auditModel           string
	auditStyle           string
	auditFunction        string
	auditAutoFix         bool
	auditErrorOnWarnings bool
	auditFormat          string
	auditWorkers         int
	auditNoProgress      bool
	auditConfigPath      string
)

func auditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docaudit [path...]",
		Short: "Audit Python docstrings against their code with an LLM",
		Long: `docaudit extracts every function from the given Python files or
directories, asks a language model whether each docstring matches its code,
and reports errors, warnings, and suggested rewrites.

Exit codes:
  0 - No findings
  1 - Errors found (or warnings with --error-on-warnings)
  2 - Audit failure (parse error, unresolved completions, transport failure)

Examples:
  # Audit a single file
  docaudit mypackage/core.py

  # Audit a package, skipping its tests
  docaudit --ignore-dirs tests mypackage/

  # Audit one function only
  docaudit --function compute mypackage/core.py

  # Rewrite error-classified docstrings in place
  docaudit --auto-fix mypackage/

  # Machine-readable report
  docaudit --format json mypackage/`,
		Args:          cobra.ArbitraryArgs,
		RunE:          runAudit,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Version,
	}

	cmd.Flags().StringSliceVar(&auditIgnoreDirs, "ignore-dirs", nil,
		"Directory names to skip while collecting .py files")
	cmd.Flags().StringSliceVar(&auditExcludePatterns, "exclude", nil,
		"Gitignore-style patterns for files to skip")
	cmd.Flags().StringVar(&auditModel, "model", "",
		"Completion model identifier")
	cmd.Flags().StringVar(&auditStyle, "docstring-style", "",
		"Docstring convention to audit against (numpydoc, google, sphinx)")
	cmd.Flags().StringVar(&auditFunction, "function", "",
		"Audit only the function with this exact name")
	cmd.Flags().BoolVar(&auditAutoFix, "auto-fix", false,
		"Rewrite error-classified docstrings in place")
	cmd.Flags().BoolVar(&auditErrorOnWarnings, "error-on-warnings", false,
		"Fail the run on warnings, not just errors")
	cmd.Flags().StringVarP(&auditFormat, "format", "f", "",
		"Report format: text, json, yaml")
	cmd.Flags().IntVar(&auditWorkers, "workers", 0,
		"Number of files audited concurrently")
	cmd.Flags().BoolVar(&auditNoProgress, "no-progress", false,
		"Disable progress bars")
	cmd.Flags().StringVarP(&auditConfigPath, "config", "c", "",
		"Path to config file")

	return cmd
}

func runAudit(cmd *cobra.Command, args []string) error {
	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}

	// Optional .env for the provider API key
	_ = godotenv.Load()

	cfg, err := config.LoadConfigWithTarget(auditConfigPath, paths[0])
	if err != nil {
		return &AuditExitError{Code: domain.ExitFatal, Message: err.Error()}
	}
	req, err := buildRequest(cmd, cfg, paths)
	if err != nil {
		return &AuditExitError{Code: domain.ExitFatal, Message: err.Error()}
	}

	ctx := context.Background()

	client, err := llm.NewGeminiClient(ctx)
	if err != nil {
		return &AuditExitError{Code: domain.ExitFatal, Message: err.Error()}
	}
	defer client.Close()
	client.SetMaxRetries(cfg.LLM.MaxRetries)
	client.SetTimeout(cfg.LLM.TimeoutSeconds)

	progressEnabled := !auditNoProgress && req.OutputFormat == domain.OutputFormatText
	pm := service.NewProgressManager(progressEnabled)
	defer pm.Close()

	result, err := app.NewAuditUseCase(client, pm).Execute(ctx, req)
	if err != nil {
		return &AuditExitError{Code: domain.ExitFatal, Message: err.Error()}
	}

	if result.ExitCode != domain.ExitOK {
		return &AuditExitError{Code: result.ExitCode}
	}
	return nil
}

// buildRequest merges config-file values with CLI flags; flags explicitly
// set on the command line win
func buildRequest(cmd *cobra.Command, cfg *config.Config, paths []string) (*domain.AuditRequest, error) {
	req := &domain.AuditRequest{
		Paths:           paths,
		IgnoreDirs:      cfg.Audit.IgnoreDirs,
		ExcludePatterns: cfg.Analysis.ExcludePatterns,
		Recursive:       cfg.Analysis.Recursive,
		FunctionName:    auditFunction,
		Model:           cfg.LLM.Model,
		DocstringStyle:  cfg.Audit.DocstringStyle,
		AutoFix:         cfg.Audit.AutoFix,
		ErrorOnWarnings: cfg.Audit.ErrorOnWarnings,
		MaxWorkers:      cfg.Analysis.MaxWorkers,
		OutputFormat:    domain.OutputFormat(cfg.Output.Format),
		OutputWriter:    os.Stdout,
		ShowSuggestions: cfg.Output.ShowSuggestions,
	}

	if cmd.Flags().Changed("ignore-dirs") {
		req.IgnoreDirs = auditIgnoreDirs
	}
	if cmd.Flags().Changed("exclude") {
		req.ExcludePatterns = auditExcludePatterns
	}
	if cmd.Flags().Changed("model") {
		req.Model = auditModel
	}
	if cmd.Flags().Changed("docstring-style") {
		req.DocstringStyle = auditStyle
	}
	if cmd.Flags().Changed("auto-fix") {
		req.AutoFix = auditAutoFix
	}
	if cmd.Flags().Changed("error-on-warnings") {
		req.ErrorOnWarnings = auditErrorOnWarnings
	}
	if cmd.Flags().Changed("format") {
		req.OutputFormat = domain.OutputFormat(auditFormat)
	}
	if cmd.Flags().Changed("workers") {
		req.MaxWorkers = auditWorkers
	}

	switch req.OutputFormat {
	case domain.OutputFormatText, domain.OutputFormatJSON, domain.OutputFormatYAML:
	default:
		return nil, fmt.Errorf("unsupported output format: %s", req.OutputFormat)
	}
	if req.MaxWorkers < 1 {
		req.MaxWorkers = 1
	}
	return req, nil
}
