package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ludo-technologies/docaudit/internal/config"
)

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a docaudit configuration file",
		Long: `Generate a documented docaudit configuration file with sensible defaults.

By default, creates .docaudit.yaml in the current directory with full
documentation. Use --interactive for a guided setup wizard.

Examples:
  # Create .docaudit.yaml in current directory
  docaudit init

  # Custom output path
  docaudit init --config custom.yaml

  # Overwrite existing file
  docaudit init --force

  # Generate smaller config with essential options only
  docaudit init --minimal

  # Interactive setup wizard
  docaudit init --interactive
  docaudit init -i`,
		RunE: runInit,
	}

	cmd.Flags().StringP("config", "c", ".docaudit.yaml",
		"Output path for the config file")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing config file")
	cmd.Flags().Bool("minimal", false,
		"Generate minimal config with essential options only")
	cmd.Flags().BoolP("interactive", "i", false,
		"Interactive setup wizard")

	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	force, _ := cmd.Flags().GetBool("force")
	minimal, _ := cmd.Flags().GetBool("minimal")
	interactive, _ := cmd.Flags().GetBool("interactive")

	style := config.DefaultDocstringStyle
	strictness := config.StrictnessStandard

	if interactive {
		var err error
		var interactiveConfigPath string
		style, strictness, interactiveConfigPath, err = runInteractiveSetup(configPath)
		if err != nil {
			return err
		}
		configPath = interactiveConfigPath
	}

	if !force {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("%s already exists. Use --force to overwrite", configPath)
		}
	}

	dir := filepath.Dir(configPath)
	if dir != "." && dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return fmt.Errorf("directory does not exist: %s", dir)
		}
	}

	var content string
	if minimal {
		content = config.GetMinimalConfigTemplate()
	} else {
		content = config.GetFullConfigTemplate(style, strictness)
	}

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	displayPath := configPath
	if absPath, err := filepath.Abs(configPath); err == nil {
		displayPath = absPath
	}
	fmt.Printf("Created %s\n", displayPath)
	fmt.Println("\nRun 'docaudit .' to audit your project's docstrings.")

	return nil
}

func runInteractiveSetup(defaultConfigPath string) (string, config.Strictness, string, error) {
	fmt.Println()
	fmt.Println("docaudit Configuration Setup")
	fmt.Println("============================")
	fmt.Println()

	// Docstring convention selection
	styles := []struct {
		Label       string
		Description string
		Value       string
	}{
		{"NumPy style", "Parameters / Returns / Raises sections", "numpydoc"},
		{"Google style", "Args: / Returns: / Raises: sections", "google"},
		{"Sphinx style", ":param name: / :returns: fields", "sphinx"},
	}

	styleTemplates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "\U0001F449 {{ .Label | cyan }} - {{ .Description | faint }}",
		Inactive: "   {{ .Label | white }} - {{ .Description | faint }}",
		Selected: "\U00002705 {{ .Label | green }}",
	}

	stylePrompt := promptui.Select{
		Label:     "Which docstring convention does your project use?",
		Items:     styles,
		Templates: styleTemplates,
	}

	styleIdx, _, err := stylePrompt.Run()
	if err != nil {
		return "", "", "", fmt.Errorf("style selection cancelled: %w", err)
	}
	selectedStyle := styles[styleIdx].Value

	fmt.Println()

	// Strictness selection
	strictnessLevels := []struct {
		Label       string
		Description string
		Value       config.Strictness
	}{
		{"Standard (recommended)", "Warnings reported but do not fail the run", config.StrictnessStandard},
		{"Relaxed", "More retries, warnings never fail the run", config.StrictnessRelaxed},
		{"Strict", "Warnings fail the run, CI/CD enforcement", config.StrictnessStrict},
	}

	strictnessTemplates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "\U0001F449 {{ .Label | cyan }} - {{ .Description | faint }}",
		Inactive: "   {{ .Label | white }} - {{ .Description | faint }}",
		Selected: "\U00002705 {{ .Label | green }}",
	}

	strictnessPrompt := promptui.Select{
		Label:     "How strict should the audit be?",
		Items:     strictnessLevels,
		Templates: strictnessTemplates,
	}

	strictnessIdx, _, err := strictnessPrompt.Run()
	if err != nil {
		return "", "", "", fmt.Errorf("strictness selection cancelled: %w", err)
	}
	selectedStrictness := strictnessLevels[strictnessIdx].Value

	fmt.Println()

	// Output path prompt
	outputPrompt := promptui.Prompt{
		Label:   "Output file path",
		Default: defaultConfigPath,
	}

	outputPath, err := outputPrompt.Run()
	if err != nil {
		return "", "", "", fmt.Errorf("output path input cancelled: %w", err)
	}

	if outputPath == "" {
		outputPath = defaultConfigPath
	}

	fmt.Println()
	fmt.Printf("Creating %s... ", outputPath)

	return selectedStyle, selectedStrictness, outputPath, nil
}
