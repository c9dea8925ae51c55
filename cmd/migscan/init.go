package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ludo-technologies/migscan/app"
	"github.com/ludo-technologies/migscan/internal/config"
	"github.com/ludo-technologies/migscan/internal/constants"
)

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a migscan configuration file",
		Long: `Generate a documented migscan configuration file with sensible defaults.

By default, creates migscan.yaml in the current directory. Use --interactive
for a guided setup wizard.

Examples:
  # Create migscan.yaml in current directory
  migscan init

  # Custom output path
  migscan init --config /srv/share/migscan.yaml

  # Overwrite existing file
  migscan init --force

  # Generate smaller config with essential options only
  migscan init --minimal

  # Interactive setup wizard
  migscan init -i`,
		RunE: runInit,
	}

	cmd.Flags().StringP("config", "c", constants.ConfigFileName,
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

	platform := config.TargetGeneric
	strictness := config.StrictnessStandard

	if interactive {
		var err error
		platform, strictness, configPath, err = runInteractiveSetup(configPath)
		if err != nil {
			return err
		}
	}

	files := app.NewFileHelper()
	if !force {
		if exists, _ := files.FileExists(configPath); exists {
			return fmt.Errorf("%s already exists. Use --force to overwrite", configPath)
		}
	}

	content := config.GetFullConfigTemplate(platform, strictness)
	if minimal {
		content = config.GetMinimalConfigTemplate()
	}

	err := files.WriteReport(configPath, func(w io.Writer) error {
		_, err := io.WriteString(w, content)
		return err
	})
	if err != nil {
		return err
	}

	displayPath := configPath
	if absPath, err := filepath.Abs(configPath); err == nil {
		displayPath = absPath
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", displayPath)
	fmt.Fprintln(cmd.OutOrStdout(), "\nRun 'migscan scan <directory>' to check a directory.")

	return nil
}

func runInteractiveSetup(defaultConfigPath string) (config.TargetPlatform, config.Strictness, string, error) {
	fmt.Println()
	fmt.Println("migscan Configuration Setup")
	fmt.Println("===========================")
	fmt.Println()

	platforms := []struct {
		Label       string
		Description string
		Value       config.TargetPlatform
	}{
		{"Generic", "No platform-specific excludes", config.TargetGeneric},
		{"SharePoint / OneDrive", "Skip Office lock files and OS metadata", config.TargetSharePoint},
		{"File share", "Skip VCS and dependency folders", config.TargetFileShare},
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "\U0001F449 {{ .Label | cyan }} - {{ .Description | faint }}",
		Inactive: "   {{ .Label | white }} - {{ .Description | faint }}",
		Selected: "\U00002705 {{ .Label | green }}",
	}

	platformPrompt := promptui.Select{
		Label:     "Where is the data being migrated to?",
		Items:     platforms,
		Templates: templates,
	}

	platformIdx, _, err := platformPrompt.Run()
	if err != nil {
		return "", "", "", fmt.Errorf("platform selection cancelled: %w", err)
	}

	fmt.Println()

	strictnessLevels := []struct {
		Label       string
		Description string
		Value       config.Strictness
	}{
		{"Standard (recommended)", "Block executables and scripts", config.StrictnessStandard},
		{"Relaxed", "Block only .exe and .dll", config.StrictnessRelaxed},
		{"Strict", "Block installers and scripts, require 95% compliance", config.StrictnessStrict},
	}

	strictnessPrompt := promptui.Select{
		Label:     "How strict should the blocklist be?",
		Items:     strictnessLevels,
		Templates: templates,
	}

	strictnessIdx, _, err := strictnessPrompt.Run()
	if err != nil {
		return "", "", "", fmt.Errorf("strictness selection cancelled: %w", err)
	}

	fmt.Println()

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
	return platforms[platformIdx].Value, strictnessLevels[strictnessIdx].Value, outputPath, nil
}
