package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/ludo-technologies/migscan/app"
	"github.com/ludo-technologies/migscan/domain"
	"github.com/ludo-technologies/migscan/internal/config"
	"github.com/ludo-technologies/migscan/internal/constants"
	"github.com/ludo-technologies/migscan/internal/logging"
	"github.com/ludo-technologies/migscan/service"
)

var (
	scanFormat          string
	scanOutputPath      string
	scanConfigPath      string
	scanBlock           []string
	scanAllow           []string
	scanResetExtensions bool
	scanExclude         []string
	scanOnlyBlocked     bool
	scanInteractive     bool
	scanMinScore        float64
	scanNoProgress      bool
	scanNoColor         bool
	scanNoSuggestions   bool
	logLevel            string
	logFormat           string
)

func scanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <directory>",
		Short: "Scan a directory for migration issues",
		Long: `Scan a directory tree for items that would fail to migrate.

Files are checked for path length (max 260 characters), invalid characters
in the name and blocked file extensions. Directories are checked for path
length and invalid characters only.

Examples:
  migscan scan /srv/share
  migscan scan --block .msi,.ps1 --allow .bat /srv/share
  migscan scan --only-blocked --format csv -o blocked.csv /srv/share
  migscan scan --min-score 95 /srv/share
  migscan scan -i /srv/share`,
		Args: cobra.ExactArgs(1),
		RunE: runScan,
	}

	cmd.Flags().StringVarP(&scanFormat, "format", "f", "text",
		"Output format: text, json, yaml, csv, html")
	cmd.Flags().StringVarP(&scanOutputPath, "output", "o", "",
		"Write the report to this file (csv writes the issue export)")
	cmd.Flags().StringVarP(&scanConfigPath, "config", "c", "",
		"Path to config file")
	cmd.Flags().StringSliceVarP(&scanBlock, "block", "b", nil,
		"Extensions to block in addition to the configured list")
	cmd.Flags().StringSliceVarP(&scanAllow, "allow", "a", nil,
		"Extensions to unblock")
	cmd.Flags().BoolVar(&scanResetExtensions, "reset-extensions", false,
		"Start from the built-in blocklist, ignoring the config file")
	cmd.Flags().StringSliceVarP(&scanExclude, "exclude", "e", nil,
		"Gitignore-style patterns to skip, relative to the directory")
	cmd.Flags().BoolVar(&scanOnlyBlocked, "only-blocked", false,
		"Only report files whose extension is blocked")
	cmd.Flags().BoolVarP(&scanInteractive, "interactive", "i", false,
		"Manage blocked extensions interactively after the scan")
	cmd.Flags().Float64Var(&scanMinScore, "min-score", 0,
		"Exit with status 1 when the compliance score is below this value")
	cmd.Flags().BoolVar(&scanNoProgress, "no-progress", false,
		"Disable the progress bar")
	cmd.Flags().BoolVar(&scanNoColor, "no-color", false,
		"Disable colored output")
	cmd.Flags().BoolVar(&scanNoSuggestions, "no-suggestions", false,
		"Hide suggested fixes in text output")
	addLoggingFlags(cmd)

	return cmd
}

func addLoggingFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&logLevel, "log-level", "",
		"Log level: debug, info, warn, error (default from config, else warn)")
	cmd.Flags().StringVar(&logFormat, "log-format", "",
		"Log format: text, json")
}

func runScan(cmd *cobra.Command, args []string) error {
	root := args[0]

	loader := service.NewConfigurationLoader()
	base, cfg, err := loader.LoadConfig(scanConfigPath, root)
	if err != nil {
		return &ExitError{Code: constants.ExitError, Message: err.Error()}
	}

	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return &ExitError{Code: constants.ExitError, Message: err.Error()}
	}
	if base.ConfigPath != "" {
		logger.WithField("config", base.ConfigPath).Info("Using config file")
	}

	req := loader.MergeConfig(base, scanOverrides(cmd, root))
	if cmd.Flags().Changed("min-score") {
		req.MinScore = scanMinScore
	}
	if scanNoSuggestions {
		req.ShowSuggestions = false
	}

	formatter := service.NewOutputFormatter()
	formatter.ShowSuggestions = req.ShowSuggestions
	formatter.NoColor = req.NoColor

	pm := service.NewProgressManager(!scanNoProgress, os.Stderr)
	svc := service.NewScanServiceWithProgress(afero.NewOsFs(), logger, pm)
	uc := app.NewScanUseCase(svc, formatter)

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt)
	defer stop()

	resp, err := uc.Execute(ctx, *req)
	if err != nil {
		return &ExitError{Code: constants.ExitError, Message: err.Error()}
	}
	if req.OutputPath != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Report written to %s\n", req.OutputPath)
	}

	if scanInteractive {
		resp, err = runExtensionManager(cmd, uc.Session(), formatter)
		if err != nil {
			return &ExitError{Code: constants.ExitError, Message: err.Error()}
		}
	}

	if app.BelowMinScore(resp, *req) {
		return &ExitError{
			Code: constants.ExitBelowScore,
			Message: fmt.Sprintf("compliance score %.1f%% is below the minimum of %.1f%%",
				resp.ComplianceScore, req.MinScore),
		}
	}

	return nil
}

// scanOverrides builds the request fields set on the command line
func scanOverrides(cmd *cobra.Command, root string) *domain.ScanRequest {
	override := &domain.ScanRequest{
		Root:            root,
		OutputWriter:    cmd.OutOrStdout(),
		OutputPath:      scanOutputPath,
		NoColor:         scanNoColor,
		ResetExtensions: scanResetExtensions,
		BlockExtensions: scanBlock,
		AllowExtensions: scanAllow,
		ExcludePatterns: scanExclude,
		OnlyBlocked:     scanOnlyBlocked,
	}
	if cmd.Flags().Changed("format") {
		override.OutputFormat = domain.OutputFormat(scanFormat)
	}
	return override
}

// newLogger builds the logger from flags, falling back to the config file
func newLogger(cmd *cobra.Command, cfg *config.Config) (*logrus.Logger, error) {
	level, format := cfg.Logging.Level, cfg.Logging.Format
	if cmd.Flags().Changed("log-level") {
		level = logLevel
	}
	if cmd.Flags().Changed("log-format") {
		format = logFormat
	}
	return logging.New(level, format, cmd.ErrOrStderr())
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
