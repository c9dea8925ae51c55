package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/ludo-technologies/migscan/app"
	"github.com/ludo-technologies/migscan/domain"
	"github.com/ludo-technologies/migscan/internal/constants"
	"github.com/ludo-technologies/migscan/service"
)

var (
	extFormat     string
	extConfigPath string
)

func extensionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extensions <directory>",
		Short: "List the file extensions found in a directory",
		Long: `List every file extension present in a directory tree together with its
blocked state. Blocked extensions that do not occur in the tree are listed
too, so the whole blocklist is visible.

Examples:
  migscan extensions /srv/share
  migscan extensions --format json /srv/share`,
		Args: cobra.ExactArgs(1),
		RunE: runExtensions,
	}

	cmd.Flags().StringVarP(&extFormat, "format", "f", "text",
		"Output format: text, json, yaml")
	cmd.Flags().StringVarP(&extConfigPath, "config", "c", "",
		"Path to config file")
	addLoggingFlags(cmd)

	return cmd
}

func runExtensions(cmd *cobra.Command, args []string) error {
	format := domain.OutputFormat(extFormat)
	switch format {
	case domain.OutputFormatText, domain.OutputFormatJSON, domain.OutputFormatYAML:
	default:
		return &ExitError{Code: constants.ExitError, Message: fmt.Sprintf("unsupported output format: %s", extFormat)}
	}

	loader := service.NewConfigurationLoader()
	req, cfg, err := loader.LoadConfig(extConfigPath, args[0])
	if err != nil {
		return &ExitError{Code: constants.ExitError, Message: err.Error()}
	}
	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return &ExitError{Code: constants.ExitError, Message: err.Error()}
	}

	req.Root = args[0]
	svc := service.NewScanServiceWithProgress(afero.NewOsFs(), logger, nil)
	uc := app.NewScanUseCase(svc, service.NewOutputFormatter())
	if _, err := uc.Execute(commandContext(cmd), *req); err != nil {
		return &ExitError{Code: constants.ExitError, Message: err.Error()}
	}

	entries := uc.Session().Entries()
	return writeExtensions(cmd.OutOrStdout(), entries, format)
}

func writeExtensions(w io.Writer, entries []app.ExtensionEntry, format domain.OutputFormat) error {
	switch format {
	case domain.OutputFormatJSON:
		return service.WriteJSON(w, entries)
	case domain.OutputFormatYAML:
		return service.WriteYAML(w, entries)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Extension", "Blocked", "In directory"})
	for _, e := range entries {
		t.AppendRow(table.Row{e.Extension, yesNo(e.Blocked), yesNo(e.Present)})
	}
	t.Render()
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

