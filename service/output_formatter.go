package service

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/migscan/domain"
	"github.com/ludo-technologies/migscan/internal/compliance"
	"github.com/ludo-technologies/migscan/internal/constants"
)

// OutputFormatterImpl implements the OutputFormatter interface
type OutputFormatterImpl struct {
	// ShowSuggestions adds the Suggested Fix column to text reports
	ShowSuggestions bool

	// NoColor disables ANSI colors in text reports
	NoColor bool
}

// NewOutputFormatter creates a new output formatter
func NewOutputFormatter() *OutputFormatterImpl {
	return &OutputFormatterImpl{ShowSuggestions: true}
}

// WriteJSON writes data as JSON to the writer
func WriteJSON(writer io.Writer, data interface{}) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// WriteYAML writes data as YAML to the writer
func WriteYAML(writer io.Writer, data interface{}) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return err
	}
	return encoder.Close()
}

// WriteCSV writes one row per issue under the Name, Path, Issue, Suggested Fix header
func WriteCSV(writer io.Writer, issues []domain.Issue) error {
	w := csv.NewWriter(writer)
	if err := w.Write(constants.CSVHeader); err != nil {
		return err
	}
	for _, issue := range issues {
		if err := w.Write([]string{issue.Name, issue.Path, issue.Summary(), issue.SuggestedFix}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// Write writes the scan response in the specified format
func (f *OutputFormatterImpl) Write(response *domain.ScanResponse, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatJSON:
		return WriteJSON(writer, response)
	case domain.OutputFormatYAML:
		return WriteYAML(writer, response)
	case domain.OutputFormatCSV:
		return WriteCSV(writer, response.Issues)
	case domain.OutputFormatHTML:
		return f.WriteHTML(response, writer)
	case domain.OutputFormatText, "":
		return f.writeText(response, writer)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

type palette struct {
	header, good, warn, bad, dim *color.Color
}

func (f *OutputFormatterImpl) palette() palette {
	p := palette{
		header: color.New(color.Bold),
		good:   color.New(color.FgGreen, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		bad:    color.New(color.FgRed, color.Bold),
		dim:    color.New(color.Faint),
	}
	if f.NoColor {
		for _, c := range []*color.Color{p.header, p.good, p.warn, p.bad, p.dim} {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) score(score float64) *color.Color {
	switch {
	case score >= compliance.ScoreThresholdGood:
		return p.good
	case score >= compliance.ScoreThresholdFair:
		return p.warn
	default:
		return p.bad
	}
}

// writeText writes the response as a human-readable report
func (f *OutputFormatterImpl) writeText(response *domain.ScanResponse, writer io.Writer) error {
	p := f.palette()

	p.header.Fprintln(writer, "\n=== Migration Compliance Report ===")
	fmt.Fprintln(writer)
	fmt.Fprintf(writer, "Directory:        %s\n", response.Root)
	fmt.Fprintf(writer, "Generated:        %s\n", response.GeneratedAt)
	fmt.Fprintf(writer, "Files scanned:    %d\n", response.TotalFiles)
	fmt.Fprintf(writer, "Compliant files:  %d\n", response.CompliantFiles)
	if response.Filtered {
		fmt.Fprintf(writer, "Issues:           %d (blocked extensions only)\n", response.IssueCount)
	} else {
		fmt.Fprintf(writer, "Issues:           %d\n", response.IssueCount)
	}
	fmt.Fprintf(writer, "Compliance score: %s\n",
		p.score(response.ComplianceScore).Sprintf("%.1f%% (grade %s, %s)",
			response.ComplianceScore, response.Grade, compliance.Quality(response.ComplianceScore)))
	fmt.Fprintf(writer, "Blocked:          %s\n", joinOrNone(response.BlockedExtensions))
	fmt.Fprintln(writer)

	if len(response.Issues) == 0 {
		p.good.Fprintln(writer, "No issues found.")
	} else {
		f.writeIssueTable(response.Issues, writer)
	}

	if len(response.Warnings) > 0 {
		fmt.Fprintln(writer)
		p.warn.Fprintln(writer, "Skipped directories:")
		for _, w := range response.Warnings {
			fmt.Fprintf(writer, "  - %s: %s\n", w.Path, p.dim.Sprint(w.Message))
		}
	}

	return nil
}

func (f *OutputFormatterImpl) writeIssueTable(issues []domain.Issue, writer io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(writer)
	t.SetStyle(table.StyleLight)

	header := table.Row{"Name", "Path", "Issue"}
	if f.ShowSuggestions {
		header = append(header, "Suggested Fix")
	}
	t.AppendHeader(header)

	for _, issue := range issues {
		row := table.Row{issue.Name, issue.Path, issue.Summary()}
		if f.ShowSuggestions {
			row = append(row, issue.SuggestedFix)
		}
		t.AppendRow(row)
	}

	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Path", WidthMax: 80},
		{Name: "Suggested Fix", WidthMax: 60},
	})
	t.Render()
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}
