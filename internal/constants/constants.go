package constants

// Tool name and related constants
const (
	// ToolName is the name of this tool
	ToolName = "migscan"

	// ConfigFileName is the file written by `migscan init`
	ConfigFileName = "migscan.yaml"
)

// Output format constants
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"
	OutputFormatCSV  = "csv"
	OutputFormatHTML = "html"
)

// Exit codes
const (
	ExitSuccess    = 0
	ExitBelowScore = 1
	ExitError      = 2
)

// CSVHeader is the header row of the CSV export
var CSVHeader = []string{"Name", "Path", "Issue", "Suggested Fix"}
