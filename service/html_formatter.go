package service

import (
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/ludo-technologies/migscan/domain"
	"github.com/ludo-technologies/migscan/internal/compliance"
)

// HTMLData represents the data for HTML template
type HTMLData struct {
	*domain.ScanResponse
	ShowSuggestions bool
	Quality         string
}

var htmlFuncs = template.FuncMap{
	"join": func(elems []string, sep string) string {
		return strings.Join(elems, sep)
	},
	"gradeClass": func(grade string) string {
		return "grade-" + strings.ToLower(grade)
	},
	"kindClass": func(kind domain.ItemKind) string {
		if kind == domain.ItemDirectory {
			return "kind-dir"
		}
		return "kind-file"
	},
	"percent": func(score float64) string {
		return fmt.Sprintf("%.1f%%", score)
	},
}

var htmlReport = template.Must(template.New("report").Funcs(htmlFuncs).Parse(htmlTemplate))

// WriteHTML writes the scan response as a standalone HTML page
func (f *OutputFormatterImpl) WriteHTML(response *domain.ScanResponse, writer io.Writer) error {
	data := HTMLData{
		ScanResponse:    response,
		ShowSuggestions: f.ShowSuggestions,
		Quality:         compliance.Quality(response.ComplianceScore),
	}
	return htmlReport.Execute(writer, data)
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Migration Compliance Report</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            line-height: 1.6;
            color: #333;
            background: #eef1f5;
            min-height: 100vh;
        }
        .container { max-width: 1200px; margin: 0 auto; padding: 20px; }
        .card {
            background: white;
            border-radius: 10px;
            padding: 30px;
            margin-bottom: 20px;
            box-shadow: 0 10px 30px rgba(0,0,0,0.08);
        }
        h1 { color: #2f5d8a; margin-bottom: 10px; }
        .subtitle { color: #666; font-size: 14px; }
        .score-badge {
            display: inline-block;
            padding: 10px 20px;
            border-radius: 50px;
            font-size: 24px;
            font-weight: bold;
            margin: 10px 0;
            color: white;
        }
        .grade-a { background: #4caf50; }
        .grade-b { background: #8bc34a; }
        .grade-c { background: #ff9800; }
        .grade-d { background: #ff5722; }
        .grade-f { background: #f44336; }
        .metric-grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(200px, 1fr));
            gap: 20px;
            margin: 20px 0;
        }
        .metric-card { background: #f8f9fa; padding: 20px; border-radius: 8px; text-align: center; }
        .metric-value { font-size: 32px; font-weight: bold; color: #2f5d8a; }
        .metric-label { color: #666; margin-top: 5px; }
        .table { width: 100%; border-collapse: collapse; margin: 20px 0; }
        .table th, .table td { padding: 10px; text-align: left; border-bottom: 1px solid #ddd; vertical-align: top; }
        .table th { background: #f8f9fa; font-weight: 600; }
        .path { font-family: monospace; font-size: 13px; word-break: break-all; }
        .kind-dir { color: #2196f3; }
        .kind-file { color: #555; }
        .warning { color: #ff9800; }
        .ext { display: inline-block; background: #f1f3f5; border-radius: 4px; padding: 2px 8px; margin: 2px; font-family: monospace; }
    </style>
</head>
<body>
    <div class="container">
        <div class="card">
            <h1>Migration Compliance Report</h1>
            <div class="subtitle">{{.Root}} &middot; generated {{.GeneratedAt}} &middot; migscan {{.Version}}</div>
            <div class="score-badge {{gradeClass .Grade}}">{{percent .ComplianceScore}} &middot; {{.Grade}}</div>
            <div class="subtitle">Compliance is {{.Quality}}{{if .Filtered}} (blocked extensions only){{end}}</div>
            <div class="metric-grid">
                <div class="metric-card"><div class="metric-value">{{.TotalFiles}}</div><div class="metric-label">Files scanned</div></div>
                <div class="metric-card"><div class="metric-value">{{.CompliantFiles}}</div><div class="metric-label">Compliant files</div></div>
                <div class="metric-card"><div class="metric-value">{{.IssueCount}}</div><div class="metric-label">Issues</div></div>
            </div>
            <div>Blocked extensions:
                {{range .BlockedExtensions}}<span class="ext">{{.}}</span>{{else}}none{{end}}
            </div>
            <div>Discovered extensions:
                {{range .DiscoveredExtensions}}<span class="ext">{{.}}</span>{{else}}none{{end}}
            </div>
        </div>

        <div class="card">
            <h2>Issues</h2>
            {{if .Issues}}
            <table class="table">
                <thead>
                    <tr><th>Name</th><th>Path</th><th>Issue</th>{{if .ShowSuggestions}}<th>Suggested Fix</th>{{end}}</tr>
                </thead>
                <tbody>
                {{range .Issues}}
                    <tr>
                        <td class="{{kindClass .Kind}}">{{.Name}}</td>
                        <td class="path">{{.Path}}</td>
                        <td>{{.Summary}}</td>
                        {{if $.ShowSuggestions}}<td>{{.SuggestedFix}}</td>{{end}}
                    </tr>
                {{end}}
                </tbody>
            </table>
            {{else}}
            <p>No issues found.</p>
            {{end}}
        </div>

        {{if .Warnings}}
        <div class="card">
            <h2 class="warning">Skipped directories</h2>
            <ul>
            {{range .Warnings}}<li><span class="path">{{.Path}}</span>: {{.Message}}</li>{{end}}
            </ul>
        </div>
        {{end}}
    </div>
</body>
</html>
`
