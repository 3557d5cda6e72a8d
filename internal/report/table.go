package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/xab-mack/mythx-cli/internal/model"
)

// TableFormatter renders grid tables. It is the default output.
type TableFormatter struct{}

var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func grid(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderRow(true).
		StyleFunc(func(row, col int) lipgloss.Style { return cellStyle }).
		Headers(headers...).
		Rows(rows...)
	return t.String()
}

func keyValue(rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderRow(true).
		StyleFunc(func(row, col int) lipgloss.Style { return cellStyle }).
		Rows(rows...)
	return t.String()
}

func (TableFormatter) RequiresInput() bool { return true }

func (TableFormatter) FormatAnalysisList(list *model.AnalysisList) (string, error) {
	rows := make([][]string, 0, len(list.Analyses))
	for _, a := range list.Analyses {
		rows = append(rows, []string{a.UUID, a.Status, formatTime(a.SubmittedAt)})
	}
	return grid([]string{"UUID", "Status", "Submitted"}, rows), nil
}

func (TableFormatter) FormatAnalysisStatus(a *model.Analysis) (string, error) {
	return keyValue([][]string{
		{"UUID", a.UUID},
		{"API Version", orDash(a.APIVersion)},
		{"Mythril Version", orDash(a.MythrilVersion)},
		{"Harvey Version", orDash(a.HarveyVersion)},
		{"Maru Version", orDash(a.MaruVersion)},
		{"Queue Time", strconv.FormatInt(a.QueueTime, 10) + "ms"},
		{"Run Time", strconv.FormatInt(a.RunTime, 10) + "ms"},
		{"Status", a.Status},
		{"Submitted At", formatTime(a.SubmittedAt)},
		{"Submitted By", orDash(a.SubmittedBy)},
	}), nil
}

func (TableFormatter) FormatGroupList(list *model.GroupList) (string, error) {
	rows := make([][]string, 0, len(list.Groups))
	for _, g := range list.Groups {
		rows = append(rows, []string{g.ID, g.Status, orDash(g.Name), formatTime(g.CreatedAt)})
	}
	return grid([]string{"ID", "Status", "Name", "Created On"}, rows), nil
}

func (TableFormatter) FormatGroupStatus(g *model.Group) (string, error) {
	return keyValue([][]string{
		{"ID", g.ID},
		{"Name", orDash(g.Name)},
		{"Creation Date", formatTime(g.CreatedAt)},
		{"Created By", orDash(g.CreatedBy)},
		{"Progress", fmt.Sprintf("%d/100", g.Progress)},
		{"Status", g.Status},
		{"Main Source Files", orDash(strings.Join(g.MainSourceFiles, "\n"))},
		{"Analyses", fmt.Sprintf("%d total, %d finished", g.AnalysisStats.Total, g.AnalysisStats.Finished)},
		{"Vulnerabilities", fmt.Sprintf("%d high, %d medium, %d low",
			g.VulnerabilityStats.High, g.VulnerabilityStats.Medium, g.VulnerabilityStats.Low)},
	}), nil
}

type issueRow struct {
	line, title, severity, description string
}

// FormatDetectedIssues groups the issues of every analysis by file, one row
// per source map entry. Bytecode locations are skipped when the issue also
// has a source text location.
func (TableFormatter) FormatDetectedIssues(items []model.ReportItem) (string, error) {
	var out []string
	for _, item := range items {
		var files []string
		byFile := map[string][]issueRow{}
		var loose []string
		for _, r := range item.Issues.Reports {
			for _, issue := range r.Issues {
				if issue.SWCID == "" && issue.SWCTitle == "" && len(issue.Locations) == 0 {
					loose = append(loose, issue.DescriptionLong())
					continue
				}
				positions := issue.AllPositions(r.SourceList, item.Input)
				hasText := false
				for _, p := range positions {
					if p.IsText() {
						hasText = true
					}
				}
				for _, p := range positions {
					if p.File == "" || (hasText && !p.IsText()) {
						continue
					}
					line := fmt.Sprintf("bytecode offset %d", p.Offset)
					if p.Resolved() {
						line = strconv.Itoa(p.Line)
					}
					if _, ok := byFile[p.File]; !ok {
						files = append(files, p.File)
					}
					byFile[p.File] = append(byFile[p.File], issueRow{
						line:        line,
						title:       orDash(issue.Title()),
						severity:    string(issue.Severity),
						description: issue.DescriptionShort(),
					})
				}
			}
		}
		for _, f := range files {
			rows := make([][]string, 0, len(byFile[f]))
			for _, r := range byFile[f] {
				rows = append(rows, []string{r.line, r.title, r.severity, r.description})
			}
			out = append(out,
				"Report for "+f,
				DashboardLink(item.Issues.UUID),
				grid([]string{"Line", "SWC Title", "Severity", "Short Description"}, rows),
				"",
			)
		}
		out = append(out, loose...)
	}
	return strings.Join(out, "\n"), nil
}

func (TableFormatter) FormatVersion(v *model.Version) (string, error) {
	return keyValue([][]string{
		{"API", v.API},
		{"Harvey", v.Harvey},
		{"Maru", v.Maru},
		{"Mythril", v.Mythril},
		{"Hashed", v.Hash},
	}), nil
}
