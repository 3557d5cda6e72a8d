package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/xab-mack/mythx-cli/internal/model"
)

// SimpleFormatter renders plain text.
type SimpleFormatter struct{}

func (SimpleFormatter) RequiresInput() bool { return true }

func (SimpleFormatter) FormatAnalysisList(list *model.AnalysisList) (string, error) {
	var parts []string
	for i := range list.Analyses {
		s, _ := SimpleFormatter{}.FormatAnalysisStatus(&list.Analyses[i])
		parts = append(parts, s)
	}
	return strings.Join(parts, "\n"), nil
}

func (SimpleFormatter) FormatAnalysisStatus(a *model.Analysis) (string, error) {
	lines := []string{
		"UUID: " + a.UUID,
		"API Version: " + orDash(a.APIVersion),
		"Mythril Version: " + orDash(a.MythrilVersion),
		"Harvey Version: " + orDash(a.HarveyVersion),
		"Maru Version: " + orDash(a.MaruVersion),
		fmt.Sprintf("Queue Time: %s", time.Duration(a.QueueTime)*time.Millisecond),
		fmt.Sprintf("Run Time: %s", time.Duration(a.RunTime)*time.Millisecond),
		"Status: " + a.Status,
		"Submitted at: " + formatTime(a.SubmittedAt),
		"Submitted by: " + orDash(a.SubmittedBy),
	}
	if a.GroupID != "" {
		lines = append(lines, "Group: "+a.GroupID)
	}
	return strings.Join(lines, "\n") + "\n", nil
}

func (SimpleFormatter) FormatGroupList(list *model.GroupList) (string, error) {
	var parts []string
	for i := range list.Groups {
		s, _ := SimpleFormatter{}.FormatGroupStatus(&list.Groups[i])
		parts = append(parts, s)
	}
	return strings.Join(parts, "\n"), nil
}

func (SimpleFormatter) FormatGroupStatus(g *model.Group) (string, error) {
	lines := []string{
		"ID: " + g.ID,
		"Name: " + orDash(g.Name),
		"Created on: " + formatTime(g.CreatedAt),
		"Status: " + g.Status,
		"",
	}
	if len(g.MainSourceFiles) > 0 {
		lines = append(lines, "Main Source Files:")
		for _, f := range g.MainSourceFiles {
			lines = append(lines, "- "+f)
		}
		lines = append(lines, "")
	}
	lines = append(lines,
		fmt.Sprintf("Analyses: %d/%d finished, %d queued, %d running, %d failed",
			g.AnalysisStats.Finished, g.AnalysisStats.Total, g.AnalysisStats.Queued,
			g.AnalysisStats.Running, g.AnalysisStats.Failed),
		fmt.Sprintf("Vulnerabilities: %d high, %d medium, %d low, %d none",
			g.VulnerabilityStats.High, g.VulnerabilityStats.Medium,
			g.VulnerabilityStats.Low, g.VulnerabilityStats.None),
	)
	return strings.Join(lines, "\n") + "\n", nil
}

func (SimpleFormatter) FormatDetectedIssues(items []model.ReportItem) (string, error) {
	var lines []string
	for _, item := range items {
		for _, r := range item.Issues.Reports {
			for _, issue := range r.Issues {
				lines = append(lines,
					DashboardLink(item.Issues.UUID),
					fmt.Sprintf("Title: %s (%s)", orDash(issue.Title()), issue.Severity),
					"Description: "+issue.DescriptionLong(),
				)
				for _, p := range issue.Positions(r.SourceList, item.Input) {
					if !p.Resolved() {
						continue
					}
					lines = append(lines, fmt.Sprintf("%s:%d", p.File, p.Line), "\t"+p.Code)
				}
				lines = append(lines, "")
			}
		}
	}
	return strings.Join(lines, "\n"), nil
}

func (SimpleFormatter) FormatVersion(v *model.Version) (string, error) {
	return strings.Join([]string{
		"API: " + v.API,
		"Harvey: " + v.Harvey,
		"Maru: " + v.Maru,
		"Mythril: " + v.Mythril,
		"Hashed: " + v.Hash,
	}, "\n"), nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format("2006-01-02 15:04:05 MST")
}
