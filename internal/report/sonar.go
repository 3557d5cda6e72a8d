package report

import (
	"strings"

	"github.com/xab-mack/mythx-cli/internal/model"
)

// SonarFormatter emits SonarQube generic issue data for issue reports and
// falls back to JSON for everything else. Rule types and severities use the
// upper-case severity name, except High which is a "vulnerability".
type SonarFormatter struct {
	JSONFormatter
}

type sonarIssue struct {
	OnInputFile              string `json:"onInputFile,omitempty"`
	AtLineNr                 int    `json:"atLineNr,omitempty"`
	LinterName               string `json:"linterName"`
	ForRule                  string `json:"forRule"`
	RuleType                 string `json:"ruleType"`
	RemediationEffortMinutes int    `json:"remediationEffortMinutes"`
	Severity                 string `json:"severity"`
	Message                  string `json:"message"`
}

func (SonarFormatter) RequiresInput() bool { return true }

func (f SonarFormatter) FormatDetectedIssues(items []model.ReportItem) (string, error) {
	out := []sonarIssue{}
	for _, item := range items {
		for _, r := range item.Issues.Reports {
			for _, issue := range r.Issues {
				base := sonarIssue{
					LinterName: "mythx",
					ForRule:    issue.SWCID,
					RuleType:   strings.ToUpper(string(issue.Severity)),
					Severity:   strings.ToUpper(string(issue.Severity)),
					Message:    issue.DescriptionLong(),
				}
				if issue.Severity == model.SeverityHigh {
					base.Severity = "vulnerability"
				}
				emitted := false
				for _, p := range issue.Positions(r.SourceList, item.Input) {
					if !p.Resolved() {
						continue
					}
					entry := base
					entry.OnInputFile = p.File
					entry.AtLineNr = p.Line
					out = append(out, entry)
					emitted = true
				}
				if !emitted {
					out = append(out, base)
				}
			}
		}
	}
	return f.encode(out)
}
