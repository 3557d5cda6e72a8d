package engine

import "github.com/xab-mack/mythx-cli/internal/model"

// DedupeIssues merges issues reported more than once for the same SWC ID
// and source location within a report, keeping the highest severity.
func DedupeIssues(issues *model.DetectedIssues) {
	type key struct {
		swc string
		loc model.SourceMap
	}
	for i := range issues.Reports {
		r := &issues.Reports[i]
		seen := map[key]int{}
		var out []model.Issue
		for _, issue := range r.Issues {
			var loc model.SourceMap
			if len(issue.Locations) > 0 {
				loc = issue.Locations[0].SourceMap
			}
			if issue.SWCID == "" || loc == "" {
				out = append(out, issue)
				continue
			}
			k := key{swc: issue.SWCID, loc: loc}
			if idx, ok := seen[k]; ok {
				if !model.SeverityGTE(out[idx].Severity, issue.Severity) {
					out[idx].Severity = issue.Severity
				}
				continue
			}
			seen[k] = len(out)
			out = append(out, issue)
		}
		r.Issues = out
	}
}
