package engine

import (
	"github.com/xab-mack/mythx-cli/internal/model"
)

// FilterOptions selects which issues of a report are kept.
type FilterOptions struct {
	MinSeverity model.Severity
	Blacklist   []string
	Whitelist   []string
}

// NewFilterOptions parses the command line filter flags.
func NewFilterOptions(minSeverity, blacklist, whitelist string) FilterOptions {
	return FilterOptions{
		MinSeverity: model.ParseSeverity(minSeverity),
		Blacklist:   model.NormalizeSWCList(blacklist),
		Whitelist:   model.NormalizeSWCList(whitelist),
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Keep reports whether a single issue passes the filter.
func (o FilterOptions) Keep(issue model.Issue) bool {
	if !model.SeverityGTE(issue.Severity, o.MinSeverity) {
		return false
	}
	if contains(o.Blacklist, issue.SWCID) {
		return false
	}
	return len(o.Whitelist) == 0 || contains(o.Whitelist, issue.SWCID)
}

// FilterReport removes the issues that do not pass opts from every report of
// the analysis and reports whether any issue is left.
func FilterReport(issues *model.DetectedIssues, opts FilterOptions) bool {
	found := false
	for i := range issues.Reports {
		var kept []model.Issue
		for _, issue := range issues.Reports[i].Issues {
			if opts.Keep(issue) {
				kept = append(kept, issue)
			}
		}
		issues.Reports[i].Issues = kept
		if len(kept) > 0 {
			found = true
		}
	}
	return found
}
