package engine

import (
	"path/filepath"
	"strings"

	"github.com/xab-mack/mythx-cli/internal/config"
	"github.com/xab-mack/mythx-cli/internal/model"
	"github.com/xab-mack/mythx-cli/internal/util"
)

// suppressionMarker precedes an SWC ID in a source comment, e.g.
// "// mythx:ignore SWC-107 reason=...".
const suppressionMarker = "mythx:ignore "

// ApplyIgnores drops issues matched by config ignore rules or suppressed by
// an inline marker within five lines above the issue.
func ApplyIgnores(item *model.ReportItem, rules []config.IgnoreRule) {
	for i := range item.Issues.Reports {
		r := &item.Issues.Reports[i]
		var kept []model.Issue
		for _, issue := range r.Issues {
			if isIgnored(issue, issue.Positions(r.SourceList, item.Input), rules, item.Input) {
				continue
			}
			kept = append(kept, issue)
		}
		r.Issues = kept
	}
}

func isIgnored(issue model.Issue, positions []model.Position, rules []config.IgnoreRule, input *model.Job) bool {
	for _, rule := range rules {
		if rule.SWC == "" && rule.Path == "" {
			continue
		}
		if rule.SWC != "" && !contains(model.NormalizeSWCList(rule.SWC), issue.SWCID) {
			continue
		}
		if rule.Path != "" && !anyUnder(positions, rule.Path) {
			continue
		}
		return true
	}
	if input == nil || issue.SWCID == "" {
		return false
	}
	for _, p := range positions {
		if p.Resolved() && hasInlineSuppression(input.Sources[p.File].Source, issue.SWCID, p.Line) {
			return true
		}
	}
	return false
}

func anyUnder(positions []model.Position, prefix string) bool {
	prefix = filepath.ToSlash(prefix)
	for _, p := range positions {
		if p.File != "" && strings.HasPrefix(filepath.ToSlash(p.File), prefix) {
			return true
		}
	}
	return false
}

func hasInlineSuppression(source, swcID string, line int) bool {
	needle := suppressionMarker + swcID
	for n := max(1, line-5); n <= line; n++ {
		if strings.Contains(util.Line(source, n), needle) {
			return true
		}
	}
	return false
}
