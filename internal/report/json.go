package report

import (
	"encoding/json"

	"github.com/xab-mack/mythx-cli/internal/model"
)

// JSONFormatter renders compact JSON, or indented JSON with sorted keys when
// Pretty is set.
type JSONFormatter struct {
	Pretty bool
}

func (JSONFormatter) RequiresInput() bool { return false }

func (f JSONFormatter) encode(v any) (string, error) {
	if !f.Pretty {
		b, err := json.Marshal(v)
		return string(b), err
	}
	// a generic round trip orders object keys
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return "", err
	}
	b, err := json.MarshalIndent(generic, "", "  ")
	return string(b), err
}

func (f JSONFormatter) FormatAnalysisList(list *model.AnalysisList) (string, error) {
	return f.encode(list)
}

func (f JSONFormatter) FormatAnalysisStatus(a *model.Analysis) (string, error) {
	return f.encode(a)
}

func (f JSONFormatter) FormatGroupList(list *model.GroupList) (string, error) {
	return f.encode(list)
}

func (f JSONFormatter) FormatGroupStatus(g *model.Group) (string, error) {
	return f.encode(g)
}

// FormatDetectedIssues emits one entry per analysis: the bare list of its
// issue reports, as the API returns it.
func (f JSONFormatter) FormatDetectedIssues(items []model.ReportItem) (string, error) {
	out := make([][]model.IssueReport, 0, len(items))
	for _, item := range items {
		reports := item.Issues.Reports
		if reports == nil {
			reports = []model.IssueReport{}
		}
		out = append(out, reports)
	}
	return f.encode(out)
}

func (f JSONFormatter) FormatVersion(v *model.Version) (string, error) {
	return f.encode(v)
}
