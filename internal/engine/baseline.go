package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/xab-mack/mythx-cli/internal/model"
	"github.com/xab-mack/mythx-cli/internal/util"
)

type Baseline struct {
	GeneratedAt  time.Time       `json:"generatedAt"`
	Fingerprints map[string]bool `json:"fingerprints"`
}

// IssueFingerprint identifies an issue across runs by SWC ID, its first
// resolved location and its description head.
func IssueFingerprint(issue model.Issue, sourceList []string, input *model.Job) string {
	var file string
	var line int
	for _, p := range issue.Positions(sourceList, input) {
		if p.Resolved() {
			file, line = p.File, p.Line
			break
		}
		if file == "" {
			file = p.File
		}
	}
	return util.Fingerprint(issue.SWCID, file, line, issue.Description.Head)
}

// LoadBaseline reads a baseline file: a bare fingerprint array, or an object
// whose fingerprints are an array or a set. An empty path yields an empty
// baseline.
func LoadBaseline(path string) (Baseline, error) {
	b := Baseline{Fingerprints: map[string]bool{}}
	if path == "" {
		return b, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return b, err
	}
	var fp []string
	if err := json.Unmarshal(data, &fp); err == nil {
		b.add(fp)
		return b, nil
	}
	var doc struct {
		GeneratedAt  time.Time       `json:"generatedAt"`
		Fingerprints json.RawMessage `json:"fingerprints"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return b, err
	}
	b.GeneratedAt = doc.GeneratedAt
	if len(doc.Fingerprints) == 0 || string(doc.Fingerprints) == "null" {
		return b, nil
	}
	if err := json.Unmarshal(doc.Fingerprints, &fp); err == nil {
		b.add(fp)
		return b, nil
	}
	set := map[string]bool{}
	if err := json.Unmarshal(doc.Fingerprints, &set); err != nil {
		return b, fmt.Errorf("baseline %s: fingerprints must be an array or an object: %w", path, err)
	}
	for f, ok := range set {
		if ok {
			b.Fingerprints[f] = true
		}
	}
	return b, nil
}

func (b *Baseline) add(fps []string) {
	for _, f := range fps {
		b.Fingerprints[f] = true
	}
}

// FilterBaseline drops issues whose fingerprint is in the baseline.
func FilterBaseline(item *model.ReportItem, b Baseline) {
	if len(b.Fingerprints) == 0 {
		return
	}
	for i := range item.Issues.Reports {
		r := &item.Issues.Reports[i]
		var kept []model.Issue
		for _, issue := range r.Issues {
			if b.Fingerprints[IssueFingerprint(issue, r.SourceList, item.Input)] {
				continue
			}
			kept = append(kept, issue)
		}
		r.Issues = kept
	}
}

// WriteBaseline stores the fingerprints of all issues as a sorted JSON array.
func WriteBaseline(path string, items []model.ReportItem) error {
	if path == "" {
		return nil
	}
	m := map[string]bool{}
	for _, item := range items {
		for _, r := range item.Issues.Reports {
			for _, issue := range r.Issues {
				m[IssueFingerprint(issue, r.SourceList, item.Input)] = true
			}
		}
	}
	arr := make([]string, 0, len(m))
	for k := range m {
		arr = append(arr, k)
	}
	sort.Strings(arr)
	data, err := json.MarshalIndent(arr, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
