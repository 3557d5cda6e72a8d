package report

import (
	"encoding/json"
	"sort"

	"github.com/xab-mack/mythx-cli/internal/model"
)

type sarif struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}
type sarifDriver struct {
	Name           string      `json:"name"`
	InformationURI string      `json:"informationUri"`
	Rules          []sarifRule `json:"rules,omitempty"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	Name             string       `json:"name,omitempty"`
	ShortDescription sarifMessage `json:"shortDescription"`
	HelpURI          string       `json:"helpUri,omitempty"`
}

type sarifResult struct {
	RuleID     string         `json:"ruleId"`
	Level      string         `json:"level"`
	Message    sarifMessage   `json:"message"`
	Locations  []sarifLoc     `json:"locations,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}
type sarifLoc struct {
	Physical sarifPhys `json:"physicalLocation"`
}
type sarifPhys struct {
	ArtifactLocation sarifArt    `json:"artifactLocation"`
	Region           sarifRegion `json:"region"`
}
type sarifArt struct {
	URI string `json:"uri"`
}
type sarifRegion struct {
	StartLine  int `json:"startLine,omitempty"`
	ByteOffset int `json:"byteOffset"`
	ByteLength int `json:"byteLength"`
}

// SARIFFormatter emits SARIF 2.1.0 for issue reports and JSON for
// everything else.
type SARIFFormatter struct {
	JSONFormatter
}

func (SARIFFormatter) RequiresInput() bool { return true }

func sarifLevel(s model.Severity) string {
	switch s {
	case model.SeverityHigh:
		return "error"
	case model.SeverityMedium:
		return "warning"
	case model.SeverityLow:
		return "note"
	}
	return "none"
}

func (SARIFFormatter) FormatDetectedIssues(items []model.ReportItem) (string, error) {
	results := []sarifResult{}
	rules := map[string]sarifRule{}
	for _, item := range items {
		for _, r := range item.Issues.Reports {
			for _, issue := range r.Issues {
				res := sarifResult{
					RuleID:     issue.SWCID,
					Level:      sarifLevel(issue.Severity),
					Message:    sarifMessage{Text: issue.DescriptionLong()},
					Properties: map[string]any{"analysis": item.Issues.UUID, "severity": string(issue.Severity)},
				}
				for _, p := range issue.Positions(r.SourceList, item.Input) {
					if p.File == "" {
						continue
					}
					res.Locations = append(res.Locations, sarifLoc{Physical: sarifPhys{
						ArtifactLocation: sarifArt{URI: p.File},
						Region:           sarifRegion{StartLine: p.Line, ByteOffset: p.Offset, ByteLength: p.Length},
					}})
				}
				results = append(results, res)
				if issue.SWCID != "" {
					rules[issue.SWCID] = sarifRule{
						ID:               issue.SWCID,
						Name:             issue.Title(),
						ShortDescription: sarifMessage{Text: orDash(issue.Title())},
						HelpURI:          "https://swcregistry.io/docs/" + issue.SWCID,
					}
				}
			}
		}
	}
	ids := make([]string, 0, len(rules))
	for id := range rules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	driver := sarifDriver{Name: "mythx", InformationURI: "https://mythx.io"}
	for _, id := range ids {
		driver.Rules = append(driver.Rules, rules[id])
	}
	s := sarif{
		Schema:  "https://json.schemastore.org/sarif-2.1.0.json",
		Version: "2.1.0",
		Runs:    []sarifRun{{Tool: sarifTool{Driver: driver}, Results: results}},
	}
	b, err := json.MarshalIndent(s, "", "  ")
	return string(b), err
}
