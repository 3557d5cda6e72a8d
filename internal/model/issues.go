package model

import (
	"strconv"
	"strings"
)

// SourceType values reported on issue locations.
const (
	SourceTypeRawBytecode   = "raw-bytecode"
	SourceTypeEthereumAddr  = "ethereum-address"
	SourceTypeSolidityFile  = "solidity-file"
	SourceFormatText        = "text"
	SourceFormatEVMBytecode = "evm-byzantium-bytecode"
)

// SourceMapComponent is a single `offset:length:file` entry of a solc source map.
type SourceMapComponent struct {
	Offset int
	Length int
	FileID int
	Jump   string
}

// SourceMap is the compressed solc source mapping string.
type SourceMap string

// Components decodes the source map. Empty fields inherit the value of the
// previous entry.
func (s SourceMap) Components() []SourceMapComponent {
	if s == "" {
		return nil
	}
	var out []SourceMapComponent
	prev := SourceMapComponent{FileID: -1}
	for _, entry := range strings.Split(string(s), ";") {
		cur := prev
		fields := strings.Split(entry, ":")
		if len(fields) > 0 && fields[0] != "" {
			cur.Offset, _ = strconv.Atoi(fields[0])
		}
		if len(fields) > 1 && fields[1] != "" {
			cur.Length, _ = strconv.Atoi(fields[1])
		}
		if len(fields) > 2 && fields[2] != "" {
			cur.FileID, _ = strconv.Atoi(fields[2])
		}
		if len(fields) > 3 && fields[3] != "" {
			cur.Jump = fields[3]
		}
		out = append(out, cur)
		prev = cur
	}
	return out
}

type SourceLocation struct {
	SourceMap    SourceMap `json:"sourceMap"`
	SourceType   string    `json:"sourceType,omitempty"`
	SourceFormat string    `json:"sourceFormat,omitempty"`
	SourceList   []string  `json:"sourceList,omitempty"`
}

type IssueDescription struct {
	Head string `json:"head"`
	Tail string `json:"tail"`
}

type Issue struct {
	SWCID       string           `json:"swcID"`
	SWCTitle    string           `json:"swcTitle"`
	Description IssueDescription `json:"description"`
	Severity    Severity         `json:"severity"`
	Locations   []SourceLocation `json:"locations"`
	Extra       map[string]any   `json:"extra,omitempty"`
}

// DescriptionShort is the one-line issue summary.
func (i Issue) DescriptionShort() string { return i.Description.Head }

// DescriptionLong joins head and tail into the full description.
func (i Issue) DescriptionLong() string {
	return strings.TrimSpace(i.Description.Head + " " + i.Description.Tail)
}

// Title returns the reported SWC title, falling back to the registry.
func (i Issue) Title() string {
	if i.SWCTitle != "" {
		return i.SWCTitle
	}
	return SWCTitle(i.SWCID)
}

type IssueReport struct {
	Issues       []Issue        `json:"issues"`
	SourceType   string         `json:"sourceType,omitempty"`
	SourceFormat string         `json:"sourceFormat,omitempty"`
	SourceList   []string       `json:"sourceList"`
	Meta         map[string]any `json:"meta,omitempty"`
}

// DetectedIssues is the issue report of one analysis. The API returns the
// report list only; UUID is attached by the client.
type DetectedIssues struct {
	UUID    string        `json:"uuid"`
	Reports []IssueReport `json:"issueReports"`
}

// Count returns the total number of issues over all reports.
func (d DetectedIssues) Count() int {
	n := 0
	for _, r := range d.Reports {
		n += len(r.Issues)
	}
	return n
}

// Contains reports whether an issue with the given SWC ID is present.
func (d DetectedIssues) Contains(swcID string) bool {
	for _, r := range d.Reports {
		for _, i := range r.Issues {
			if i.SWCID == swcID {
				return true
			}
		}
	}
	return false
}

// ReportItem pairs an issue report with the analysis input it was produced
// from. Input is nil when the formatter does not need source code.
type ReportItem struct {
	Issues DetectedIssues
	Input  *Job
}
