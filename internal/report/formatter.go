// Package report renders API responses for the terminal and for CI tooling.
package report

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/xab-mack/mythx-cli/internal/model"
)

const dashboardURL = "https://dashboard.mythx.io/#/console/analyses/"

// DashboardLink returns the web dashboard URL of an analysis.
func DashboardLink(uuid string) string { return dashboardURL + uuid }

// Formatter renders every kind of API response.
type Formatter interface {
	// RequiresInput reports whether issue reports need the analysis input
	// to resolve source lines.
	RequiresInput() bool
	FormatAnalysisList(*model.AnalysisList) (string, error)
	FormatAnalysisStatus(*model.Analysis) (string, error)
	FormatGroupList(*model.GroupList) (string, error)
	FormatGroupStatus(*model.Group) (string, error)
	FormatDetectedIssues([]model.ReportItem) (string, error)
	FormatVersion(*model.Version) (string, error)
}

var formatters = map[string]Formatter{
	"simple":      SimpleFormatter{},
	"table":       TableFormatter{},
	"json":        JSONFormatter{},
	"json-pretty": JSONFormatter{Pretty: true},
	"sonar":       SonarFormatter{},
	"sarif":       SARIFFormatter{},
}

// Default is the formatter used when none is configured.
const Default = "table"

// Get looks up a formatter by name.
func Get(name string) (Formatter, error) {
	if name == "" {
		name = Default
	}
	f, ok := formatters[strings.ToLower(name)]
	if !ok {
		return nil, model.Usagef("Unknown format %q, choose one of: %s", name, strings.Join(Names(), ", "))
	}
	return f, nil
}

// Names lists the registered formatter names.
func Names() []string {
	out := make([]string, 0, len(formatters))
	for n := range formatters {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Emit appends content to the file at path, or writes it to w when path is
// empty.
func Emit(w io.Writer, path, content string) error {
	if path == "" {
		_, err := fmt.Fprintln(w, content)
		return err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(f, content); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
