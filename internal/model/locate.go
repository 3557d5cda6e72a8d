package model

import (
	"strings"

	"github.com/xab-mack/mythx-cli/internal/util"
)

// Position is an issue location resolved against the submitted sources.
type Position struct {
	File         string
	Offset       int
	Length       int
	SourceType   string
	SourceFormat string
	// Line is 1-based, 0 when the source text is not available.
	Line int
	// Code is the trimmed source line at Line.
	Code string
}

// Resolved reports whether the position maps to a source line.
func (p Position) Resolved() bool { return p.Line > 0 }

// Positions resolves the first source map entry of every location. Locations
// without their own source list use reportSources. input may be nil.
func (i Issue) Positions(reportSources []string, input *Job) []Position {
	return i.positions(reportSources, input, false)
}

// AllPositions is like Positions but resolves every source map entry of
// every location.
func (i Issue) AllPositions(reportSources []string, input *Job) []Position {
	return i.positions(reportSources, input, true)
}

func (i Issue) positions(reportSources []string, input *Job, all bool) []Position {
	var out []Position
	for _, loc := range i.Locations {
		comps := loc.SourceMap.Components()
		if len(comps) == 0 {
			continue
		}
		if !all {
			comps = comps[:1]
		}
		list := loc.SourceList
		if len(list) == 0 {
			list = reportSources
		}
		for _, c := range comps {
			out = append(out, resolve(loc, c, list, input))
		}
	}
	return out
}

func resolve(loc SourceLocation, c SourceMapComponent, list []string, input *Job) Position {
	p := Position{
		Offset:       c.Offset,
		Length:       c.Length,
		SourceType:   loc.SourceType,
		SourceFormat: loc.SourceFormat,
	}
	if c.FileID >= 0 && c.FileID < len(list) {
		p.File = list[c.FileID]
	}
	if input != nil && p.File != "" {
		if src := input.Sources[p.File].Source; src != "" {
			p.Line = util.LineByOffset(src, c.Offset)
			p.Code = strings.TrimSpace(util.Line(src, p.Line))
		}
	}
	return p
}

// IsText reports whether the position points into source text rather than
// bytecode.
func (p Position) IsText() bool {
	return p.SourceFormat == SourceFormatText || p.SourceType == SourceTypeSolidityFile
}
