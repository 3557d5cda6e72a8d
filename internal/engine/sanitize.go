package engine

import (
	"path/filepath"
	"strings"

	"github.com/xab-mack/mythx-cli/internal/model"
)

// commonPath returns the longest common directory of the given absolute
// paths, compared element-wise.
func commonPath(paths []string) string {
	if len(paths) == 0 {
		return ""
	}
	split := func(p string) []string {
		return strings.Split(filepath.ToSlash(filepath.Clean(p)), "/")
	}
	prefix := split(paths[0])
	for _, p := range paths[1:] {
		parts := split(p)
		n := 0
		for n < len(prefix) && n < len(parts) && prefix[n] == parts[n] {
			n++
		}
		prefix = prefix[:n]
	}
	joined := strings.Join(prefix, "/")
	if joined == "" && len(prefix) > 0 {
		return "/"
	}
	return filepath.FromSlash(joined)
}

// SanitizePaths strips the common directory prefix from every path the job
// would disclose to the API. The job is modified in place and returned.
func SanitizePaths(job *model.Job, cwd string) *model.Job {
	if len(job.SourceList) == 0 {
		return job
	}
	abs := make([]string, len(job.SourceList))
	for i, p := range job.SourceList {
		if filepath.IsAbs(p) {
			abs[i] = filepath.Clean(p)
		} else {
			abs[i] = filepath.Join(cwd, p)
		}
	}
	var prefix string
	if len(abs) > 1 {
		prefix = commonPath(abs)
	} else {
		prefix = commonPath([]string{abs[0], cwd})
	}
	prefix = strings.TrimSuffix(prefix, string(filepath.Separator)) + string(filepath.Separator)

	trim := func(p string) string {
		if filepath.IsAbs(p) {
			return strings.TrimPrefix(p, prefix)
		}
		if abs := filepath.Join(cwd, p); strings.HasPrefix(abs, prefix) {
			return strings.TrimPrefix(abs, prefix)
		}
		return p
	}
	list := make([]string, len(abs))
	for i := range abs {
		list[i] = strings.TrimPrefix(abs[i], prefix)
	}
	job.SourceList = list
	if job.MainSource != "" {
		job.MainSource = trim(job.MainSource)
	}
	if len(job.Sources) > 0 {
		sources := make(map[string]model.SourceEntry, len(job.Sources))
		for name, entry := range job.Sources {
			trimAST(entry.AST, trim)
			trimAST(entry.LegacyAST, trim)
			sources[trim(name)] = entry
		}
		job.Sources = sources
	}
	return job
}

func trimAST(ast map[string]any, trim func(string) string) {
	if ast == nil {
		return
	}
	if p, ok := ast["absolutePath"].(string); ok {
		ast["absolutePath"] = trim(p)
	}
}
