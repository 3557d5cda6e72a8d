package solidity

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// IgnoreFile lists gitignore-style patterns of files a directory walk
// skips. It is read from the walked directory.
const IgnoreFile = ".mythxignore"

type ignoreMatcher struct {
	m gitignore.Matcher
}

func loadIgnore(dir string) ignoreMatcher {
	data, err := os.ReadFile(filepath.Join(dir, IgnoreFile))
	if err != nil {
		return ignoreMatcher{}
	}
	var ps []gitignore.Pattern
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ps = append(ps, gitignore.ParsePattern(line, nil))
	}
	return ignoreMatcher{m: gitignore.NewMatcher(ps)}
}

// match reports whether rel, a slash separated path relative to the walk
// root, is ignored.
func (i ignoreMatcher) match(rel string, isDir bool) bool {
	if i.m == nil || rel == "." {
		return false
	}
	return i.m.Match(strings.Split(filepath.ToSlash(rel), "/"), isDir)
}
