// Package gitmeta derives analysis metadata from the enclosing git
// repository.
package gitmeta

import (
	"errors"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// ErrNoRepository is returned when dir is not inside a git work tree.
var ErrNoRepository = errors.New("not a git repository")

// Info describes the checked out state of a repository.
type Info struct {
	Root   string
	Branch string
	Commit string
}

// Inspect opens the repository containing dir.
func Inspect(dir string) (Info, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return Info{}, ErrNoRepository
	}
	if err != nil {
		return Info{}, err
	}
	info := Info{}
	if wt, err := repo.Worktree(); err == nil {
		info.Root = wt.Filesystem.Root()
	}
	head, err := repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		// fresh repository without commits
		return info, nil
	}
	if err != nil {
		return info, err
	}
	info.Commit = head.Hash().String()
	if head.Name().IsBranch() {
		info.Branch = head.Name().Short()
	}
	return info, nil
}

// GroupName is the default analysis group name: "<repo>@<branch>", with
// the short commit hash standing in for a detached HEAD.
func (i Info) GroupName() string {
	name := filepath.Base(i.Root)
	if i.Root == "" {
		name = "mythx"
	}
	switch {
	case i.Branch != "":
		return name + "@" + i.Branch
	case len(i.Commit) >= 7:
		return name + "@" + i.Commit[:7]
	}
	return name
}

// DefaultGroupName inspects dir and returns its group name.
func DefaultGroupName(dir string) (string, error) {
	info, err := Inspect(dir)
	if err != nil {
		return "", err
	}
	return info.GroupName(), nil
}
