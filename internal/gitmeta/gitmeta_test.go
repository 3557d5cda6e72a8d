package gitmeta

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commitRepo(t *testing.T) (string, *git.Repository) {
	t.Helper()
	root := filepath.Join(t.TempDir(), "token-sale")
	repo, err := git.PlainInit(root, false)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(root, "A.sol"), []byte("contract A {}"), 0o644))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("A.sol")
	require.NoError(t, err)
	_, err = wt.Commit("init", &git.CommitOptions{Author: &object.Signature{Name: "t", Email: "t@example.com", When: time.Now()}})
	require.NoError(t, err)
	return root, repo
}

func TestDefaultGroupNameOnBranch(t *testing.T) {
	root, _ := commitRepo(t)
	sub := filepath.Join(root, "contracts")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	name, err := DefaultGroupName(sub)
	require.NoError(t, err)
	assert.Equal(t, "token-sale@master", name)
}

func TestDefaultGroupNameDetached(t *testing.T) {
	root, repo := commitRepo(t)
	head, err := repo.Head()
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, wt.Checkout(&git.CheckoutOptions{Hash: head.Hash()}))

	info, err := Inspect(root)
	require.NoError(t, err)
	assert.Empty(t, info.Branch)
	assert.Equal(t, "token-sale@"+head.Hash().String()[:7], info.GroupName())
}

func TestEmptyRepository(t *testing.T) {
	root := filepath.Join(t.TempDir(), "fresh")
	_, err := git.PlainInit(root, false)
	require.NoError(t, err)
	info, err := Inspect(root)
	require.NoError(t, err)
	assert.Equal(t, "fresh", info.GroupName())
	assert.Empty(t, info.Commit)
}

func TestNotARepository(t *testing.T) {
	_, err := DefaultGroupName(t.TempDir())
	assert.ErrorIs(t, err, ErrNoRepository)
}
