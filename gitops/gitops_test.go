package gitops

import (
	"os"
	"path/filepath"
	"testing"

	git "github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
)

func writeApp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	assert.NoError(t, os.MkdirAll(filepath.Join(dir, "backend"), 0755))
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "backend", "pom.xml"), []byte("<project/>"), 0644))
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# app"), 0644))
	return dir
}

func TestInitRepo(t *testing.T) {
	dir := writeApp(t)

	err := InitRepo(dir, "task-tracker")
	assert.NoError(t, err)

	repo, err := git.PlainOpen(dir)
	assert.NoError(t, err)

	head, err := repo.Head()
	assert.NoError(t, err)

	commit, err := repo.CommitObject(head.Hash())
	assert.NoError(t, err)
	assert.Equal(t, "Initial commit: Generated task-tracker", commit.Message)
	assert.Equal(t, "agent", commit.Author.Name)
}

func TestInitRepoReplacesExistingHistory(t *testing.T) {
	dir := writeApp(t)
	assert.NoError(t, InitRepo(dir, "first"))
	assert.NoError(t, InitRepo(dir, "second"))

	repo, err := git.PlainOpen(dir)
	assert.NoError(t, err)

	head, err := repo.Head()
	assert.NoError(t, err)

	commit, err := repo.CommitObject(head.Hash())
	assert.NoError(t, err)
	assert.Equal(t, "Initial commit: Generated second", commit.Message)
}

func TestCommit(t *testing.T) {
	dir := writeApp(t)
	assert.NoError(t, InitRepo(dir, "task-tracker"))

	assert.NoError(t, os.WriteFile(filepath.Join(dir, "new.txt"), []byte("x"), 0644))
	assert.NoError(t, Commit(dir, "Add new file"))

	repo, err := git.PlainOpen(dir)
	assert.NoError(t, err)
	head, err := repo.Head()
	assert.NoError(t, err)
	commit, err := repo.CommitObject(head.Hash())
	assert.NoError(t, err)
	assert.Equal(t, "Add new file", commit.Message)
}

func TestCommitWithoutRepo(t *testing.T) {
	err := Commit(t.TempDir(), "nope")
	assert.Error(t, err)
}
