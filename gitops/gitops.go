// Package gitops manages the git repository of an exported application.
package gitops

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	git "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
)

const (
	commitAuthorName  = "agent"
	commitAuthorEmail = "agent@localhost"
)

// InitRepo initializes a fresh git repository in dir and makes the initial
// commit. Any .git directory left over from the template is removed first.
func InitRepo(dir, appName string) error {
	if err := os.RemoveAll(filepath.Join(dir, ".git")); err != nil {
		return fmt.Errorf("failed to remove template git directory: %w", err)
	}

	repo, err := git.PlainInit(dir, false)
	if err != nil {
		return fmt.Errorf("failed to init git repository: %w", err)
	}

	if err := commitAll(repo, fmt.Sprintf("Initial commit: Generated %s", appName)); err != nil {
		return err
	}
	return nil
}

// Commit stages all changes in dir and commits them with the given message.
func Commit(dir, message string) error {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return fmt.Errorf("failed to open git repository: %w", err)
	}
	return commitAll(repo, message)
}

func commitAll(repo *git.Repository, message string) error {
	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}

	if err := worktree.AddGlob("."); err != nil {
		return fmt.Errorf("failed to stage files: %w", err)
	}

	_, err = worktree.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  commitAuthorName,
			Email: commitAuthorEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// Push adds the remote as origin and pushes with token credentials.
func Push(dir, remoteURL, token string) error {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return fmt.Errorf("failed to open git repository: %w", err)
	}

	_, err = repo.CreateRemote(&gitconfig.RemoteConfig{
		Name: "origin",
		URLs: []string{remoteURL},
	})
	if err != nil && err != git.ErrRemoteExists {
		return fmt.Errorf("failed to add remote: %w", err)
	}

	err = repo.Push(&git.PushOptions{
		RemoteName: "origin",
		Auth: &githttp.BasicAuth{
			Username: token,
		},
	})
	if err != nil && err != git.NoErrAlreadyUpToDate {
		return fmt.Errorf("failed to push: %w", err)
	}
	return nil
}
