package adapters

import (
	"errors"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/go-git/go-git/v5"

	"project-upgrader/internal/ports"
)

// GitWorktreeAdapter reads repository state with go-git. path may be any
// directory inside the worktree.
type GitWorktreeAdapter struct{}

func NewGitWorktreeAdapter() GitWorktreeAdapter {
	return GitWorktreeAdapter{}
}

func (a GitWorktreeAdapter) HasUncommittedChanges(path string) (bool, bool, error) {
	repo, err := openRepository(path)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return false, false, nil
	}
	if err != nil {
		return false, false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to open git repository").
			WithCause(err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		// Bare repositories have no worktree to protect.
		return false, true, nil
	}
	status, err := worktree.Status()
	if err != nil {
		return false, true, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read git status").
			WithCause(err)
	}
	return !status.IsClean(), true, nil
}

func (a GitWorktreeAdapter) HeadCommit(path string) (string, error) {
	repo, err := openRepository(path)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to open git repository").
			WithCause(err)
	}
	head, err := repo.Head()
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to resolve HEAD").
			WithCause(err)
	}
	return head.Hash().String(), nil
}

func openRepository(path string) (*git.Repository, error) {
	return git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
}

var _ ports.WorktreePort = GitWorktreeAdapter{}
