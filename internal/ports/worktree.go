package ports

// WorktreePort inspects version control state of a directory.
type WorktreePort interface {
	// HasUncommittedChanges reports whether path lies in a repository
	// worktree with uncommitted changes. isRepo is false outside a
	// repository.
	HasUncommittedChanges(path string) (dirty bool, isRepo bool, err error)

	// HeadCommit returns the hash HEAD points at.
	HeadCommit(path string) (string, error)
}
