package gitlib

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
)

// DotGit is the slice of repository state runway cares about: enough to derive
// a default image tag and to refuse tagging a dirty tree with a sha.
type DotGit struct {
	Root   string
	Branch string
	Sha    string
	Dirty  bool
}

// FromPath walks upward from path until it finds a .git directory.
func FromPath(path string) (DotGit, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return DotGit{}, err
	}

	for {
		if _, err := os.Stat(filepath.Join(abs, ".git")); err == nil {
			repo, err := git.PlainOpen(abs)
			if err != nil {
				return DotGit{}, err
			}

			return describe(abs, repo)
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return DotGit{}, fmt.Errorf("%s does not appear to be inside a git repository", path)
		}
		abs = parent
	}
}

func describe(root string, repo *git.Repository) (DotGit, error) {
	head, err := repo.Head()
	if err != nil {
		return DotGit{}, err
	}

	wt, err := repo.Worktree()
	if err != nil {
		return DotGit{}, err
	}

	status, err := wt.Status()
	if err != nil {
		return DotGit{}, err
	}

	return DotGit{
		Root:   root,
		Branch: head.Name().Short(),
		Sha:    head.Hash().String(),
		Dirty:  !status.IsClean(),
	}, nil
}
