// Package vcs wraps go-git behind small interfaces so sources and services
// can be tested without a real repository.
package vcs

import (
	"errors"
	"io"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// ErrNotFound is returned when a path does not exist in a tree.
var ErrNotFound = errors.New("path not found in tree")

// Opener opens git repositories.
type Opener interface {
	// PlainOpenWithDetect opens the repository containing path, walking up
	// parent directories to find .git.
	PlainOpenWithDetect(path string) (Repository, error)
}

// Repository is a read-only view of a git repository.
type Repository interface {
	// RepoPath returns the repository worktree root.
	RepoPath() string

	// ResolveTree resolves a revision (branch, tag, or hash; empty means
	// HEAD) to its tree.
	ResolveTree(rev string) (Tree, error)
}

// Tree reads file content at a resolved revision.
type Tree interface {
	// File returns the content of the file at path.
	File(path string) ([]byte, error)

	// Paths returns every file path in the tree.
	Paths() ([]string, error)
}

// GitOpener opens repositories using go-git.
type GitOpener struct{}

// DefaultOpener returns the standard go-git backed opener.
func DefaultOpener() Opener {
	return &GitOpener{}
}

// PlainOpenWithDetect implements Opener.
func (o *GitOpener) PlainOpenWithDetect(path string) (Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, err
	}
	return &gitRepository{repo: repo}, nil
}

type gitRepository struct {
	repo *git.Repository
}

func (r *gitRepository) RepoPath() string {
	wt, err := r.repo.Worktree()
	if err != nil {
		return ""
	}
	return wt.Filesystem.Root()
}

func (r *gitRepository) ResolveTree(rev string) (Tree, error) {
	var hash plumbing.Hash
	if rev == "" {
		ref, err := r.repo.Head()
		if err != nil {
			return nil, err
		}
		hash = ref.Hash()
	} else {
		h, err := r.repo.ResolveRevision(plumbing.Revision(rev))
		if err != nil {
			return nil, err
		}
		hash = *h
	}

	commit, err := r.repo.CommitObject(hash)
	if err != nil {
		return nil, err
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, err
	}
	return &gitTree{tree: tree}, nil
}

type gitTree struct {
	tree *object.Tree
}

func (t *gitTree) File(path string) ([]byte, error) {
	f, err := t.tree.File(path)
	if err != nil {
		if errors.Is(err, object.ErrFileNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	rd, err := f.Reader()
	if err != nil {
		return nil, err
	}
	defer rd.Close()
	return io.ReadAll(rd)
}

func (t *gitTree) Paths() ([]string, error) {
	var paths []string
	err := t.tree.Files().ForEach(func(f *object.File) error {
		paths = append(paths, f.Name)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}
