// Package git reads checkpoint history from a local git repository.
// It uses go-git, so no git binary is required at runtime.
package git

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/mvollmer/lanegraph/pkg/checkpoint"
)

// Source reads commits and branch heads from one repository.
type Source struct {
	repo *gitlib.Repository
	path string
}

// Open opens the repository at or above path (the .git directory is
// detected the way the git CLI does).
func Open(path string) (*Source, error) {
	repo, err := gitlib.PlainOpenWithOptions(path, &gitlib.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repository %s: %w", path, err)
	}
	return &Source{repo: repo, path: path}, nil
}

// Path returns the path the source was opened with.
func (s *Source) Path() string { return s.path }

// ListCommits walks history from HEAD in committer-time order, newest
// first. A limit of zero or less means no limit.
func (s *Source) ListCommits(ctx context.Context, limit int) ([]checkpoint.Record, error) {
	head, err := s.repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		// Repository without commits yet.
		return []checkpoint.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve HEAD: %w", err)
	}

	iter, err := s.repo.Log(&gitlib.LogOptions{From: head.Hash(), Order: gitlib.LogOrderCommitterTime})
	if err != nil {
		return nil, fmt.Errorf("read commits: %w", err)
	}
	defer iter.Close()

	records := []checkpoint.Record{}
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if limit > 0 && len(records) >= limit {
			return storer.ErrStop
		}
		parents := make([]string, 0, len(c.ParentHashes))
		for _, p := range c.ParentHashes {
			parents = append(parents, p.String())
		}
		records = append(records, checkpoint.Record{
			Hash:        c.Hash.String(),
			Parents:     parents,
			Description: summary(c.Message),
			Author:      c.Author.Name,
			Timestamp:   c.Committer.When.UTC(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterate commits: %w", err)
	}
	return records, nil
}

// BranchHeads lists local branches sorted by name.
func (s *Source) BranchHeads(ctx context.Context) ([]checkpoint.BranchHead, error) {
	iter, err := s.repo.Branches()
	if err != nil {
		return nil, fmt.Errorf("read branches: %w", err)
	}
	defer iter.Close()

	heads := []checkpoint.BranchHead{}
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		heads = append(heads, checkpoint.BranchHead{
			Name: ref.Name().Short(),
			Hash: ref.Hash().String(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterate branches: %w", err)
	}
	sort.Slice(heads, func(i, j int) bool { return heads[i].Name < heads[j].Name })
	return heads, nil
}

// CurrentRef returns the checked-out branch name, or the bare commit
// hash when HEAD is detached, or "" for a repository without commits.
func (s *Source) CurrentRef(ctx context.Context) (string, error) {
	head, err := s.repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}
	if head.Name().IsBranch() {
		return head.Name().Short(), nil
	}
	return head.Hash().String(), nil
}

// summary returns the first line of a commit message.
func summary(message string) string {
	if i := strings.IndexByte(message, '\n'); i >= 0 {
		return strings.TrimSpace(message[:i])
	}
	return strings.TrimSpace(message)
}
