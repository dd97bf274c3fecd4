// Package gitstate inspects the repository enclosing a directory using
// go-git, without shelling out.
package gitstate

import (
	"errors"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

var errStop = errors.New("stop")

// logLimit bounds the history walk behind the ahead/behind counts so a
// huge repo cannot stall the render.
const logLimit = 1000

// Status describes the repository enclosing a working directory. The
// zero value means "not inside a repository".
type Status struct {
	InRepo    bool
	Branch    string // empty when HEAD is detached
	ShortHash string // abbreviated commit, set only when detached
	Ahead     int
	Behind    int
	Staged    int
	Unstaged  int
	Untracked int
}

// Detect inspects the repository enclosing dir. Any failure, from "not
// a repository" to corrupted metadata, yields the zero Status: git
// trouble must never take down the render.
func Detect(dir string) Status {
	if dir == "" {
		return Status{}
	}

	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return Status{}
	}

	head, err := repo.Head()
	if err != nil {
		return Status{}
	}

	st := Status{InRepo: true}
	if head.Name().IsBranch() {
		st.Branch = head.Name().Short()
		st.Ahead, st.Behind = aheadBehind(repo, head)
	} else {
		st.ShortHash = head.Hash().String()[:7]
	}

	if wt, err := repo.Worktree(); err == nil {
		if status, err := wt.Status(); err == nil {
			countEntries(status, &st)
		}
	}
	return st
}

// countEntries buckets every status entry. Staging and worktree flags
// are independent, so a file modified in both places counts in both
// Staged and Unstaged.
func countEntries(status git.Status, st *Status) {
	for _, fs := range status {
		if fs.Staging == git.Untracked {
			st.Untracked++
			continue
		}
		if fs.Staging != git.Unmodified {
			st.Staged++
		}
		if fs.Worktree != git.Unmodified && fs.Worktree != git.Untracked {
			st.Unstaged++
		}
	}
}

func aheadBehind(repo *git.Repository, head *plumbing.Reference) (int, int) {
	cfg, err := repo.Config()
	if err != nil {
		return 0, 0
	}
	branchCfg, ok := cfg.Branches[head.Name().Short()]
	if !ok || branchCfg.Remote == "" {
		return 0, 0
	}

	upstreamRef := plumbing.NewRemoteReferenceName(branchCfg.Remote, branchCfg.Merge.Short())
	upstream, err := repo.Reference(upstreamRef, true)
	if err != nil {
		return 0, 0
	}
	if head.Hash() == upstream.Hash() {
		return 0, 0
	}

	upstreamSet := commitSet(repo, upstream.Hash())
	headSet := commitSet(repo, head.Hash())

	ahead := countMissing(repo, head.Hash(), upstreamSet)
	behind := countMissing(repo, upstream.Hash(), headSet)
	return ahead, behind
}

// commitSet walks history from a commit and returns the hashes seen,
// capped at logLimit.
func commitSet(repo *git.Repository, from plumbing.Hash) map[plumbing.Hash]bool {
	set := make(map[plumbing.Hash]bool)
	iter, err := repo.Log(&git.LogOptions{From: from})
	if err != nil {
		return set
	}
	_ = iter.ForEach(func(c *object.Commit) error {
		set[c.Hash] = true
		if len(set) >= logLimit {
			return errStop
		}
		return nil
	})
	return set
}

// countMissing counts commits reachable from a tip that are absent from
// the other side's set, capped at logLimit.
func countMissing(repo *git.Repository, from plumbing.Hash, other map[plumbing.Hash]bool) int {
	iter, err := repo.Log(&git.LogOptions{From: from})
	if err != nil {
		return 0
	}
	missing, seen := 0, 0
	_ = iter.ForEach(func(c *object.Commit) error {
		seen++
		if seen > logLimit {
			return errStop
		}
		if !other[c.Hash] {
			missing++
		}
		return nil
	})
	return missing
}
