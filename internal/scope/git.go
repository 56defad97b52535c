package scope

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/merkletrie"

	"github.com/clonegate/clonegate/pkg/config"
)

// GitProvider resolves scopes against a git repository.
type GitProvider struct {
	repo   *git.Repository
	filter *Filter
}

// NewGitProvider opens the repository containing dir, detecting .git in
// parent directories.
func NewGitProvider(dir string, cfg *config.Config) (*GitProvider, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository: %w", err)
	}
	return &GitProvider{repo: repo, filter: NewFilter(cfg)}, nil
}

// Files implements Provider.
func (g *GitProvider) Files(ctx context.Context, scope Scope) ([]File, error) {
	var (
		files []File
		err   error
	)
	switch scope {
	case ScopeCommit:
		files, err = g.stagedFiles()
	case ScopePush:
		files, err = g.pushFiles(ctx)
	case ScopeCI:
		files, err = g.treeFiles()
	default:
		return nil, fmt.Errorf("unknown scope %q", scope)
	}
	if err != nil {
		return nil, err
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// stagedFiles returns the files staged in the index, with their staged
// content rather than the worktree content.
func (g *GitProvider) stagedFiles() ([]File, error) {
	wt, err := g.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("opening worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("reading status: %w", err)
	}

	idx, err := g.repo.Storer.Index()
	if err != nil {
		return nil, fmt.Errorf("reading index: %w", err)
	}

	var files []File
	for path, st := range status {
		switch st.Staging {
		case git.Added, git.Modified, git.Renamed, git.Copied:
		default:
			continue
		}
		entry, err := idx.Entry(path)
		if err != nil {
			continue
		}
		content, err := g.blobContent(entry.Hash)
		if err != nil {
			continue
		}
		if f, ok := g.admit(path, content); ok {
			files = append(files, f)
		}
	}
	return files, nil
}

// pushFiles returns files changed relative to the upstream branch.
// Without an upstream it compares against the parent commit; a root
// commit widens to the full tree.
func (g *GitProvider) pushFiles(ctx context.Context) ([]File, error) {
	headRef, err := g.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolving HEAD: %w", err)
	}
	head, err := g.repo.CommitObject(headRef.Hash())
	if err != nil {
		return nil, err
	}

	base, ok := g.pushBase(headRef, head)
	if !ok {
		return g.treeFiles()
	}

	baseTree, err := base.Tree()
	if err != nil {
		return nil, err
	}
	headTree, err := head.Tree()
	if err != nil {
		return nil, err
	}
	changes, err := object.DiffTreeWithOptions(ctx, baseTree, headTree, object.DefaultDiffTreeOptions)
	if err != nil {
		return nil, fmt.Errorf("diffing against base: %w", err)
	}

	var files []File
	for _, ch := range changes {
		action, err := ch.Action()
		if err != nil || action == merkletrie.Delete {
			continue
		}
		f, err := headTree.File(ch.To.Name)
		if err != nil {
			continue
		}
		content, err := fileContent(f)
		if err != nil {
			continue
		}
		if out, ok := g.admit(ch.To.Name, content); ok {
			files = append(files, out)
		}
	}
	return files, nil
}

// pushBase picks the commit to diff against: the remote tracking ref
// when one exists, otherwise the first parent.
func (g *GitProvider) pushBase(headRef *plumbing.Reference, head *object.Commit) (*object.Commit, bool) {
	if headRef.Name().IsBranch() {
		remoteName := plumbing.NewRemoteReferenceName("origin", headRef.Name().Short())
		if ref, err := g.repo.Reference(remoteName, true); err == nil {
			if c, err := g.repo.CommitObject(ref.Hash()); err == nil {
				return c, true
			}
		}
	}
	if parent, err := head.Parent(0); err == nil {
		return parent, true
	}
	return nil, false
}

// treeFiles walks the full HEAD tree.
func (g *GitProvider) treeFiles() ([]File, error) {
	headRef, err := g.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolving HEAD: %w", err)
	}
	commit, err := g.repo.CommitObject(headRef.Hash())
	if err != nil {
		return nil, err
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, err
	}

	var files []File
	err = tree.Files().ForEach(func(f *object.File) error {
		content, err := fileContent(f)
		if err != nil {
			return nil
		}
		if out, ok := g.admit(f.Name, content); ok {
			files = append(files, out)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (g *GitProvider) admit(path string, content []byte) (File, bool) {
	l, ok := g.filter.Admit(path, content)
	if !ok {
		return File{}, false
	}
	return File{Path: path, Language: l, Content: content}, true
}

func (g *GitProvider) blobContent(hash plumbing.Hash) ([]byte, error) {
	blob, err := g.repo.BlobObject(hash)
	if err != nil {
		return nil, err
	}
	r, err := blob.Reader()
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

func fileContent(f *object.File) ([]byte, error) {
	r, err := f.Reader()
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
