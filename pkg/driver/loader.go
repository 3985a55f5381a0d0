package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Source is program text and where it came from.
type Source struct {
	Path string
	Text string
	// Commit is the resolved commit hash when the text was read from git.
	Commit string
}

// Name is the label used in rendered diagnostics.
func (s *Source) Name() string {
	if s.Commit == "" {
		return s.Path
	}
	short := s.Commit
	if len(short) > 7 {
		short = short[:7]
	}
	return fmt.Sprintf("%s@%s", s.Path, short)
}

// LoadFile reads source text from disk.
func LoadFile(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return &Source{Path: path, Text: string(data)}, nil
}

// LoadRevision reads path as it was committed at rev in the git repository
// that contains it. rev is anything git rev-parse understands that go-git
// supports: a hash, a branch, a tag, HEAD~1 and so on.
func LoadRevision(path, rev string) (*Source, error) {
	rev = strings.TrimSpace(rev)
	if rev == "" {
		return nil, fmt.Errorf("load %s: empty revision", path)
	}
	absPath, err := canonicalPath(path)
	if err != nil {
		return nil, err
	}

	repo, err := git.PlainOpenWithOptions(filepath.Dir(absPath), &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open git repository for %s: %w", path, err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("git worktree for %s: %w", path, err)
	}
	root, err := canonicalPath(worktree.Filesystem.Root())
	if err != nil {
		return nil, err
	}
	rel, err := filepath.Rel(root, absPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, fmt.Errorf("%s is outside the repository at %s", path, root)
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("resolve revision %s: %w", rev, err)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("load commit %s: %w", hash, err)
	}
	file, err := commit.File(filepath.ToSlash(rel))
	if err != nil {
		return nil, fmt.Errorf("read %s at %s: %w", rel, rev, err)
	}
	contents, err := file.Contents()
	if err != nil {
		return nil, fmt.Errorf("read %s at %s: %w", rel, rev, err)
	}
	return &Source{Path: path, Text: contents, Commit: hash.String()}, nil
}

// LoadManifestSource reads the manifest's main file, from git when the
// manifest pins a revision.
func LoadManifestSource(m *Manifest) (*Source, error) {
	if m.Source.Pinned() {
		return LoadRevision(m.MainPath(), m.Source.Revision())
	}
	return LoadFile(m.MainPath())
}

func canonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		// The file may only exist in history; resolve its directory instead.
		dir, dirErr := filepath.EvalSymlinks(filepath.Dir(abs))
		if dirErr != nil {
			return abs, nil
		}
		return filepath.Join(dir, filepath.Base(abs)), nil
	}
	return resolved, nil
}
