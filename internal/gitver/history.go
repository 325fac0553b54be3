// Package gitver keeps every accepted revision of the settings document in
// a local git repository. Each mutation commits the full document, so any
// earlier state can be read back by hash without the main document ever
// carrying version metadata itself.
package gitver

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"gitlab.com/tozd/go/errors"
)

// documentName is the file tracked inside the history repository.
const documentName = "settings.json"

// ErrNoChanges reports that the document matches the latest revision, so
// there is nothing to record.
var ErrNoChanges = errors.New("document unchanged since last revision")

// errStopIteration stops commit iteration once enough entries are collected.
var errStopIteration = errors.New("stop iteration")

// History is a revision log backed by a plain git repository.
type History struct {
	repo *git.Repository
	dir  string
}

// Entry is one recorded revision of the document.
type Entry struct {
	Hash    string
	Message string
	When    time.Time
}

// Open opens the history repository at dir, initializing a fresh one on
// first use.
func Open(dir string) (*History, error) {
	repo, err := git.PlainOpen(dir)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Errorf("create history dir: %w", err)
		}
		repo, err = git.PlainInit(dir, false)
		if err != nil {
			return nil, errors.Errorf("init history at %s: %w", dir, err)
		}
		return &History{repo: repo, dir: dir}, nil
	}
	if err != nil {
		return nil, errors.Errorf("open history at %s: %w", dir, err)
	}
	return &History{repo: repo, dir: dir}, nil
}

// Record commits one revision of the document with the given message and
// returns the commit hash. If the document is byte-identical to the latest
// revision, Record returns ErrNoChanges and commits nothing.
func (h *History) Record(doc []byte, message string) (string, error) {
	if err := os.WriteFile(filepath.Join(h.dir, documentName), doc, 0o644); err != nil {
		return "", errors.Errorf("stage document revision: %w", err)
	}

	wt, err := h.repo.Worktree()
	if err != nil {
		return "", errors.Errorf("history worktree: %w", err)
	}
	if _, err := wt.Add(documentName); err != nil {
		return "", errors.Errorf("stage document revision: %w", err)
	}

	status, err := wt.Status()
	if err != nil {
		return "", errors.Errorf("history status: %w", err)
	}
	if status.IsClean() {
		return "", ErrNoChanges
	}

	hash, err := wt.Commit(message, &git.CommitOptions{
		Author: revisionAuthor(),
	})
	if err != nil {
		return "", errors.Errorf("commit revision: %w", err)
	}
	return hash.String(), nil
}

// Entries returns recorded revisions, newest first. A positive limit caps
// the result; zero or negative returns everything. An empty history yields
// no entries and no error.
func (h *History) Entries(limit int) ([]Entry, error) {
	head, err := h.repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Errorf("resolve history head: %w", err)
	}

	iter, err := h.repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return nil, errors.Errorf("history log: %w", err)
	}
	defer iter.Close()

	var out []Entry
	err = iter.ForEach(func(c *object.Commit) error {
		if limit > 0 && len(out) >= limit {
			return errStopIteration
		}
		out = append(out, Entry{
			Hash:    c.Hash.String(),
			Message: strings.TrimSpace(c.Message),
			When:    c.Author.When,
		})
		return nil
	})
	if err != nil && err != errStopIteration {
		return nil, errors.Errorf("iterate revisions: %w", err)
	}
	return out, nil
}

// Content returns the document as it was at the given revision. The hash
// may be abbreviated; anything git rev-parse would accept works.
func (h *History) Content(hash string) ([]byte, error) {
	rev, err := h.repo.ResolveRevision(plumbing.Revision(hash))
	if err != nil {
		return nil, errors.Errorf("resolve revision %q: %w", hash, err)
	}
	c, err := h.repo.CommitObject(*rev)
	if err != nil {
		return nil, errors.Errorf("revision %q: %w", hash, err)
	}
	f, err := c.File(documentName)
	if err != nil {
		return nil, errors.Errorf("document at revision %q: %w", hash, err)
	}
	contents, err := f.Contents()
	if err != nil {
		return nil, errors.Errorf("read revision %q: %w", hash, err)
	}
	return []byte(contents), nil
}

func revisionAuthor() *object.Signature {
	return &object.Signature{
		Name:  "scancfg",
		Email: "scancfg@localhost",
		When:  time.Now(),
	}
}
