package writer

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"

	apkgerr "github.com/packlens/apkg/errors"
)

// Policy selects how the writer treats existing output.
type Policy int

const (
	// Keep never replaces a file already on disk.
	Keep Policy = iota
	// ClearThenWrite removes the output root before the first write.
	ClearThenWrite
	// OverwriteMerge writes over whatever is there.
	OverwriteMerge
)

func (p Policy) String() string {
	switch p {
	case ClearThenWrite:
		return "clear"
	case OverwriteMerge:
		return "overwrite"
	default:
		return "keep"
	}
}

// ParsePolicy maps a flag/config value to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(s) {
	case "keep", "":
		return Keep, nil
	case "clear":
		return ClearThenWrite, nil
	case "overwrite", "merge":
		return OverwriteMerge, nil
	default:
		return Keep, apkgerr.InvalidInput(apkgerr.PhaseWrite, "unknown overwrite policy "+s)
	}
}

// TreeWriter materializes recovered entries under one output root. It keeps
// an index of content hashes for every path written during the run: the same
// relative path may be written twice with identical bytes (shared assets
// recur across subpackages), but two packages disagreeing on the bytes for
// one path is a broken invariant and fails the whole run.
//
// The policy is decided once, before any package is processed, by the
// caller; the writer only executes it and never prompts.
type TreeWriter struct {
	root    string
	policy  Policy
	index   map[string][sha256.Size]byte
	cleared bool
}

// New creates a TreeWriter rooted at root with the given policy.
func New(root string, policy Policy) *TreeWriter {
	return &TreeWriter{
		root:   root,
		policy: policy,
		index:  map[string][sha256.Size]byte{},
	}
}

// Root returns the output root directory.
func (w *TreeWriter) Root() string {
	return w.root
}

// Written returns the number of distinct relative paths written this run.
func (w *TreeWriter) Written() int {
	return len(w.index)
}

// Write writes data at the relative path under the output root, creating
// intermediate directories as needed.
func (w *TreeWriter) Write(relPath string, data []byte) error {
	rel, err := w.confine(relPath)
	if err != nil {
		return err
	}

	sum := sha256.Sum256(data)
	if prev, ok := w.index[rel]; ok {
		if prev == sum {
			// Duplicate identical content, common for shared assets.
			return nil
		}
		return apkgerr.Collision(rel,
			hex.EncodeToString(prev[:8]), hex.EncodeToString(sum[:8]))
	}

	if w.policy == ClearThenWrite && !w.cleared {
		if err := os.RemoveAll(w.root); err != nil {
			return apkgerr.Wrap(apkgerr.PhaseWrite, apkgerr.KindInvalidInput, err, "clear output root")
		}
		w.cleared = true
	}

	target := filepath.Join(w.root, filepath.FromSlash(rel))
	if w.policy == Keep {
		if _, err := os.Stat(target); err == nil {
			w.index[rel] = sum
			return nil
		}
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return apkgerr.Wrap(apkgerr.PhaseWrite, apkgerr.KindInvalidInput, err, "create directories")
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return apkgerr.New(apkgerr.PhaseWrite, apkgerr.KindInvalidInput).
			Entry(rel).Cause(err).Detail("write file").Build()
	}
	w.index[rel] = sum
	return nil
}

// confine cleans a relative path and rejects anything that would escape the
// output root. Container entries are untrusted input.
func (w *TreeWriter) confine(relPath string) (string, error) {
	rel := strings.TrimPrefix(strings.ReplaceAll(relPath, "\\", "/"), "/")
	rel = filepath.ToSlash(filepath.Clean(rel))
	if rel == "." || rel == "" || rel == ".." || strings.HasPrefix(rel, "../") {
		return "", apkgerr.New(apkgerr.PhaseWrite, apkgerr.KindInvalidInput).
			Entry(relPath).Detail("path escapes output root").Build()
	}
	return rel, nil
}
