// Package assets owns uploaded file placement under the shared upload
// directory: rename-on-ingest to SEO-friendly names and delete on
// replace/entity delete. Nothing here is transactional with the database
// write that follows; the entity record is the source of truth.
package assets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/craftbond/sitecms/pkg/common"
)

// Upload is a file staged by the transport layer. The store takes ownership
// of the file at TempPath.
type Upload struct {
	TempPath     string
	OriginalName string
	Field        string
}

// CleanupResult reports best-effort deletions. It is deliberately a value the
// caller may discard: non-critical cleanup failures never abort an entity
// mutation. Critical placement failures are ordinary errors instead.
type CleanupResult struct {
	Failed []string
}

// Ok reports whether every requested deletion succeeded or was a no-op.
func (r CleanupResult) Ok() bool {
	return len(r.Failed) == 0
}

func (r CleanupResult) merge(other CleanupResult) CleanupResult {
	r.Failed = append(r.Failed, other.Failed...)
	return r
}

type Store struct {
	root string
}

// NewStore creates the upload root if needed.
func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errors.Wrap(err, "create upload dir")
	}
	return &Store{root: root}, nil
}

// Root returns the upload root directory.
func (s *Store) Root() string {
	return s.root
}

// Path returns the on-disk path for a stored filename.
func (s *Store) Path(name string) string {
	return filepath.Join(s.root, filepath.Base(name))
}

// Exists reports whether a stored file is present.
func (s *Store) Exists(name string) bool {
	return common.FileExists(s.Path(name))
}

// Ingest moves a staged upload to its final name base+ext, where ext comes
// from the original filename. A file already at that name is removed first;
// last write wins.
func (s *Store) Ingest(u Upload, base string) (string, error) {
	final := s.finalName(u, base, "")
	dst := s.Path(final)
	if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
		return "", errors.Wrapf(err, "replace %s", final)
	}
	if err := moveFile(u.TempPath, dst); err != nil {
		return "", errors.Wrapf(err, "place %s", final)
	}
	return final, nil
}

// IngestMany ingests each upload under base. With more than one file an index
// suffix -1, -2, ... keeps the names distinct, in input order. taken lists
// names the entity already references: the index continues past the highest
// suffix found there, so appended files never overwrite referenced ones. On
// failure the files already placed in this batch are removed before returning.
func (s *Store) IngestMany(uploads []Upload, base string, taken []string) ([]string, error) {
	names := make([]string, 0, len(uploads))
	next := nextSuffixIndex(taken, base)
	for _, u := range uploads {
		var final string
		if len(taken) == 0 && len(uploads) == 1 {
			final = s.finalName(u, base, "")
		} else {
			final = s.finalName(u, base, fmt.Sprintf("-%d", next))
			for nameTaken(taken, final) || nameTaken(names, final) {
				next++
				final = s.finalName(u, base, fmt.Sprintf("-%d", next))
			}
			next++
		}
		dst := s.Path(final)
		if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
			s.RemoveAll(names)
			return nil, errors.Wrapf(err, "replace %s", final)
		}
		if err := moveFile(u.TempPath, dst); err != nil {
			s.RemoveAll(names)
			return nil, errors.Wrapf(err, "place %s", final)
		}
		names = append(names, final)
	}
	return names, nil
}

// nextSuffixIndex returns the first index suffix not used by any taken name
// for the given base. An unsuffixed "base.ext" counts as index zero.
func nextSuffixIndex(taken []string, base string) int {
	next := 1
	for _, name := range taken {
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		if stem == base {
			continue
		}
		rest, found := strings.CutPrefix(stem, base+"-")
		if !found {
			continue
		}
		n := 0
		for _, r := range rest {
			if r < '0' || r > '9' {
				n = -1
				break
			}
			n = n*10 + int(r-'0')
		}
		if n >= next {
			next = n + 1
		}
	}
	return next
}

func nameTaken(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// Remove deletes a stored file. Absence is not an error, and failures are
// logged and reported through the result rather than raised: a stray file is
// a recoverable leak, not a correctness violation.
func (s *Store) Remove(name string) CleanupResult {
	if name == "" {
		return CleanupResult{}
	}
	err := os.Remove(s.Path(name))
	if err != nil && !os.IsNotExist(err) {
		zap.L().Warn("failed to delete stored file",
			zap.String("name", name),
			zap.Error(err))
		return CleanupResult{Failed: []string{name}}
	}
	return CleanupResult{}
}

// RemoveAll deletes each named file best-effort.
func (s *Store) RemoveAll(names []string) CleanupResult {
	var result CleanupResult
	for _, name := range names {
		result = result.merge(s.Remove(name))
	}
	return result
}

// finalName computes base+suffix+ext. An empty base falls back to the
// slugified original filename, which is how single-image entities without a
// slug of their own are named.
func (s *Store) finalName(u Upload, base, suffix string) string {
	ext := strings.ToLower(filepath.Ext(u.OriginalName))
	if base == "" {
		base = common.Slugify(strings.TrimSuffix(filepath.Base(u.OriginalName), filepath.Ext(u.OriginalName)))
	}
	if base == "" {
		base = "file"
	}
	return base + suffix + ext
}

// moveFile renames, falling back to copy+remove across filesystems (the
// staging dir may be on a different mount than the upload root).
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}
