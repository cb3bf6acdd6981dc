// Package storage keeps uploaded files on the local disk.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/oklog/ulid/v2"

	storageopts "github.com/kart-io/docvault/pkg/options/storage"
)

// ErrTooLarge is returned by Save when the content exceeds the upload limit.
var ErrTooLarge = errors.New("file exceeds the maximum upload size")

// Storage stores uploaded files.
type Storage interface {
	// Save writes r under a unique name derived from filename and returns
	// the stored path.
	Save(ctx context.Context, r io.Reader, filename string) (string, error)
	// Delete removes the file. A missing file is not an error.
	Delete(ctx context.Context, path string) error
	// Exists reports whether the file is present.
	Exists(ctx context.Context, path string) (bool, error)
}

// Local stores files below a root directory.
type Local struct {
	root    string
	maxSize int64
}

var _ Storage = (*Local)(nil)

// NewLocal creates the root directory if needed.
func NewLocal(opts *storageopts.Options) (*Local, error) {
	if opts == nil {
		opts = storageopts.NewOptions()
	}
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage root: %w", err)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	return &Local{root: root, maxSize: opts.MaxUploadSize}, nil
}

// Name returns the client name.
func (l *Local) Name() string { return "storage" }

// Ping checks that the root is still a directory.
func (l *Local) Ping(context.Context) error {
	fi, err := os.Stat(l.root)
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		return fmt.Errorf("%s is not a directory", l.root)
	}
	return nil
}

// Root returns the absolute root directory.
func (l *Local) Root() string { return l.root }

// StoredName sanitizes filename and appends a ULID before the extension,
// so "My Report.pdf" becomes "My_Report_01J....pdf".
func StoredName(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" || base == ".." {
		base = "file"
	}
	base = strings.ReplaceAll(base, " ", "_")
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if stem == "" {
		stem = "file"
	}
	return stem + "_" + ulid.Make().String() + ext
}

// Save streams r to a temporary file and renames it into place once the
// whole body has been written.
func (l *Local) Save(ctx context.Context, r io.Reader, filename string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dst := filepath.Join(l.root, StoredName(filename))
	tmp, err := os.CreateTemp(l.root, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	src := r
	if l.maxSize > 0 {
		src = io.LimitReader(r, l.maxSize+1)
	}
	n, err := io.Copy(tmp, src)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", fmt.Errorf("failed to write %s: %w", filename, err)
	}
	if l.maxSize > 0 && n > l.maxSize {
		return "", ErrTooLarge
	}

	if err := os.Rename(tmp.Name(), dst); err != nil {
		return "", fmt.Errorf("failed to store %s: %w", filename, err)
	}
	return dst, nil
}

// Delete removes path. Paths outside the root are refused.
func (l *Local) Delete(_ context.Context, path string) error {
	if path == "" {
		return nil
	}
	if err := l.within(path); err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Exists reports whether path is a regular file below the root.
func (l *Local) Exists(_ context.Context, path string) (bool, error) {
	if err := l.within(path); err != nil {
		return false, err
	}
	fi, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return fi.Mode().IsRegular(), nil
}

func (l *Local) within(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	rel, err := filepath.Rel(l.root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("path %s is outside the storage root", path)
	}
	return nil
}
