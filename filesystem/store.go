// Package filesystem stores repository blobs on the local filesystem. All
// operations go through an *os.Root, which sandboxes file access to the
// storage directory and prevents path traversal. The filesystem is the only
// source of truth: sizes and listings are read back from disk on every call,
// never cached.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/restiva/restiva"
)

// Store performs blob and repository operations against locations computed
// by Layout.
type Store struct {
	root   *os.Root
	layout Layout
}

// NewStore creates a Store rooted at the given storage directory.
func NewStore(root *os.Root) *Store {
	return &Store{root: root}
}

// CreateRepository creates the directory scaffold for a repository: the
// repository directory plus one subdirectory per listable blob type. The
// config file is only created once a client writes it. The call is
// idempotent, and each piece is created independently, so a retry after a
// partial failure completes the remainder.
func (s *Store) CreateRepository(ctx context.Context, repo string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.root.MkdirAll(s.layout.Repo(repo), 0o755); err != nil {
		return fmt.Errorf("create repository: %w", err)
	}

	for _, t := range restiva.BlobTypes {
		if !t.Listable() {
			continue
		}
		if err := s.root.MkdirAll(s.layout.TypeDir(repo, t), 0o755); err != nil {
			return fmt.Errorf("create repository %s area: %w", t, err)
		}
	}

	return nil
}

// DeleteRepository removes the repository and everything in it. Returns
// restiva.ErrNotFound if the repository does not exist.
func (s *Store) DeleteRepository(ctx context.Context, repo string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := s.root.Stat(s.layout.Repo(repo)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return restiva.ErrNotFound
		}
		return fmt.Errorf("stat repository: %w", err)
	}

	if err := s.root.RemoveAll(s.layout.Repo(repo)); err != nil {
		return fmt.Errorf("delete repository: %w", err)
	}

	return nil
}

// List enumerates the blobs of a listable type. Data blobs are gathered
// from every shard subdirectory and reported by their full name. Only
// regular files are included. Ordering follows directory enumeration and
// is not sorted.
func (s *Store) List(ctx context.Context, repo string, t restiva.BlobType) ([]restiva.BlobInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir := s.layout.TypeDir(repo, t)

	if !t.Sharded() {
		return s.listDir(dir)
	}

	shards, err := fs.ReadDir(s.root.FS(), dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t, err)
	}

	infos := []restiva.BlobInfo{}
	for _, sh := range shards {
		shardInfos, err := s.listDir(filepath.Join(dir, sh.Name()))
		if err != nil {
			return nil, err
		}
		infos = append(infos, shardInfos...)
	}

	return infos, nil
}

func (s *Store) listDir(dir string) ([]restiva.BlobInfo, error) {
	entries, err := fs.ReadDir(s.root.FS(), dir)
	if err != nil {
		return nil, fmt.Errorf("list directory: %w", err)
	}

	infos := []restiva.BlobInfo{}
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("stat entry: %w", err)
		}
		if !info.Mode().IsRegular() {
			continue
		}
		infos = append(infos, restiva.BlobInfo{Name: entry.Name(), Size: info.Size()})
	}

	return infos, nil
}

// Stat reports the size of a blob. Returns restiva.ErrNotFound if the blob
// does not exist. For the config type the name is ignored.
func (s *Store) Stat(ctx context.Context, repo string, t restiva.BlobType, name string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	info, err := s.root.Stat(s.layout.Blob(repo, t, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, restiva.ErrNotFound
		}
		return 0, fmt.Errorf("stat blob: %w", err)
	}

	return info.Size(), nil
}

// Open opens a blob for a full read and reports its size. The caller owns
// the returned reader and must close it.
func (s *Store) Open(ctx context.Context, repo string, t restiva.BlobType, name string) (io.ReadCloser, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	f, err := s.root.Open(s.layout.Blob(repo, t, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, restiva.ErrNotFound
		}
		return nil, 0, fmt.Errorf("open blob: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, fmt.Errorf("stat blob: %w", err)
	}

	return f, info.Size(), nil
}

// OpenRange opens a blob positioned at rng.Start and limited to rng.Length
// bytes. A file shorter than the requested range yields fewer bytes than
// the range declares; bytes outside the range are never read. The caller
// must close the returned reader, which releases the underlying file.
func (s *Store) OpenRange(ctx context.Context, repo string, t restiva.BlobType, name string, rng restiva.ByteRange) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := s.root.Open(s.layout.Blob(repo, t, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, restiva.ErrNotFound
		}
		return nil, fmt.Errorf("open blob: %w", err)
	}

	if _, err := f.Seek(rng.Start, io.SeekStart); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("seek blob: %w", err)
	}

	return &rangeReader{Reader: io.LimitReader(f, rng.Length), f: f}, nil
}

// rangeReader bounds reads to the requested range while keeping the file
// handle closable on every exit path.
type rangeReader struct {
	io.Reader
	f *os.File
}

func (r *rangeReader) Close() error {
	return r.f.Close()
}

// ctxReader aborts a streamed copy once the request context is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (r *ctxReader) Read(p []byte) (n int, err error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}

// Write streams content into a blob, fully replacing any existing bytes.
// For data blobs the shard subdirectory is created first if missing. The
// write happens in place, not via temp-file-and-rename: a concurrent reader
// can observe a partially written file. The protocol tolerates this because
// data names are content hashes, so concurrent writers of the same name are
// writing identical bytes; caller-chosen names (keys, locks, snapshots) do
// not carry that guarantee.
func (s *Store) Write(ctx context.Context, repo string, t restiva.BlobType, name string, content io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if t.Sharded() {
		if err := s.root.MkdirAll(s.layout.ShardDir(repo, name), 0o755); err != nil {
			return fmt.Errorf("create shard directory: %w", err)
		}
	}

	f, err := s.root.Create(s.layout.Blob(repo, t, name))
	if err != nil {
		return fmt.Errorf("create blob: %w", err)
	}

	if _, err := io.Copy(f, &ctxReader{ctx: ctx, r: content}); err != nil {
		_ = f.Close()
		return fmt.Errorf("write blob: %w", err)
	}

	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("sync blob: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close blob: %w", err)
	}

	return nil
}

// Delete removes a single blob. Returns restiva.ErrNotFound if it does not
// exist. The config file is never deleted through the protocol; repository
// deletion removes it along with everything else.
func (s *Store) Delete(ctx context.Context, repo string, t restiva.BlobType, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.root.Remove(s.layout.Blob(repo, t, name)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return restiva.ErrNotFound
		}
		return fmt.Errorf("delete blob: %w", err)
	}

	return nil
}
