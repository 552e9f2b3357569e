package filesystem

import (
	"path/filepath"

	"github.com/restiva/restiva"
)

// Layout computes physical locations for repositories and blobs, relative to
// the storage root. It never touches the filesystem: this is the single
// place that encodes the on-disk sharding rule, so storage layout changes
// stay confined to it.
//
// A repository is a directory holding one subdirectory per listable blob
// type plus a single "config" file. Data blobs are spread across shard
// subdirectories named after the first two characters of the blob name.
type Layout struct{}

// Repo returns the repository directory.
func (Layout) Repo(repo string) string {
	return repo
}

// TypeDir returns the directory holding blobs of a listable type.
func (Layout) TypeDir(repo string, t restiva.BlobType) string {
	return filepath.Join(repo, string(t))
}

// Config returns the repository's config file location.
func (Layout) Config(repo string) string {
	return filepath.Join(repo, string(restiva.TypeConfig))
}

// ShardDir returns the shard subdirectory a data blob of the given name
// lives in.
func (l Layout) ShardDir(repo, name string) string {
	return filepath.Join(repo, string(restiva.TypeData), shard(name))
}

// Blob returns the location of a named blob. Data blobs go through their
// shard subdirectory, config ignores the name entirely, and every other
// type stores the blob directly under its type directory.
func (l Layout) Blob(repo string, t restiva.BlobType, name string) string {
	switch {
	case t == restiva.TypeConfig:
		return l.Config(repo)
	case t.Sharded():
		return filepath.Join(l.ShardDir(repo, name), name)
	default:
		return filepath.Join(repo, string(t), name)
	}
}

func shard(name string) string {
	if len(name) < 2 {
		return name
	}
	return name[:2]
}
