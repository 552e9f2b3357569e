package filesystem

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/restiva/restiva"
)

func TestLayout_Blob(t *testing.T) {
	var l Layout

	tests := []struct {
		name     string
		blobType restiva.BlobType
		blobName string
		want     string
	}{
		{
			name:     "data blobs shard on the first two characters",
			blobType: restiva.TypeData,
			blobName: "aabbccdd",
			want:     filepath.Join("repo", "data", "aa", "aabbccdd"),
		},
		{
			name:     "short data names shard on the whole name",
			blobType: restiva.TypeData,
			blobName: "a",
			want:     filepath.Join("repo", "data", "a", "a"),
		},
		{
			name:     "keys are unsharded",
			blobType: restiva.TypeKeys,
			blobName: "k1",
			want:     filepath.Join("repo", "keys", "k1"),
		},
		{
			name:     "snapshots are unsharded",
			blobType: restiva.TypeSnapshots,
			blobName: "snap",
			want:     filepath.Join("repo", "snapshots", "snap"),
		},
		{
			name:     "config ignores the name",
			blobType: restiva.TypeConfig,
			blobName: "whatever",
			want:     filepath.Join("repo", "config"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, l.Blob("repo", tt.blobType, tt.blobName))
		})
	}
}

func TestLayout_Dirs(t *testing.T) {
	var l Layout

	assert.Equal(t, "repo", l.Repo("repo"))
	assert.Equal(t, filepath.Join("repo", "index"), l.TypeDir("repo", restiva.TypeIndex))
	assert.Equal(t, filepath.Join("repo", "config"), l.Config("repo"))
	assert.Equal(t, filepath.Join("repo", "data", "ff"), l.ShardDir("repo", "ffeeddcc"))
}
