package restiva

// BlobType is one of the six fixed categories of content a repository stores.
type BlobType string

const (
	TypeData      BlobType = "data"
	TypeKeys      BlobType = "keys"
	TypeLocks     BlobType = "locks"
	TypeSnapshots BlobType = "snapshots"
	TypeIndex     BlobType = "index"
	TypeConfig    BlobType = "config"
)

// BlobTypes lists every blob type in the order the protocol defines them.
var BlobTypes = []BlobType{TypeData, TypeKeys, TypeLocks, TypeSnapshots, TypeIndex, TypeConfig}

// ParseBlobType maps a path segment onto a blob type. Any token outside the
// closed enumeration is rejected.
func ParseBlobType(s string) (BlobType, bool) {
	switch t := BlobType(s); t {
	case TypeData, TypeKeys, TypeLocks, TypeSnapshots, TypeIndex, TypeConfig:
		return t, true
	default:
		return "", false
	}
}

func (t BlobType) IsValid() bool {
	_, ok := ParseBlobType(string(t))
	return ok
}

// Listable reports whether the type has a directory of named blobs. The
// config type is a single unnamed file and is never listed.
func (t BlobType) Listable() bool {
	return t != TypeConfig
}

// Sharded reports whether blobs of this type are distributed into
// two-character prefix subdirectories. Only data blobs are sharded; their
// names are content hashes, which keeps the fan-out per shard bounded.
func (t BlobType) Sharded() bool {
	return t == TypeData
}

// BlobInfo is one entry of a type listing as serialized to the client.
type BlobInfo struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}
