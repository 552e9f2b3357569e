package restiva

import (
	"fmt"
	"strings"
)

// Resource is a parsed protocol path. Repo is always set; Type and Name are
// present depending on the shape.
type Resource struct {
	Repo string
	Type BlobType
	Name string
}

// ResourceShape tags the four addressable forms of a resource path. The
// dispatcher keys its method/operation table on this tag.
type ResourceShape int

const (
	// ShapeRepo is /{repo}.
	ShapeRepo ResourceShape = iota
	// ShapeConfig is /{repo}/config.
	ShapeConfig
	// ShapeType is /{repo}/{type} for a listable type.
	ShapeType
	// ShapeBlob is /{repo}/{type}/{name}.
	ShapeBlob
)

func (s ResourceShape) String() string {
	switch s {
	case ShapeRepo:
		return "repo"
	case ShapeConfig:
		return "config"
	case ShapeType:
		return "type"
	case ShapeBlob:
		return "blob"
	default:
		return fmt.Sprintf("shape(%d)", int(s))
	}
}

// Shape classifies the resource. A config resource keeps the config shape
// even when a trailing name segment is present, matching the protocol's
// dispatch precedence.
func (r Resource) Shape() ResourceShape {
	switch {
	case r.Type == "":
		return ShapeRepo
	case r.Type == TypeConfig:
		return ShapeConfig
	case r.Name == "":
		return ShapeType
	default:
		return ShapeBlob
	}
}

// ParseResource parses a raw URL path against the grammar
// /{repo}[/{type}[/{name}]]. Leading and trailing slashes are tolerated.
// The second segment must be one of the six blob type tokens; anything else
// makes the whole path malformed rather than becoming part of a name.
// Segments containing path separators, "..", or control characters are
// rejected before they can reach the storage layout.
func ParseResource(rawPath string) (Resource, error) {
	trimmed := strings.Trim(rawPath, "/")
	if trimmed == "" {
		return Resource{}, fmt.Errorf("%w: empty path", ErrMalformedPath)
	}

	segments := strings.Split(trimmed, "/")
	if len(segments) > 3 {
		return Resource{}, fmt.Errorf("%w: too many segments in %q", ErrMalformedPath, rawPath)
	}

	for _, seg := range segments {
		if !isValidSegment(seg) {
			return Resource{}, fmt.Errorf("%w: invalid segment %q", ErrMalformedPath, seg)
		}
	}

	res := Resource{Repo: segments[0]}

	if len(segments) > 1 {
		t, ok := ParseBlobType(segments[1])
		if !ok {
			return Resource{}, fmt.Errorf("%w: unknown blob type %q", ErrMalformedPath, segments[1])
		}
		res.Type = t
	}

	if len(segments) > 2 {
		res.Name = segments[2]
	}

	return res, nil
}

// isValidSegment validates a single path segment. It rejects:
//   - empty segments (from "//" or a bare "/")
//   - "." and anything containing ".." (path traversal)
//   - backslashes (Windows separators)
//   - null bytes, control characters, and DEL
func isValidSegment(s string) bool {
	if s == "" || s == "." {
		return false
	}

	if strings.Contains(s, "..") {
		return false
	}

	if strings.ContainsRune(s, '\\') {
		return false
	}

	for _, r := range s {
		if r < 0x20 || r == 0x7f {
			return false
		}
	}

	return true
}
