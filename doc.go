// Package restiva implements the server side of the restic REST backend
// protocol: a content-addressed blob repository served over HTTP and backed
// by the local filesystem.
//
// The root package holds the protocol vocabulary shared by every layer:
// blob types, parsed resource paths, byte ranges, and error sentinels.
// The subpackages build on it:
//
//   - filesystem: repository layout and blob storage against an *os.Root
//   - http: request dispatch and protocol responses
//   - config: configuration loading and validation
//   - cmd/restiva: the server binary
//
// The filesystem is the sole source of truth. No metadata index or cache is
// kept, so every listing, read, and existence check reflects the on-disk
// state at call time.
package restiva
