// Package bridge defines the external content filesystem contract the
// document store ingests from, and a local-disk implementation of it.
package bridge

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no content exists at a path.
var ErrNotFound = errors.New("bridge: not found")

// Bridge is the external, content-addressed filesystem the document store
// reads documents from and writes generated config records to. It models a
// pre-existing system boundary that this module does not own; Local below
// is a reference implementation sufficient for embedding this module
// against a plain disk directory.
type Bridge interface {
	// Get returns the raw bytes stored at path.
	Get(ctx context.Context, path string) ([]byte, error)
	// Put writes raw bytes to path, creating or replacing it.
	Put(ctx context.Context, path string, data []byte) error
	// Delete removes the content at path. Deleting a path that does not
	// exist is not an error.
	Delete(ctx context.Context, path string) error
	// Glob returns every path matching pattern (a filepath.Match-style
	// glob rooted at the bridge's content root).
	Glob(ctx context.Context, pattern string) ([]string, error)
	// PutConfig writes one of the three generated config records (schema,
	// lookup map, or GraphQL AST) under the bridge's reserved config
	// namespace.
	PutConfig(ctx context.Context, name string, data []byte) error
	// SupportsBuilding reports whether this bridge can also run a content
	// build step (e.g. invoking a static site generator) in addition to
	// serving raw file content.
	SupportsBuilding() bool
}
