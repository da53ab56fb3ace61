// Package kv defines the ordered key-value store contract consumed by the
// document store and query engine, and the sublevel (namespace prefix)
// model layered over it.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Sublevel.Get when the key does not exist.
var ErrNotFound = errors.New("kv: key not found")

// OpType distinguishes the two kinds of mutation a Batch can carry.
type OpType int

const (
	OpPut OpType = iota
	OpDelete
)

// Op is one write in a Batch.
type Op struct {
	Type  OpType
	Key   []byte
	Value []byte
}

// IterOptions bounds and orders an Iterator. At most one of Gt/Gte should be
// set, and at most one of Lt/Lte; a more specific pair than that is
// rejected by implementations.
type IterOptions struct {
	Gt, Gte []byte
	Lt, Lte []byte
	Reverse bool
}

// Iterator walks a bounded, ordered range of keys within one Sublevel.
// Callers must call Close when done, even after exhausting Next or
// encountering an error.
type Iterator interface {
	Next(ctx context.Context) bool
	Key() []byte
	Value() []byte
	Err() error
	Close() error
}

// Sublevel is a namespaced, independently ordered keyspace within a Store.
// Every key written through a Sublevel is logically prefixed by its name,
// but callers never see or construct that prefix themselves.
type Sublevel interface {
	Get(ctx context.Context, key []byte) ([]byte, error)
	Put(ctx context.Context, key, value []byte) error
	Delete(ctx context.Context, key []byte) error
	Batch(ctx context.Context, ops []Op) error
	Iterator(ctx context.Context, opts IterOptions) (Iterator, error)
	Clear(ctx context.Context) error
}

// Tx is a transactional view over a Store's sublevels, letting a caller
// read and write across several sublevels atomically.
type Tx interface {
	Sublevel(name string) Sublevel
}

// Store is the root ordered key-value store, partitioned into sublevels.
type Store interface {
	Sublevel(name string) Sublevel
	// Update runs fn within a single atomic transaction spanning every
	// sublevel fn touches through tx. Used by the document store to keep a
	// primary record and its secondary index entries consistent with each
	// other even across a crash.
	Update(ctx context.Context, fn func(tx Tx) error) error
	Close() error
}
