package kv

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

// Bolt is a Store backed by a single go.etcd.io/bbolt database file. Each
// sublevel maps to its own top-level bucket, created on first write,
// mirroring the bucket-per-index layout used by go-leia's bbolt
// indexing engine.
type Bolt struct {
	db *bbolt.DB
}

// OpenBolt opens (creating if necessary) a bbolt database at path.
func OpenBolt(path string) (*Bolt, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("kv: open %s: %w", path, err)
	}
	return &Bolt{db: db}, nil
}

func (b *Bolt) Close() error {
	return b.db.Close()
}

func (b *Bolt) Sublevel(name string) Sublevel {
	return &boltSublevel{db: b.db, bucket: []byte(name)}
}

// Update runs fn in a single bbolt write transaction. Every Sublevel fn
// obtains through tx operates against that same transaction, so writes
// across sublevels commit or roll back together.
func (b *Bolt) Update(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.db.Update(func(btx *bbolt.Tx) error {
		return fn(&boltTx{tx: btx})
	})
}

type boltTx struct {
	tx *bbolt.Tx
}

func (t *boltTx) Sublevel(name string) Sublevel {
	return &boltTxSublevel{tx: t.tx, bucket: []byte(name)}
}

// boltTxSublevel is a Sublevel bound to an in-flight write transaction. Its
// Iterator does not own the transaction, so Close is a no-op: the
// transaction is committed or rolled back by the enclosing Store.Update
// call, not by the iterator.
type boltTxSublevel struct {
	tx     *bbolt.Tx
	bucket []byte
}

func (s *boltTxSublevel) Get(ctx context.Context, key []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b := s.tx.Bucket(s.bucket)
	if b == nil {
		return nil, ErrNotFound
	}
	v := b.Get(key)
	if v == nil {
		return nil, ErrNotFound
	}
	return append([]byte{}, v...), nil
}

func (s *boltTxSublevel) Put(ctx context.Context, key, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := s.tx.CreateBucketIfNotExists(s.bucket)
	if err != nil {
		return err
	}
	return b.Put(key, value)
}

func (s *boltTxSublevel) Delete(ctx context.Context, key []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b := s.tx.Bucket(s.bucket)
	if b == nil {
		return nil
	}
	return b.Delete(key)
}

func (s *boltTxSublevel) Batch(ctx context.Context, ops []Op) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(ops) == 0 {
		return nil
	}
	b, err := s.tx.CreateBucketIfNotExists(s.bucket)
	if err != nil {
		return err
	}
	for _, op := range ops {
		switch op.Type {
		case OpPut:
			if err := b.Put(op.Key, op.Value); err != nil {
				return err
			}
		case OpDelete:
			if err := b.Delete(op.Key); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *boltTxSublevel) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.tx.Bucket(s.bucket) == nil {
		return nil
	}
	return s.tx.DeleteBucket(s.bucket)
}

func (s *boltTxSublevel) Iterator(ctx context.Context, opts IterOptions) (Iterator, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.Gt != nil && opts.Gte != nil {
		return nil, fmt.Errorf("kv: iterator cannot set both Gt and Gte")
	}
	if opts.Lt != nil && opts.Lte != nil {
		return nil, fmt.Errorf("kv: iterator cannot set both Lt and Lte")
	}
	b := s.tx.Bucket(s.bucket)
	if b == nil {
		return &emptyIterator{}, nil
	}
	return &boltTxIterator{cursor: b.Cursor(), opts: opts}, nil
}

// boltTxIterator behaves like boltIterator but does not own (and so does
// not close) a transaction.
type boltTxIterator struct {
	cursor  *bbolt.Cursor
	opts    IterOptions
	started bool
	key     []byte
	value   []byte
	done    bool
}

func (it *boltTxIterator) Next(ctx context.Context) bool {
	if it.done {
		return false
	}
	if err := ctx.Err(); err != nil {
		it.done = true
		return false
	}
	inner := &boltIterator{cursor: it.cursor, opts: it.opts, started: it.started}
	ok := inner.Next(ctx)
	it.started = true
	if !ok {
		it.done = true
		return false
	}
	it.key, it.value = inner.key, inner.value
	return true
}

func (it *boltTxIterator) Key() []byte   { return it.key }
func (it *boltTxIterator) Value() []byte { return it.value }
func (it *boltTxIterator) Err() error    { return nil }
func (it *boltTxIterator) Close() error  { return nil }

type boltSublevel struct {
	db     *bbolt.DB
	bucket []byte
}

func (s *boltSublevel) Get(ctx context.Context, key []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return ErrNotFound
		}
		v := b.Get(key)
		if v == nil {
			return ErrNotFound
		}
		out = append([]byte{}, v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *boltSublevel) Put(ctx context.Context, key, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(s.bucket)
		if err != nil {
			return err
		}
		return b.Put(key, value)
	})
}

func (s *boltSublevel) Delete(ctx context.Context, key []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return nil
		}
		return b.Delete(key)
	})
}

// Batch applies ops atomically within a single bbolt write transaction.
func (s *boltSublevel) Batch(ctx context.Context, ops []Op) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(ops) == 0 {
		return nil
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(s.bucket)
		if err != nil {
			return err
		}
		for _, op := range ops {
			switch op.Type {
			case OpPut:
				if err := b.Put(op.Key, op.Value); err != nil {
					return err
				}
			case OpDelete:
				if err := b.Delete(op.Key); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (s *boltSublevel) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		if tx.Bucket(s.bucket) == nil {
			return nil
		}
		return tx.DeleteBucket(s.bucket)
	})
}

func (s *boltSublevel) Iterator(ctx context.Context, opts IterOptions) (Iterator, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.Gt != nil && opts.Gte != nil {
		return nil, fmt.Errorf("kv: iterator cannot set both Gt and Gte")
	}
	if opts.Lt != nil && opts.Lte != nil {
		return nil, fmt.Errorf("kv: iterator cannot set both Lt and Lte")
	}

	tx, err := s.db.Begin(false)
	if err != nil {
		return nil, err
	}

	b := tx.Bucket(s.bucket)
	if b == nil {
		_ = tx.Rollback()
		return &emptyIterator{}, nil
	}

	it := &boltIterator{
		ctx:     ctx,
		tx:      tx,
		cursor:  b.Cursor(),
		opts:    opts,
		started: false,
	}
	return it, nil
}

type emptyIterator struct{}

func (e *emptyIterator) Next(context.Context) bool { return false }
func (e *emptyIterator) Key() []byte                { return nil }
func (e *emptyIterator) Value() []byte              { return nil }
func (e *emptyIterator) Err() error                 { return nil }
func (e *emptyIterator) Close() error               { return nil }

type boltIterator struct {
	ctx     context.Context
	tx      *bbolt.Tx
	cursor  *bbolt.Cursor
	opts    IterOptions
	started bool
	key     []byte
	value   []byte
	err     error
	done    bool
}

func (it *boltIterator) Next(ctx context.Context) bool {
	if it.done || it.err != nil {
		return false
	}
	if err := ctx.Err(); err != nil {
		it.err = err
		return false
	}

	var k, v []byte
	if !it.started {
		it.started = true
		k, v = it.seekStart()
	} else if it.opts.Reverse {
		k, v = it.cursor.Prev()
	} else {
		k, v = it.cursor.Next()
	}

	if k == nil {
		it.done = true
		return false
	}
	if !it.withinBounds(k) {
		it.done = true
		return false
	}

	it.key = append([]byte{}, k...)
	it.value = append([]byte{}, v...)
	return true
}

func (it *boltIterator) seekStart() ([]byte, []byte) {
	if it.opts.Reverse {
		upper := it.opts.Lt
		upperIncl := false
		if it.opts.Lte != nil {
			upper, upperIncl = it.opts.Lte, true
		}
		if upper == nil {
			return it.cursor.Last()
		}
		k, v := it.cursor.Seek(upper)
		if k == nil {
			return it.cursor.Last()
		}
		if bytes.Equal(k, upper) {
			if upperIncl {
				return k, v
			}
			return it.cursor.Prev()
		}
		// Seek landed on the first key >= upper but != upper: back up one.
		return it.cursor.Prev()
	}

	lower := it.opts.Gte
	if it.opts.Gt != nil {
		lower = it.opts.Gt
	}
	if lower == nil {
		return it.cursor.First()
	}
	k, v := it.cursor.Seek(lower)
	if k == nil {
		return nil, nil
	}
	if it.opts.Gt != nil && bytes.Equal(k, it.opts.Gt) {
		return it.cursor.Next()
	}
	return k, v
}

func (it *boltIterator) withinBounds(k []byte) bool {
	if it.opts.Reverse {
		if it.opts.Gt != nil && bytes.Compare(k, it.opts.Gt) <= 0 {
			return false
		}
		if it.opts.Gte != nil && bytes.Compare(k, it.opts.Gte) < 0 {
			return false
		}
		return true
	}
	if it.opts.Lt != nil && bytes.Compare(k, it.opts.Lt) >= 0 {
		return false
	}
	if it.opts.Lte != nil && bytes.Compare(k, it.opts.Lte) > 0 {
		return false
	}
	return true
}

func (it *boltIterator) Key() []byte   { return it.key }
func (it *boltIterator) Value() []byte { return it.value }
func (it *boltIterator) Err() error    { return it.err }

func (it *boltIterator) Close() error {
	return it.tx.Rollback()
}
