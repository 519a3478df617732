// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/syndtr/goleveldb/leveldb"
)

// Batch accumulates a group of Put/Erase operations for a single
// atomic Commit. Individual Store.Put/Erase calls are already
// durable on their own; Batch exists for callers that want several
// writes to land as one atomic unit.
type Batch struct {
	store *Store
	batch *leveldb.Batch
}

// NewBatch begins a new batch against this store.
func (s *Store) NewBatch() *Batch {
	return &Batch{
		store: s,
		batch: new(leveldb.Batch),
	}
}

// Put stages a write; it is not visible until Commit.
func (b *Batch) Put(col Column, key, value []byte) {
	b.batch.Put(prefixedKey(col, key), value)
}

// Erase stages a delete; it is not visible until Commit.
func (b *Batch) Erase(col Column, key []byte) {
	b.batch.Delete(prefixedKey(col, key))
}

// Commit writes every staged operation atomically and invalidates the
// read cache for each touched key.
func (b *Batch) Commit() error {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()

	if err := b.store.db.Write(b.batch, nil); err != nil {
		return err
	}

	b.store.read.Flush()
	return nil
}
