// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// Iterator walks every key in a single column, in ascending key
// order, walking a single prefix
// range.
type Iterator struct {
	iter iterator.Iterator
	col  Column
}

// Iterator returns a forward iterator over every (key, value) pair
// stored under col. Release must be called when done.
func (s *Store) Iterator(col Column) *Iterator {
	keyRange := &util.Range{
		Start: []byte{byte(col)},
		Limit: []byte{byte(col) + 1},
	}

	s.mu.RLock()
	it := s.db.NewIterator(keyRange, nil)
	s.mu.RUnlock()

	return &Iterator{iter: it, col: col}
}

// Next advances the iterator and reports whether an element is
// available.
func (it *Iterator) Next() bool {
	return it.iter.Next()
}

// Key returns the current element's key, with the column prefix
// stripped.
func (it *Iterator) Key() []byte {
	key := it.iter.Key()
	unprefixed := make([]byte, len(key)-1)
	copy(unprefixed, key[1:])
	return unprefixed
}

// Value returns the current element's value.
func (it *Iterator) Value() []byte {
	value := it.iter.Value()
	copied := make([]byte, len(value))
	copy(copied, value)
	return copied
}

// Release must be called exactly once when the iterator is no longer
// needed.
func (it *Iterator) Release() error {
	it.iter.Release()
	return it.iter.Error()
}
