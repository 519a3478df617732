// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"os"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	ldbstorage "github.com/syndtr/goleveldb/leveldb/storage"
)

// Column identifies one of the logical tables multiplexed onto the
// single underlying LevelDB database. It is prepended to every key as
// a single byte.
type Column byte

const (
	readCacheExpiration      = 30 * time.Second
	readCacheCleanupInterval = time.Minute
)

// Options are the construction-time parameters for Open. They mirror
// a constructor taking a cache size, an in-memory-only flag and a wipe-on-open flag:
// cache size, in-memory-only mode and wipe-on-open are all fixed at
// construction, never reconfigured afterwards.
type Options struct {
	// CacheSize is advisory; it is forwarded to goleveldb's block
	// cache sizing. Zero selects goleveldb's default.
	CacheSize int

	// Memory, when true, opens an in-memory database instead of a
	// file-backed one. Intended for deterministic tests.
	Memory bool

	// Wipe, when true, destroys any existing database at path before
	// opening a fresh one.
	Wipe bool
}

// Store is the KV adapter (C1). A single *Store multiplexes every
// column of the referral subsystem onto one LevelDB handle.
type Store struct {
	mu   sync.RWMutex
	db   *leveldb.DB
	read *gocache.Cache
}

// Open opens (or creates) the database at path according to opts.
func Open(path string, opts Options) (*Store, error) {
	options := &opt.Options{}
	if opts.CacheSize > 0 {
		options.BlockCacheCapacity = opts.CacheSize
	}

	var db *leveldb.DB
	var err error

	if opts.Memory {
		// fWipe is meaningless for a storage that never persists.
		db, err = leveldb.Open(ldbstorage.NewMemStorage(), options)
	} else {
		if opts.Wipe {
			if err := os.RemoveAll(path); err != nil {
				return nil, err
			}
		}
		db, err = leveldb.OpenFile(path, options)
	}
	if err != nil {
		return nil, err
	}

	return &Store{
		db:   db,
		read: gocache.New(readCacheExpiration, readCacheCleanupInterval),
	}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

func prefixedKey(col Column, key []byte) []byte {
	prefixed := make([]byte, 1+len(key))
	prefixed[0] = byte(col)
	copy(prefixed[1:], key)
	return prefixed
}

func cacheKey(col Column, key []byte) string {
	return string(prefixedKey(col, key))
}

// Put stores value under (col, key). The write goes straight to the
// database with goleveldb's default write options (no fsync); there
// is no implicit batching of single Put calls.
func (s *Store) Put(col Column, key, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.Put(prefixedKey(col, key), value, nil); err != nil {
		return err
	}
	s.read.Set(cacheKey(col, key), value, gocache.DefaultExpiration)
	return nil
}

// Get fetches the value stored under (col, key). The second return
// value is false if no such key exists; that is never reported as an
// error, per this package's "mempool/store miss is never an error"
// contract.
func (s *Store) Get(col Column, key []byte) ([]byte, bool, error) {
	ck := cacheKey(col, key)
	if cached, ok := s.read.Get(ck); ok {
		if cached == nil {
			return nil, false, nil
		}
		return cached.([]byte), true, nil
	}

	s.mu.RLock()
	value, err := s.db.Get(prefixedKey(col, key), nil)
	s.mu.RUnlock()

	if err == leveldb.ErrNotFound {
		s.read.Set(ck, nil, gocache.DefaultExpiration)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	s.read.Set(ck, value, gocache.DefaultExpiration)
	return value, true, nil
}

// Has reports whether a value is stored under (col, key).
func (s *Store) Has(col Column, key []byte) (bool, error) {
	_, found, err := s.Get(col, key)
	return found, err
}

// Erase removes the value stored under (col, key). Erasing a missing
// key is not an error.
func (s *Store) Erase(col Column, key []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.Delete(prefixedKey(col, key), nil); err != nil {
		return err
	}
	s.read.Set(cacheKey(col, key), nil, gocache.DefaultExpiration)
	return nil
}
