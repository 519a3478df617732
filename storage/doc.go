// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage provides a typed key/value adapter over an embedded
// LevelDB database.
//
// Keys are split into separate tables ("columns") by prepending a
// single prefix byte to every key before it reaches the underlying
// engine. This spreads logically distinct record types across the
// same on-disk LSM tree without them colliding, and lets callers
// iterate a single column with a bounded key range instead of
// scanning the whole database.
//
// A short-lived read-through cache sits in front of the engine so
// that repeated reads of the same key inside one populate burst do
// not all pay LevelDB's lookup cost.
package storage
