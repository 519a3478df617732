// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package refmempool

import (
	"sync"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/bitmark-inc/referrald/gnomon"
	"github.com/bitmark-inc/referrald/messagebus"
	"github.com/bitmark-inc/referrald/referral"
)

const busFrom = "refmempool"

// Pool is the referral mempool (C6): a multi-indexed set of pending
// Entries, guarded by a single mutex.
type Pool struct {
	mu sync.Mutex

	log *logger.L

	byHash map[referral.Hash]*Entry
	byTime map[referral.Hash]gnomon.Cursor

	// links maps a parent's hash to the set of child hashes currently
	// in the pool.
	links map[referral.Hash]map[referral.Hash]struct{}
}

// NewPool returns an empty mempool.
func NewPool() *Pool {
	return &Pool{
		log:    logger.New("refmempool"),
		byHash: make(map[referral.Hash]*Entry),
		byTime: make(map[referral.Hash]gnomon.Cursor),
		links:  make(map[referral.Hash]map[referral.Hash]struct{}),
	}
}

// cursorForTime builds a gnomon.Cursor representing t, for use as a
// byte-sortable secondary-index key independent of insertion order.
func cursorForTime(t time.Time) gnomon.Cursor {
	b := make([]byte, 12)
	seconds := t.Unix()
	b[0] = byte(seconds >> 56)
	b[1] = byte(seconds >> 48)
	b[2] = byte(seconds >> 40)
	b[3] = byte(seconds >> 32)
	b[4] = byte(seconds >> 24)
	b[5] = byte(seconds >> 16)
	b[6] = byte(seconds >> 8)
	b[7] = byte(seconds)
	nanos := int32(t.Nanosecond())
	b[8] = byte(nanos >> 24)
	b[9] = byte(nanos >> 16)
	b[10] = byte(nanos >> 8)
	b[11] = byte(nanos)

	var c gnomon.Cursor
	if err := c.UnmarshalBinary(b); err != nil {
		panic(err)
	}
	return c
}

// AddUnchecked inserts entry into the primary index, links it under
// its parent if the parent is already pending, and publishes a
// NotifyEntryAdded event.
func (p *Pool) AddUnchecked(entry *Entry) {
	hash := entry.Hash()

	p.mu.Lock()

	p.byHash[hash] = entry
	p.byTime[hash] = cursorForTime(entry.EntryTime)
	if _, ok := p.links[hash]; !ok {
		p.links[hash] = make(map[referral.Hash]struct{})
	}

	for parentHash, parent := range p.byHash {
		if parent.Referral.Address == entry.Referral.ParentAddress {
			p.links[parentHash][hash] = struct{}{}
			break
		}
	}

	p.mu.Unlock()

	p.log.Debugf("added %s parent %s", entry.Referral.Address, entry.Referral.ParentAddress)
	messagebus.Send(busFrom, NotificationEvent{Referral: entry.Referral, Added: true})
}

// calculateDescendants returns hash and every entry reachable from it
// through links via a plain breadth-first walk.
// Caller must hold p.mu.
func (p *Pool) calculateDescendants(hash referral.Hash) map[referral.Hash]struct{} {
	descendants := make(map[referral.Hash]struct{})
	stage := []referral.Hash{hash}

	for len(stage) > 0 {
		h := stage[0]
		stage = stage[1:]
		if _, seen := descendants[h]; seen {
			continue
		}
		descendants[h] = struct{}{}
		for child := range p.links[h] {
			if _, pending := p.byHash[child]; !pending {
				continue
			}
			if _, seen := descendants[child]; !seen {
				stage = append(stage, child)
			}
		}
	}
	return descendants
}

// removeUnchecked deletes hash from every index and publishes
// NotifyEntryRemoved. Caller must hold p.mu.
func (p *Pool) removeUnchecked(hash referral.Hash, reason RemovalReason) {
	entry, ok := p.byHash[hash]
	if !ok {
		return
	}
	delete(p.byHash, hash)
	delete(p.byTime, hash)
	delete(p.links, hash)

	// A parent's children set may still reference hash after this;
	// other entries' link sets are never scrubbed. The reference is
	// harmless because it is only ever resolved through
	// calculateDescendants, which skips any hash that is no longer
	// pending.
	p.log.Debugf("removed %s reason %s", entry.Referral.Address, reason)
	messagebus.Send(busFrom, NotificationEvent{Referral: entry.Referral, Reason: reason})
}

// RemoveRecursive removes ref and every descendant linked under it,
// firing NotifyEntryRemoved for each (scenario 5).
func (p *Pool) RemoveRecursive(ref referral.Referral, reason RemovalReason) {
	p.mu.Lock()
	defer p.mu.Unlock()

	hash := ref.CodeHash
	if _, ok := p.byHash[hash]; !ok {
		return
	}

	for h := range p.calculateDescendants(hash) {
		p.removeUnchecked(h, reason)
	}
}

// RemoveForBlock removes exactly the given confirmed referrals,
// without cascading to their descendants.
func (p *Pool) RemoveForBlock(refs []referral.Referral) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, ref := range refs {
		p.removeUnchecked(ref.CodeHash, ReasonBlock)
	}
}

// Expire removes every entry whose EntryTime is before cutoff,
// together with their descendants, and returns the number of entries
// removed.
func (p *Pool) Expire(cutoff time.Time) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	threshold := cursorForTime(cutoff).String()

	toRemove := make(map[referral.Hash]struct{})
	for hash, cursor := range p.byTime {
		if cursor.String() < threshold {
			for h := range p.calculateDescendants(hash) {
				toRemove[h] = struct{}{}
			}
		}
	}

	for hash := range toRemove {
		p.removeUnchecked(hash, ReasonExpiry)
	}
	return len(toRemove)
}

// Get returns the referral with the given hash, if pending.
func (p *Pool) Get(hash referral.Hash) (referral.Referral, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	entry, ok := p.byHash[hash]
	if !ok {
		return referral.Referral{}, false
	}
	return entry.Referral, true
}

// GetWithAddress linearly scans the pool for a pending referral
// beaconing addr. Pool sizes are expected to stay small enough
func (p *Pool) GetWithAddress(addr referral.Address) (referral.Referral, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, entry := range p.byHash {
		if entry.Referral.Address == addr {
			return entry.Referral, true
		}
	}
	return referral.Referral{}, false
}

// ExistsWithAddress reports whether any pending referral beacons addr.
func (p *Pool) ExistsWithAddress(addr referral.Address) bool {
	_, found := p.GetWithAddress(addr)
	return found
}

// GetReferrals returns every pending referral, in no particular
// order.
func (p *Pool) GetReferrals() []referral.Referral {
	p.mu.Lock()
	defer p.mu.Unlock()

	refs := make([]referral.Referral, 0, len(p.byHash))
	for _, entry := range p.byHash {
		refs = append(refs, entry.Referral)
	}
	return refs
}

// Clear empties the pool.
func (p *Pool) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.byHash = make(map[referral.Hash]*Entry)
	p.byTime = make(map[referral.Hash]gnomon.Cursor)
	p.links = make(map[referral.Hash]map[referral.Hash]struct{})
}

// DynamicMemoryUsage estimates the pool's heap footprint, following
// a rough accounting rather than an exact figure.
func (p *Pool) DynamicMemoryUsage() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	const perEntryOverhead = 256
	total := len(p.byHash) * perEntryOverhead
	for _, children := range p.links {
		total += len(children) * 32
	}
	return total
}

// GetReferralsForAddresses scans addrs for pending beacons, skipping
// any address the caller reports as already confirmed. It takes a
// plain address list and a confirmed-lookup callback rather than a
// concrete transaction type, since this package defines none.
func (p *Pool) GetReferralsForAddresses(addrs []referral.Address, confirmed func(referral.Address) bool) []referral.Referral {
	p.mu.Lock()
	defer p.mu.Unlock()

	var found []referral.Referral
	for _, addr := range addrs {
		if confirmed(addr) {
			continue
		}
		for _, entry := range p.byHash {
			if entry.Referral.Address == addr {
				found = append(found, entry.Referral)
				break
			}
		}
	}
	return found
}
