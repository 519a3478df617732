// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package referral

import "sync"

// Cache is a short-lived write-through view in front of a Store
// (C5). Reads are served from two in-memory maps, populating on miss
// from the underlying store; writes land in the maps only, until
// Flush pushes them through to the store.
type Cache struct {
	mu sync.Mutex

	store *Store

	referralByAddress map[Address]Referral
	walletToReferrer  map[Address]Address
}

// NewCache wraps store with a write-through cache.
func NewCache(store *Store) *Cache {
	return &Cache{
		store:             store,
		referralByAddress: make(map[Address]Referral),
		walletToReferrer:  make(map[Address]Address),
	}
}

// GetReferral consults the cache first, then the store, populating
// the cache on a store hit.
func (c *Cache) GetReferral(addr Address) (Referral, bool) {
	c.mu.Lock()
	if r, ok := c.referralByAddress[addr]; ok {
		c.mu.Unlock()
		return r, true
	}
	c.mu.Unlock()

	r, found := c.store.GetReferral(addr)
	if !found {
		return Referral{}, false
	}

	c.mu.Lock()
	c.referralByAddress[addr] = r
	c.mu.Unlock()
	return r, true
}

// InsertReferral stages r in the cache; it is not visible to the
// store until Flush.
func (c *Cache) InsertReferral(r Referral) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.referralByAddress[r.Address] = r
}

// ReferralAddressExists is GetReferral's existence-only counterpart.
func (c *Cache) ReferralAddressExists(addr Address) bool {
	_, found := c.GetReferral(addr)
	return found
}

// GetReferrer consults the cache first, then the store, populating
// the cache on a store hit.
func (c *Cache) GetReferrer(addr Address) (Address, bool) {
	c.mu.Lock()
	if parent, ok := c.walletToReferrer[addr]; ok {
		c.mu.Unlock()
		return parent, true
	}
	c.mu.Unlock()

	parent, found := c.store.GetReferrer(addr)
	if !found {
		return Address{}, false
	}

	c.mu.Lock()
	c.walletToReferrer[addr] = parent
	c.mu.Unlock()
	return parent, true
}

// WalletIdExists is GetReferrer's existence-only counterpart.
func (c *Cache) WalletIdExists(addr Address) bool {
	_, found := c.GetReferrer(addr)
	return found
}

// RemoveReferral evicts r's address from the cache and deletes r from
// the underlying store.
func (c *Cache) RemoveReferral(r Referral) bool {
	c.mu.Lock()
	delete(c.referralByAddress, r.Address)
	delete(c.walletToReferrer, r.Address)
	c.mu.Unlock()
	return c.store.RemoveReferral(r)
}

// Flush writes every cached referral through to the store via
// InsertReferral and clears the referral cache. Flush order is
// unspecified; callers are responsible for flushing in an order that
// does not present a child before its parent.
func (c *Cache) Flush() {
	c.mu.Lock()
	cached := c.referralByAddress
	c.referralByAddress = make(map[Address]Referral)
	c.mu.Unlock()

	for _, r := range cached {
		c.store.InsertReferral(r, false)
	}
}
