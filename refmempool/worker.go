// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package refmempool

import (
	"time"

	"github.com/bitmark-inc/referrald/background"
)

// expiryWorker periodically sweeps a Pool for stale entries. Pull
// based Expire calls remain available to callers that want to drive
// the sweep themselves; this is the push-based convenience the
// teacher's cache cleaner offers for TTL pools.
type expiryWorker struct {
	pool     *Pool
	interval time.Duration
}

// Run implements background.Process.
func (w *expiryWorker) Run(args interface{}, shutdown <-chan struct{}) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-shutdown:
			return
		case <-ticker.C:
			removed := w.pool.Expire(time.Now())
			if removed > 0 {
				w.pool.log.Debugf("expiry sweep removed %d entries", removed)
			}
		}
	}
}

// StartExpiryWorker launches a background.Processes ticker that
// calls pool.Expire(time.Now()) every interval, until the returned
// handle's Stop is called.
func StartExpiryWorker(pool *Pool, interval time.Duration) *background.T {
	processes := background.Processes{&expiryWorker{pool: pool, interval: interval}}
	return background.Start(processes, nil)
}
