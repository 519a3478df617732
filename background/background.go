// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package background

// Process is anything that can be run in its own goroutine until
// asked to shut down.
type Process interface {
	Run(args interface{}, shutdown <-chan struct{})
}

// Processes is a list of processes to start together.
type Processes []Process

type handle struct {
	shutdown chan struct{}
	finished chan struct{}
}

// T is the handle returned by Start; it is used to Stop every process
// started together.
type T struct {
	handles []handle
}

// Start launches every process in its own goroutine, passing args to
// each, and returns a handle that can stop them all.
func Start(processes Processes, args interface{}) *T {
	t := &T{
		handles: make([]handle, len(processes)),
	}

	for i, p := range processes {
		h := handle{
			shutdown: make(chan struct{}),
			finished: make(chan struct{}),
		}
		t.handles[i] = h

		go func(p Process, h handle) {
			defer close(h.finished)
			p.Run(args, h.shutdown)
		}(p, h)
	}
	return t
}

// Stop signals every process to shut down and waits for each to
// finish.
func (t *T) Stop() {
	for _, h := range t.handles {
		close(h.shutdown)
	}
	for _, h := range t.handles {
		<-h.finished
	}
}
