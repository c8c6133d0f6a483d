// Copyright (c) 2026 The pfxstore Authors
// SPDX-License-Identifier: MIT

package pfxstore

import "github.com/inconshreveable/log15"

// Option configures a Store at construction time.
type Option func(*Store)

// WithNotify registers the callback a Store invokes once per effective
// mutation (see UpdateCallback). A Store carries at most one; composing
// several observers into one callback is the caller's job.
func WithNotify(cb UpdateCallback) Option {
	return func(s *Store) { s.notify = cb }
}

// WithLogger attaches a log15.Logger. Add, Remove, SourceRemove and Close
// log structured events through it; a SourceRemove sweep logs one summary
// per IP version that lost records. The default is
// log15.New(), matching the rest of this module's ambient logging
// convention.
func WithLogger(logger log15.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithMetrics attaches a Metrics sink built by NewMetrics. Without this
// option a Store runs with metrics disabled (all calls are no-ops).
func WithMetrics(m *Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// WithAllocator overrides the default unbounded node Allocator.
func WithAllocator(a Allocator) Option {
	return func(s *Store) { s.allocator = a }
}
