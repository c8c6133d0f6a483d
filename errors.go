// Copyright (c) 2026 The pfxstore Authors
// SPDX-License-Identifier: MIT

package pfxstore

import "github.com/pkg/errors"

// invariantViolation marks a structural contract the trie is assumed to
// uphold (a lookup returning nil where the caller's own bookkeeping says it
// structurally must not). These are programmer errors, not recoverable
// runtime conditions, and are raised with panic rather than returned.
type invariantViolation struct {
	component string
	detail    string
}

func (e *invariantViolation) Error() string {
	return "pfxstore: invariant violation in " + e.component + ": " + e.detail
}

func panicInvariant(component, detail string) {
	panic(&invariantViolation{component: component, detail: detail})
}

// wrapf attaches call-site context to err before it leaves the package,
// following the errors.Wrapf convention the rest of this module's ambient
// stack uses.
func wrapf(err error, format string, args ...any) error {
	return errors.Wrapf(err, format, args...)
}
