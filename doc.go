// Copyright (c) 2026 The pfxstore Authors
// SPDX-License-Identifier: MIT

// Package pfxstore is an in-memory prefix origin store for BGP Route Origin
// Validation (ROV).
//
// Given an announcement (asn, prefix, prefix_len), Store.Validate decides
// whether it is Valid, Invalid or NotFound against a dynamically maintained
// set of Route Origin Authorizations (ROAs) supplied by one or more upstream
// sources through Store.Add, Store.Remove and Store.SourceRemove.
//
// The store keeps two longest-prefix-first binary search tries (LPFST), one
// for IPv4 and one for IPv6, behind a single reader/writer lock. Writers are
// serialized; validations run concurrently with each other and are
// linearized against the write history.
//
// A Store has no opinion on how ROAs are transported. The Source type in
// this package turns full-table snapshots and single updates from one
// upstream feed into the Add/Remove/SourceRemove calls the store expects,
// and PollingSource drives a Source from a pluggable Fetcher (for example a
// file reader or an RTR client).
package pfxstore
