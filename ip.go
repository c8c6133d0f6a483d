// Copyright (c) 2026 The pfxstore Authors
// SPDX-License-Identifier: MIT

package pfxstore

import (
	"fmt"
	"net/netip"
)

// Version identifies the address family of an IpAddress.
type Version uint8

const (
	// V4 is the IPv4 address family, width 32 bits.
	V4 Version = 4
	// V6 is the IPv6 address family, width 128 bits.
	V6 Version = 6
)

// String implements fmt.Stringer.
func (v Version) String() string {
	switch v {
	case V4:
		return "v4"
	case V6:
		return "v6"
	default:
		return fmt.Sprintf("Version(%d)", uint8(v))
	}
}

// Width returns the bit width of the address family: 32 for V4, 128 for V6.
func (v Version) Width() int {
	if v == V4 {
		return 32
	}
	return 128
}

// IpAddress is an opaque, comparable IP address value. It wraps netip.Addr,
// which already gives bitwise equality via == and an allocation-free
// representation for both address families; IpAddress adds the bit(i)
// accessor the trie walks need.
type IpAddress struct {
	addr netip.Addr
}

// AddrFrom4 builds an IpAddress from a 4-byte IPv4 address.
func AddrFrom4(b [4]byte) IpAddress {
	return IpAddress{addr: netip.AddrFrom4(b)}
}

// AddrFrom16 builds an IpAddress from a 16-byte IPv6 address.
func AddrFrom16(b [16]byte) IpAddress {
	return IpAddress{addr: netip.AddrFrom16(b)}
}

// AddrFromNetip adapts a netip.Addr. The zero netip.Addr is rejected: every
// IpAddress must carry a definite version.
func AddrFromNetip(a netip.Addr) (IpAddress, error) {
	if !a.IsValid() {
		return IpAddress{}, fmt.Errorf("pfxstore: invalid netip.Addr")
	}
	// Unmap so an IPv4-mapped IPv6 address doesn't silently report V6.
	a = a.Unmap()
	return IpAddress{addr: a}, nil
}

// MustParseAddr parses s (as accepted by netip.ParseAddr) into an IpAddress,
// panicking on a malformed literal. Intended for tests and static config,
// never for untrusted input.
func MustParseAddr(s string) IpAddress {
	a, err := AddrFromNetip(netip.MustParseAddr(s))
	if err != nil {
		panic(err)
	}
	return a
}

// Version reports the address family.
func (a IpAddress) Version() Version {
	if a.addr.Is4() {
		return V4
	}
	return V6
}

// Bit returns the value (0 or 1) of bit i, counting from the most
// significant bit, 0 <= i < Version().Width(). Bit panics if i is out of
// range for the address's width, which is a programmer error: every caller
// in this package bounds i by a node's len or the query's prefix length
// before calling Bit.
func (a IpAddress) Bit(i int) uint8 {
	width := a.Version().Width()
	if i < 0 || i >= width {
		panic(fmt.Sprintf("pfxstore: bit index %d out of range for width %d", i, width))
	}
	byteIdx := i / 8
	bitIdx := 7 - uint(i%8)
	if a.addr.Is4() {
		b := a.addr.As4()
		return (b[byteIdx] >> bitIdx) & 1
	}
	b := a.addr.As16()
	return (b[byteIdx] >> bitIdx) & 1
}

// Equal reports bitwise equality over the full address width.
func (a IpAddress) Equal(o IpAddress) bool {
	return a.addr == o.addr
}

// Masked returns a with all bits beyond len cleared, matching the "bits of
// prefix beyond min_len are zero" invariant callers are expected to uphold
// before handing a record to Store.Add.
func (a IpAddress) Masked(len uint8) IpAddress {
	p := netip.PrefixFrom(a.addr, int(len))
	return IpAddress{addr: p.Masked().Addr()}
}

// String renders the bare address (no prefix length).
func (a IpAddress) String() string {
	return a.addr.String()
}

// Netip exposes the underlying netip.Addr, for callers that need to
// interoperate with the standard library's net/netip APIs.
func (a IpAddress) Netip() netip.Addr {
	return a.addr
}
