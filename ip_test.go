// Copyright (c) 2026 The pfxstore Authors
// SPDX-License-Identifier: MIT

package pfxstore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIpAddressBitMSBFirst(t *testing.T) {
	a := MustParseAddr("128.0.0.0")
	require.Equal(t, uint8(1), a.Bit(0))
	require.Equal(t, uint8(0), a.Bit(1))
	require.Equal(t, V4, a.Version())
	require.Equal(t, 32, a.Version().Width())
}

func TestIpAddressBitPanicsOutOfRange(t *testing.T) {
	a := MustParseAddr("10.0.0.0")
	require.Panics(t, func() { a.Bit(32) })
}

func TestIpAddressV6Width(t *testing.T) {
	a := MustParseAddr("2001:db8::1")
	require.Equal(t, V6, a.Version())
	require.Equal(t, 128, a.Version().Width())
}

func TestIpAddressMasked(t *testing.T) {
	a := MustParseAddr("10.1.2.3")
	m := a.Masked(8)
	require.True(t, m.Equal(MustParseAddr("10.0.0.0")))
}

func TestIpAddressEqual(t *testing.T) {
	a := MustParseAddr("10.0.0.1")
	b := MustParseAddr("10.0.0.1")
	c := MustParseAddr("10.0.0.2")
	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))
}
