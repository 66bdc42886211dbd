// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package prefix

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xornet/sectionchain/xorname"
)

// fromBits builds a Prefix from a string of '0'/'1' characters, mirroring
// the teacher's test fixtures for compact prefix literals.
func fromBits(t *testing.T, bits string) Prefix {
	t.Helper()
	var name xorname.Name
	for i, c := range bits {
		switch c {
		case '1':
			name = name.WithBit(i, true)
		case '0':
			name = name.WithBit(i, false)
		default:
			t.Fatalf("invalid bit %q in %q", c, bits)
		}
	}
	return New(len(bits), name)
}

func TestPushedPopped(t *testing.T) {
	p := fromBits(t, "101")
	require.True(t, fromBits(t, "1011").Equal(p.Pushed(true)))
	require.True(t, fromBits(t, "1010").Equal(p.Pushed(false)))
	require.True(t, p.Equal(fromBits(t, "1011").Popped()))
}

func TestCompatibility(t *testing.T) {
	require.True(t, fromBits(t, "101").IsCompatible(fromBits(t, "1010")))
	require.True(t, fromBits(t, "1010").IsCompatible(fromBits(t, "101")))
	require.False(t, fromBits(t, "1010").IsCompatible(fromBits(t, "1011")))
}

func TestNeighbour(t *testing.T) {
	require.True(t, fromBits(t, "101").IsNeighbour(fromBits(t, "111")))
	require.False(t, fromBits(t, "1010").IsNeighbour(fromBits(t, "1111")))
	require.True(t, fromBits(t, "1010").IsNeighbour(fromBits(t, "10111")))
	require.False(t, fromBits(t, "101").IsNeighbour(fromBits(t, "10111")))
}

func TestMatches(t *testing.T) {
	var name xorname.Name
	name[0] = 0b1010_1100
	require.True(t, fromBits(t, "101").Matches(name))
	require.False(t, fromBits(t, "1011").Matches(name))
}

func TestBounds(t *testing.T) {
	p := fromBits(t, "0101")
	var want xorname.Name
	want[0] = 0b0101_0000
	require.Equal(t, want, p.LowerBound())

	for i := range want {
		want[i] = 0xff
	}
	want[0] = 0b0101_1111
	require.Equal(t, want, p.UpperBound())
}

func TestNewSaturatesBitCount(t *testing.T) {
	require.Equal(t, xorname.Bits, New(xorname.Bits, xorname.Zero).BitCount())
	require.Equal(t, xorname.Bits, New(xorname.Bits+1, xorname.Zero).BitCount())
}

func TestSiblingRoundTrip(t *testing.T) {
	p := fromBits(t, "1100")
	require.True(t, p.Equal(p.Sibling().Sibling()))
}

func TestWithFlippedBitRoundTrip(t *testing.T) {
	p := fromBits(t, "11001")
	for i := 0; i < p.BitCount(); i++ {
		require.True(t, p.Equal(p.WithFlippedBit(i).WithFlippedBit(i)))
	}
}

func TestIsCoveredByFullSpace(t *testing.T) {
	all := []Prefix{fromBits(t, "0"), fromBits(t, "1")}
	require.True(t, Default().IsCovered(all))

	partial := []Prefix{fromBits(t, "00"), fromBits(t, "1")}
	require.False(t, Default().IsCovered(partial))
}

func TestCmpDistanceCompatible(t *testing.T) {
	var target xorname.Name
	short := fromBits(t, "1")
	long := fromBits(t, "10")
	// longer (more specific) compatible prefix is considered closer.
	require.Negative(t, long.CmpDistance(short, target))
	require.Positive(t, short.CmpDistance(long, target))
}

func TestPrefixBoundsInvariant(t *testing.T) {
	// spec.md invariant 5: lower_bound(p) <= any name matched by p <= upper_bound(p)
	p := fromBits(t, "1010")
	var mid xorname.Name
	mid[0] = 0b1010_0110
	require.True(t, p.Matches(mid))
	require.False(t, mid.Less(p.LowerBound()))
	require.False(t, p.UpperBound().Less(mid))
}
