// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package prefix implements the prefix algebra over xorname.Name: the
// leading-bit-string addressing that names a section of the overlay.
package prefix

import (
	"fmt"

	"github.com/xornet/sectionchain/xorname"
)

// Prefix is a leading bit-string of a xorname.Name with an explicit
// bit count. Bits beyond BitCount are always zero in the canonical
// form produced by New.
type Prefix struct {
	bitCount int
	name     xorname.Name
}

// New returns the Prefix consisting of the first bitCount bits of name.
// Insignificant trailing bits are canonicalised to zero. bitCount is
// clamped to [0, xorname.Bits].
func New(bitCount int, name xorname.Name) Prefix {
	if bitCount < 0 {
		bitCount = 0
	}
	if bitCount > xorname.Bits {
		bitCount = xorname.Bits
	}
	return Prefix{
		bitCount: bitCount,
		name:     name.WithRemaining(bitCount, false),
	}
}

// Default is the zero-length prefix, matching every name.
func Default() Prefix { return Prefix{} }

// BitCount returns the number of significant leading bits.
func (p Prefix) BitCount() int { return p.bitCount }

// Name exposes the canonical backing name (trailing bits zeroed).
func (p Prefix) Name() xorname.Name { return p.name }

// Matches reports whether name starts with this prefix.
func (p Prefix) Matches(name xorname.Name) bool {
	return p.name.CommonPrefixLen(name) >= p.bitCount
}

// IsCompatible reports whether one of p, other is a prefix of the other.
func (p Prefix) IsCompatible(other Prefix) bool {
	i := p.name.CommonPrefixLen(other.name)
	return i >= p.bitCount || i >= other.bitCount
}

// IsExtensionOf reports whether other is compatible with p and
// strictly shorter, i.e. p was reached from other by one or more splits.
func (p Prefix) IsExtensionOf(other Prefix) bool {
	i := p.name.CommonPrefixLen(other.name)
	return i >= other.bitCount && p.bitCount > other.bitCount
}

// IsNeighbour reports whether other differs from p in exactly one bit
// within both bit counts.
func (p Prefix) IsNeighbour(other Prefix) bool {
	i := p.name.CommonPrefixLen(other.name)
	if i >= p.bitCount || i >= other.bitCount {
		return false
	}
	j := p.name.WithFlippedBit(i).CommonPrefixLen(other.name)
	return j >= p.bitCount || j >= other.bitCount
}

// CommonPrefixLen returns the number of leading bits p shares with
// name, capped at p's own bit count.
func (p Prefix) CommonPrefixLen(name xorname.Name) int {
	cp := p.name.CommonPrefixLen(name)
	if cp > p.bitCount {
		return p.bitCount
	}
	return cp
}

// Pushed returns p with one more bit appended. If p is already at the
// maximum bit count, an unmodified copy is returned.
func (p Prefix) Pushed(bit bool) Prefix {
	if p.bitCount >= xorname.Bits {
		return p
	}
	name := p.name.WithBit(p.bitCount, bit)
	return Prefix{bitCount: p.bitCount + 1, name: name}
}

// Popped returns p with its last bit dropped, or p unchanged if it is
// already the empty prefix.
func (p Prefix) Popped() Prefix {
	if p.bitCount == 0 {
		return p
	}
	bc := p.bitCount - 1
	return Prefix{bitCount: bc, name: p.name.WithBit(bc, false)}
}

// WithFlippedBit returns the prefix differing from p in bit i. If i is
// beyond p's bit count, p is returned unchanged.
func (p Prefix) WithFlippedBit(i int) Prefix {
	if i >= p.bitCount {
		return p
	}
	return New(p.bitCount, p.name.WithFlippedBit(i))
}

// Sibling returns p with its last bit flipped (the other child of p's
// parent), or p unchanged if p is the empty prefix.
func (p Prefix) Sibling() Prefix {
	if p.bitCount == 0 {
		return p
	}
	return p.WithFlippedBit(p.bitCount - 1)
}

// LowerBound returns the smallest name matching p.
func (p Prefix) LowerBound() xorname.Name {
	return p.name.WithRemaining(p.bitCount, false)
}

// UpperBound returns the largest name matching p.
func (p Prefix) UpperBound() xorname.Name {
	return p.name.WithRemaining(p.bitCount, true)
}

// SubstitutedIn returns name with its leading bits replaced by p.
func (p Prefix) SubstitutedIn(name xorname.Name) xorname.Name {
	for i := 0; i < p.bitCount; i++ {
		name = name.WithBit(i, p.name.Bit(i))
	}
	return name
}

// Equal reports exact equality: identical bit count and identical
// leading bits.
func (p Prefix) Equal(other Prefix) bool {
	return p.bitCount == other.bitCount && p.IsCompatible(other)
}

// CmpDistance compares the distance of p and other to target. A
// negative result means p is closer, positive means other is closer.
// Compatible prefixes compare by bit count (longer, i.e. more
// specific, is closer); otherwise the prefix sharing the longer common
// prefix with target is closer, and where those lengths are equal the
// XOR distance of the two backing names to target decides. Distinct
// incompatible prefixes therefore never compare equal, so sorting by
// this order is deterministic.
func (p Prefix) CmpDistance(other Prefix, target xorname.Name) int {
	if p.IsCompatible(other) {
		switch {
		case p.bitCount < other.bitCount:
			return 1
		case p.bitCount > other.bitCount:
			return -1
		default:
			return 0
		}
	}
	cp := p.name.CommonPrefixLen(target)
	co := other.name.CommonPrefixLen(target)
	switch {
	case co < cp:
		return -1
	case co > cp:
		return 1
	default:
		return p.name.CmpDistance(other.name, target)
	}
}

// IsCovered reports whether the namespace defined by p equals the
// union of the given prefixes.
func (p Prefix) IsCovered(prefixes []Prefix) bool {
	maxLen := 0
	for _, x := range prefixes {
		if x.bitCount > maxLen {
			maxLen = x.bitCount
		}
	}
	return p.isCoveredBy(prefixes, maxLen)
}

func (p Prefix) isCoveredBy(prefixes []Prefix, maxLen int) bool {
	for _, x := range prefixes {
		if x.IsCompatible(p) && x.bitCount <= p.bitCount {
			return true
		}
	}
	return p.bitCount <= maxLen &&
		p.Pushed(false).isCoveredBy(prefixes, maxLen) &&
		p.Pushed(true).isCoveredBy(prefixes, maxLen)
}

// Binary renders the bit string, e.g. "101".
func (p Prefix) Binary() string {
	return p.name.Binary()[:p.bitCount]
}

func (p Prefix) String() string {
	return fmt.Sprintf("Prefix(%s)", p.Binary())
}
