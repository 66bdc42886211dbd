// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package prefix

import (
	"fmt"

	"github.com/xornet/sectionchain/xorname"
)

// Versioned pairs a Prefix with the monotonic version of the section
// it names, ordered by Cmp on (prefix, version). The section-info maps
// elsewhere in this module are keyed by the bare Prefix, not by
// Versioned.
type Versioned struct {
	Prefix  Prefix
	Version uint64
}

// NewVersioned builds a Versioned prefix, canonicalising bitCount the
// same way New does.
func NewVersioned(bitCount int, name xorname.Name, version uint64) Versioned {
	return Versioned{Prefix: New(bitCount, name), Version: version}
}

// WithVersion returns a copy with the version replaced.
func (v Versioned) WithVersion(version uint64) Versioned {
	return Versioned{Prefix: v.Prefix, Version: version}
}

// Unversioned strips the version, returning the bare Prefix.
func (v Versioned) Unversioned() Prefix { return v.Prefix }

func (v Versioned) BitCount() int { return v.Prefix.BitCount() }

// Pushed appends a bit, bumping neither nor resetting the version.
func (v Versioned) Pushed(bit bool) Versioned {
	return Versioned{Prefix: v.Prefix.Pushed(bit), Version: v.Version}
}

// Popped drops the last bit.
func (v Versioned) Popped() Versioned {
	return Versioned{Prefix: v.Prefix.Popped(), Version: v.Version}
}

// Cmp orders Versioned values lexicographically on (prefix, version).
// Prefix order is: compatible prefixes by bit count, else by backing
// name; see Prefix.CmpDistance for the distance order used elsewhere.
func (v Versioned) Cmp(other Versioned) int {
	if c := cmpPrefix(v.Prefix, other.Prefix); c != 0 {
		return c
	}
	switch {
	case v.Version < other.Version:
		return -1
	case v.Version > other.Version:
		return 1
	default:
		return 0
	}
}

func cmpPrefix(a, b Prefix) int {
	if a.IsCompatible(b) {
		switch {
		case a.bitCount < b.bitCount:
			return -1
		case a.bitCount > b.bitCount:
			return 1
		default:
			return 0
		}
	}
	if a.name.Less(b.name) {
		return -1
	}
	if b.name.Less(a.name) {
		return 1
	}
	return 0
}

func (v Versioned) String() string {
	return fmt.Sprintf("Prefix(%s, v%d)", v.Prefix.Binary(), v.Version)
}
