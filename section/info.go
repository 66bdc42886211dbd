// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package section

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"sort"

	"github.com/luxfi/ids"

	"github.com/xornet/sectionchain/prefix"
	"github.com/xornet/sectionchain/xorname"
)

// ErrNoPredecessor names a SectionInfo that lacks the predecessor it
// should succeed. No function in this package returns it: New builds a
// version-0 info with no predecessor, and Successor always takes one.
var ErrNoPredecessor = errors.New("section: new info has no predecessor")

// Info is an immutable, signed description of a section's members at
// a version. The predecessor is referenced by hash rather than by Go
// pointer/index so SharedState can hold a flat, append-only history
// without an ownership cycle.
type Info struct {
	prefix    prefix.Prefix
	version   uint64
	members   []PublicId // sorted by PublicId.Less, de-duplicated
	prevHash  ids.ID
	hasPrev   bool
	hash      ids.ID
}

// New builds the first SectionInfo of a chain (version 0, no predecessor).
func New(members []PublicId, pfx prefix.Prefix) Info {
	info := Info{prefix: pfx, version: 0, members: sortedMembers(members)}
	info.hash = info.computeHash()
	return info
}

// Successor builds the SectionInfo that follows prev: same or evolved
// prefix, version = prev.Version()+1.
func Successor(members []PublicId, pfx prefix.Prefix, prev Info) Info {
	info := Info{
		prefix:   pfx,
		version:  prev.version + 1,
		members:  sortedMembers(members),
		prevHash: prev.hash,
		hasPrev:  true,
	}
	info.hash = info.computeHash()
	return info
}

func sortedMembers(members []PublicId) []PublicId {
	out := make([]PublicId, 0, len(members))
	seen := map[ids.NodeID]bool{}
	for _, m := range members {
		if seen[m.NodeID] {
			continue
		}
		seen[m.NodeID] = true
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

func (i Info) computeHash() ids.ID {
	h := sha256.New()
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], i.version)
	h.Write(buf[:])
	name := i.prefix.Name()
	h.Write(name[:])
	binary.BigEndian.PutUint64(buf[:], uint64(i.prefix.BitCount()))
	h.Write(buf[:])
	if i.hasPrev {
		h.Write(i.prevHash[:])
	}
	for _, m := range i.members {
		h.Write(m.NodeID[:])
	}
	var sum [32]byte
	copy(sum[:], h.Sum(nil))
	return ids.ID(sum)
}

func (i Info) Prefix() prefix.Prefix { return i.prefix }
func (i Info) Version() uint64       { return i.version }
func (i Info) Hash() ids.ID          { return i.hash }
func (i Info) Members() []PublicId   { return i.members }

// MemberNames returns the XOR addresses of the members, in the same
// order as Members.
func (i Info) MemberNames() []xorname.Name {
	out := make([]xorname.Name, len(i.members))
	for idx, m := range i.members {
		out[idx] = m.Name
	}
	return out
}

// Contains reports whether id is a member.
func (i Info) Contains(id PublicId) bool {
	for _, m := range i.members {
		if m.NodeID == id.NodeID {
			return true
		}
	}
	return false
}

// IsSuccessorOf reports whether i validly follows prev: version
// incremented by exactly one and i actually links back to prev by hash.
func (i Info) IsSuccessorOf(prev Info) bool {
	return i.hasPrev && i.prevHash == prev.hash && i.version == prev.version+1
}

func (i Info) Equal(other Info) bool {
	return i.hash == other.hash
}
