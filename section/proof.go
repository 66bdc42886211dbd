// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package section

import (
	"github.com/luxfi/crypto/bls"
	"github.com/luxfi/ids"
)

// Quorum fractions, per spec.md §6.
const (
	QuorumNumerator   = 2
	QuorumDenominator = 3
)

// Proof is a single member's signature over an observation's payload.
type Proof struct {
	PubID     PublicId
	Signature *bls.Signature
}

// Set is a collection of Proofs keyed by signer, one per member.
// The zero value is usable (an empty set) but NewSet is preferred for
// clarity at call sites, mirroring the teacher's utils/set.NewSet idiom.
type Set struct {
	proofs map[ids.NodeID]Proof
}

// NewSet returns an empty proof set.
func NewSet() Set {
	return Set{proofs: make(map[ids.NodeID]Proof)}
}

// AddProof inserts p, returning false if a proof from the same signer
// was already present (the insert still replaces it — duplicate
// inserts are a signal for peer-misbehaviour detection upstream, not a
// hard error, per spec.md §4.2).
func (s *Set) AddProof(p Proof) bool {
	if s.proofs == nil {
		s.proofs = make(map[ids.NodeID]Proof)
	}
	_, existed := s.proofs[p.PubID.NodeID]
	s.proofs[p.PubID.NodeID] = p
	return !existed
}

// ContainsID reports whether id has a proof in the set.
func (s Set) ContainsID(id ids.NodeID) bool {
	_, ok := s.proofs[id]
	return ok
}

// Len returns the number of distinct signers.
func (s Set) Len() int { return len(s.proofs) }

// All returns every Proof in the set, in no particular order.
func (s Set) All() []Proof {
	out := make([]Proof, 0, len(s.proofs))
	for _, p := range s.proofs {
		out = append(out, p)
	}
	return out
}

// Clone returns an independent copy of s.
func (s Set) Clone() Set {
	out := NewSet()
	for k, v := range s.proofs {
		out.proofs[k] = v
	}
	return out
}

// quorumCount returns the number of proofs whose signer is a member of ref.
func (s Set) quorumCount(ref Info) int {
	count := 0
	for id := range s.proofs {
		for _, m := range ref.members {
			if m.NodeID == id {
				count++
				break
			}
		}
	}
	return count
}

// IsQuorum reports whether the proofs covering ref's membership reach
// the configured quorum fraction (default 2/3, spec.md §3).
func (s Set) IsQuorum(ref Info) bool {
	n := len(ref.members)
	if n == 0 {
		return false
	}
	count := s.quorumCount(ref)
	return count*QuorumDenominator >= n*QuorumNumerator
}

// IsTotalConsensus reports whether every member of ref has signed.
func (s Set) IsTotalConsensus(ref Info) bool {
	n := len(ref.members)
	if n == 0 {
		return false
	}
	return s.quorumCount(ref) == n
}
