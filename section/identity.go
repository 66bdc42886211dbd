// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package section implements the immutable, signed SectionInfo record
// and the ProofSet/Proof accumulator predicates built over it.
package section

import (
	"github.com/luxfi/crypto/bls"
	"github.com/luxfi/ids"

	"github.com/xornet/sectionchain/xorname"
)

// PublicId is a peer's identity within the overlay: the signing
// identity an external key-management collaborator supplies (NodeID,
// public key), paired with the XOR address the peer is reachable at.
//
// Signing/hashing primitives are an explicit out-of-scope collaborator
// (spec.md §1); PublicId only carries the shapes that collaborator
// hands back, it never mints keys itself.
type PublicId struct {
	NodeID ids.NodeID
	Name   xorname.Name
	Key    *bls.PublicKey
}

// Equal compares PublicIds by NodeID, their unique identity.
func (p PublicId) Equal(other PublicId) bool {
	return p.NodeID == other.NodeID
}

// Less gives PublicId a total order by NodeID, used to keep member
// lists deterministic.
func (p PublicId) Less(other PublicId) bool {
	return p.NodeID.String() < other.NodeID.String()
}
