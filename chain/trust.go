// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"github.com/xornet/sectionchain/prefix"
	"github.com/xornet/sectionchain/sectionproof"
)

// CheckTrust implements spec.md §4.8: a SectionProofChain is trusted
// if at least one of its keys appears in our TheirKeys table under a
// prefix compatible with the chain's last key's prefix.
func (c *Chain) CheckTrust(chain sectionproof.Chain) bool {
	last, ok := chain.Last()
	if !ok {
		return false
	}
	for _, entry := range chain.All() {
		known, ok := c.state.TheirKeys()[entry.Prefix]
		if !ok {
			continue
		}
		if !known.Prefix.IsCompatible(last.Prefix) {
			continue
		}
		if known.Equal(entry) {
			return true
		}
	}
	return false
}

// Prove returns our SectionProofChain sliced from the version target
// is already known to have learned, giving it the minimal proof it
// needs to validate us.
func (c *Chain) Prove(target prefix.Prefix) sectionproof.Chain {
	known := c.state.TheirKnowledge(target)
	return c.state.OurHistory().SliceFrom(int(known))
}
