// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"github.com/xornet/sectionchain/prefix"
	"github.com/xornet/sectionchain/section"
	"github.com/xornet/sectionchain/sectionproof"
	"github.com/xornet/sectionchain/sharedstate"
)

// addSectionInfo dispatches a newly-accumulated SectionInfo to one of
// the three integration cases of spec.md §4.5.
func (c *Chain) addSectionInfo(info section.Info, proofs section.Set) error {
	if info.Prefix().IsExtensionOf(c.state.OurPrefix()) {
		return c.addSplitSibling(info, proofs)
	}
	if info.Prefix().Matches(c.ourID.Name) {
		return c.installOwnSectionInfo(info, proofs)
	}
	return c.addNeighbourSectionInfo(info, proofs)
}

// addSplitSibling implements case A: sec_info.prefix extends our
// pre-split prefix. The first of the pair (ours or its sibling) is
// cached; when the second arrives, both are installed together, ours
// first so the sibling validates as a neighbour rather than being
// pruned by checkAndCleanNeighbourInfos.
func (c *Chain) addSplitSibling(info section.Info, proofs section.Set) error {
	cache := c.state.GetSplitCache()
	if cache == nil {
		c.state.SetSplitCache(&sharedstate.SplitCache{Info: info, Proofs: proofs})
		return nil
	}
	c.state.TakeSplitCache()

	var ours, sibling section.Info
	var oursProofs section.Set
	if cache.Info.Prefix().Matches(c.ourID.Name) {
		ours, oursProofs, sibling = cache.Info, cache.Proofs, info
	} else {
		ours, oursProofs, sibling = info, proofs, cache.Info
	}

	if err := c.installOwnSectionInfo(ours, oursProofs); err != nil {
		return err
	}
	c.state.SetNeighbourInfo(sibling.Prefix(), sibling)
	c.checkAndCleanNeighbourInfos()
	return nil
}

// installOwnSectionInfo implements case B: info becomes our own
// section's latest accumulated state.
func (c *Chain) installOwnSectionInfo(info section.Info, _ section.Set) error {
	// The section's new public key is derived by the external signing
	// collaborator once quorum is known; Chain records the slot and
	// leaves Key nil until SetSectionKey supplies it.
	key := sectionproof.KeyInfo{Prefix: info.Prefix(), Version: info.Version()}
	c.state.PushOurNewInfo(info, key)

	if !c.isMember && info.Contains(c.ourID) {
		c.isMember = true
	}

	c.checkAndCleanNeighbourInfos()
	return nil
}

// SetSectionKey patches the public key of an already-recorded
// SectionProofChain entry, once the embedder's signing collaborator
// has derived it from the accumulated proofs.
func (c *Chain) SetSectionKey(k sectionproof.KeyInfo) {
	entries := c.state.OurHistory().All()
	for i := range entries {
		if entries[i].Prefix.Equal(k.Prefix) && entries[i].Version == k.Version {
			entries[i].Key = k.Key
			return
		}
	}
}

// addNeighbourSectionInfo implements case C: info describes a section
// other than our own.
func (c *Chain) addNeighbourSectionInfo(info section.Info, proofs section.Set) error {
	if !c.hasQuorumAgainstOurHistory(proofs) {
		return ErrInvalidMessage
	}

	old, existed := c.state.SetNeighbourInfo(info.Prefix(), info)
	if existed && old.Version() > info.Version() {
		c.diagnostics.Violation("neighbour_info_ejected_by_older",
			"prefix", info.Prefix().String(),
			"existing_version", old.Version(),
			"incoming_version", info.Version(),
		)
		// The older info is rejected: put the newer entry back.
		c.state.SetNeighbourInfo(info.Prefix(), old)
		return nil
	}

	c.maybeFabricateSibling(info)
	c.checkAndCleanNeighbourInfos()
	return nil
}

// hasQuorumAgainstOurHistory reports whether proofs reach quorum
// against any SectionInfo we have ever held ourselves — i.e. some
// past version of us signed the introduction of this neighbour.
func (c *Chain) hasQuorumAgainstOurHistory(proofs section.Set) bool {
	for _, ourInfo := range c.state.OurInfos() {
		if proofs.IsQuorum(ourInfo) {
			return true
		}
	}
	return false
}

// maybeFabricateSibling reconstructs a sibling SectionInfo from the
// parent's known membership when info is one half of a remote split
// and the other half has not yet been observed directly.
func (c *Chain) maybeFabricateSibling(info section.Info) {
	siblingPfx := info.Prefix().Sibling()
	if _, ok := c.state.NeighbourInfos()[siblingPfx]; ok {
		return
	}
	if !c.state.OurPrefix().IsNeighbour(siblingPfx) {
		return
	}
	parentPfx := info.Prefix().Popped()
	parent, ok := c.state.NeighbourInfos()[parentPfx]
	if !ok {
		return
	}

	var members []section.PublicId
	for _, m := range parent.Members() {
		if siblingPfx.Matches(m.Name) {
			members = append(members, m)
		}
	}
	if len(members) == 0 {
		return
	}
	fabricated := section.Successor(members, siblingPfx, parent)
	c.state.SetNeighbourInfo(siblingPfx, fabricated)
}

// checkAndCleanNeighbourInfos implements spec.md §4.6.
func (c *Chain) checkAndCleanNeighbourInfos() {
	infos := c.state.NeighbourInfos()
	ourPfx := c.state.OurPrefix()

	keys := make([]prefix.Prefix, 0, len(infos))
	for pfx := range infos {
		keys = append(keys, pfx)
	}
	for _, pfx := range keys {
		if !ourPfx.IsNeighbour(pfx) {
			c.state.RemoveNeighbourInfo(pfx)
		}
	}

	infos = c.state.NeighbourInfos()
	keys = keys[:0]
	for pfx := range infos {
		keys = append(keys, pfx)
	}

	toRemove := make(map[prefix.Prefix]bool)
	for _, a := range keys {
		infoA := infos[a]
		for _, b := range keys {
			if a.Equal(b) {
				continue
			}
			if !a.IsCompatible(b) {
				continue
			}
			if b.IsExtensionOf(a) {
				continue // keep the shorter entry during a split transition
			}
			if infoA.Version() < infos[b].Version() {
				toRemove[a] = true
			}
		}
	}
	for pfx := range toRemove {
		c.state.RemoveNeighbourInfo(pfx)
	}
}

// PrefixChangeOutcome is the result of FinalisePrefixChange.
type PrefixChangeOutcome struct {
	GenPfxInfo        GenesisPfxInfo
	CachedEvents      []Event
	CompletedEventKeys []Key
}

// FinalisePrefixChange implements spec.md §4.7: ends the current
// prefix-change phase, snapshots our section into a fresh
// GenesisPfxInfo, and returns the events that must be re-voted.
//
// Full completed Events are not retained once applied (only their
// dedup Keys are, to keep the accumulator's memory bounded); callers
// that need the completed payloads should track them themselves
// before calling Poll.
func (c *Chain) FinalisePrefixChange() (PrefixChangeOutcome, error) {
	c.state.Change = sharedstate.ChangeNone

	snapshot, err := c.state.GetGenesisRelatedInfo()
	if err != nil {
		return PrefixChangeOutcome{}, ErrSerialisation
	}

	genesis := GenesisPfxInfo{
		FirstInfo:            c.state.OurInfo(),
		FirstStateSerialized: snapshot,
	}

	var cached []Event
	for _, entry := range c.accumulator {
		if entry.proofs.ContainsID(c.ourID.NodeID) {
			cached = append(cached, entry.event)
		}
	}
	for _, ev := range c.eventCache {
		cached = append(cached, ev)
	}
	for digest := range c.state.Merging() {
		cached = append(cached, NeighbourMergeEvent(digest))
	}

	completedKeys := make([]Key, 0, len(c.completedEvents))
	for k := range c.completedEvents {
		completedKeys = append(completedKeys, k)
	}

	c.accumulator = make(map[Key]*accumEntry)
	c.completedEvents = make(map[Key]struct{})
	c.eventCache = make(map[Key]Event)
	c.state.ClearMerging()

	return PrefixChangeOutcome{
		GenPfxInfo:         genesis,
		CachedEvents:       cached,
		CompletedEventKeys: completedKeys,
	}, nil
}
