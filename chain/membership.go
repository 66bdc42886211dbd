// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"github.com/xornet/sectionchain/section"
	"github.com/xornet/sectionchain/sharedstate"
)

// AddMember implements spec.md §4.4: either grows our NewInfo by one
// member, or (if the grown membership warrants it) begins a split.
func (c *Chain) AddMember(id section.PublicId) error {
	if c.state.Change != sharedstate.ChangeNone {
		return ErrInvalidStateForOperation
	}
	if !c.state.OurPrefix().Matches(id.Name) {
		return ErrInvalidStateForOperation
	}

	members := unionMembers(c.state.NewInfo().Members(), id)

	if c.shouldSplit(members) {
		c.state.Change = sharedstate.ChangeSplitting
		ours, sibling := c.splitSelf(members)
		c.state.SetNewInfo(ours)
		_ = sibling // the sibling SectionInfo is re-voted by the embedder via its own SectionInfo event
		return nil
	}

	next := section.Successor(members, c.state.OurPrefix(), c.state.NewInfo())
	c.state.SetNewInfo(next)
	return nil
}

// RemoveMember mirrors AddMember; if the resulting section would drop
// below MinSecSize, it marks the section as needing a merge.
func (c *Chain) RemoveMember(id section.PublicId) error {
	if c.state.Change != sharedstate.ChangeNone {
		return ErrInvalidStateForOperation
	}

	members := subtractMember(c.state.NewInfo().Members(), id)

	next := section.Successor(members, c.state.OurPrefix(), c.state.NewInfo())
	c.state.SetNewInfo(next)

	if len(members) < c.minSecSize {
		c.state.Change = sharedstate.ChangeMerging
	}
	return nil
}

// shouldSplit implements spec.md §4.4's should_split predicate.
func (c *Chain) shouldSplit(members []section.PublicId) bool {
	if c.state.Change != sharedstate.ChangeNone {
		return false
	}
	if c.shouldVoteForMerge() {
		return false
	}

	bit := c.state.OurPrefix().BitCount()
	newSize := 0
	for _, m := range members {
		if c.ourID.Name.CommonPrefixLen(m.Name) > bit {
			newSize++
		}
	}
	minSplitSize := c.minSecSize + SplitBuffer
	return newSize >= minSplitSize && len(members) >= minSplitSize+newSize
}

// shouldVoteForMerge reports whether our section is already below the
// threshold that would make growth (rather than merge) the wrong call.
func (c *Chain) shouldVoteForMerge() bool {
	return len(c.state.OurInfo().Members()) < c.minSecSize
}

// splitSelf computes the two sibling SectionInfos resulting from a
// split: ours (the half containing c.ourID) first, then the sibling.
func (c *Chain) splitSelf(members []section.PublicId) (ours, sibling section.Info) {
	bit := c.state.OurPrefix().BitCount()
	ourBit := c.ourID.Name.Bit(bit)

	ourPfx := c.state.OurPrefix().Pushed(ourBit)
	siblingPfx := c.state.OurPrefix().Pushed(!ourBit)

	var ourMembers, siblingMembers []section.PublicId
	for _, m := range members {
		if m.Name.Bit(bit) == ourBit {
			ourMembers = append(ourMembers, m)
		} else {
			siblingMembers = append(siblingMembers, m)
		}
	}

	prev := c.state.NewInfo()
	ours = section.Successor(ourMembers, ourPfx, prev)
	sibling = section.Successor(siblingMembers, siblingPfx, prev)
	return ours, sibling
}

func unionMembers(members []section.PublicId, id section.PublicId) []section.PublicId {
	out := make([]section.PublicId, 0, len(members)+1)
	out = append(out, members...)
	out = append(out, id)
	return out
}

func subtractMember(members []section.PublicId, id section.PublicId) []section.PublicId {
	out := make([]section.PublicId, 0, len(members))
	for _, m := range members {
		if m.NodeID != id.NodeID {
			out = append(out, m)
		}
	}
	return out
}
