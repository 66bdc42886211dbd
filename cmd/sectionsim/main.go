// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Command sectionsim drives a single Chain through a scripted sequence
// of membership churn, printing the resulting prefixes and neighbour
// bookkeeping after each step. It is a manual-inspection harness for
// the split/merge scenarios of spec.md §8, not part of the core.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/luxfi/ids"

	"github.com/xornet/sectionchain/chain"
	"github.com/xornet/sectionchain/prefix"
	"github.com/xornet/sectionchain/section"
	"github.com/xornet/sectionchain/sectionproof"
	"github.com/xornet/sectionchain/sharedstate"
	"github.com/xornet/sectionchain/xorname"
)

func main() {
	minSecSize := flag.Int("min-size", 3, "minimum viable section size")
	ourSideCount := flag.Int("our-side", 3, "genesis members sharing our node's top address bit")
	otherSideCount := flag.Int("other-side", 4, "genesis members on the sibling side of the first split bit")
	joins := flag.Int("joins", 1, "additional our-side nodes to join one at a time")
	flag.Parse()

	// The default counts (3/4 genesis split, 1 join, min-size 3)
	// reproduce the minimal scenario that crosses should_split's
	// threshold on the first join; other combinations mostly just
	// demonstrate plain growth without a split.
	genesisMembers := make([]section.PublicId, 0, *ourSideCount+*otherSideCount)
	for i := 0; i < *ourSideCount; i++ {
		genesisMembers = append(genesisMembers, testID(byte(i), true))
	}
	for i := 0; i < *otherSideCount; i++ {
		genesisMembers = append(genesisMembers, testID(byte(*ourSideCount+i), false))
	}
	ourID := genesisMembers[0]

	first := section.New(genesisMembers, prefix.Default())
	c, err := chain.New(*minSecSize, ourID, chain.GenesisPfxInfo{
		FirstInfo:  first,
		GenesisKey: sectionproof.KeyInfo{Prefix: prefix.Default(), Version: 0},
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "sectionsim: new chain:", err)
		os.Exit(1)
	}

	printState(c, "genesis")

	all := append([]section.PublicId{}, genesisMembers...)
	for i := 0; i < *joins; i++ {
		newID := testID(byte(*ourSideCount+*otherSideCount+i), true)
		all = append(all, newID)

		if err := c.AddMember(newID); err != nil {
			fmt.Fprintf(os.Stderr, "sectionsim: add member %d: %v\n", i, err)
			os.Exit(1)
		}

		vote(c, chain.SectionInfoEvent(c.State().NewInfo()), all)
		drain(c)

		if c.State().Change != sharedstate.ChangeNone {
			// A split started: the sibling half is a pure function of
			// the same membership and prefix bit, so the driver (which
			// plays every node's role in this single-process demo)
			// reconstructs and votes it in too. Our own half is only
			// cached until its sibling arrives, so OurInfo is still the
			// pre-split info both halves succeed.
			siblingPfx := c.State().NewInfo().Prefix().Sibling()
			var siblingMembers []section.PublicId
			for _, m := range all {
				if siblingPfx.Matches(m.Name) {
					siblingMembers = append(siblingMembers, m)
				}
			}
			sibling := section.Successor(siblingMembers, siblingPfx, c.OurInfo())
			vote(c, chain.SectionInfoEvent(sibling), all)
			drain(c)

			outcome, err := c.FinalisePrefixChange()
			if err != nil {
				fmt.Fprintln(os.Stderr, "sectionsim: finalise prefix change:", err)
				os.Exit(1)
			}
			fmt.Printf("  split finalised: %d cached event(s) to re-vote\n", len(outcome.CachedEvents))
		}

		printState(c, fmt.Sprintf("join %d", i+1))
	}
}

// vote signs event with every member in signers, simulating the
// embedder gathering proofs from the rest of the section.
func vote(c *chain.Chain, event chain.Event, signers []section.PublicId) {
	for _, m := range signers {
		if err := c.HandleOpaqueEvent(event, section.Proof{PubID: m}); err != nil {
			fmt.Fprintln(os.Stderr, "sectionsim: vote:", err)
			os.Exit(1)
		}
	}
}

// drain applies every transition the accumulator can currently resolve.
func drain(c *chain.Chain) {
	for {
		_, applied, err := c.Poll()
		if err != nil {
			fmt.Fprintln(os.Stderr, "sectionsim: poll:", err)
			os.Exit(1)
		}
		if !applied {
			return
		}
	}
}

func printState(c *chain.Chain, label string) {
	fmt.Printf("[%s] our prefix=%s version=%d members=%d neighbours=%d\n",
		label, c.Prefix().Binary(), c.OurInfo().Version(), len(c.OurInfo().Members()),
		len(c.State().NeighbourInfos()))
}

// testID builds a deterministic identity whose address's top bit is
// ourSide, and whose remaining bits vary with b so addresses within a
// side stay distinct.
func testID(b byte, ourSide bool) section.PublicId {
	var nodeID ids.NodeID
	nodeID[0] = b
	var name xorname.Name
	name[0] = b &^ 0x80
	if ourSide {
		name[0] |= 0x80
	}
	return section.PublicId{NodeID: nodeID, Name: name}
}
