// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package routing

import (
	"sort"

	"github.com/luxfi/ids"

	"github.com/xornet/sectionchain/chain"
	"github.com/xornet/sectionchain/prefix"
	"github.com/xornet/sectionchain/section"
	"github.com/xornet/sectionchain/utils/set"
	"github.com/xornet/sectionchain/xorname"
)

// Connected reports which peer XOR addresses currently have an open
// connection; the transport layer that actually tracks connections is
// an out-of-scope collaborator (spec.md §1), so Targets takes this
// lookup as a plain map rather than depending on a transport package.
type Connected map[xorname.Name]bool

// Targets implements spec.md §4.9: given dst, returns the peers a
// message should be forwarded to and the delivery-group size that
// makes the forward byzantine-tolerant.
func Targets(c *chain.Chain, dst Authority, connected Connected) ([]xorname.Name, int, error) {
	switch dst.Kind {
	case AuthorityManagedNode, AuthorityClient:
		return targetSingleNode(c, dst, connected)
	case AuthorityClientManager, AuthorityNaeManager, AuthorityNodeManager, AuthoritySection:
		return targetSection(c, dst.Name, connected)
	case AuthorityPrefixSection:
		return targetPrefixSection(c, dst.Prefix, connected)
	default:
		return nil, 0, ErrCannotRoute
	}
}

func targetSingleNode(c *chain.Chain, dst Authority, connected Connected) ([]xorname.Name, int, error) {
	name := dst.Name
	if dst.Kind == AuthorityClient {
		name = dst.ProxyNodeName
	}
	if name.Equal(c.OurID().Name) {
		return nil, 0, nil
	}
	if memberOfKnownSection(c, name) && connected[name] {
		return []xorname.Name{name}, 1, nil
	}
	return candidates(c, name, connected)
}

func targetSection(c *chain.Chain, name xorname.Name, connected Connected) ([]xorname.Name, int, error) {
	closest := closestKnownPrefix(c, name)
	if closest.Equal(c.Prefix()) {
		peers := make([]xorname.Name, 0, len(c.OurInfo().Members()))
		for _, m := range c.OurInfo().Members() {
			if m.NodeID != c.OurID().NodeID {
				peers = append(peers, m.Name)
			}
		}
		return peers, len(peers), nil
	}
	return candidates(c, name, connected)
}

func targetPrefixSection(c *chain.Chain, p prefix.Prefix, connected Connected) ([]xorname.Name, int, error) {
	if !p.IsCompatible(c.Prefix()) {
		return candidates(c, p.LowerBound(), connected)
	}

	known := knownPrefixes(c)
	if !p.IsCovered(known) {
		return nil, 0, ErrCannotRoute
	}

	var peers []xorname.Name
	var seen set.Set[ids.NodeID]
	for _, pfx := range known {
		if !pfx.IsCompatible(p) {
			continue
		}
		info := sectionInfoForPrefix(c, pfx)
		for _, m := range info.Members() {
			if m.NodeID == c.OurID().NodeID || seen.Contains(m.NodeID) {
				continue
			}
			seen.Add(m.NodeID)
			peers = append(peers, m.Name)
		}
	}
	return peers, len(peers), nil
}

// candidates walks known sections from closest to target, accumulating
// connected members, and implements the stop conditions of spec.md §4.9.
func candidates(c *chain.Chain, target xorname.Name, connected Connected) ([]xorname.Name, int, error) {
	type entry struct {
		pfx  prefix.Prefix
		info section.Info
	}

	entries := []entry{{c.Prefix(), c.OurInfo()}}
	for pfx, info := range c.State().NeighbourInfos() {
		entries = append(entries, entry{pfx, info})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].pfx.CmpDistance(entries[j].pfx, target) < 0
	})

	var peers []xorname.Name
	var groupSize int
	for idx, e := range entries {
		dg := DeliveryGroupSize(len(e.info.Members()))
		groupSize = dg

		if e.pfx.Equal(c.Prefix()) {
			// We are the closest remaining section: there is nowhere
			// closer left to recurse into, so our own connected
			// members are the final hop.
			for _, m := range e.info.Members() {
				if m.NodeID == c.OurID().NodeID {
					continue
				}
				if connected[m.Name] {
					peers = append(peers, m.Name)
				}
			}
			break
		}

		for _, m := range e.info.Members() {
			if connected[m.Name] {
				peers = append(peers, m.Name)
			}
		}

		// Only the very closest section gets this short-circuit: if it
		// alone already meets its own delivery-group size, there is no
		// need to pull in farther sections too.
		if idx == 0 && dg > 0 && len(peers) >= dg {
			break
		}
	}

	if groupSize == 0 || len(peers) < groupSize {
		return nil, 0, ErrCannotRoute
	}
	sortByDistance(peers, target)
	return peers, groupSize, nil
}

func sortByDistance(peers []xorname.Name, target xorname.Name) {
	sort.Slice(peers, func(i, j int) bool {
		return peers[i].CmpDistance(peers[j], target) < 0
	})
}

func knownPrefixes(c *chain.Chain) []prefix.Prefix {
	out := []prefix.Prefix{c.Prefix()}
	for pfx := range c.State().NeighbourInfos() {
		out = append(out, pfx)
	}
	return out
}

func sectionInfoForPrefix(c *chain.Chain, pfx prefix.Prefix) section.Info {
	if pfx.Equal(c.Prefix()) {
		return c.OurInfo()
	}
	return c.State().NeighbourInfos()[pfx]
}

func closestKnownPrefix(c *chain.Chain, name xorname.Name) prefix.Prefix {
	closest := c.Prefix()
	for pfx := range c.State().NeighbourInfos() {
		if pfx.CmpDistance(closest, name) < 0 {
			closest = pfx
		}
	}
	return closest
}

func memberOfKnownSection(c *chain.Chain, name xorname.Name) bool {
	if c.OurInfo().Prefix().Matches(name) {
		for _, m := range c.OurInfo().Members() {
			if m.Name.Equal(name) {
				return true
			}
		}
	}
	for _, info := range c.State().NeighbourInfos() {
		if info.Prefix().Matches(name) {
			for _, m := range info.Members() {
				if m.Name.Equal(name) {
					return true
				}
			}
		}
	}
	return false
}
