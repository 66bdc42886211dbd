// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/luxfi/ids"

	"github.com/xornet/sectionchain/prefix"
	"github.com/xornet/sectionchain/section"
	"github.com/xornet/sectionchain/sectionproof"
)

// Kind enumerates the NetworkEvent taxonomy (spec.md §6).
type Kind int

const (
	KindSectionInfo Kind = iota
	KindTheirKeyInfo
	KindAckMessage
	KindSendAckMessage
	KindOurMerge
	KindNeighbourMerge
	KindAddElder
	KindRemoveElder
	KindOnline
	KindOffline
	KindExpectCandidate
	KindPurgeCandidate
)

func (k Kind) String() string {
	switch k {
	case KindSectionInfo:
		return "SectionInfo"
	case KindTheirKeyInfo:
		return "TheirKeyInfo"
	case KindAckMessage:
		return "AckMessage"
	case KindSendAckMessage:
		return "SendAckMessage"
	case KindOurMerge:
		return "OurMerge"
	case KindNeighbourMerge:
		return "NeighbourMerge"
	case KindAddElder:
		return "AddElder"
	case KindRemoveElder:
		return "RemoveElder"
	case KindOnline:
		return "Online"
	case KindOffline:
		return "Offline"
	case KindExpectCandidate:
		return "ExpectCandidate"
	case KindPurgeCandidate:
		return "PurgeCandidate"
	default:
		return "Unknown"
	}
}

// Event is a single observation delivered by the external consensus
// engine, lifted to the shape the Chain understands. Only the fields
// relevant to Kind are populated by a caller; the rest are the zero
// value.
type Event struct {
	Kind Kind

	SectionInfo section.Info
	KeyInfo     sectionproof.KeyInfo

	AckSrcPrefix prefix.Prefix
	AckVersion   uint64

	Digest ids.ID

	PubID    section.PublicId
	Interval [2]ids.ID // resource-proof target interval, AddElder/candidate events

	Payload []byte // SendAckMessage / Online opaque payload
}

// Key is the comparable, order-stable identity an Event is accumulated
// and deduplicated under. Two Events that would have identical
// observable effect on the Chain must produce identical Keys.
type Key struct {
	Kind   Kind
	Digest ids.ID
}

// key computes the accumulator/completed-set key for e.
func (e Event) key() Key {
	h := sha256.New()
	var kindBuf [8]byte
	binary.BigEndian.PutUint64(kindBuf[:], uint64(e.Kind))
	h.Write(kindBuf[:])

	switch e.Kind {
	case KindSectionInfo:
		hash := e.SectionInfo.Hash()
		h.Write(hash[:])
	case KindTheirKeyInfo:
		name := e.KeyInfo.Prefix.Name()
		h.Write(name[:])
		writeUint64(h, uint64(e.KeyInfo.Prefix.BitCount()))
		writeUint64(h, e.KeyInfo.Version)
	case KindAckMessage:
		name := e.AckSrcPrefix.Name()
		h.Write(name[:])
		writeUint64(h, uint64(e.AckSrcPrefix.BitCount()))
		writeUint64(h, e.AckVersion)
	case KindSendAckMessage:
		h.Write(e.Payload)
	case KindOurMerge:
		// single logical instance; singleton key.
	case KindNeighbourMerge:
		h.Write(e.Digest[:])
	case KindAddElder, KindRemoveElder, KindExpectCandidate, KindPurgeCandidate:
		h.Write(e.PubID.NodeID[:])
	case KindOnline:
		h.Write(e.PubID.NodeID[:])
		h.Write(e.Payload)
	case KindOffline:
		h.Write(e.PubID.NodeID[:])
	}

	var digest ids.ID
	copy(digest[:], h.Sum(nil))
	return Key{Kind: e.Kind, Digest: digest}
}

func writeUint64(h interface{ Write([]byte) (int, error) }, v uint64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	h.Write(buf[:])
}

// SectionInfoEvent builds a KindSectionInfo event.
func SectionInfoEvent(info section.Info) Event {
	return Event{Kind: KindSectionInfo, SectionInfo: info}
}

// TheirKeyInfoEvent builds a KindTheirKeyInfo event.
func TheirKeyInfoEvent(k sectionproof.KeyInfo) Event {
	return Event{Kind: KindTheirKeyInfo, KeyInfo: k}
}

// AckMessageEvent builds a KindAckMessage event.
func AckMessageEvent(srcPrefix prefix.Prefix, version uint64) Event {
	return Event{Kind: KindAckMessage, AckSrcPrefix: srcPrefix, AckVersion: version}
}

// SendAckMessageEvent builds a KindSendAckMessage event.
func SendAckMessageEvent(payload []byte) Event {
	return Event{Kind: KindSendAckMessage, Payload: payload}
}

// OurMergeEvent builds a KindOurMerge event.
func OurMergeEvent() Event { return Event{Kind: KindOurMerge} }

// NeighbourMergeEvent builds a KindNeighbourMerge event.
func NeighbourMergeEvent(digest ids.ID) Event {
	return Event{Kind: KindNeighbourMerge, Digest: digest}
}

// AddElderEvent builds a KindAddElder event.
func AddElderEvent(id section.PublicId) Event {
	return Event{Kind: KindAddElder, PubID: id}
}

// RemoveElderEvent builds a KindRemoveElder event.
func RemoveElderEvent(id section.PublicId) Event {
	return Event{Kind: KindRemoveElder, PubID: id}
}

// OnlineEvent builds a KindOnline event.
func OnlineEvent(id section.PublicId, payload []byte) Event {
	return Event{Kind: KindOnline, PubID: id, Payload: payload}
}

// OfflineEvent builds a KindOffline event.
func OfflineEvent(id section.PublicId) Event {
	return Event{Kind: KindOffline, PubID: id}
}

// ExpectCandidateEvent builds a KindExpectCandidate event.
func ExpectCandidateEvent(id section.PublicId) Event {
	return Event{Kind: KindExpectCandidate, PubID: id}
}

// PurgeCandidateEvent builds a KindPurgeCandidate event.
func PurgeCandidateEvent(id section.PublicId) Event {
	return Event{Kind: KindPurgeCandidate, PubID: id}
}
