// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sharedstate

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/xornet/sectionchain/prefix"
	"github.com/xornet/sectionchain/sectionproof"
)

// GetGenesisRelatedInfo produces the canonical snapshot of our own
// section's signing chain, serialized at a finalization boundary. This
// is the opaque blob spec.md §6/§9 requires be round-trippable through
// UpdateWithGenesisRelatedInfo; the encoding is fixed here (a uvarint
// entry count, then per entry a uvarint bit count, the 32-byte prefix
// name and a uvarint version; public keys are not encoded) and is this
// module's compatibility surface — see DESIGN.md "genesis encoding".
func (s *State) GetGenesisRelatedInfo() ([]byte, error) {
	var buf bytes.Buffer
	keys := s.ourHistory.All()
	if err := writeUvarint(&buf, uint64(len(keys))); err != nil {
		return nil, err
	}
	for _, k := range keys {
		if err := writeKeyInfo(&buf, k); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// UpdateWithGenesisRelatedInfo restores our_history from a blob
// previously produced by GetGenesisRelatedInfo. An empty blob is a
// no-op, matching the genesis case where no prior history exists yet.
func (s *State) UpdateWithGenesisRelatedInfo(blob []byte) error {
	if len(blob) == 0 {
		return nil
	}
	r := bytes.NewReader(blob)
	count, err := binary.ReadUvarint(r)
	if err != nil {
		return fmt.Errorf("sharedstate: decode genesis related info: %w", err)
	}
	if count == 0 {
		return nil
	}
	first, err := readKeyInfo(r)
	if err != nil {
		return fmt.Errorf("sharedstate: decode genesis related info: %w", err)
	}
	chain := sectionproof.New(first)
	for i := uint64(1); i < count; i++ {
		k, err := readKeyInfo(r)
		if err != nil {
			return fmt.Errorf("sharedstate: decode genesis related info: %w", err)
		}
		chain.Append(k)
	}
	s.ourHistory = chain
	return nil
}

func writeUvarint(buf *bytes.Buffer, v uint64) error {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	_, err := buf.Write(tmp[:n])
	return err
}

func writeKeyInfo(buf *bytes.Buffer, k sectionproof.KeyInfo) error {
	if err := writeUvarint(buf, uint64(k.Prefix.BitCount())); err != nil {
		return err
	}
	name := k.Prefix.Name()
	buf.Write(name[:])
	return writeUvarint(buf, k.Version)
}

func readKeyInfo(r *bytes.Reader) (sectionproof.KeyInfo, error) {
	bitCount, err := binary.ReadUvarint(r)
	if err != nil {
		return sectionproof.KeyInfo{}, err
	}
	var name [32]byte
	if _, err := r.Read(name[:]); err != nil {
		return sectionproof.KeyInfo{}, err
	}
	version, err := binary.ReadUvarint(r)
	if err != nil {
		return sectionproof.KeyInfo{}, err
	}
	return sectionproof.KeyInfo{
		Prefix:  prefix.New(int(bitCount), name),
		Version: version,
	}, nil
}
