package rstartree

import (
	"encoding/binary"
	"fmt"
	"io"
	"log"
)

// Encode writes the tree's full state as fixed little-endian records:
// a header (MaxNodeEntries, MinNodeEntries, tree height, root node id,
// size, node count), followed by one packed record per arena slot. A
// freed slot is written as a single int32 -1 in place of the level
// field, with no further data, so ids stay stable across an
// encode/decode round trip.
func (t *RTree) Encode(w io.Writer) error {
	header := []int32{
		int32(t.cfg.MaxNodeEntries),
		int32(t.cfg.MinNodeEntries),
		int32(t.height),
		t.rootID,
		int32(t.size),
		int32(len(t.arena.nodes)),
	}
	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		return fmt.Errorf("rstartree: encode header: %w", err)
	}

	for _, n := range t.arena.nodes {
		if n == nil {
			if err := binary.Write(w, binary.LittleEndian, int32(-1)); err != nil {
				return fmt.Errorf("rstartree: encode freed slot: %w", err)
			}
			continue
		}
		if err := encodeNode(w, n); err != nil {
			return err
		}
	}
	return nil
}

func encodeNode(w io.Writer, n *node) error {
	fields := []interface{}{
		int32(n.level),
		int32(n.entryCount),
		n.entryMinX,
		n.entryMinY,
		n.entryMaxX,
		n.entryMaxY,
		n.ids,
		n.mbr.MinX, n.mbr.MinY, n.mbr.MaxX, n.mbr.MaxY,
	}
	for _, f := range fields {
		if err := binary.Write(w, binary.LittleEndian, f); err != nil {
			return fmt.Errorf("rstartree: encode node: %w", err)
		}
	}
	return nil
}

// Decode reads a tree previously written by Encode. The header is
// self-describing (it carries its own MaxNodeEntries/MinNodeEntries),
// so cfg is only used as an expectation check: a mismatch against the
// stream's own values is logged as a warning, the same way an invalid
// Config passed to New is, rather than rejected outright.
func Decode(r io.Reader, cfg Config) (*RTree, error) {
	var header [6]int32
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("rstartree: decode header: %w", err)
	}
	maxEntries := int(header[0])

	if cfg.MaxNodeEntries != 0 && cfg.MaxNodeEntries != maxEntries {
		log.Printf("rstartree: decode: cfg.MaxNodeEntries=%d does not match encoded value %d; using the encoded value",
			cfg.MaxNodeEntries, maxEntries)
	}
	if cfg.MinNodeEntries != 0 && cfg.MinNodeEntries != int(header[1]) {
		log.Printf("rstartree: decode: cfg.MinNodeEntries=%d does not match encoded value %d; using the encoded value",
			cfg.MinNodeEntries, header[1])
	}

	t := &RTree{
		cfg:          Config{MaxNodeEntries: maxEntries, MinNodeEntries: int(header[1])},
		height:       int(header[2]),
		rootID:       header[3],
		size:         int(header[4]),
		parents:      NewIntArray(8),
		parentsEntry: NewIntArray(8),
		entryStatus:  make([]byte, maxEntries+2),
	}

	nodeCount := int(header[5])
	a := &arena{nodes: make([]*node, nodeCount)}
	for i := 0; i < nodeCount; i++ {
		var level int32
		if err := binary.Read(r, binary.LittleEndian, &level); err != nil {
			return nil, fmt.Errorf("rstartree: decode node %d: %w", i, err)
		}
		if level < 0 {
			a.free = append(a.free, int32(i))
			continue
		}
		n, err := decodeNode(r, maxEntries, int(level))
		if err != nil {
			return nil, fmt.Errorf("rstartree: decode node %d: %w", i, err)
		}
		a.nodes[i] = n
	}
	t.arena = a
	return t, nil
}

func decodeNode(r io.Reader, maxEntries int, level int) (*node, error) {
	n := newNode(maxEntries, level)

	var entryCount int32
	if err := binary.Read(r, binary.LittleEndian, &entryCount); err != nil {
		return nil, err
	}
	n.entryCount = int(entryCount)

	fields := []interface{}{
		n.entryMinX,
		n.entryMinY,
		n.entryMaxX,
		n.entryMaxY,
		n.ids,
	}
	for _, f := range fields {
		if err := binary.Read(r, binary.LittleEndian, f); err != nil {
			return nil, err
		}
	}

	var mbr [4]float32
	if err := binary.Read(r, binary.LittleEndian, &mbr); err != nil {
		return nil, err
	}
	n.mbr = Rect{MinX: mbr[0], MinY: mbr[1], MaxX: mbr[2], MaxY: mbr[3]}

	return n, nil
}
