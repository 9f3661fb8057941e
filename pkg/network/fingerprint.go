package network

import (
	"encoding/binary"
	"math"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint hashes everything a pathfinder is compiled from: lanes, road
// speed limits and lane order, turns and banned turns. Two maps with the same
// fingerprint route identically.
func (m *Map) Fingerprint() uint64 {
	h := xxhash.New()
	var buf [8]byte
	put := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}

	put(uint64(len(m.lanes)))
	for _, l := range m.lanes {
		put(uint64(l.Road))
		put(uint64(l.Type))
		put(math.Float64bits(l.Length))
		put(uint64(l.SrcI))
		put(uint64(l.DstI))
	}

	put(uint64(len(m.roads)))
	for _, r := range m.roads {
		put(math.Float64bits(r.SpeedLimit))
		put(uint64(len(r.Lanes)))
		for _, id := range r.Lanes {
			put(uint64(id))
		}
	}

	// turnsFrom is sorted per source lane, walk sources in lane order
	for src := range m.lanes {
		ts := m.turnsFrom[LaneID(src)]
		put(uint64(len(ts)))
		for _, t := range ts {
			putTurnID(put, t.ID)
			put(math.Float64bits(t.Length))
		}
	}

	banned := make([]TurnID, 0, len(m.bannedTurns))
	for t := range m.bannedTurns {
		banned = append(banned, t)
	}
	sort.Slice(banned, func(i, j int) bool {
		a, b := banned[i], banned[j]
		if a.Src != b.Src {
			return a.Src < b.Src
		}
		if a.Dst != b.Dst {
			return a.Dst < b.Dst
		}
		return a.Parent < b.Parent
	})
	put(uint64(len(banned)))
	for _, t := range banned {
		putTurnID(put, t)
	}

	return h.Sum64()
}

func putTurnID(put func(uint64), t TurnID) {
	put(uint64(t.Parent))
	put(uint64(t.Src))
	put(uint64(t.Dst))
}
