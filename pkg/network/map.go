package network

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrInvalidNetwork = errors.New("invalid network")
	ErrNoClosestLane  = errors.New("no lane of the requested type on this road")
)

// Map is an immutable, in-memory road network snapshot. Lane and road ids are
// dense indices into the map. Edits never add or remove lanes, they produce a
// new Map through ApplyEdits.
type Map struct {
	lanes       []Lane
	roads       []Road
	turnsFrom   map[LaneID][]Turn
	turnIdx     map[TurnID]int
	bannedTurns map[TurnID]struct{}
}

func NewMap(roads []Road, lanes []Lane, turns []Turn) (*Map, error) {
	for i, r := range roads {
		if r.ID != RoadID(i) {
			return nil, fmt.Errorf("%w: road at index %d has id %d", ErrInvalidNetwork, i, r.ID)
		}
		if r.SpeedLimit <= 0 {
			return nil, fmt.Errorf("%w: road %d has non-positive speed limit", ErrInvalidNetwork, r.ID)
		}
	}
	for i, l := range lanes {
		if l.ID != LaneID(i) {
			return nil, fmt.Errorf("%w: lane at index %d has id %d", ErrInvalidNetwork, i, l.ID)
		}
		if int(l.Road) >= len(roads) {
			return nil, fmt.Errorf("%w: %v references unknown road %d", ErrInvalidNetwork, l.ID, l.Road)
		}
		if l.Length < 0 {
			return nil, fmt.Errorf("%w: %v has negative length", ErrInvalidNetwork, l.ID)
		}
	}

	// every lane is listed exactly once, on the road it names
	listed := make([]bool, len(lanes))
	for _, r := range roads {
		for _, id := range r.Lanes {
			if int(id) >= len(lanes) {
				return nil, fmt.Errorf("%w: road %d lists unknown %v", ErrInvalidNetwork, r.ID, id)
			}
			if lanes[id].Road != r.ID {
				return nil, fmt.Errorf("%w: road %d lists %v, which belongs to road %d",
					ErrInvalidNetwork, r.ID, id, lanes[id].Road)
			}
			if listed[id] {
				return nil, fmt.Errorf("%w: road %d lists %v twice", ErrInvalidNetwork, r.ID, id)
			}
			listed[id] = true
		}
	}
	for id, ok := range listed {
		if !ok {
			return nil, fmt.Errorf("%w: %v is missing from road %d", ErrInvalidNetwork,
				LaneID(id), lanes[id].Road)
		}
	}

	m := &Map{
		lanes:       make([]Lane, len(lanes)),
		roads:       make([]Road, len(roads)),
		turnsFrom:   make(map[LaneID][]Turn),
		turnIdx:     make(map[TurnID]int, len(turns)),
		bannedTurns: make(map[TurnID]struct{}),
	}
	copy(m.lanes, lanes)
	for i, r := range roads {
		r.Lanes = append([]LaneID(nil), r.Lanes...)
		m.roads[i] = r
	}

	for _, t := range turns {
		if int(t.ID.Src) >= len(lanes) || int(t.ID.Dst) >= len(lanes) {
			return nil, fmt.Errorf("%w: %v references an unknown lane", ErrInvalidNetwork, t.ID)
		}
		if t.ID.Src == t.ID.Dst {
			return nil, fmt.Errorf("%w: %v is a loop", ErrInvalidNetwork, t.ID)
		}
		if _, dup := m.turnIdx[t.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate %v", ErrInvalidNetwork, t.ID)
		}
		m.turnsFrom[t.ID.Src] = append(m.turnsFrom[t.ID.Src], t)
		m.turnIdx[t.ID] = 0
	}
	for src, ts := range m.turnsFrom {
		sort.Slice(ts, func(i, j int) bool {
			return ts[i].ID.Dst < ts[j].ID.Dst
		})
		for i, t := range ts {
			m.turnIdx[t.ID] = i
		}
		m.turnsFrom[src] = ts
	}
	return m, nil
}

func (m *Map) AllLanes() []Lane {
	return m.lanes
}

func (m *Map) NumLanes() int {
	return len(m.lanes)
}

func (m *Map) AllRoads() []Road {
	return m.roads
}

// GetLane panics on an unknown id, like any out-of-range index.
func (m *Map) GetLane(id LaneID) Lane {
	return m.lanes[id]
}

func (m *Map) GetRoad(id RoadID) Road {
	return m.roads[id]
}

// GetParent returns the road owning the lane.
func (m *Map) GetParent(id LaneID) Road {
	return m.roads[m.lanes[id].Road]
}

func (m *Map) GetTurn(id TurnID) (Turn, bool) {
	i, ok := m.turnIdx[id]
	if !ok {
		return Turn{}, false
	}
	return m.turnsFrom[id.Src][i], true
}

func (m *Map) IsTurnBanned(id TurnID) bool {
	_, banned := m.bannedTurns[id]
	return banned
}

// TurnsFrom returns every turn leaving the lane that hasn't been banned,
// ordered by destination lane.
func (m *Map) TurnsFrom(id LaneID) []Turn {
	all := m.turnsFrom[id]
	if len(m.bannedTurns) == 0 {
		return all
	}
	turns := make([]Turn, 0, len(all))
	for _, t := range all {
		if !m.IsTurnBanned(t.ID) {
			turns = append(turns, t)
		}
	}
	return turns
}

// TurnsFor returns the turns leaving the lane that lead somewhere usable in the
// given mode.
func (m *Map) TurnsFor(id LaneID, mode Mode) []Turn {
	turns := make([]Turn, 0, len(m.turnsFrom[id]))
	for _, t := range m.TurnsFrom(id) {
		if mode.CanUse(m.lanes[t.ID.Dst]) {
			turns = append(turns, t)
		}
	}
	return turns
}

// FindClosestLane finds the lane on the same road, with one of the given types,
// positioned nearest to id. Ties go to the lane listed first.
func (m *Map) FindClosestLane(id LaneID, types []LaneType) (LaneID, error) {
	road := m.GetParent(id)
	ourIdx := -1
	for i, l := range road.Lanes {
		if l == id {
			ourIdx = i
			break
		}
	}
	if ourIdx == -1 {
		return 0, fmt.Errorf("%w: %v is not listed on road %d", ErrInvalidNetwork, id, road.ID)
	}

	best, bestDist := LaneID(0), -1
	for i, l := range road.Lanes {
		if l == id || !containsType(types, m.lanes[l].Type) {
			continue
		}
		dist := i - ourIdx
		if dist < 0 {
			dist = -dist
		}
		if bestDist == -1 || dist < bestDist {
			best, bestDist = l, dist
		}
	}
	if bestDist == -1 {
		return 0, fmt.Errorf("%w: %v", ErrNoClosestLane, id)
	}
	return best, nil
}

func containsType(types []LaneType, t LaneType) bool {
	for _, x := range types {
		if x == t {
			return true
		}
	}
	return false
}

func (m *Map) clone() *Map {
	c := &Map{
		lanes:       make([]Lane, len(m.lanes)),
		roads:       m.roads,
		turnsFrom:   m.turnsFrom,
		turnIdx:     m.turnIdx,
		bannedTurns: make(map[TurnID]struct{}, len(m.bannedTurns)),
	}
	copy(c.lanes, m.lanes)
	for t := range m.bannedTurns {
		c.bannedTurns[t] = struct{}{}
	}
	return c
}
