package network

import "fmt"

// Edits describes modifications to a network that keep the lane set intact:
// lane type changes, lane closures and turn filters.
type Edits struct {
	ChangedLaneTypes map[LaneID]LaneType
	ClosedLanes      []LaneID
	BannedTurns      []TurnID
}

func (e Edits) IsEmpty() bool {
	return len(e.ChangedLaneTypes) == 0 && len(e.ClosedLanes) == 0 && len(e.BannedTurns) == 0
}

// ApplyEdits returns a new Map with the edits applied. The receiver is left
// untouched, so pathfinders built from it stay consistent until they are
// rebuilt against the result.
func (m *Map) ApplyEdits(e Edits) (*Map, error) {
	c := m.clone()
	for id, lt := range e.ChangedLaneTypes {
		if int(id) >= len(c.lanes) {
			return nil, fmt.Errorf("%w: edit references unknown %v", ErrInvalidNetwork, id)
		}
		if _, ok := laneTypeNames[lt]; !ok {
			return nil, fmt.Errorf("%w: edit sets unknown lane type %d", ErrInvalidNetwork, lt)
		}
		c.lanes[id].Type = lt
	}
	for _, id := range e.ClosedLanes {
		if int(id) >= len(c.lanes) {
			return nil, fmt.Errorf("%w: edit closes unknown %v", ErrInvalidNetwork, id)
		}
		c.lanes[id].Type = LaneTypeConstruction
	}
	for _, t := range e.BannedTurns {
		if _, ok := c.GetTurn(t); !ok {
			return nil, fmt.Errorf("%w: edit bans unknown %v", ErrInvalidNetwork, t)
		}
		c.bannedTurns[t] = struct{}{}
	}
	return c, nil
}
