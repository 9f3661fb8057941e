package network

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

type jsonRoad struct {
	ID         uint32   `json:"id"`
	SpeedLimit float64  `json:"speed_limit"`
	Lanes      []uint32 `json:"lanes"`
}

type jsonLane struct {
	ID     uint32  `json:"id"`
	Road   uint32  `json:"road"`
	Type   string  `json:"type"`
	Length float64 `json:"length"`
	SrcI   uint32  `json:"src_i"`
	DstI   uint32  `json:"dst_i"`
}

type jsonTurn struct {
	Src    uint32  `json:"src"`
	Dst    uint32  `json:"dst"`
	Length float64 `json:"length"`
}

type jsonNetwork struct {
	Roads []jsonRoad `json:"roads"`
	Lanes []jsonLane `json:"lanes"`
	Turns []jsonTurn `json:"turns"`
}

// LoadJSON reads a network description. Turns take their intersection from the
// source lane's end.
func LoadJSON(r io.Reader) (*Map, error) {
	var raw jsonNetwork
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidNetwork, err)
	}

	roads := make([]Road, 0, len(raw.Roads))
	for _, r := range raw.Roads {
		lanes := make([]LaneID, 0, len(r.Lanes))
		for _, l := range r.Lanes {
			lanes = append(lanes, LaneID(l))
		}
		roads = append(roads, Road{ID: RoadID(r.ID), SpeedLimit: r.SpeedLimit, Lanes: lanes})
	}

	lanes := make([]Lane, 0, len(raw.Lanes))
	for _, l := range raw.Lanes {
		lt, err := ParseLaneType(l.Type)
		if err != nil {
			return nil, err
		}
		lanes = append(lanes, Lane{
			ID:     LaneID(l.ID),
			Road:   RoadID(l.Road),
			Type:   lt,
			Length: l.Length,
			SrcI:   IntersectionID(l.SrcI),
			DstI:   IntersectionID(l.DstI),
		})
	}

	turns := make([]Turn, 0, len(raw.Turns))
	for _, t := range raw.Turns {
		if int(t.Src) >= len(lanes) {
			return nil, fmt.Errorf("%w: turn from unknown lane %d", ErrInvalidNetwork, t.Src)
		}
		turns = append(turns, Turn{
			ID: TurnID{
				Parent: lanes[t.Src].DstI,
				Src:    LaneID(t.Src),
				Dst:    LaneID(t.Dst),
			},
			Length: t.Length,
		})
	}

	return NewMap(roads, lanes, turns)
}

func LoadJSONFile(path string) (*Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadJSON(f)
}
