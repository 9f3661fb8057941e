package network

import (
	"fmt"
	"strings"
)

type LaneID uint32

func (id LaneID) String() string {
	return fmt.Sprintf("Lane #%d", uint32(id))
}

type RoadID uint32

type IntersectionID uint32

type LaneType uint8

const (
	LaneTypeDriving LaneType = iota
	LaneTypeBiking
	LaneTypeBus
	LaneTypeSidewalk
	// LaneTypeConstruction marks a closed lane. No mode can use it.
	LaneTypeConstruction
)

var laneTypeNames = map[LaneType]string{
	LaneTypeDriving:      "driving",
	LaneTypeBiking:       "biking",
	LaneTypeBus:          "bus",
	LaneTypeSidewalk:     "sidewalk",
	LaneTypeConstruction: "construction",
}

func (lt LaneType) String() string {
	if s, ok := laneTypeNames[lt]; ok {
		return s
	}
	return fmt.Sprintf("LaneType(%d)", uint8(lt))
}

func ParseLaneType(s string) (LaneType, error) {
	for lt, name := range laneTypeNames {
		if strings.EqualFold(name, s) {
			return lt, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown lane type %q", ErrInvalidNetwork, s)
}

// Lane is one directional road segment. Length is in meters.
type Lane struct {
	ID     LaneID
	Road   RoadID
	Type   LaneType
	Length float64
	SrcI   IntersectionID
	DstI   IntersectionID
}

func (l Lane) IsDriving() bool {
	return l.Type == LaneTypeDriving
}

func (l Lane) IsBiking() bool {
	return l.Type == LaneTypeBiking
}

func (l Lane) IsBus() bool {
	return l.Type == LaneTypeBus
}

func (l Lane) IsSidewalk() bool {
	return l.Type == LaneTypeSidewalk
}

// Road groups parallel lanes. SpeedLimit is in meters per second, Lanes are
// ordered from one side of the road to the other.
type Road struct {
	ID         RoadID
	SpeedLimit float64
	Lanes      []LaneID
}

type TurnID struct {
	Parent IntersectionID
	Src    LaneID
	Dst    LaneID
}

func (t TurnID) String() string {
	return fmt.Sprintf("Turn(%d, %d) at #%d", uint32(t.Src), uint32(t.Dst), uint32(t.Parent))
}

// Turn is a movement through an intersection. Length is in meters.
type Turn struct {
	ID     TurnID
	Length float64
}
