package costfunction

import (
	"fmt"
	"math"

	"github.com/lintang-b-s/navigatorx-lanes/pkg/network"
)

type Network interface {
	GetParent(id network.LaneID) network.Road
}

// Unit is the physical unit an edge weight stands for.
type Unit uint8

const (
	UnitSeconds Unit = iota
	UnitMeters
)

func (u Unit) String() string {
	if u == UnitMeters {
		return "m"
	}
	return "s"
}

func UnitOf(mode network.Mode) Unit {
	if mode == network.ModeBike {
		return UnitMeters
	}
	return UnitSeconds
}

const (
	bikeLanePenalty     = 1.0
	bikeOnBusPenalty    = 1.1
	bikeOnRoadPenalty   = 1.5
	busLanePenalty      = 1.0
	busOnDrivingPenalty = 1.1
)

// Cost is the weight of leaving lane through turn in the given mode. Weights
// are whole units (seconds for cars and buses, meters for bikes); sub-unit
// precision is rounded away.
func Cost(lane network.Lane, turn network.Turn, mode network.Mode, net Network) uint32 {
	switch mode {
	case network.ModeCar:
		// prefer slightly longer routes on faster roads
		return round(travelTime(lane, turn, net))
	case network.ModeBike:
		// speed limits don't matter, bikes are limited by their own speed
		dist := lane.Length + turn.Length
		var penalty float64
		switch {
		case lane.IsBiking():
			penalty = bikeLanePenalty
		case lane.IsBus():
			penalty = bikeOnBusPenalty
		case lane.IsDriving():
			penalty = bikeOnRoadPenalty
		default:
			panic(fmt.Sprintf("bike cost requested for %v of type %v", lane.ID, lane.Type))
		}
		return round(penalty * dist)
	case network.ModeBus:
		var penalty float64
		switch {
		case lane.IsBus():
			penalty = busLanePenalty
		case lane.IsDriving():
			penalty = busOnDrivingPenalty
		default:
			panic(fmt.Sprintf("bus cost requested for %v of type %v", lane.ID, lane.Type))
		}
		return round(penalty * travelTime(lane, turn, net))
	}
	panic(fmt.Sprintf("no vehicle cost function for mode %v", mode))
}

// travelTime is the seconds spent on the lane at its road's speed limit plus
// the seconds spent on the turn at the destination road's speed limit.
func travelTime(lane network.Lane, turn network.Turn, net Network) float64 {
	t1 := lane.Length / net.GetParent(lane.ID).SpeedLimit
	t2 := turn.Length / net.GetParent(turn.ID.Dst).SpeedLimit
	return t1 + t2
}

func round(v float64) uint32 {
	r := math.Round(v)
	if r >= math.MaxUint32 {
		return math.MaxUint32 - 1
	}
	return uint32(r)
}
