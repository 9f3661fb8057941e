package network

import (
	"fmt"
	"strings"
)

// Mode is what kind of traveller a path is computed for. It decides which lanes
// are usable and how edges are weighted.
type Mode uint8

const (
	ModeCar Mode = iota
	ModeBike
	ModeBus
	ModePedestrian
)

// VehicleModes are the modes served by vehicle pathfinders, in build order.
// The first one is built with a fresh node ordering and seeds the rest.
var VehicleModes = []Mode{ModeCar, ModeBike, ModeBus}

var modeNames = map[Mode]string{
	ModeCar:        "car",
	ModeBike:       "bike",
	ModeBus:        "bus",
	ModePedestrian: "pedestrian",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if strings.EqualFold(name, s) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

func (m Mode) IsVehicle() bool {
	return m == ModeCar || m == ModeBike || m == ModeBus
}

// CanUse reports whether lane l may be traversed in mode m.
func (m Mode) CanUse(l Lane) bool {
	switch m {
	case ModeCar:
		return l.IsDriving()
	case ModeBike:
		return l.IsDriving() || l.IsBiking() || l.IsBus()
	case ModeBus:
		return l.IsDriving() || l.IsBus()
	case ModePedestrian:
		return l.IsSidewalk()
	}
	return false
}
