package pathfind

import (
	"fmt"
	"math"

	"github.com/lintang-b-s/navigatorx-lanes/pkg/costfunction"
	"github.com/lintang-b-s/navigatorx-lanes/pkg/network"
)

type StepKind uint8

const (
	StepLane StepKind = iota
	StepTurn
)

// PathStep is either a lane traversal or a movement through an intersection.
// Only the field matching Kind is meaningful.
type PathStep struct {
	Kind StepKind
	Lane network.LaneID
	Turn network.TurnID
}

func LaneStep(id network.LaneID) PathStep {
	return PathStep{Kind: StepLane, Lane: id}
}

func TurnStep(id network.TurnID) PathStep {
	return PathStep{Kind: StepTurn, Turn: id}
}

func (s PathStep) String() string {
	if s.Kind == StepTurn {
		return s.Turn.String()
	}
	return s.Lane.String()
}

// Position is a point on a lane, DistAlong meters from its start.
type Position struct {
	Lane      network.LaneID
	DistAlong float64
}

type PathRequest struct {
	Start Position
	End   Position
	Mode  network.Mode
}

func (r PathRequest) String() string {
	return fmt.Sprintf("%v from %v (%.1fm) to %v (%.1fm)",
		r.Mode, r.Start.Lane, r.Start.DistAlong, r.End.Lane, r.End.DistAlong)
}

// Path alternates lane and turn steps, starting and ending with a lane. Cost is
// the total edge weight in Unit.
type Path struct {
	Steps     []PathStep
	StartDist float64
	EndDist   float64
	Cost      float64
	Unit      costfunction.Unit
}

func (p *Path) Lanes() []network.LaneID {
	lanes := make([]network.LaneID, 0, len(p.Steps)/2+1)
	for _, s := range p.Steps {
		if s.Kind == StepLane {
			lanes = append(lanes, s.Lane)
		}
	}
	return lanes
}

func (p *Path) Turns() []network.TurnID {
	turns := make([]network.TurnID, 0, len(p.Steps)/2)
	for _, s := range p.Steps {
		if s.Kind == StepTurn {
			turns = append(turns, s.Turn)
		}
	}
	return turns
}

type lengthNetwork interface {
	GetLane(id network.LaneID) network.Lane
	GetTurn(id network.TurnID) (network.Turn, bool)
}

// Length is the distance travelled in meters: the first lane from the start
// offset, every intermediate lane and turn in full, the last lane up to the end
// offset.
func (p *Path) Length(net lengthNetwork) float64 {
	if len(p.Steps) == 0 {
		return 0
	}
	if len(p.Steps) == 1 {
		return math.Max(0, p.EndDist-p.StartDist)
	}

	total := 0.0
	last := len(p.Steps) - 1
	for i, s := range p.Steps {
		switch {
		case s.Kind == StepTurn:
			if t, ok := net.GetTurn(s.Turn); ok {
				total += t.Length
			}
		case i == 0:
			total += math.Max(0, net.GetLane(s.Lane).Length-p.StartDist)
		case i == last:
			total += p.EndDist
		default:
			total += net.GetLane(s.Lane).Length
		}
	}
	return total
}
