package pathfind

import (
	"github.com/lintang-b-s/navigatorx-lanes/pkg/costfunction"
	"github.com/lintang-b-s/navigatorx-lanes/pkg/network"
)

// BikeLaneFinding is a lane a bike path entered through Turn although the
// closest bike lane on the same road was cheaper for the same turn.
type BikeLaneFinding struct {
	Turn         network.TurnID
	Lane         network.LaneID
	LaneCost     uint32
	BikeLane     network.LaneID
	BikeLaneCost uint32
}

/*
AuditBikeRoute walks every turn -> lane pair of a bike path. When the lane is
not a bike lane but its road has one, both are costed with the same turn and
the pair is reported if the bike lane is strictly cheaper. This is slow and
for diagnostics only.
*/
func AuditBikeRoute(path *Path, net Network) []BikeLaneFinding {
	var findings []BikeLaneFinding
	for i := 0; i+1 < len(path.Steps); i++ {
		if path.Steps[i].Kind != StepTurn || path.Steps[i+1].Kind != StepLane {
			continue
		}
		lane := net.GetLane(path.Steps[i+1].Lane)
		if lane.IsBiking() {
			continue
		}
		turn, ok := net.GetTurn(path.Steps[i].Turn)
		if !ok {
			turn = network.Turn{ID: path.Steps[i].Turn}
		}

		bikeLaneID, err := net.FindClosestLane(lane.ID, []network.LaneType{network.LaneTypeBiking})
		if err != nil {
			continue
		}
		bikeLane := net.GetLane(bikeLaneID)

		cost1 := costfunction.Cost(lane, turn, network.ModeBike, net)
		cost2 := costfunction.Cost(bikeLane, turn, network.ModeBike, net)
		if cost2 < cost1 {
			findings = append(findings, BikeLaneFinding{
				Turn:         turn.ID,
				Lane:         lane.ID,
				LaneCost:     cost1,
				BikeLane:     bikeLaneID,
				BikeLaneCost: cost2,
			})
		}
	}
	return findings
}
