package contractor

import (
	"math"

	"github.com/lintang-b-s/navigatorx-lanes/pkg/datastructure"
)

const infDist = math.MaxUint64

// witnessSearch keeps its distance array between searches and only resets the
// entries the previous search touched.
type witnessSearch struct {
	dist    []uint64
	touched []uint32
	pq      *datastructure.MinHeap[uint32]
}

func newWitnessSearch(n int) *witnessSearch {
	dist := make([]uint64, n)
	for i := range dist {
		dist[i] = infDist
	}
	return &witnessSearch{
		dist:    dist,
		touched: make([]uint32, 0),
		pq:      datastructure.NewMinHeap[uint32](),
	}
}

func (ws *witnessSearch) reset() {
	for _, v := range ws.touched {
		ws.dist[v] = infDist
	}
	ws.touched = ws.touched[:0]
	ws.pq.Clear()
}

/*
search runs dijkstra from source over the uncontracted graph without entering
ignoreNodeID (the node being contracted). It stops once the closest queued node
is farther than maxDist or after maxSettledNodes nodes were settled. distTo then
gives an upper bound of the shortest source -> w path that avoids ignoreNodeID,
or infDist if none was found within the limits.

O((V+E)logV) with the binary heap.
*/
func (ws *witnessSearch) search(c *contractor, source, ignoreNodeID uint32, maxDist uint64, maxSettledNodes int) {
	ws.reset()

	ws.dist[source] = 0
	ws.touched = append(ws.touched, source)
	ws.pq.Insert(datastructure.PriorityQueueNode[uint32]{Rank: 0, Item: source})

	settledNodes := 0
	for !ws.pq.IsEmpty() && settledNodes < maxSettledNodes {
		currItem, _ := ws.pq.ExtractMin()
		cur := currItem.Item
		d := ws.dist[cur]
		if d > maxDist {
			return
		}
		settledNodes++

		for _, arc := range c.out[cur] {
			to := arc.node
			if to == ignoreNodeID || c.contracted[to] {
				continue
			}
			newCost := d + uint64(arc.weight)
			if newCost >= ws.dist[to] {
				continue
			}
			if ws.dist[to] == infDist {
				ws.touched = append(ws.touched, to)
			}
			ws.dist[to] = newCost
			ws.pq.Insert(datastructure.PriorityQueueNode[uint32]{Rank: float64(newCost), Item: to})
		}
	}
}

func (ws *witnessSearch) distTo(node uint32) uint64 {
	return ws.dist[node]
}
