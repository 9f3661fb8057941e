package routingalgorithm

import (
	"math"

	"github.com/lintang-b-s/navigatorx-lanes/pkg/datastructure"
)

const infDist = math.MaxUint64

// QueryState is the scratch memory of one bidirectional query. It is sized for
// one hierarchy and reset in O(touched) between queries.
type QueryState struct {
	df, db    []uint64
	cameFromf []uint32
	cameFromb []uint32
	touched   []uint32

	forwQ *datastructure.MinHeap[uint32]
	backQ *datastructure.MinHeap[uint32]
}

func NewQueryState(numNodes int) *QueryState {
	qs := &QueryState{
		df:        make([]uint64, numNodes),
		db:        make([]uint64, numNodes),
		cameFromf: make([]uint32, numNodes),
		cameFromb: make([]uint32, numNodes),
		touched:   make([]uint32, 0),
		forwQ:     datastructure.NewMinHeap[uint32](),
		backQ:     datastructure.NewMinHeap[uint32](),
	}
	for i := 0; i < numNodes; i++ {
		qs.df[i] = infDist
		qs.db[i] = infDist
	}
	return qs
}

func (qs *QueryState) visit(node uint32) {
	if qs.df[node] == infDist && qs.db[node] == infDist {
		qs.touched = append(qs.touched, node)
	}
}

func (qs *QueryState) setForward(node uint32, dist uint64, parent uint32) {
	qs.visit(node)
	qs.df[node] = dist
	qs.cameFromf[node] = parent
	qs.forwQ.Insert(datastructure.PriorityQueueNode[uint32]{Rank: float64(dist), Item: node})
}

func (qs *QueryState) setBackward(node uint32, dist uint64, parent uint32) {
	qs.visit(node)
	qs.db[node] = dist
	qs.cameFromb[node] = parent
	qs.backQ.Insert(datastructure.PriorityQueueNode[uint32]{Rank: float64(dist), Item: node})
}

func (qs *QueryState) Reset() {
	for _, v := range qs.touched {
		qs.df[v] = infDist
		qs.db[v] = infDist
	}
	qs.touched = qs.touched[:0]
	qs.forwQ.Clear()
	qs.backQ.Clear()
}

func minRank(q *datastructure.MinHeap[uint32]) float64 {
	item, err := q.GetMin()
	if err != nil {
		return math.Inf(1)
	}
	return item.Rank
}
