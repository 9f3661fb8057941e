package nodemap

import "fmt"

// NodeMap assigns dense graph node indices to keys in insertion order. It is
// append-only: once a key has a node it keeps it.
type NodeMap[K comparable] struct {
	nodes map[K]uint32
	keys  []K
}

func New[K comparable]() *NodeMap[K] {
	return &NodeMap[K]{
		nodes: make(map[K]uint32),
		keys:  make([]K, 0),
	}
}

// FromKeys rebuilds a NodeMap where keys[i] maps to node i.
func FromKeys[K comparable](keys []K) (*NodeMap[K], error) {
	nm := &NodeMap[K]{
		nodes: make(map[K]uint32, len(keys)),
		keys:  make([]K, 0, len(keys)),
	}
	for _, k := range keys {
		if _, dup := nm.nodes[k]; dup {
			return nil, fmt.Errorf("duplicate key %v in node map", k)
		}
		nm.GetOrInsert(k)
	}
	return nm, nil
}

func (nm *NodeMap[K]) GetOrInsert(k K) uint32 {
	if node, ok := nm.nodes[k]; ok {
		return node
	}
	node := uint32(len(nm.keys))
	nm.keys = append(nm.keys, k)
	nm.nodes[k] = node
	return node
}

// Get panics if the key was never inserted; callers only ask for keys taken
// from the same network snapshot.
func (nm *NodeMap[K]) Get(k K) uint32 {
	node, ok := nm.nodes[k]
	if !ok {
		panic(fmt.Sprintf("%v not in node map", k))
	}
	return node
}

func (nm *NodeMap[K]) Lookup(k K) (uint32, bool) {
	node, ok := nm.nodes[k]
	return node, ok
}

func (nm *NodeMap[K]) Key(node uint32) K {
	return nm.keys[node]
}

func (nm *NodeMap[K]) Translate(path []uint32) []K {
	keys := make([]K, len(path))
	for i, node := range path {
		keys[i] = nm.keys[node]
	}
	return keys
}

func (nm *NodeMap[K]) Len() int {
	return len(nm.keys)
}

// Keys returns the keys ordered by node index. The slice is shared.
func (nm *NodeMap[K]) Keys() []K {
	return nm.keys
}
