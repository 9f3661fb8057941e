package pathfind

import (
	"errors"
	"fmt"

	"github.com/kelindar/binary"

	"github.com/lintang-b-s/navigatorx-lanes/pkg/contractor"
	"github.com/lintang-b-s/navigatorx-lanes/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-lanes/pkg/network"
	"github.com/lintang-b-s/navigatorx-lanes/pkg/nodemap"
)

// pathfinderBlob is the persisted form of a VehiclePathfinder. Query scratch
// state is not part of it.
type pathfinderBlob struct {
	Mode      network.Mode
	Keys      []network.LaneID
	Hierarchy contractor.Hierarchy
}

func (p *VehiclePathfinder) MarshalBinary() ([]byte, error) {
	blob := pathfinderBlob{
		Mode:      p.mode,
		Keys:      p.nodes.Keys(),
		Hierarchy: *p.engine.Load().Hierarchy(),
	}
	encoded, err := binary.Marshal(blob)
	if err != nil {
		return nil, fmt.Errorf("encoding %v pathfinder: %w", p.mode, err)
	}

	return datastructure.Compress(encoded), nil
}

// UnmarshalBinary restores a pathfinder written by MarshalBinary. The query
// engine and its scratch pool are created fresh.
func (p *VehiclePathfinder) UnmarshalBinary(data []byte) error {
	if p.cfg.logger == nil {
		p.cfg = newConfig(nil)
	}

	if len(data) == 0 {
		return errors.New("empty pathfinder blob")
	}
	decompressed, err := datastructure.Decompress(data)
	if err != nil {
		return fmt.Errorf("decompressing pathfinder: %w", err)
	}

	var blob pathfinderBlob
	if err := binary.Unmarshal(decompressed, &blob); err != nil {
		return fmt.Errorf("decoding pathfinder: %w", err)
	}
	if !blob.Mode.IsVehicle() {
		return fmt.Errorf("%w: %v", ErrNotVehicleMode, blob.Mode)
	}
	if err := blob.Hierarchy.Validate(); err != nil {
		return err
	}
	if len(blob.Keys) != blob.Hierarchy.NumNodes() {
		return fmt.Errorf("%w: %d keys for %d hierarchy nodes",
			ErrNodeSetMismatch, len(blob.Keys), blob.Hierarchy.NumNodes())
	}

	nodes, err := nodemap.FromKeys(blob.Keys)
	if err != nil {
		return err
	}
	h := blob.Hierarchy
	p.mode = blob.Mode
	p.nodes = nodes
	e, err := p.newEngine(&h)
	if err != nil {
		return err
	}
	p.engine.Store(e)
	return nil
}

// Load restores a pathfinder from MarshalBinary output.
func Load(data []byte, opts ...Option) (*VehiclePathfinder, error) {
	p := &VehiclePathfinder{cfg: newConfig(opts)}
	if err := p.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return p, nil
}
