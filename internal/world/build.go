package world

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/udisondev/islandcraft/internal/model"
)

// ErrCellOccupied is returned by PlaceBuildable when the grid cell already
// holds a buildable.
var ErrCellOccupied = errors.New("build cell occupied")

// ErrNotBuildable is returned by PlaceBuildable for non-buildable IDs.
var ErrNotBuildable = errors.New("prop is not buildable")

// CanPlaceBuildable reports whether grid cell origin of node idx is free.
// Only buildables of the same node are compared.
func (m *Manager) CanPlaceBuildable(idx model.NodeIndex, origin model.GridPoint) bool {
	n := m.Node(idx)
	if n == nil {
		return false
	}
	return !n.BuildableAt(origin)
}

// PlaceBuildable constructs the buildable rec describes and adds it to the
// node under it.
func (m *Manager) PlaceBuildable(rec model.PropRecord) (*model.Prop, error) {
	p, err := m.factory.Construct(rec)
	if err != nil {
		return nil, fmt.Errorf("placing buildable: %w", err)
	}
	if p.Kind() != model.KindBuildable {
		return nil, fmt.Errorf("placing prop %d: %w", rec.ID, ErrNotBuildable)
	}

	idx, _ := m.GetTerrainHeightAndNode(p.Position())
	if idx == model.NoNode {
		return nil, fmt.Errorf("placing buildable %d at %v: %w", rec.ID, p.Position(), ErrNoOwningNode)
	}
	if !m.CanPlaceBuildable(idx, p.Build().GridOrigin) {
		return nil, fmt.Errorf("placing buildable %d at %v: %w", rec.ID, p.Build().GridOrigin, ErrCellOccupied)
	}

	loc := m.Node(idx).ReceiveNewProp(p)
	slog.Debug("buildable placed", "id", rec.ID, "location", loc)
	return p, nil
}
