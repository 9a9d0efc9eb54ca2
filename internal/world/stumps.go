package world

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/udisondev/islandcraft/internal/gameid"
	"github.com/udisondev/islandcraft/internal/model"
)

// ErrNotATree is returned by ChopTree when the slot holds something else.
var ErrNotATree = errors.New("prop is not a tree")

type stumpTimer struct {
	location model.WorldLocation
	elapsed  time.Duration
}

// RegisterStump starts the regrowth timer of the stump at loc.
func (m *Manager) RegisterStump(loc model.WorldLocation) {
	m.stumps = append(m.stumps, &stumpTimer{location: loc})
}

// StumpCount returns the number of regrowth timers, finished ones included.
func (m *Manager) StumpCount() int { return len(m.stumps) }

// UpdateStumps advances every regrowth timer by elapsed. A stump whose timer
// reached the regrow time turns back into the tree it came from, in the
// same slot.
//
// Timers are never removed. Once a slot is overwritten its handle is stale,
// so a finished timer keeps failing the lookup and never regrows twice.
func (m *Manager) UpdateStumps(elapsed time.Duration) {
	for _, s := range m.stumps {
		s.elapsed += elapsed
		if s.elapsed < m.cfg.StumpRegrowTime {
			continue
		}
		m.regrow(s)
	}
}

func (m *Manager) regrow(s *stumpTimer) {
	n := m.Node(s.location.Node)
	if n == nil {
		return
	}
	stump, ok := n.Prop(s.location)
	if !ok {
		return
	}

	treeID, ok := gameid.TreeFor(stump.ID())
	if !ok {
		slog.Warn("registered stump has no tree species", "location", s.location, "id", stump.ID())
		return
	}

	rec := stump.Record()
	rec.ID = treeID
	tree, err := m.factory.Construct(rec)
	if err != nil {
		slog.Error("regrowing tree", "location", s.location, "error", err)
		return
	}

	loc, err := n.Replace(s.location, tree)
	if err != nil {
		slog.Error("regrowing tree", "location", s.location, "error", err)
		return
	}

	slog.Debug("tree regrown", "location", loc, "id", treeID)
}

// ChopTree turns the tree at loc into a stump, starts its regrowth timer and
// returns the lumber it yields.
func (m *Manager) ChopTree(loc model.WorldLocation) (int, error) {
	n := m.Node(loc.Node)
	if n == nil {
		return 0, fmt.Errorf("chopping tree at %s: %w", loc, ErrStaleLocation)
	}
	tree, ok := n.Prop(loc)
	if !ok {
		return 0, fmt.Errorf("chopping tree at %s: %w", loc, ErrStaleLocation)
	}

	stumpID, ok := gameid.StumpFor(tree.ID())
	if !ok {
		return 0, fmt.Errorf("chopping prop %d at %s: %w", tree.ID(), loc, ErrNotATree)
	}

	rec := tree.Record()
	rec.ID = stumpID
	stump, err := m.factory.Construct(rec)
	if err != nil {
		return 0, fmt.Errorf("chopping tree at %s: %w", loc, err)
	}

	next, err := n.Replace(loc, stump)
	if err != nil {
		return 0, fmt.Errorf("chopping tree at %s: %w", loc, err)
	}
	m.RegisterStump(next)

	lumber := gameid.LumberYield(tree.ID())
	slog.Debug("tree chopped", "location", next, "lumber", lumber)
	return lumber, nil
}
