package world

import (
	"context"
	"errors"

	"github.com/udisondev/islandcraft/internal/model"
)

// ErrNoSnapshot is returned by a Store that holds no saved world yet.
var ErrNoSnapshot = errors.New("no saved world")

// Snapshot is the persisted state of a world: per-node prop lists plus the
// global lists that are not partitioned by node.
type Snapshot struct {
	Nodes            map[model.NodeIndex][]model.PropRecord
	Triggers         []model.TriggerRecord
	LogicProps       []model.LogicPropRecord
	WaterVolumes     []model.WaterVolumeRecord
	ParticleEmitters []model.ParticleEmitterRecord
	UsefulLocations  []model.UsefulLocationRecord
}

// PropCount returns the number of node props in the snapshot.
func (s Snapshot) PropCount() int {
	n := 0
	for _, recs := range s.Nodes {
		n += len(recs)
	}
	return n
}

// Store loads and saves world snapshots.
type Store interface {
	// Load returns ErrNoSnapshot when nothing was saved yet.
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
}
