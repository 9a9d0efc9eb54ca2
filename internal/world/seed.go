package world

import (
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/udisondev/islandcraft/internal/config"
	"github.com/udisondev/islandcraft/internal/game/terrain"
	"github.com/udisondev/islandcraft/internal/gameid"
	"github.com/udisondev/islandcraft/internal/model"
)

const (
	borderSegment = 16 // border model length along its local X
	borderInset   = 1
)

var (
	seedTrees = []int32{gameid.TreeOak, gameid.TreePine, gameid.TreeBirch, gameid.TreeWillow, gameid.TreePalm}
	seedRocks = []int32{gameid.RockSmall, gameid.RockSmall, gameid.RockLarge}
)

// SeedSnapshot returns the starting island for a new game: a border fence
// along the world edge, scattered trees and rocks, a shoreline spawn point
// and a lagoon. Everything stands on surfaces; a node without a surface is
// flat ground at height 0. The same cfg always gives the same island.
func SeedSnapshot(cfg config.World, surfaces map[model.NodeIndex]terrain.Surface) Snapshot {
	rng := rand.New(rand.NewPCG(uint64(cfg.TerrainSeed), 0x15c0ffee))
	snap := Snapshot{Nodes: make(map[model.NodeIndex][]model.PropRecord)}

	half := cfg.NodeStride / 2
	lo := -half + borderInset
	hi := float32(cfg.Size)*cfg.NodeStride - half - borderInset

	ground := func(pos mgl32.Vec3) mgl32.Vec3 {
		idx := NodeIndexAt(pos, cfg.NodeStride)
		pos[1] = 0
		if s := surfaces[idx]; s != nil {
			origin := NodeOrigin(idx, cfg.NodeStride)
			pos[1] = s.SampleHeight(pos.Sub(origin)) + origin.Y()
		}
		return pos
	}
	add := func(rec model.PropRecord) {
		idx := NodeIndexAt(rec.Position, cfg.NodeStride)
		if IsValidNodeIndex(idx, cfg.Size) {
			rec.Position = ground(rec.Position)
			snap.Nodes[idx] = append(snap.Nodes[idx], rec)
		}
	}
	unit := mgl32.Vec3{1, 1, 1}

	// Fence: segments along X on the north and south edges, rotated onto Z
	// for the west and east edges.
	for a := lo + borderSegment/2; a < hi; a += borderSegment {
		add(model.PropRecord{ID: gameid.PropBorder, Position: mgl32.Vec3{a, 0, lo}, Scale: unit})
		add(model.PropRecord{ID: gameid.PropBorder, Position: mgl32.Vec3{a, 0, hi}, Scale: unit})
		add(model.PropRecord{ID: gameid.PropBorder, Position: mgl32.Vec3{lo, 0, a}, Rotation: mgl32.Vec3{0, 90, 0}, Scale: unit})
		add(model.PropRecord{ID: gameid.PropBorder, Position: mgl32.Vec3{hi, 0, a}, Rotation: mgl32.Vec3{0, 90, 0}, Scale: unit})
	}

	margin := float32(24)
	scatter := func() mgl32.Vec3 {
		span := hi - lo - 2*margin
		return mgl32.Vec3{lo + margin + rng.Float32()*span, 0, lo + margin + rng.Float32()*span}
	}

	perNode := 12
	for range cfg.Size * cfg.Size * perNode {
		s := 0.8 + rng.Float32()*0.5
		add(model.PropRecord{
			ID:       seedTrees[rng.IntN(len(seedTrees))],
			Position: scatter(),
			Rotation: mgl32.Vec3{0, rng.Float32() * 360, 0},
			Scale:    mgl32.Vec3{s, s, s},
		})
	}
	for range cfg.Size * cfg.Size * perNode / 3 {
		add(model.PropRecord{
			ID:       seedRocks[rng.IntN(len(seedRocks))],
			Position: scatter(),
			Rotation: mgl32.Vec3{0, rng.Float32() * 360, 0},
			Scale:    unit,
		})
	}

	centre := (lo + hi) / 2
	shore := ground(mgl32.Vec3{centre, 0, lo + margin})
	camp := ground(mgl32.Vec3{centre + 8, 0, lo + margin + 8})
	// Water surface one unit above the ground at the lagoon centre
	lagoon := ground(mgl32.Vec3{centre, 0, centre}).Add(mgl32.Vec3{0, 1, 0})

	snap.UsefulLocations = []model.UsefulLocationRecord{
		{Name: "shore", Kind: model.LocationSpawn, Position: shore},
		{Name: "camp", Kind: model.LocationCampfire, Position: camp},
	}
	snap.WaterVolumes = []model.WaterVolumeRecord{
		{Position: lagoon, Size: mgl32.Vec3{48, 6, 48}, WaveHeight: 0.2, WaveSpeed: 0.8, Clarity: 0.7},
	}
	snap.ParticleEmitters = []model.ParticleEmitterRecord{
		{Effect: "campfire_smoke", Position: camp, Rate: 20, Lifetime: 3, Spread: 0.3, Enabled: true},
	}

	return snap
}
