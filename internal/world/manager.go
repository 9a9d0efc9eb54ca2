package world

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/udisondev/islandcraft/internal/config"
	"github.com/udisondev/islandcraft/internal/game/terrain"
	"github.com/udisondev/islandcraft/internal/model"
)

// ErrNoOwningNode is returned by AddProp when no node covers the prop
// position. It means a placement tool put something off the map.
var ErrNoOwningNode = errors.New("no node contains position")

// Manager owns the node grid and the global lists of the running world.
// It is driven from the game loop goroutine and is not safe for
// concurrent use.
type Manager struct {
	cfg     config.World
	factory *model.Factory

	nodes [][]*Node // [x][y]

	triggers        []*model.Trigger
	logicProps      []*model.Prop
	waterVolumes    []*model.WaterVolume
	emitters        []*model.ParticleEmitter
	usefulLocations []*model.UsefulLocation

	stumps []*stumpTimer

	triggerHandlers map[int32]model.TriggerFunc
}

// NewManager creates an empty manager. Call Initialize before use.
func NewManager(cfg config.World, factory *model.Factory) *Manager {
	return &Manager{
		cfg:             cfg,
		factory:         factory,
		triggerHandlers: make(map[int32]model.TriggerFunc),
	}
}

// Config returns the world settings.
func (m *Manager) Config() config.World { return m.cfg }

// Size returns the number of nodes per side.
func (m *Manager) Size() int { return m.cfg.Size }

// Initialize builds the node grid over surfaces and loads snap into it.
// A missing surface gets flat ground at height 0.
func (m *Manager) Initialize(surfaces map[model.NodeIndex]terrain.Surface, snap Snapshot) error {
	m.ClearAll()
	m.buildGrid(surfaces)

	for idx, records := range snap.Nodes {
		node := m.Node(idx)
		if node == nil {
			slog.Warn("saved props for node outside the world", "node", idx, "props", len(records))
			continue
		}
		if err := node.LoadPropList(records, m.factory, m); err != nil {
			return fmt.Errorf("initializing world: %w", err)
		}
	}

	for _, rec := range snap.Triggers {
		t, err := m.factory.ConstructTrigger(rec)
		if err != nil {
			return fmt.Errorf("initializing world: %w", err)
		}
		if fn, ok := m.triggerHandlers[t.ID()]; ok {
			t.SetHandler(fn)
		}
		m.triggers = append(m.triggers, t)
	}

	for _, rec := range snap.LogicProps {
		p, err := m.factory.ConstructLogic(rec)
		if err != nil {
			return fmt.Errorf("initializing world: %w", err)
		}
		if err := m.AddProp(p); err != nil {
			return fmt.Errorf("initializing world: %w", err)
		}
	}

	for _, rec := range snap.WaterVolumes {
		m.waterVolumes = append(m.waterVolumes, model.NewWaterVolume(rec))
	}
	for _, rec := range snap.ParticleEmitters {
		m.emitters = append(m.emitters, model.NewParticleEmitter(rec))
	}
	for _, rec := range snap.UsefulLocations {
		m.usefulLocations = append(m.usefulLocations, model.NewUsefulLocation(rec))
	}

	slog.Info("world initialized",
		"size", m.cfg.Size,
		"props", snap.PropCount(),
		"triggers", len(m.triggers),
		"logic_props", len(m.logicProps),
		"stumps", len(m.stumps),
		"water_volumes", len(m.waterVolumes))

	return nil
}

// InitializeForMainMenu builds bare terrain for the menu backdrop: no props,
// no triggers, no globals.
func (m *Manager) InitializeForMainMenu(surfaces map[model.NodeIndex]terrain.Surface) {
	m.ClearAll()
	m.buildGrid(surfaces)
	slog.Debug("world initialized for main menu", "size", m.cfg.Size)
}

// ClearAll drops every node and global list. Trigger handlers stay
// registered.
func (m *Manager) ClearAll() {
	for _, col := range m.nodes {
		for _, n := range col {
			n.clear()
		}
	}
	m.nodes = nil
	m.triggers = nil
	m.logicProps = nil
	m.waterVolumes = nil
	m.emitters = nil
	m.usefulLocations = nil
	m.stumps = nil
}

func (m *Manager) buildGrid(surfaces map[model.NodeIndex]terrain.Surface) {
	size := m.cfg.Size

	m.nodes = make([][]*Node, size)
	for x := range size {
		m.nodes[x] = make([]*Node, size)
		for y := range size {
			idx := model.NodeIndex{X: x, Y: y}
			surface, ok := surfaces[idx]
			if !ok || surface == nil {
				slog.Debug("no terrain for node, using flat ground", "node", idx)
				surface = terrain.NewFlat(m.cfg.HeightMapResolution, m.cfg.NodeStride, 0)
			}
			m.nodes[x][y] = NewNode(int32(x*size+y), idx, NodeOrigin(idx, m.cfg.NodeStride), surface)
		}
	}

	// Cache the 3×3 ring of every node
	for x := range size {
		for y := range size {
			m.nodes[x][y].setSurroundingNodes(SurroundingNodes(model.NodeIndex{X: x, Y: y}, size))
		}
	}
}

// GeneratedSurfaces builds noise terrain for every node of cfg's grid.
func GeneratedSurfaces(cfg config.World) map[model.NodeIndex]terrain.Surface {
	out := make(map[model.NodeIndex]terrain.Surface, cfg.Size*cfg.Size)
	for x := range cfg.Size {
		for y := range cfg.Size {
			idx := model.NodeIndex{X: x, Y: y}
			o := NodeOrigin(idx, cfg.NodeStride)
			out[idx] = terrain.NewGenerated(cfg.HeightMapResolution, cfg.NodeStride, o.X(), o.Z(), cfg.TerrainAmplitude, cfg.TerrainSeed)
		}
	}
	return out
}

// Node returns the node at idx, or nil when idx is outside the grid or the
// world is not initialized.
func (m *Manager) Node(idx model.NodeIndex) *Node {
	if !IsValidNodeIndex(idx, len(m.nodes)) {
		return nil
	}
	return m.nodes[idx.X][idx.Y]
}

// ForEachNode calls fn for every node, x-major.
func (m *Manager) ForEachNode(fn func(*Node)) {
	for _, col := range m.nodes {
		for _, n := range col {
			fn(n)
		}
	}
}

// GetTerrainHeightAndNode finds the node whose terrain covers pos and the
// terrain height there. Off the map it returns NoNode and pos.Y().
func (m *Manager) GetTerrainHeightAndNode(pos mgl32.Vec3) (model.NodeIndex, float32) {
	for _, col := range m.nodes {
		for _, n := range col {
			if n.Contains(pos) {
				return n.Index(), n.TerrainHeight(pos)
			}
		}
	}
	return model.NoNode, pos.Y()
}

// GetTerrainHeight samples the terrain of a known node. An invalid index
// returns pos.Y().
func (m *Manager) GetTerrainHeight(idx model.NodeIndex, pos mgl32.Vec3) float32 {
	n := m.Node(idx)
	if n == nil {
		return pos.Y()
	}
	return n.TerrainHeight(pos)
}

// GetSurroundingNodes returns the in-range 3×3 ring around idx without idx.
// It is empty when idx is outside the grid.
func (m *Manager) GetSurroundingNodes(idx model.NodeIndex) []model.NodeIndex {
	if n := m.Node(idx); n != nil {
		return n.SurroundingNodes()
	}
	return SurroundingNodes(idx, m.cfg.Size)
}

// AddProp places p into the node whose terrain covers its position.
func (m *Manager) AddProp(p *model.Prop) error {
	for _, col := range m.nodes {
		for _, n := range col {
			if n.Contains(p.Position()) {
				n.ReceiveNewProp(p)
				if p.Kind() == model.KindLogic {
					m.logicProps = append(m.logicProps, p)
				}
				return nil
			}
		}
	}
	return fmt.Errorf("adding prop %d at %v: %w", p.ID(), p.Position(), ErrNoOwningNode)
}

// VisibleProps lists the props to draw for a camera at camera, using the
// configured cull mode.
func (m *Manager) VisibleProps(camera mgl32.Vec3) []*model.Prop {
	var out []*model.Prop
	m.ForEachNode(func(n *Node) {
		out = append(out, n.VisibleProps(camera, m.cfg.CullMode, m.cfg.CullDistance, m.cfg.DebugDraw)...)
	})
	return out
}

// Triggers returns the global trigger list.
func (m *Manager) Triggers() []*model.Trigger { return m.triggers }

// LogicProps returns the global logic-prop list.
func (m *Manager) LogicProps() []*model.Prop { return m.logicProps }

// WaterVolumes returns the global water volumes.
func (m *Manager) WaterVolumes() []*model.WaterVolume { return m.waterVolumes }

// ParticleEmitters returns the global particle emitters.
func (m *Manager) ParticleEmitters() []*model.ParticleEmitter { return m.emitters }

// UsefulLocations returns the global useful locations.
func (m *Manager) UsefulLocations() []*model.UsefulLocation { return m.usefulLocations }

// SetTriggerHandler registers fn for every trigger with the given ID, now
// and after later Initialize calls.
func (m *Manager) SetTriggerHandler(id int32, fn model.TriggerFunc) {
	m.triggerHandlers[id] = fn
	for _, t := range m.triggers {
		if t.ID() == id {
			t.SetHandler(fn)
		}
	}
}

// LogicProp returns the first logic prop with the given ID.
func (m *Manager) LogicProp(id int32) (*model.Prop, bool) {
	for _, p := range m.logicProps {
		if p.ID() == id {
			return p, true
		}
	}
	return nil, false
}

// SetLogicPropEnabled switches every logic prop with the given ID on or
// off and reports whether any was found. Disabled props are neither drawn
// nor collided with.
func (m *Manager) SetLogicPropEnabled(id int32, enabled bool) bool {
	found := false
	for _, p := range m.logicProps {
		if p.ID() == id {
			p.Logic().Enabled = enabled
			found = true
		}
	}
	if found {
		slog.Debug("logic prop toggled", "id", id, "enabled", enabled)
	}
	return found
}

// WaterAt returns the water volume containing pos.
func (m *Manager) WaterAt(pos mgl32.Vec3) (*model.WaterVolume, bool) {
	for _, w := range m.waterVolumes {
		if w.Contains(pos) {
			return w, true
		}
	}
	return nil, false
}

// NearestUsefulLocation returns the closest useful location of kind.
func (m *Manager) NearestUsefulLocation(pos mgl32.Vec3, kind string) (*model.UsefulLocation, bool) {
	var (
		best   *model.UsefulLocation
		bestSq float32 = math.MaxFloat32
	)
	for _, u := range m.usefulLocations {
		if u.Kind != kind {
			continue
		}
		d := u.Position.Sub(pos)
		if sq := d.Dot(d); sq < bestSq {
			best, bestSq = u, sq
		}
	}
	return best, best != nil
}

// Snapshot captures the persisted state of the world.
func (m *Manager) Snapshot() Snapshot {
	snap := Snapshot{Nodes: make(map[model.NodeIndex][]model.PropRecord)}

	m.ForEachNode(func(n *Node) {
		if recs := n.SavePropList(); len(recs) > 0 {
			snap.Nodes[n.Index()] = recs
		}
	})

	for _, t := range m.triggers {
		snap.Triggers = append(snap.Triggers, t.Record())
	}
	for _, p := range m.logicProps {
		snap.LogicProps = append(snap.LogicProps, p.LogicRecord())
	}
	for _, w := range m.waterVolumes {
		snap.WaterVolumes = append(snap.WaterVolumes, w.Record())
	}
	for _, e := range m.emitters {
		snap.ParticleEmitters = append(snap.ParticleEmitters, e.Record())
	}
	for _, u := range m.usefulLocations {
		snap.UsefulLocations = append(snap.UsefulLocations, u.Record())
	}

	return snap
}
