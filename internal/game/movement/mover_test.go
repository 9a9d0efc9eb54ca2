package movement

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/islandcraft/internal/gameid"
	"github.com/udisondev/islandcraft/internal/model"
	"github.com/udisondev/islandcraft/internal/testutil"
	"github.com/udisondev/islandcraft/internal/world"
)

func TestMoverFollowsTerrain(t *testing.T) {
	w := testutil.NewWorldWithSurfaces(t, testutil.WorldConfig(2), testutil.FlatSurfaces(2, 3), world.Snapshot{})
	mover := NewMover(w, testutil.PlayerMesh(t, mgl32.Vec3{0, 0, 0}))

	assert.Equal(t, mgl32.Vec3{0, 3, 0}, mover.Position(), "placed on the ground")
	assert.Equal(t, model.NodeIndex{}, mover.Node())

	res := mover.Step(mgl32.Vec3{1, 0, 0})
	assert.True(t, res.Grounded)
	assert.False(t, res.Blocked)
	assert.Equal(t, mgl32.Vec3{1, 3, 0}, res.Position)
}

func TestMoverJumpAndLand(t *testing.T) {
	w := testutil.NewWorld(t, 2, world.Snapshot{})
	mover := NewMover(w, testutil.PlayerMesh(t, mgl32.Vec3{}))

	res := mover.Step(mgl32.Vec3{0, 5, 0})
	assert.False(t, res.Grounded)
	assert.InDelta(t, 5, res.Position.Y(), 1e-5)

	res = mover.Step(mgl32.Vec3{0, -10, 0})
	assert.True(t, res.Grounded)
	assert.InDelta(t, 0, res.Position.Y(), 1e-5)
}

func TestMoverBlockedByBorder(t *testing.T) {
	snap := world.Snapshot{Nodes: map[model.NodeIndex][]model.PropRecord{
		{X: 0, Y: 0}: {testutil.Prop(gameid.PropBorder, mgl32.Vec3{10, 0, 10})},
	}}
	w := testutil.NewWorld(t, 2, snap)
	mover := NewMover(w, testutil.PlayerMesh(t, mgl32.Vec3{10, 0, 8}))

	res := mover.Step(mgl32.Vec3{0, 0, 2})
	assert.True(t, res.Blocked)
	assert.Nil(t, res.BlockedBy)
	assert.Equal(t, mgl32.Vec3{10, 0, 8}, res.Position)
}

func TestMoverBlockedByProp(t *testing.T) {
	snap := world.Snapshot{Nodes: map[model.NodeIndex][]model.PropRecord{
		{X: 0, Y: 0}: {testutil.Prop(gameid.RockLarge, mgl32.Vec3{0, 0, 20})},
	}}
	w := testutil.NewWorld(t, 2, snap)
	mover := NewMover(w, testutil.PlayerMesh(t, mgl32.Vec3{0, 0, 15}))

	res := mover.Step(mgl32.Vec3{0, 0, 3})
	require.True(t, res.Blocked)
	require.NotNil(t, res.BlockedBy)
	assert.Equal(t, gameid.RockLarge, res.BlockedBy.ID())
	assert.Equal(t, mgl32.Vec3{0, 0, 15}, res.Position)

	res = mover.Step(mgl32.Vec3{1, 0, 0})
	assert.False(t, res.Blocked, "sliding along is fine")
}

func TestMoverFiresTriggers(t *testing.T) {
	snap := world.Snapshot{Triggers: []model.TriggerRecord{
		{ID: gameid.TriggerDialogue, Position: mgl32.Vec3{30, 1, 30}, Scale: mgl32.Vec3{4, 4, 4}},
	}}
	w := testutil.NewWorld(t, 2, snap)

	fired := 0
	w.SetTriggerHandler(gameid.TriggerDialogue, func(*model.Trigger) { fired++ })

	mover := NewMover(w, testutil.PlayerMesh(t, mgl32.Vec3{20, 0, 30}))
	assert.False(t, mover.Step(mgl32.Vec3{1, 0, 0}).Triggered)

	res := mover.Step(mgl32.Vec3{9, 0, 0})
	assert.True(t, res.Triggered)
	assert.Equal(t, 1, fired)
}

func TestMoverCrossesNodes(t *testing.T) {
	w := testutil.NewWorld(t, 2, world.Snapshot{})
	c := float32(testutil.Stride / 2)
	mover := NewMover(w, testutil.PlayerMesh(t, mgl32.Vec3{c - 1, 0, 0}))

	res := mover.Step(mgl32.Vec3{2, 0, 0})
	assert.Equal(t, model.NodeIndex{X: 1, Y: 0}, res.Node)
}

func TestMoverOffMapKeepsHeightAndNode(t *testing.T) {
	w := testutil.NewWorld(t, 2, world.Snapshot{})
	c := float32(testutil.Stride / 2)
	mover := NewMover(w, testutil.PlayerMesh(t, mgl32.Vec3{-c + 1, 0, 0}))

	res := mover.Step(mgl32.Vec3{-5, 2, 0})
	assert.False(t, res.Grounded)
	assert.InDelta(t, 2, res.Position.Y(), 1e-5)
	assert.Equal(t, model.NodeIndex{}, res.Node, "last known node")
}

// recordingWorld logs the order of world queries.
type recordingWorld struct {
	calls      []string
	border     bool
	prop       *model.Prop
	lastBorder model.NodeIndex
}

func (r *recordingWorld) GetTerrainHeightAndNode(pos mgl32.Vec3) (model.NodeIndex, float32) {
	r.calls = append(r.calls, "height")
	return model.NodeIndex{X: 1, Y: 1}, 0
}

func (r *recordingWorld) TestBoundaryCollision(idx model.NodeIndex, _ *model.Mesh) bool {
	r.calls = append(r.calls, "border")
	r.lastBorder = idx
	return r.border
}

func (r *recordingWorld) TestPropCollisions(model.NodeIndex, *model.Mesh) (bool, *model.Prop) {
	r.calls = append(r.calls, "props")
	return r.prop != nil, r.prop
}

func (r *recordingWorld) TestTriggerCollisions(*model.Mesh) bool {
	r.calls = append(r.calls, "triggers")
	return false
}

func TestMoverTickOrder(t *testing.T) {
	rw := &recordingWorld{}
	mover := NewMover(rw, testutil.PlayerMesh(t, mgl32.Vec3{}))
	rw.calls = nil

	mover.Step(mgl32.Vec3{1, 0, 0})
	assert.Equal(t, []string{"height", "border", "props", "triggers"}, rw.calls)
	assert.Equal(t, model.NodeIndex{X: 1, Y: 1}, rw.lastBorder)

	rw.calls = nil
	rw.border = true
	res := mover.Step(mgl32.Vec3{1, 0, 0})
	assert.True(t, res.Blocked)
	assert.Equal(t, []string{"height", "border", "height", "triggers"}, rw.calls, "props are skipped once a border blocks")
}
