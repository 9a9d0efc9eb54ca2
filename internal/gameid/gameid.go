// Package gameid classifies prop identifiers by numeric range.
//
// Save files carry only the integer ID of a prop, so everything that needs to
// know "is this a tree" asks this package instead of inspecting a type.
//
// ID ranges (Begin and End are sentinels, never assigned to a real prop):
//
//	1          Border (single value, not a range)
//	100 - 120  Trees
//	200 - 220  Stumps (same species order as trees)
//	300 - 320  Rocks
//	400 - 420  Logic props
//	500 - 520  Buildable objects
//	600 - 620  Triggers
package gameid

const (
	PropBorder int32 = 1

	TreesBegin int32 = 100
	TreeOak    int32 = 101
	TreePine   int32 = 102
	TreeBirch  int32 = 103
	TreeWillow int32 = 104
	TreePalm   int32 = 105
	TreesEnd   int32 = 120

	StumpsBegin int32 = 200
	StumpOak    int32 = 201
	StumpPine   int32 = 202
	StumpBirch  int32 = 203
	StumpWillow int32 = 204
	StumpPalm   int32 = 205
	StumpsEnd   int32 = 220

	RocksBegin int32 = 300
	RockSmall  int32 = 301
	RockLarge  int32 = 302
	RockCliff  int32 = 303
	RocksEnd   int32 = 320

	LogicPropsBegin int32 = 400
	LogicBoat       int32 = 401
	LogicDam        int32 = 402
	LogicHouse      int32 = 403
	LogicDock       int32 = 404
	LogicFence      int32 = 405
	LogicCabbage    int32 = 406
	LogicPropsEnd   int32 = 420

	BuildablesBegin int32 = 500
	BuildFoundation int32 = 501
	BuildWall       int32 = 502
	BuildRoof       int32 = 503
	BuildStairs     int32 = 504
	BuildDoor       int32 = 505
	BuildablesEnd   int32 = 520

	TriggersBegin     int32 = 600
	TriggerCutscene   int32 = 601
	TriggerDialogue   int32 = 602
	TriggerCheckpoint int32 = 603
	TriggersEnd       int32 = 620
)

// stumpOffset maps a tree species onto its stump: StumpX = TreeX + stumpOffset.
const stumpOffset = StumpsBegin - TreesBegin

func inRange(id, begin, end int32) bool {
	return id > begin && id < end
}

// IsBorder reports whether id is the world border prop.
func IsBorder(id int32) bool { return id == PropBorder }

// IsTree reports whether id is a standing tree.
func IsTree(id int32) bool { return inRange(id, TreesBegin, TreesEnd) }

// IsStump reports whether id is a chopped tree waiting to regrow.
func IsStump(id int32) bool { return inRange(id, StumpsBegin, StumpsEnd) }

// IsRock reports whether id is rock scenery.
func IsRock(id int32) bool { return inRange(id, RocksBegin, RocksEnd) }

// IsLogicProp reports whether id is scripted scenery.
func IsLogicProp(id int32) bool { return inRange(id, LogicPropsBegin, LogicPropsEnd) }

// IsBuildable reports whether id is a player construction piece.
func IsBuildable(id int32) bool { return inRange(id, BuildablesBegin, BuildablesEnd) }

// IsTrigger reports whether id is a trigger volume.
func IsTrigger(id int32) bool { return inRange(id, TriggersBegin, TriggersEnd) }

// StumpFor returns the stump ID for a tree ID. ok is false for non-trees.
func StumpFor(treeID int32) (int32, bool) {
	if !IsTree(treeID) {
		return 0, false
	}
	return treeID + stumpOffset, true
}

// TreeFor returns the tree ID a stump regrows into. ok is false for non-stumps.
func TreeFor(stumpID int32) (int32, bool) {
	if !IsStump(stumpID) {
		return 0, false
	}
	return stumpID - stumpOffset, true
}

// lumberYield is the amount of lumber one chop gives, per species.
var lumberYield = map[int32]int{
	TreeOak:    4,
	TreePine:   3,
	TreeBirch:  2,
	TreeWillow: 2,
	TreePalm:   1,
}

// LumberYield returns the lumber a chopped tree gives. Unknown species give 1.
func LumberYield(treeID int32) int {
	if n, ok := lumberYield[treeID]; ok {
		return n
	}
	if IsTree(treeID) {
		return 1
	}
	return 0
}
