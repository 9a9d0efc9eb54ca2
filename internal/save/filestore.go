// Package save stores world snapshots as YAML files guarded by checksums.
//
// Layout of a save directory:
//
//	world.yaml               generation, triggers, logic props, water, emitters, useful locations
//	world.yaml.sum
//	nodes/g<N>/<x>_<y>.yaml  prop list of one node, in slot order
//	nodes/g<N>/<x>_<y>.yaml.sum
//
// Every save writes its node files into a new generation directory and then
// replaces world.yaml, which names that generation. A save interrupted before
// world.yaml is replaced leaves the previous generation in charge.
package save

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/islandcraft/internal/crypto"
	"github.com/udisondev/islandcraft/internal/model"
	"github.com/udisondev/islandcraft/internal/world"
)

const (
	worldFileName = "world.yaml"
	nodesDirName  = "nodes"
	nodeFileExt   = ".yaml"
	sumExt        = ".sum"
	genDirPrefix  = "g"

	formatVersion = 2
)

type worldFile struct {
	Version          int                           `yaml:"version"`
	Generation       uint64                        `yaml:"generation"`
	Triggers         []model.TriggerRecord         `yaml:"triggers,omitempty"`
	LogicProps       []model.LogicPropRecord       `yaml:"logic_props,omitempty"`
	WaterVolumes     []model.WaterVolumeRecord     `yaml:"water_volumes,omitempty"`
	ParticleEmitters []model.ParticleEmitterRecord `yaml:"particle_emitters,omitempty"`
	UsefulLocations  []model.UsefulLocationRecord  `yaml:"useful_locations,omitempty"`
}

type nodeFile struct {
	X     int                `yaml:"x"`
	Y     int                `yaml:"y"`
	Props []model.PropRecord `yaml:"props"`
}

// FileStore keeps a world snapshot in a directory.
type FileStore struct {
	dir string
}

var _ world.Store = (*FileStore)(nil)

// NewFileStore creates a store rooted at dir. The directory is created on
// first save.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Dir returns the save directory.
func (s *FileStore) Dir() string { return s.dir }

// NodeFileName returns the file name of a node: "<x>_<y>.yaml".
func NodeFileName(idx model.NodeIndex) string {
	return fmt.Sprintf("%d_%d%s", idx.X, idx.Y, nodeFileExt)
}

// Load reads the snapshot. It returns world.ErrNoSnapshot only when the
// directory holds no world.yaml; a damaged save is an error.
// crypto.ErrChecksumMismatch means a file was changed outside the game.
func (s *FileStore) Load(ctx context.Context) (world.Snapshot, error) {
	var snap world.Snapshot

	worldPath := filepath.Join(s.dir, worldFileName)
	if _, err := os.Stat(worldPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return snap, world.ErrNoSnapshot
		}
		return snap, fmt.Errorf("checking %s: %w", worldPath, err)
	}

	var wf worldFile
	if err := readFile(worldPath, &wf); err != nil {
		return snap, err
	}
	if wf.Version != formatVersion {
		return snap, fmt.Errorf("loading save %s: unsupported version %d", s.dir, wf.Version)
	}

	snap.Triggers = wf.Triggers
	snap.LogicProps = wf.LogicProps
	snap.WaterVolumes = wf.WaterVolumes
	snap.ParticleEmitters = wf.ParticleEmitters
	snap.UsefulLocations = wf.UsefulLocations
	snap.Nodes = make(map[model.NodeIndex][]model.PropRecord)

	nodesDir := s.genDir(wf.Generation)
	entries, err := os.ReadDir(nodesDir)
	if err != nil {
		return snap, fmt.Errorf("reading nodes of generation %d: %w", wf.Generation, err)
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return snap, err
		}
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != nodeFileExt {
			continue
		}

		var x, y int
		if _, err := fmt.Sscanf(strings.TrimSuffix(name, nodeFileExt), "%d_%d", &x, &y); err != nil {
			slog.Warn("skip node file (bad name)", "file", name)
			continue
		}

		var nf nodeFile
		if err := readFile(filepath.Join(nodesDir, name), &nf); err != nil {
			return snap, err
		}
		if nf.X != x || nf.Y != y {
			return snap, fmt.Errorf("node file %s holds node (%d,%d)", name, nf.X, nf.Y)
		}
		snap.Nodes[model.NodeIndex{X: x, Y: y}] = nf.Props
	}

	slog.Info("world save loaded",
		"dir", s.dir,
		"generation", wf.Generation,
		"nodes", len(snap.Nodes),
		"props", snap.PropCount())
	return snap, nil
}

// Save writes the snapshot as a new generation and drops the older ones.
func (s *FileStore) Save(ctx context.Context, snap world.Snapshot) error {
	gens, err := s.generations()
	if err != nil {
		return err
	}
	var gen uint64 = 1
	if len(gens) > 0 {
		gen = gens[len(gens)-1] + 1
	}

	nodesDir := s.genDir(gen)
	if err := os.MkdirAll(nodesDir, 0o755); err != nil {
		return fmt.Errorf("creating save dir: %w", err)
	}

	for idx, props := range snap.Nodes {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(nodesDir, NodeFileName(idx))
		if err := writeFile(path, nodeFile{X: idx.X, Y: idx.Y, Props: props}); err != nil {
			return err
		}
	}

	wf := worldFile{
		Version:          formatVersion,
		Generation:       gen,
		Triggers:         snap.Triggers,
		LogicProps:       snap.LogicProps,
		WaterVolumes:     snap.WaterVolumes,
		ParticleEmitters: snap.ParticleEmitters,
		UsefulLocations:  snap.UsefulLocations,
	}
	// Commit point: from here on the new generation is the save
	if err := writeFile(filepath.Join(s.dir, worldFileName), wf); err != nil {
		return err
	}

	for _, old := range gens {
		if err := os.RemoveAll(s.genDir(old)); err != nil {
			slog.Warn("removing old save generation", "generation", old, "error", err)
		}
	}

	slog.Info("world saved",
		"dir", s.dir,
		"generation", gen,
		"nodes", len(snap.Nodes),
		"props", snap.PropCount())
	return nil
}

func (s *FileStore) genDir(gen uint64) string {
	return filepath.Join(s.dir, nodesDirName, genDirPrefix+strconv.FormatUint(gen, 10))
}

// generations lists the generation directories on disk in ascending order,
// including ones left behind by interrupted saves.
func (s *FileStore) generations() ([]uint64, error) {
	dir := filepath.Join(s.dir, nodesDirName)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var gens []uint64
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || !strings.HasPrefix(name, genDirPrefix) {
			continue
		}
		gen, err := strconv.ParseUint(strings.TrimPrefix(name, genDirPrefix), 10, 64)
		if err != nil {
			continue
		}
		gens = append(gens, gen)
	}
	slices.Sort(gens)
	return gens, nil
}

// readFile decodes path into v after checking it against path.sum.
func readFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	sum, err := os.ReadFile(path + sumExt)
	if err != nil {
		return fmt.Errorf("reading checksum of %s: %w", path, err)
	}
	if err := crypto.VerifyChecksum(data, string(sum)); err != nil {
		return fmt.Errorf("verifying %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// writeFile encodes v to path and path.sum. Each file is written to a
// temporary name first and renamed into place.
func writeFile(path string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := writeAtomic(path, data); err != nil {
		return err
	}
	return writeAtomic(path+sumExt, []byte(crypto.Checksum(data)+"\n"))
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("renaming %s: %w", tmp, err)
	}
	return nil
}
