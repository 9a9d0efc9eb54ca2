package terrain

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/islandcraft/internal/model"
)

// FileExt is the extension of height-map tiles on disk.
const FileExt = ".hmap"

// TileFileName returns the file name of a tile: "<x>_<y>.hmap".
func TileFileName(idx model.NodeIndex) string {
	return fmt.Sprintf("%d_%d%s", idx.X, idx.Y, FileExt)
}

// LoadDir loads every "<x>_<y>.hmap" tile in dir for a worldSize x worldSize
// grid. Files with bad names or indices outside the grid are skipped.
// Tiles are parsed concurrently.
func LoadDir(dir string, worldSize, resolution int, stride float32) (map[model.NodeIndex]*HeightMap, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading terrain dir %s: %w", dir, err)
	}

	var (
		mu    sync.Mutex
		tiles = make(map[model.NodeIndex]*HeightMap)
		g     errgroup.Group
	)
	g.SetLimit(8)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := filepath.Ext(name)
		if ext != FileExt {
			continue
		}

		var x, y int
		base := name[:len(name)-len(ext)]
		if _, err := fmt.Sscanf(base, "%d_%d", &x, &y); err != nil {
			slog.Warn("skip terrain file (bad name)", "file", name)
			continue
		}
		if x < 0 || x >= worldSize || y < 0 || y >= worldSize {
			slog.Warn("skip terrain file (out of range)", "file", name, "x", x, "y", y)
			continue
		}

		idx := model.NodeIndex{X: x, Y: y}
		path := filepath.Join(dir, name)
		g.Go(func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading terrain %s: %w", name, err)
			}
			hm, err := ParseHeightMap(data, resolution, stride)
			if err != nil {
				return fmt.Errorf("parsing terrain %s: %w", name, err)
			}

			mu.Lock()
			tiles[idx] = hm
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	slog.Info("terrain loaded", "tiles", len(tiles), "dir", dir)
	return tiles, nil
}

// WriteTile stores a tile as "<x>_<y>.hmap" in dir.
func WriteTile(dir string, idx model.NodeIndex, hm *HeightMap) error {
	data, err := hm.MarshalBinary()
	if err != nil {
		return fmt.Errorf("encoding terrain %s: %w", idx, err)
	}
	path := filepath.Join(dir, TileFileName(idx))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing terrain %s: %w", path, err)
	}
	return nil
}
