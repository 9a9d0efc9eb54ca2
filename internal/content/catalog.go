// Package content describes the models the world places: their local-space
// extents, from which every bounding box is generated.
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"github.com/udisondev/islandcraft/internal/geom"
)

// ErrUnknownModel is returned when a prop references a model the catalog
// does not describe.
var ErrUnknownModel = errors.New("unknown model")

//go:embed models.yaml
var defaultModels []byte

// Model holds the local-space extents of a mesh.
type Model struct {
	Min [3]float32 `yaml:"min"`
	Max [3]float32 `yaml:"max"`
}

// Catalog maps model names to their extents.
type Catalog struct {
	Models map[string]Model `yaml:"models"`
}

// Default returns the catalog shipped with the game.
func Default() (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(defaultModels, &c); err != nil {
		return nil, fmt.Errorf("parsing built-in models: %w", err)
	}
	return &c, nil
}

// Load returns the built-in catalog overlaid with the models in path.
// If the file doesn't exist, returns the built-in catalog.
func Load(path string) (*Catalog, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, fmt.Errorf("reading content %s: %w", path, err)
	}

	var overlay Catalog
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("parsing content %s: %w", path, err)
	}
	for name, m := range overlay.Models {
		c.Models[name] = m
	}

	slog.Info("content loaded", "models", len(c.Models), "overrides", len(overlay.Models), "file", path)
	return c, nil
}

// Bounds returns the local bounding box of the named model.
func (c *Catalog) Bounds(name string) (geom.OBB, error) {
	m, ok := c.Models[name]
	if !ok {
		return geom.OBB{}, fmt.Errorf("model %q: %w", name, ErrUnknownModel)
	}
	return geom.NewOBB(mgl32.Vec3(m.Min), mgl32.Vec3(m.Max)), nil
}
