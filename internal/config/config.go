package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Cull modes for prop drawing.
const (
	CullDistance = "distance"
	CullNone     = "none"
)

// Storage drivers.
const (
	StorageFile     = "file"
	StoragePostgres = "postgres"
)

// App holds all configuration for the world simulation.
type App struct {
	LogLevel string `yaml:"log_level"`

	// Content
	ContentFile string `yaml:"content_file"` // model extents overriding the built-in catalog
	TerrainDir  string `yaml:"terrain_dir"`  // "<x>_<y>.hmap" tiles; empty = generated terrain

	// Simulation
	TickRate         time.Duration `yaml:"tick_rate"`
	AutosaveInterval time.Duration `yaml:"autosave_interval"` // 0 = save on shutdown only

	Storage Storage `yaml:"storage"`
	World   World   `yaml:"world"`
}

// Storage selects where the world is saved.
type Storage struct {
	Driver   string         `yaml:"driver"` // "file" or "postgres"
	SaveDir  string         `yaml:"save_dir"`
	Database DatabaseConfig `yaml:"database"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// World holds the world grid and query tuning.
type World struct {
	// Grid
	Size                int     `yaml:"size"`                 // nodes per side
	NodeStride          float32 `yaml:"node_stride"`          // node edge length, world units
	HeightMapResolution int     `yaml:"heightmap_resolution"` // samples per node side

	// Generated terrain (used when no terrain dir is set)
	TerrainAmplitude float32 `yaml:"terrain_amplitude"`
	TerrainSeed      int64   `yaml:"terrain_seed"`

	// Queries
	CollisionDistance float32 `yaml:"collision_distance"` // broad-phase radius
	PickReach         float32 `yaml:"pick_reach"`

	// Regrowth
	StumpRegrowTime time.Duration `yaml:"stump_regrow_time"`

	// Drawing
	CullMode     string  `yaml:"cull_mode"` // "distance" or "none"
	CullDistance float32 `yaml:"cull_distance"`
	DebugDraw    bool    `yaml:"debug_draw"`
}

// Validate checks that the world can be built from these settings.
func (w World) Validate() error {
	if w.Size <= 0 {
		return fmt.Errorf("world size %d: must be positive", w.Size)
	}
	if w.NodeStride <= 0 {
		return fmt.Errorf("node stride %v: must be positive", w.NodeStride)
	}
	if w.HeightMapResolution < 2 {
		return fmt.Errorf("heightmap resolution %d: need at least 2", w.HeightMapResolution)
	}
	if w.CollisionDistance < 0 {
		return fmt.Errorf("collision distance %v: must not be negative", w.CollisionDistance)
	}
	if w.CullMode != CullDistance && w.CullMode != CullNone {
		return fmt.Errorf("cull mode %q: want %q or %q", w.CullMode, CullDistance, CullNone)
	}
	return nil
}

// DefaultWorld returns World config with the shipped game settings.
func DefaultWorld() World {
	return World{
		Size:                8,
		NodeStride:          256,
		HeightMapResolution: 65,
		TerrainAmplitude:    12,
		TerrainSeed:         1,
		CollisionDistance:   40,
		PickReach:           30,
		StumpRegrowTime:     180 * time.Second,
		CullMode:            CullDistance,
		CullDistance:        600,
	}
}

// DefaultApp returns App config with sensible defaults.
func DefaultApp() App {
	return App{
		LogLevel:         "info",
		TickRate:         time.Second / 60,
		AutosaveInterval: 5 * time.Minute,
		Storage: Storage{
			Driver:  StorageFile,
			SaveDir: "save",
			Database: DatabaseConfig{
				Host:     "127.0.0.1",
				Port:     5432,
				User:     "islandcraft",
				Password: "islandcraft",
				DBName:   "islandcraft",
				SSLMode:  "disable",
			},
		},
		World: DefaultWorld(),
	}
}

// LoadApp loads config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadApp(path string) (App, error) {
	cfg := DefaultApp()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.World.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}
	if cfg.TickRate <= 0 {
		return cfg, fmt.Errorf("validating config %s: tick rate %v must be positive", path, cfg.TickRate)
	}
	if cfg.Storage.Driver != StorageFile && cfg.Storage.Driver != StoragePostgres {
		return cfg, fmt.Errorf("validating config %s: storage driver %q", path, cfg.Storage.Driver)
	}

	return cfg, nil
}
