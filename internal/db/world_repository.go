package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/islandcraft/internal/model"
	"github.com/udisondev/islandcraft/internal/world"
)

// WorldRepository stores world snapshots in PostgreSQL.
// A save replaces the previous one in a single transaction.
type WorldRepository struct {
	pool *pgxpool.Pool
}

var _ world.Store = (*WorldRepository)(nil)

// NewWorldRepository creates a new world repository
func NewWorldRepository(pool *pgxpool.Pool) *WorldRepository {
	return &WorldRepository{pool: pool}
}

// worldTables are cleared on every save.
var worldTables = []string{
	"node_props",
	"triggers",
	"logic_props",
	"water_volumes",
	"particle_emitters",
	"useful_locations",
}

// Load reads the saved world. Returns world.ErrNoSnapshot if nothing was
// saved yet.
func (r *WorldRepository) Load(ctx context.Context) (world.Snapshot, error) {
	var snap world.Snapshot

	var saved bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM world_saves WHERE id = 1)`).Scan(&saved)
	if err != nil {
		return snap, fmt.Errorf("checking world save: %w", err)
	}
	if !saved {
		return snap, world.ErrNoSnapshot
	}

	if snap.Nodes, err = r.loadNodeProps(ctx); err != nil {
		return snap, err
	}
	if snap.Triggers, err = r.loadTriggers(ctx); err != nil {
		return snap, err
	}
	if snap.LogicProps, err = r.loadLogicProps(ctx); err != nil {
		return snap, err
	}
	if snap.WaterVolumes, err = r.loadWaterVolumes(ctx); err != nil {
		return snap, err
	}
	if snap.ParticleEmitters, err = r.loadParticleEmitters(ctx); err != nil {
		return snap, err
	}
	if snap.UsefulLocations, err = r.loadUsefulLocations(ctx); err != nil {
		return snap, err
	}

	slog.Info("world loaded from database", "nodes", len(snap.Nodes), "props", snap.PropCount())
	return snap, nil
}

// Save replaces the stored world with snap.
func (r *WorldRepository) Save(ctx context.Context, snap world.Snapshot) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction for world save: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Error("rollback failed", "error", err)
		}
	}()

	for _, table := range worldTables {
		if _, err := tx.Exec(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	if err := saveNodeProps(ctx, tx, snap.Nodes); err != nil {
		return err
	}
	if err := copyRows(ctx, tx, "triggers",
		[]string{"list_index", "trigger_id", "pos_x", "pos_y", "pos_z", "rot_x", "rot_y", "rot_z", "scale_x", "scale_y", "scale_z", "repeatable", "has_triggered"},
		len(snap.Triggers), func(i int) []any {
			t := snap.Triggers[i]
			row := append([]any{i, t.ID}, transformCols(t.Position, t.Rotation, t.Scale)...)
			return append(row, t.Repeatable, t.HasTriggered)
		}); err != nil {
		return err
	}
	if err := copyRows(ctx, tx, "logic_props",
		[]string{"list_index", "prop_id", "pos_x", "pos_y", "pos_z", "rot_x", "rot_y", "rot_z", "scale_x", "scale_y", "scale_z", "enabled"},
		len(snap.LogicProps), func(i int) []any {
			p := snap.LogicProps[i]
			row := append([]any{i, p.ID}, transformCols(p.Position, p.Rotation, p.Scale)...)
			return append(row, p.Enabled)
		}); err != nil {
		return err
	}
	if err := copyRows(ctx, tx, "water_volumes",
		[]string{"list_index", "pos_x", "pos_y", "pos_z", "size_x", "size_y", "size_z", "wave_height", "wave_speed", "clarity"},
		len(snap.WaterVolumes), func(i int) []any {
			w := snap.WaterVolumes[i]
			row := append([]any{i}, vec(w.Position)...)
			row = append(row, vec(w.Size)...)
			return append(row, w.WaveHeight, w.WaveSpeed, w.Clarity)
		}); err != nil {
		return err
	}
	if err := copyRows(ctx, tx, "particle_emitters",
		[]string{"list_index", "effect", "pos_x", "pos_y", "pos_z", "rate", "lifetime", "spread", "enabled"},
		len(snap.ParticleEmitters), func(i int) []any {
			e := snap.ParticleEmitters[i]
			row := append([]any{i, e.Effect}, vec(e.Position)...)
			return append(row, e.Rate, e.Lifetime, e.Spread, e.Enabled)
		}); err != nil {
		return err
	}
	if err := copyRows(ctx, tx, "useful_locations",
		[]string{"list_index", "name", "kind", "pos_x", "pos_y", "pos_z", "facing"},
		len(snap.UsefulLocations), func(i int) []any {
			u := snap.UsefulLocations[i]
			row := append([]any{i, u.Name, u.Kind}, vec(u.Position)...)
			return append(row, u.Facing)
		}); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO world_saves (id, saved_at) VALUES (1, now())
		 ON CONFLICT (id) DO UPDATE SET saved_at = EXCLUDED.saved_at`); err != nil {
		return fmt.Errorf("marking world save: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction for world save: %w", err)
	}

	slog.Info("world saved to database", "nodes", len(snap.Nodes), "props", snap.PropCount())
	return nil
}

func saveNodeProps(ctx context.Context, tx pgx.Tx, nodes map[model.NodeIndex][]model.PropRecord) error {
	// Sorted so COPY input is deterministic
	keys := make([]model.NodeIndex, 0, len(nodes))
	for idx := range nodes {
		keys = append(keys, idx)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].X != keys[j].X {
			return keys[i].X < keys[j].X
		}
		return keys[i].Y < keys[j].Y
	})

	rows := make([][]any, 0)
	for _, idx := range keys {
		for i, p := range nodes[idx] {
			row := append([]any{idx.X, idx.Y, i, p.ID}, transformCols(p.Position, p.Rotation, p.Scale)...)
			rows = append(rows, row)
		}
	}

	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{"node_props"},
		[]string{"node_x", "node_y", "list_index", "prop_id", "pos_x", "pos_y", "pos_z", "rot_x", "rot_y", "rot_z", "scale_x", "scale_y", "scale_z"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("copying node props: %w", err)
	}
	return nil
}

func copyRows(ctx context.Context, tx pgx.Tx, table string, columns []string, n int, row func(i int) []any) error {
	if n == 0 {
		return nil
	}
	rows := make([][]any, n)
	for i := range n {
		rows[i] = row(i)
	}
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(rows)); err != nil {
		return fmt.Errorf("copying %s: %w", table, err)
	}
	return nil
}

func vec(v mgl32.Vec3) []any {
	return []any{v.X(), v.Y(), v.Z()}
}

// transformCols flattens position, rotation and scale into nine columns.
func transformCols(pos, rot, scale mgl32.Vec3) []any {
	cols := make([]any, 0, 9)
	cols = append(cols, vec(pos)...)
	cols = append(cols, vec(rot)...)
	return append(cols, vec(scale)...)
}

func (r *WorldRepository) loadNodeProps(ctx context.Context) (map[model.NodeIndex][]model.PropRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT node_x, node_y, prop_id, pos_x, pos_y, pos_z, rot_x, rot_y, rot_z, scale_x, scale_y, scale_z
		FROM node_props
		ORDER BY node_x, node_y, list_index
	`)
	if err != nil {
		return nil, fmt.Errorf("loading node props: %w", err)
	}
	defer rows.Close()

	nodes := make(map[model.NodeIndex][]model.PropRecord)
	for rows.Next() {
		var (
			idx model.NodeIndex
			p   model.PropRecord
		)
		if err := rows.Scan(&idx.X, &idx.Y, &p.ID,
			&p.Position[0], &p.Position[1], &p.Position[2],
			&p.Rotation[0], &p.Rotation[1], &p.Rotation[2],
			&p.Scale[0], &p.Scale[1], &p.Scale[2]); err != nil {
			return nil, fmt.Errorf("scanning node prop row: %w", err)
		}
		nodes[idx] = append(nodes[idx], p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating node prop rows: %w", err)
	}

	return nodes, nil
}

func (r *WorldRepository) loadTriggers(ctx context.Context) ([]model.TriggerRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT trigger_id, pos_x, pos_y, pos_z, rot_x, rot_y, rot_z, scale_x, scale_y, scale_z, repeatable, has_triggered
		FROM triggers
		ORDER BY list_index
	`)
	if err != nil {
		return nil, fmt.Errorf("loading triggers: %w", err)
	}
	defer rows.Close()

	var out []model.TriggerRecord
	for rows.Next() {
		var t model.TriggerRecord
		if err := rows.Scan(&t.ID,
			&t.Position[0], &t.Position[1], &t.Position[2],
			&t.Rotation[0], &t.Rotation[1], &t.Rotation[2],
			&t.Scale[0], &t.Scale[1], &t.Scale[2],
			&t.Repeatable, &t.HasTriggered); err != nil {
			return nil, fmt.Errorf("scanning trigger row: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating trigger rows: %w", err)
	}

	return out, nil
}

func (r *WorldRepository) loadLogicProps(ctx context.Context) ([]model.LogicPropRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT prop_id, pos_x, pos_y, pos_z, rot_x, rot_y, rot_z, scale_x, scale_y, scale_z, enabled
		FROM logic_props
		ORDER BY list_index
	`)
	if err != nil {
		return nil, fmt.Errorf("loading logic props: %w", err)
	}
	defer rows.Close()

	var out []model.LogicPropRecord
	for rows.Next() {
		var p model.LogicPropRecord
		if err := rows.Scan(&p.ID,
			&p.Position[0], &p.Position[1], &p.Position[2],
			&p.Rotation[0], &p.Rotation[1], &p.Rotation[2],
			&p.Scale[0], &p.Scale[1], &p.Scale[2],
			&p.Enabled); err != nil {
			return nil, fmt.Errorf("scanning logic prop row: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating logic prop rows: %w", err)
	}

	return out, nil
}

func (r *WorldRepository) loadWaterVolumes(ctx context.Context) ([]model.WaterVolumeRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT pos_x, pos_y, pos_z, size_x, size_y, size_z, wave_height, wave_speed, clarity
		FROM water_volumes
		ORDER BY list_index
	`)
	if err != nil {
		return nil, fmt.Errorf("loading water volumes: %w", err)
	}
	defer rows.Close()

	var out []model.WaterVolumeRecord
	for rows.Next() {
		var w model.WaterVolumeRecord
		if err := rows.Scan(
			&w.Position[0], &w.Position[1], &w.Position[2],
			&w.Size[0], &w.Size[1], &w.Size[2],
			&w.WaveHeight, &w.WaveSpeed, &w.Clarity); err != nil {
			return nil, fmt.Errorf("scanning water volume row: %w", err)
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating water volume rows: %w", err)
	}

	return out, nil
}

func (r *WorldRepository) loadParticleEmitters(ctx context.Context) ([]model.ParticleEmitterRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT effect, pos_x, pos_y, pos_z, rate, lifetime, spread, enabled
		FROM particle_emitters
		ORDER BY list_index
	`)
	if err != nil {
		return nil, fmt.Errorf("loading particle emitters: %w", err)
	}
	defer rows.Close()

	var out []model.ParticleEmitterRecord
	for rows.Next() {
		var e model.ParticleEmitterRecord
		if err := rows.Scan(&e.Effect,
			&e.Position[0], &e.Position[1], &e.Position[2],
			&e.Rate, &e.Lifetime, &e.Spread, &e.Enabled); err != nil {
			return nil, fmt.Errorf("scanning particle emitter row: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating particle emitter rows: %w", err)
	}

	return out, nil
}

func (r *WorldRepository) loadUsefulLocations(ctx context.Context) ([]model.UsefulLocationRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT name, kind, pos_x, pos_y, pos_z, facing
		FROM useful_locations
		ORDER BY list_index
	`)
	if err != nil {
		return nil, fmt.Errorf("loading useful locations: %w", err)
	}
	defer rows.Close()

	var out []model.UsefulLocationRecord
	for rows.Next() {
		var u model.UsefulLocationRecord
		if err := rows.Scan(&u.Name, &u.Kind,
			&u.Position[0], &u.Position[1], &u.Position[2],
			&u.Facing); err != nil {
			return nil, fmt.Errorf("scanning useful location row: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating useful location rows: %w", err)
	}

	return out, nil
}
