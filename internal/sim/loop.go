// Package sim runs the fixed-rate world simulation.
package sim

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/udisondev/islandcraft/internal/world"
)

// Loop ticks a world at a fixed rate and saves it periodically and on
// shutdown. The loop goroutine is the only one touching the manager.
type Loop struct {
	world    *world.Manager
	store    world.Store
	tickRate time.Duration
	autosave time.Duration

	ticks     uint64
	sinceSave time.Duration
	onTick    []func(elapsed time.Duration)
}

// NewLoop creates a loop. autosave 0 disables periodic saves.
func NewLoop(w *world.Manager, store world.Store, tickRate, autosave time.Duration) *Loop {
	return &Loop{
		world:    w,
		store:    store,
		tickRate: tickRate,
		autosave: autosave,
	}
}

// OnTick registers fn to run after the world update of every tick.
// Must be called before Start.
func (l *Loop) OnTick(fn func(elapsed time.Duration)) {
	l.onTick = append(l.onTick, fn)
}

// Ticks returns the number of ticks run.
func (l *Loop) Ticks() uint64 { return l.ticks }

// Start runs the loop until ctx is canceled, then saves once more.
func (l *Loop) Start(ctx context.Context) error {
	ticker := time.NewTicker(l.tickRate)
	defer ticker.Stop()

	slog.Info("simulation loop started", "tick_rate", l.tickRate, "autosave", l.autosave)

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			slog.Info("simulation loop stopping", "ticks", l.ticks)
			if err := l.Save(context.WithoutCancel(ctx)); err != nil {
				return fmt.Errorf("final save: %w", err)
			}
			return nil

		case now := <-ticker.C:
			elapsed := now.Sub(last)
			last = now
			l.Tick(ctx, elapsed)
		}
	}
}

// Tick advances the world by elapsed and autosaves when due.
func (l *Loop) Tick(ctx context.Context, elapsed time.Duration) {
	l.world.UpdateStumps(elapsed)
	for _, fn := range l.onTick {
		fn(elapsed)
	}
	l.ticks++

	if l.autosave <= 0 {
		return
	}
	l.sinceSave += elapsed
	if l.sinceSave < l.autosave {
		return
	}
	l.sinceSave = 0
	if err := l.Save(ctx); err != nil {
		slog.Error("autosave failed", "error", err)
	}
}

// Save writes the current world to the store.
func (l *Loop) Save(ctx context.Context) error {
	if err := l.store.Save(ctx, l.world.Snapshot()); err != nil {
		return fmt.Errorf("saving world: %w", err)
	}
	return nil
}
