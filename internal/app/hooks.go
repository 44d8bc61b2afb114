package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Stage names a point in the application lifecycle.
type Stage string

const (
	StageRegisterSchema Stage = "register_schema"
	StageRegisterRoutes Stage = "register_routes"
	StageActivate       Stage = "activate"
	StageShutdown       Stage = "shutdown"
)

type HookFunc func(ctx context.Context) error

type hook struct {
	name string
	fn   HookFunc
}

// Hooks keeps lifecycle callbacks per stage in registration order.
type Hooks struct {
	mu     sync.Mutex
	stages map[Stage][]hook
}

func NewHooks() *Hooks {
	return &Hooks{stages: make(map[Stage][]hook)}
}

func (h *Hooks) Register(stage Stage, name string, fn HookFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stages[stage] = append(h.stages[stage], hook{name: name, fn: fn})
}

// Names lists the hooks registered for stage.
func (h *Hooks) Names(stage Stage) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	names := make([]string, 0, len(h.stages[stage]))
	for _, hk := range h.stages[stage] {
		names = append(names, hk.name)
	}
	return names
}

func (h *Hooks) snapshot(stage Stage) []hook {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]hook(nil), h.stages[stage]...)
}

// Run calls the hooks of stage in order and stops at the first error.
func (h *Hooks) Run(ctx context.Context, stage Stage) error {
	for _, hk := range h.snapshot(stage) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := hk.fn(ctx); err != nil {
			return fmt.Errorf("%s hook %q: %w", stage, hk.name, err)
		}
	}
	return nil
}

// RunAll calls every hook of stage in order, even after failures, and
// returns the joined errors.
func (h *Hooks) RunAll(ctx context.Context, stage Stage) error {
	var errs []error
	for _, hk := range h.snapshot(stage) {
		if err := hk.fn(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s hook %q: %w", stage, hk.name, err))
		}
	}
	return errors.Join(errs...)
}
