// Package focus owns the single global focus pointer and the overlay
// toggle. State is an immutable snapshot replaced atomically on each
// dispatch; readers never observe a partial update.
package focus

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/surfaces/internal/log"
	"github.com/zjrosen/surfaces/internal/pubsub"
	"github.com/zjrosen/surfaces/internal/surface"
	"github.com/zjrosen/surfaces/internal/surface/registry"
)

// State is one immutable focus snapshot. The zero value means nothing
// focused, overlays hidden.
type State struct {
	OverlaysVisible bool
	Focused         bool
	Focus           surface.Coordinate // meaningful only when Focused
}

// FocusedOn reports whether c is the focused occurrence.
func (s State) FocusedOn(c surface.Coordinate) bool {
	return s.Focused && s.Focus == c
}

// Store holds the current snapshot and publishes each replacement.
//
// A focused occurrence that unmounts leaves the pointer stale: it keeps
// referencing the dead instance until the next FocusSurface for that ID
// recomputes it. That window is deliberate; clearing eagerly would make
// every unmount a focus event and the consumers tolerate staleness.
type Store struct {
	reg    *registry.Registry
	state  State
	broker *pubsub.Broker[State]
	tracer trace.Tracer
}

// Option configures a Store.
type Option func(*Store)

// WithTracer records a span per dispatched command.
func WithTracer(t trace.Tracer) Option {
	return func(s *Store) {
		if t != nil {
			s.tracer = t
		}
	}
}

// NewStore creates a store consulting reg for live instances.
func NewStore(reg *registry.Registry, opts ...Option) *Store {
	s := &Store{
		reg:    reg,
		broker: pubsub.NewBroker[State](),
		tracer: noop.NewTracerProvider().Tracer("focus"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current snapshot.
func (s *Store) State() State {
	return s.state
}

// Broker exposes the snapshot stream for UI subscriptions.
func (s *Store) Broker() *pubsub.Broker[State] {
	return s.broker
}

// Close shuts down the snapshot broker.
func (s *Store) Close() {
	s.broker.Close()
}

// Dispatch applies cmd and returns the resulting snapshot. Unknown
// targets are silent no-ops: a focus command for an ID with zero live
// instances leaves the state untouched rather than failing, so stale
// toolbar clicks cannot crash the program.
//
// Dispatch is not safe for concurrent use; the Bubble Tea update loop
// is the single caller.
func (s *Store) Dispatch(ctx context.Context, cmd Command) State {
	_, span := s.tracer.Start(ctx, "focus.dispatch",
		trace.WithAttributes(attribute.String("command", cmd.name())))
	defer span.End()

	prev := s.state
	next := prev

	switch c := cmd.(type) {
	case FocusSurface:
		span.SetAttributes(attribute.Int64("surface.id", int64(c.ID)))
		next = s.applyFocus(prev, c.ID)
	case ToggleOverlays:
		next.OverlaysVisible = !prev.OverlaysVisible
	}

	if next == prev {
		return prev
	}

	s.state = next
	s.broker.Publish(pubsub.UpdatedEvent, next)
	return next
}

// applyFocus implements the cyclic selection: first live instance when
// the ID is newly targeted, otherwise the registry's cyclic successor.
func (s *Store) applyFocus(prev State, id surface.ID) State {
	if prev.Focused && prev.Focus.ID == id {
		instance, ok := s.reg.Next(id, prev.Focus.Instance)
		if !ok {
			log.Debug(log.CatFocus, "focus no-op, no live instances", "id", id)
			return prev
		}
		next := prev
		next.Focus = surface.Coordinate{ID: id, Instance: instance}
		log.Debug(log.CatFocus, "focus advanced", "coord", next.Focus)
		return next
	}

	instances := s.reg.Instances(id)
	if len(instances) == 0 {
		log.Debug(log.CatFocus, "focus no-op, no live instances", "id", id)
		return prev
	}
	next := prev
	next.Focused = true
	next.Focus = surface.Coordinate{ID: id, Instance: instances[0]}
	log.Debug(log.CatFocus, "focus acquired", "coord", next.Focus)
	return next
}
