package ecs

import "context"

// Builder accumulates components for a new entity before a single Insert.
// Duplicate component types are rejected at accumulation time, so an
// entity built from a Builder always satisfies the one-value-per-type
// invariant from the start. A Builder is single use: Build hands its
// component map to the new entity and every later call returns
// ErrBuilderConsumed.
type Builder struct {
	components *componentMap
	consumed   bool
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{components: newComponentMap()}
}

// Add accumulates a component, rejecting duplicates the same way
// Entity.Add does.
func (b *Builder) Add(component any) error {
	if b.consumed {
		return ErrBuilderConsumed
	}
	return b.components.add(component)
}

// Len returns the number of components accumulated so far.
func (b *Builder) Len() int {
	if b.consumed {
		return 0
	}
	return b.components.len()
}

// Build moves the accumulated components into a new entity owned by the
// world and inserts it, returning the new id.
func (b *Builder) Build(ctx context.Context, world *World) (EntityId, error) {
	if b.consumed {
		return 0, ErrBuilderConsumed
	}
	b.consumed = true

	e := &Entity{
		components: b.components,
		world:      world,
	}
	b.components = nil
	return world.Insert(ctx, e)
}
