package ecs

import "fmt"

// EntityId encodes both the slot generation (upper 32 bits) and the slot
// index (lower 32 bits). Generations start at 1, so the zero EntityId is
// never issued and can serve as an "invalid" marker.
type EntityId uint64

// newEntityId creates an EntityId from a slot index and a generation
func newEntityId(index uint32, generation uint32) EntityId {
	return EntityId(uint64(generation)<<32 | uint64(index))
}

// Index extracts the slot index from the entity ID
func (e EntityId) Index() uint32 {
	return uint32(e & 0xFFFFFFFF)
}

// Generation extracts the slot generation from the entity ID
func (e EntityId) Generation() uint32 {
	return uint32(e >> 32)
}

func (e EntityId) String() string {
	return fmt.Sprintf("entity(%d@%d)", e.Index(), e.Generation())
}

// Entity is a bag of components, at most one per concrete type. Once
// inserted into a World it is identified by an EntityId and must only be
// touched through the handle returned by World.Get or World.GetMut.
//
// The world field keeps the owning World reachable for as long as a
// detached Entity (for example one just returned by World.Remove) is still
// referenced by the caller. It is not a notification channel: component
// adds and removes are not reported back to the World.
type Entity struct {
	components *componentMap
	world      *World
}

// NewEntity creates an empty entity owned by the given world. The entity is
// not stored anywhere until it is passed to World.Insert.
func NewEntity(world *World) *Entity {
	return &Entity{
		components: newComponentMap(),
		world:      world,
	}
}

// Add inserts a component under its concrete type. The component may be
// passed as a value or as a pointer; either way the entity keeps its own
// copy. Returns an error wrapping ErrAlreadyExists if a component of the
// same type is already present.
func (e *Entity) Add(component any) error {
	return e.components.add(component)
}

// Len returns the number of components on the entity.
func (e *Entity) Len() int {
	return e.components.len()
}

// Get returns a copy of the entity's component of type T, or false if the
// entity has no such component. Safe under a shared handle.
func Get[T any](e *Entity) (T, bool) {
	p, ok := componentPtr[T](e.components)
	if !ok {
		var zero T
		return zero, false
	}
	return *p, true
}

// Mut returns a pointer to the entity's component of type T, or false if
// the entity has no such component. The pointer stays valid until the
// component is removed. Callers must hold the exclusive handle from
// World.GetMut while writing through it.
func Mut[T any](e *Entity) (*T, bool) {
	return componentPtr[T](e.components)
}

// Remove takes the component of type T off the entity and returns it.
// Removing an absent type is not an error, it just reports false.
func Remove[T any](e *Entity) (T, bool) {
	p, ok := componentPtr[T](e.components)
	if !ok {
		var zero T
		return zero, false
	}
	e.components.delete(typeKeyFor[T]())
	return *p, true
}

// Has reports whether the entity has a component of type T.
func Has[T any](e *Entity) bool {
	_, ok := componentPtr[T](e.components)
	return ok
}
