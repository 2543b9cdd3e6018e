package ecs

import "context"

// World owns a generational slot arena of lock-guarded entities and
// arbitrates structural changes against per-entity access with two lock
// levels:
//
//   - The outer lock is held exclusively by Insert and Remove, the only
//     operations that change slot topology. Everything that merely looks a
//     slot up (Get, GetMut, Ids, CollectStats) holds it in shared mode, so
//     lookups never serialize against each other, only against structural
//     changes.
//   - Each occupied slot carries its own reader/writer lock guarding the
//     entity's component map. Two callers mutating different entities do
//     not block each other; access to one entity follows the usual
//     many-readers/one-writer discipline.
//
// Every method that acquires a lock is a suspension point: it takes a
// context and returns the context's error if the wait is abandoned.
type World struct {
	outer *rwLock
	slots []slot
	free  []uint32
}

// slot transitions Empty -> Occupied -> Empty, bumping gen on each
// Occupied -> Empty transition so that previously issued ids for the slot
// become permanently stale.
type slot struct {
	gen uint32
	ent *lockedEntity
}

type lockedEntity struct {
	lock *rwLock
	ent  *Entity
}

// NewWorld creates an empty world, ready for use.
func NewWorld() *World {
	return &World{outer: newRWLock()}
}

// Insert moves the entity into the world and returns its id. The only
// failure is an abandoned wait for the outer lock.
func (w *World) Insert(ctx context.Context, e *Entity) (EntityId, error) {
	if err := w.outer.lock(ctx); err != nil {
		return 0, err
	}
	defer w.outer.unlock()

	if e.world == nil {
		e.world = w
	}

	var index uint32
	if n := len(w.free); n > 0 {
		index = w.free[n-1]
		w.free = w.free[:n-1]
	} else {
		w.slots = append(w.slots, slot{gen: 1})
		index = uint32(len(w.slots) - 1)
	}

	w.slots[index].ent = &lockedEntity{
		lock: newRWLock(),
		ent:  e,
	}
	return newEntityId(index, w.slots[index].gen), nil
}

// Remove destroys the id and returns the entity with its components
// intact. A stale or unknown id returns (nil, nil): removal of something
// absent is an expected outcome, not a failure. The freed slot's
// generation is bumped, so the id can never alias a later occupant.
func (w *World) Remove(ctx context.Context, id EntityId) (*Entity, error) {
	if err := w.outer.lock(ctx); err != nil {
		return nil, err
	}
	defer w.outer.unlock()

	le := w.lookup(id)
	if le == nil {
		return nil, nil
	}

	index := id.Index()
	w.slots[index].ent = nil
	w.slots[index].gen++
	w.free = append(w.free, index)
	return le.ent, nil
}

// Get returns a shared handle to the entity, or nil for a stale or unknown
// id. The handle holds the outer lock in shared mode and the entity's lock
// in shared mode until Close is called; see EntityRef.
func (w *World) Get(ctx context.Context, id EntityId) (*EntityRef, error) {
	if err := w.outer.rlock(ctx); err != nil {
		return nil, err
	}
	le := w.lookup(id)
	if le == nil {
		w.outer.runlock()
		return nil, nil
	}
	if err := le.lock.rlock(ctx); err != nil {
		w.outer.runlock()
		return nil, err
	}
	return &EntityRef{world: w, locked: le}, nil
}

// GetMut returns an exclusive handle to the entity, or nil for a stale or
// unknown id. The outer lock is still only shared: exclusivity is per
// entity, so two callers may mutate different entities concurrently.
func (w *World) GetMut(ctx context.Context, id EntityId) (*EntityMut, error) {
	if err := w.outer.rlock(ctx); err != nil {
		return nil, err
	}
	le := w.lookup(id)
	if le == nil {
		w.outer.runlock()
		return nil, nil
	}
	if err := le.lock.lock(ctx); err != nil {
		w.outer.runlock()
		return nil, err
	}
	return &EntityMut{world: w, locked: le}, nil
}

// Ids returns a snapshot of the ids of all currently occupied slots, taken
// under the outer lock's shared mode. The snapshot is consistent with the
// total order of Insert/Remove calls but naturally goes stale as soon as
// either runs afterwards.
func (w *World) Ids(ctx context.Context) ([]EntityId, error) {
	if err := w.outer.rlock(ctx); err != nil {
		return nil, err
	}
	defer w.outer.runlock()

	ids := make([]EntityId, 0, len(w.slots)-len(w.free))
	for i := range w.slots {
		if w.slots[i].ent != nil {
			ids = append(ids, newEntityId(uint32(i), w.slots[i].gen))
		}
	}
	return ids, nil
}

// Stats is a point-in-time summary of arena occupancy.
type Stats struct {
	// EntityCount is the number of occupied slots.
	EntityCount int
	// SlotCount is the total number of slots ever allocated.
	SlotCount int
	// FreeSlotCount is the number of slots waiting for reuse.
	FreeSlotCount int
}

// CollectStats gathers arena statistics under the outer lock's shared mode.
func (w *World) CollectStats(ctx context.Context) (Stats, error) {
	if err := w.outer.rlock(ctx); err != nil {
		return Stats{}, err
	}
	defer w.outer.runlock()

	return Stats{
		EntityCount:   len(w.slots) - len(w.free),
		SlotCount:     len(w.slots),
		FreeSlotCount: len(w.free),
	}, nil
}

// lookup resolves an id to its occupied slot. Callers must hold the outer
// lock in at least shared mode. Ids past the populated range, ids for empty
// slots, and ids whose generation no longer matches all resolve to nil.
func (w *World) lookup(id EntityId) *lockedEntity {
	index := int(id.Index())
	if index >= len(w.slots) {
		return nil
	}
	s := w.slots[index]
	if s.ent == nil || s.gen != id.Generation() {
		return nil
	}
	return s.ent
}
