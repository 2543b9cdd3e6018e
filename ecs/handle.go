package ecs

// EntityRef is a scoped shared handle to an entity inside a World. It
// bundles two held guards: the world's outer lock in shared mode (so the
// arena cannot be resized or compacted underneath it) and the entity's own
// lock in shared mode. Both are released by Close.
//
// Holding a handle blocks Insert and Remove on the whole world and blocks
// exclusive access to this entity, so handles should be closed promptly;
// keeping one alive indefinitely starves writers. Calling Close more than
// once is harmless.
type EntityRef struct {
	world  *World
	locked *lockedEntity
}

// Entity returns the entity behind the handle. Through a shared handle the
// entity must be treated as read-only: use Get and Has, not Add, Remove or
// Mut.
func (r *EntityRef) Entity() *Entity {
	return r.locked.ent
}

// Close releases the entity's lock and the outer lock, in that order.
func (r *EntityRef) Close() {
	if r.locked == nil {
		return
	}
	r.locked.lock.runlock()
	r.world.outer.runlock()
	r.locked = nil
	r.world = nil
}

// EntityMut is a scoped exclusive handle to an entity inside a World: the
// outer lock is held in shared mode and the entity's own lock in exclusive
// mode. The same caller obligation applies as for EntityRef: release with
// Close as soon as the mutation is done.
type EntityMut struct {
	world  *World
	locked *lockedEntity
}

// Entity returns the entity behind the handle, with full mutation rights.
func (m *EntityMut) Entity() *Entity {
	return m.locked.ent
}

// Close releases the entity's lock and the outer lock, in that order.
func (m *EntityMut) Close() {
	if m.locked == nil {
		return
	}
	m.locked.lock.unlock()
	m.world.outer.runlock()
	m.locked = nil
	m.world = nil
}
