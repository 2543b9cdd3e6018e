package ecs

import (
	"reflect"
	"unsafe"
)

// iface represents the internal memory layout of an interface{}.
type iface struct {
	typ  unsafe.Pointer
	data unsafe.Pointer
}

// typeKey returns a unique integer key for a reflect.Type by reading the
// type descriptor pointer out of the interface header. Descriptors are
// immortal and unique per type, so the key is stable for the lifetime of
// the process.
func typeKey(t reflect.Type) uint64 {
	ptr := (*iface)(unsafe.Pointer(&t)).data
	return uint64(uintptr(ptr))
}

// typeKeyFor is the generic shorthand for typeKey(reflect.TypeFor[T]()).
func typeKeyFor[T any]() uint64 {
	return typeKey(reflect.TypeOf((*T)(nil)).Elem())
}
