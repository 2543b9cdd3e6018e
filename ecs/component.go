package ecs

import (
	"fmt"
	"reflect"

	"github.com/kamstrup/intmap"
)

// componentMap maps a component's type key to one boxed value of that type.
// Values are stored as *T so that exclusive access can hand out a pointer
// that stays valid across map growth. The map is private to its Entity (or
// Builder): every insert and read goes through an entry point bound to the
// concrete type at the call site, so the stored type and the requested type
// always match by construction.
type componentMap struct {
	items *intmap.Map[uint64, any]
}

func newComponentMap() *componentMap {
	return &componentMap{
		items: intmap.New[uint64, any](8),
	}
}

// normalizeComponent resolves the component's value type and boxes an owned
// copy behind a pointer. Accepts either T or *T.
func normalizeComponent(component any) (reflect.Type, any) {
	if component == nil {
		panic("component must not be nil")
	}

	v := reflect.ValueOf(component)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
		if !v.IsValid() {
			panic("component must not be a nil pointer")
		}
	}
	t := v.Type()

	// Components can be structs or primitives (int, string, etc.)
	// But not maps, channels, or functions (those aren't value types)
	if t.Kind() == reflect.Ptr || t.Kind() == reflect.Map ||
		t.Kind() == reflect.Chan || t.Kind() == reflect.Func {
		panic("components cannot be pointers, maps, channels, or functions")
	}

	boxed := reflect.New(t)
	boxed.Elem().Set(v)
	return t, boxed.Interface()
}

func (m *componentMap) add(component any) error {
	t, boxed := normalizeComponent(component)
	key := typeKey(t)
	if _, ok := m.items.Get(key); ok {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, t)
	}
	m.items.Put(key, boxed)
	return nil
}

func (m *componentMap) delete(key uint64) {
	m.items.Del(key)
}

func (m *componentMap) len() int {
	return m.items.Len()
}

// componentPtr returns the stored *T for the map, if present.
func componentPtr[T any](m *componentMap) (*T, bool) {
	boxed, ok := m.items.Get(typeKeyFor[T]())
	if !ok {
		return nil, false
	}
	return boxed.(*T), true
}
