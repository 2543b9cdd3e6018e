package ecs_test

import (
	"testing"

	"github.com/plus3/entworld/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityAddGet(t *testing.T) {
	e := ecs.NewEntity(ecs.NewWorld())

	require.NoError(t, e.Add(Position{X: 1.5, Y: 2.5}))
	require.NoError(t, e.Add(Name{Value: "hero"}))

	pos, ok := ecs.Get[Position](e)
	assert.True(t, ok)
	assert.Equal(t, Position{X: 1.5, Y: 2.5}, pos)

	name, ok := ecs.Get[Name](e)
	assert.True(t, ok)
	assert.Equal(t, "hero", name.Value)

	// Absent type is not an error, just absent
	_, ok = ecs.Get[Velocity](e)
	assert.False(t, ok)

	assert.Equal(t, 2, e.Len())
}

func TestEntityAddDuplicate(t *testing.T) {
	e := ecs.NewEntity(ecs.NewWorld())

	require.NoError(t, e.Add(Position{X: 1}))

	err := e.Add(Position{X: 2})
	require.Error(t, err)
	assert.ErrorIs(t, err, ecs.ErrAlreadyExists)

	// The original value survives a rejected add
	pos, ok := ecs.Get[Position](e)
	require.True(t, ok)
	assert.Equal(t, float32(1), pos.X)
}

func TestEntityAddPointer(t *testing.T) {
	e := ecs.NewEntity(ecs.NewWorld())

	// Components may be added as *T; the entity keeps its own copy
	src := &Position{X: 3, Y: 4}
	require.NoError(t, e.Add(src))

	src.X = 99
	pos, ok := ecs.Get[Position](e)
	require.True(t, ok)
	assert.Equal(t, float32(3), pos.X)
}

func TestEntityMut(t *testing.T) {
	e := ecs.NewEntity(ecs.NewWorld())
	require.NoError(t, e.Add(Health{Current: 50, Max: 100}))

	hp, ok := ecs.Mut[Health](e)
	require.True(t, ok)
	hp.Current = 75

	got, ok := ecs.Get[Health](e)
	require.True(t, ok)
	assert.Equal(t, 75, got.Current)

	_, ok = ecs.Mut[Velocity](e)
	assert.False(t, ok)
}

func TestEntityRemoveComponent(t *testing.T) {
	e := ecs.NewEntity(ecs.NewWorld())
	require.NoError(t, e.Add(Score(42)))

	score, ok := ecs.Remove[Score](e)
	assert.True(t, ok)
	assert.Equal(t, Score(42), score)

	_, ok = ecs.Get[Score](e)
	assert.False(t, ok)
	assert.Equal(t, 0, e.Len())

	// Removing an absent type reports absence, not an error
	_, ok = ecs.Remove[Score](e)
	assert.False(t, ok)

	// The type can be re-added after removal
	require.NoError(t, e.Add(Score(7)))
}

func TestEntityPrimitiveComponents(t *testing.T) {
	e := ecs.NewEntity(ecs.NewWorld())

	require.NoError(t, e.Add(Score(10)))
	require.NoError(t, e.Add(Tag("boss")))
	require.NoError(t, e.Add(Inventory{Items: []string{"sword"}}))

	tag, ok := ecs.Get[Tag](e)
	require.True(t, ok)
	assert.Equal(t, Tag("boss"), tag)

	inv, ok := ecs.Get[Inventory](e)
	require.True(t, ok)
	assert.Equal(t, []string{"sword"}, inv.Items)

	assert.True(t, ecs.Has[Score](e))
	assert.False(t, ecs.Has[Position](e))
}
