package ecs

import "errors"

var (
	// ErrAlreadyExists is returned when adding a component whose type is
	// already present on the entity (or already accumulated in a builder).
	// Callers that want to overwrite can Remove first and Add again.
	ErrAlreadyExists = errors.New("component type already present")

	// ErrBuilderConsumed is returned when a Builder is used after Build.
	ErrBuilderConsumed = errors.New("builder already consumed")
)
