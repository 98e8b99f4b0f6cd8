package particle

import "errors"

// Sentinel errors surfaced to callers. A stale or double-destroyed handle
// returns ErrInvalidHandle. Other programmer errors (such as a nil context)
// are not modeled as errors; they panic, the same contract violation style
// the teacher's ECS uses for misuse (ecs.go writeComponent).
var (
	// ErrInvalidPrototype is returned by NewPrototype/ReloadPrototype when the
	// buffer fails to parse or fails validation (monotonic spline keys,
	// max_particle_count > 0, duration > 0).
	ErrInvalidPrototype = errors.New("particle: invalid prototype")

	// ErrInvalidHandle is returned when a Handle's generation no longer
	// matches the slot it addresses (stale or foreign handle).
	ErrInvalidHandle = errors.New("particle: invalid handle")

	// ErrCapacityExceeded is returned by CreateInstance when the context has
	// no free instance slot.
	ErrCapacityExceeded = errors.New("particle: capacity exceeded")

	// ErrPrototypeInUse is returned by DeletePrototype while at least one
	// instance still references the prototype.
	ErrPrototypeInUse = errors.New("particle: prototype still referenced")
)
