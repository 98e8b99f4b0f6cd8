// Package particle implements a deterministic, single-threaded 2D particle
// effect simulation and rendering engine: prototypes describe effects
// declaratively, instances run them, and each tick produces vertex data for a
// caller-supplied buffer plus per-emitter draw batches.
package particle
