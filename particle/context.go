package particle

import "sync"

// Context owns a bounded pool of Instance slots and is the entry point a
// host embeds: one per simulation world (spec.md §5). All instance slots
// share Context's max_particles_per_context ceiling only in the sense that
// each Instance's own emitter pools are already capped at creation; Context
// itself just tracks slot lifetime and aggregate stats.
type Context struct {
	mu                     sync.Mutex
	logger                 Logger
	slots                  []*Instance
	generation             []uint16
	free                   []uint16
	maxParticlesPerContext int
}

// CreateContext allocates a Context with room for maxInstances concurrent
// instances. maxParticlesPerContext is advisory bookkeeping surfaced via
// GetStats; instance creation is never throttled by it (each prototype
// already bounds its own emitters' pools).
func CreateContext(maxInstances, maxParticlesPerContext int, logger Logger) *Context {
	if logger == nil {
		logger = NewNopLogger()
	}
	c := &Context{
		logger:                 logger,
		slots:                  make([]*Instance, maxInstances),
		generation:             make([]uint16, maxInstances),
		maxParticlesPerContext: maxParticlesPerContext,
	}
	for i := maxInstances - 1; i >= 0; i-- {
		c.free = append(c.free, uint16(i))
		c.generation[i] = 1
	}
	return c
}

// DestroyContext releases every live instance slot held by c, decrementing
// each held prototype's ref count the same way DestroyInstance does so a
// prototype isn't left stuck reporting ErrPrototypeInUse after its owning
// context is gone.
func DestroyContext(c *Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, inst := range c.slots {
		if inst == nil {
			continue
		}
		inst.proto.mu.Lock()
		inst.proto.refs--
		inst.proto.mu.Unlock()
		c.slots[i] = nil
	}
	c.free = c.free[:0]
}

// CreateInstance allocates a slot bound to proto and returns its opaque
// handle. Returns (0, ErrCapacityExceeded) when the context is full.
func (c *Context) CreateInstance(proto *Prototype) (Handle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.free) == 0 {
		return 0, ErrCapacityExceeded
	}
	slot := c.free[len(c.free)-1]
	c.free = c.free[:len(c.free)-1]

	proto.mu.Lock()
	proto.refs++
	proto.mu.Unlock()

	c.slots[slot] = newInstance(proto, randomSeedBase())
	return makeHandle(c.generation[slot], slot), nil
}

// DestroyInstance frees a previously created handle. Re-destroying a stale
// or already-freed handle is a no-op error, never a crash.
func (c *Context) DestroyInstance(h Handle) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	inst, ok := c.resolve(h)
	if !ok {
		return ErrInvalidHandle
	}
	slot := h.slot()

	inst.proto.mu.Lock()
	inst.proto.refs--
	inst.proto.mu.Unlock()

	c.slots[slot] = nil
	c.generation[slot]++
	if c.generation[slot] == 0 {
		c.generation[slot] = 1
	}
	c.free = append(c.free, slot)
	return nil
}

func (c *Context) resolve(h Handle) (*Instance, bool) {
	slot := h.slot()
	if int(slot) >= len(c.slots) {
		return nil, false
	}
	if c.generation[slot] != h.generation() {
		return nil, false
	}
	inst := c.slots[slot]
	if inst == nil {
		return nil, false
	}
	return inst, true
}

// Instance resolves h, or nil if it is stale or unknown. Callers use this to
// reach Start/Stop/Reset/SetPosition/etc without threading the handle
// through every mutator.
func (c *Context) Instance(h Handle) *Instance {
	c.mu.Lock()
	defer c.mu.Unlock()
	inst, ok := c.resolve(h)
	if !ok {
		return nil
	}
	return inst
}

// Update advances every live instance by dt and renders their visible
// particles into vbuf starting at byte 0, invoking fetchAnim per emitter
// that carries animation data. It returns the number of bytes written;
// writing stops, per emitter, at the last whole particle that fits in the
// remaining capacity (spec.md §6).
func (c *Context) Update(dt float32, vbuf []byte, fetchAnim FetchAnimationFunc) (writtenBytes int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	offset := 0
	for _, inst := range c.slots {
		if inst == nil {
			continue
		}
		ReloadInstance(inst, true)

		instVel := inst.velocitySinceLastUpdate(dt)

		for i, e := range inst.emitters {
			e.advance(dt)
			e.spawn(dt, inst.transform, instVel)
			e.simulate(dt, inst.transform, inst.transform.Scale, inst.sortAxis)
			e.drainPostspawn()

			inst.renderedVertexCount[i] = 0
			if offset >= len(vbuf) {
				continue
			}
			written, vertices := renderEmitter(e, vbuf, offset, inst.transform, inst.transform.Scale, fetchAnim, inst.tileSources[i])
			inst.renderedVertexCount[i] = vertices
			offset += written
		}

		inst.prevPosition = inst.transform.Position
	}
	return offset
}

// Render replays the last Update's writes by invoking cb once per
// (instance, emitter) pair that produced geometry. Hosts that need batch
// metadata (material/texture/blend/constants) call this after Update using
// the same vertex offsets Update reported; this engine keeps that bookkeeping
// internal to avoid forcing allocation-heavy batch slices out of Update's hot
// path.
//
// vertexCount comes from what renderEmitter actually wrote last Update, not
// from live particle count * 6: an emitter with an unresolved animation tile
// skips that particle's quad, and a full vertex buffer truncates the last
// emitters in the loop, so recomputing from e.pool.liveCount() here could
// report vertices Update never wrote.
func (c *Context) Render(userctx any, cb RenderBatchFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()

	offset := 0
	for _, inst := range c.slots {
		if inst == nil {
			continue
		}
		for i := range inst.emitters {
			vertexCount := inst.renderedVertexCount[i]
			if vertexCount == 0 {
				continue
			}
			constants := collectConstants(inst, i)
			cb(userctx, inst.proto.Emitters[i].MaterialRef, inst.proto.Emitters[i].TileSourceRef, inst.proto.Emitters[i].BlendMode, offset/vertexSize, vertexCount, constants)
			offset += vertexCount * vertexSize
		}
	}
}

func collectConstants(inst *Instance, emitterIndex int) []RenderConstant {
	var out []RenderConstant
	for k, v := range inst.constants {
		if k.emitter == emitterIndex {
			out = append(out, v)
		}
	}
	return out
}

// Stats summarizes a Context's current load (spec.md §6 GetStats).
type Stats struct {
	LiveInstances int
	LiveParticles int
	MaxParticles  int
}

// GetStats aggregates counts across every live instance.
func (c *Context) GetStats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{MaxParticles: c.maxParticlesPerContext}
	for _, inst := range c.slots {
		if inst == nil {
			continue
		}
		s.LiveInstances++
		for _, e := range inst.emitters {
			s.LiveParticles += e.LiveCount()
		}
	}
	return s
}

// InstanceStats summarizes one instance's emitters (spec.md §6
// GetInstanceStats).
type InstanceStats struct {
	EmitterLiveCounts []int
	Sleeping          bool
}

// GetInstanceStats returns per-emitter live counts for h, or false if the
// handle is stale.
func (c *Context) GetInstanceStats(h Handle) (InstanceStats, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	inst, ok := c.resolve(h)
	if !ok {
		return InstanceStats{}, false
	}
	var st InstanceStats
	st.Sleeping = true
	for _, e := range inst.emitters {
		st.EmitterLiveCounts = append(st.EmitterLiveCounts, e.LiveCount())
		if !e.IsSleeping() {
			st.Sleeping = false
		}
	}
	return st, true
}
