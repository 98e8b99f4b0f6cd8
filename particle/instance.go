package particle

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
)

// Handle is an opaque, generation-tagged reference to an Instance: the high
// 16 bits are the slot's generation counter, the low 16 bits its slot index
// (spec.md §5: stale handles from a destroyed-and-reused slot must not
// resolve). Handle 0 is never valid.
type Handle uint32

func makeHandle(generation uint16, slot uint16) Handle {
	return Handle(uint32(generation)<<16 | uint32(slot))
}

func (h Handle) slot() uint16       { return uint16(h) }
func (h Handle) generation() uint16 { return uint16(h >> 16) }

// Instance is one running effect: a prototype reference plus one Emitter
// runtime per EmitterPrototype, a world transform, and a render-constant
// override table (spec.md §5).
type Instance struct {
	proto        *Prototype
	protoVersion uint64
	emitters     []*Emitter
	transform    Transform
	sortAxis     SortAxis
	tileSources  []any // per-emitter, falls back to proto.TileSource
	constants    map[constantKey]RenderConstant
	seedBase     uint32

	// prevPosition is last tick's world position, used to derive the
	// instance's own velocity for emitters with inherit_velocity set
	// (spec.md §3; original InheritVelocity scenario).
	prevPosition        mgl32.Vec2
	hasPrevPosition     bool
	renderedVertexCount []int // per-emitter, vertices Update actually wrote last tick
}

type constantKey struct {
	emitter int
	name    uint64
}

func newInstance(proto *Prototype, seedBase uint32) *Instance {
	inst := &Instance{
		proto:        proto,
		protoVersion: proto.Version(),
		transform:    IdentityTransform(),
		sortAxis:     DefaultSortAxis(),
		constants:    make(map[constantKey]RenderConstant),
		seedBase:     seedBase,
	}
	inst.rebuildEmitters()
	return inst
}

func (inst *Instance) rebuildEmitters() {
	inst.emitters = make([]*Emitter, len(inst.proto.Emitters))
	inst.tileSources = make([]any, len(inst.proto.Emitters))
	inst.renderedVertexCount = make([]int, len(inst.proto.Emitters))
	for i := range inst.proto.Emitters {
		seed := inst.seedBase ^ uint32(i)*2654435761
		inst.emitters[i] = newEmitter(&inst.proto.Emitters[i], i, seed)
		inst.tileSources[i] = inst.proto.TileSource(i)
	}
}

// velocitySinceLastUpdate derives the instance's own world velocity from the
// change in transform.Position since the previous tick, for emitters with
// inherit_velocity set. The first tick after creation has no previous
// position to compare against, so it reports zero rather than a spurious
// spike from the origin.
func (inst *Instance) velocitySinceLastUpdate(dt float32) mgl32.Vec2 {
	var v mgl32.Vec2
	if inst.hasPrevPosition && dt > 0 {
		v = inst.transform.Position.Sub(inst.prevPosition).Mul(1 / dt)
	}
	inst.hasPrevPosition = true
	return v
}

// Start begins spawning on every emitter (spec.md §4.5 "Start" event).
func (inst *Instance) Start() {
	for _, e := range inst.emitters {
		e.start()
	}
}

// Stop transitions every emitter to Postspawn: spawning ends but already-live
// particles simulate out.
func (inst *Instance) Stop() {
	for _, e := range inst.emitters {
		e.stop()
	}
}

// Reset forces every emitter back to Sleeping and clears its particles.
func (inst *Instance) Reset() {
	for _, e := range inst.emitters {
		e.reset()
	}
}

// SetPosition, SetRotation and SetScale mutate the instance's world
// transform, applied to world-space emitters and modifier anchors at the
// next Update.
func (inst *Instance) SetPosition(x, y float32) { inst.transform.Position = mgl32.Vec2{x, y} }
func (inst *Instance) SetRotation(radians float32) { inst.transform.Rotation = radians }
func (inst *Instance) SetScale(s float32) { inst.transform.Scale = s }

// SetSortAxis overrides the depth axis used for this instance's particle
// sort (spec.md §9 Open Question; defaults to emitter-local Y).
func (inst *Instance) SetSortAxis(x, y float32) { inst.sortAxis = NewSortAxis(x, y) }

// SetTileSource overrides the tile source for one emitter on this instance
// only, without mutating the shared prototype.
func (inst *Instance) SetTileSource(emitterIndex int, handle any) {
	if emitterIndex < 0 || emitterIndex >= len(inst.tileSources) {
		return
	}
	inst.tileSources[emitterIndex] = handle
}

// SetConstant records a render-constant override keyed by emitter index and
// name hash, forwarded unchanged to RenderBatch (spec.md §6).
func (inst *Instance) SetConstant(emitterIndex int, nameHash uint64, value RenderConstant) {
	inst.constants[constantKey{emitterIndex, nameHash}] = value
}

// ReloadInstance re-syncs inst against its prototype's current version. When
// replay is true, surviving emitters (same index, same seed) keep their
// live particles and rng/timer state exactly as they were (spec.md §4.11,
// invariant 7); new or removed emitters are created or dropped in place.
// When replay is false, every emitter is rebuilt from scratch.
func ReloadInstance(inst *Instance, replay bool) {
	version := inst.proto.Version()
	if version == inst.protoVersion {
		return
	}

	if !replay {
		inst.rebuildEmitters()
		inst.protoVersion = version
		return
	}

	old := inst.emitters
	next := make([]*Emitter, len(inst.proto.Emitters))
	nextTiles := make([]any, len(inst.proto.Emitters))
	for i := range inst.proto.Emitters {
		if i < len(old) {
			e := old[i]
			e.proto = &inst.proto.Emitters[i]
			e.pool.resizePreserving(inst.proto.Emitters[i].MaxParticleCount)
			next[i] = e
		} else {
			seed := inst.seedBase ^ uint32(i)*2654435761
			next[i] = newEmitter(&inst.proto.Emitters[i], i, seed)
		}
		if i < len(inst.tileSources) {
			nextTiles[i] = inst.tileSources[i]
		} else {
			nextTiles[i] = inst.proto.TileSource(i)
		}
	}
	inst.emitters = next
	inst.tileSources = nextTiles
	inst.renderedVertexCount = make([]int, len(inst.proto.Emitters))
	inst.protoVersion = version
}

// randomSeedBase produces a non-deterministic per-instance seed base at
// creation time. The per-emitter rng streams derived from it are themselves
// fully deterministic once captured (spec.md §9: determinism is about
// replaying a captured seed, not about hiding entropy at creation).
func randomSeedBase() uint32 {
	return rand.Uint32()
}
