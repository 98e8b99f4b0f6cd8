package particle

// EmitterState is the emitter's lifecycle state (spec.md §4.5).
type EmitterState int

const (
	EmitterSleeping EmitterState = iota
	EmitterPrespawn
	EmitterSpawning
	EmitterPostspawn
)

// Emitter is the runtime record for one EmitterPrototype inside an Instance.
type Emitter struct {
	proto *EmitterPrototype
	index int

	state    EmitterState
	timer    float32
	seed     uint32
	rng      *Rng
	pool     *pool
	spawnAcc float32

	tileSource any // opaque; not set by SetTileSource, rendering reads Instance.tileSources
}

func newEmitter(proto *EmitterPrototype, index int, seed uint32) *Emitter {
	return &Emitter{
		proto: proto,
		index: index,
		state: EmitterSleeping,
		seed:  seed,
		rng:   NewRng(seed),
		pool:  newPool(proto.MaxParticleCount),
	}
}

// LiveCount reports the number of live particles.
func (e *Emitter) LiveCount() int { return e.pool.liveCount() }

// IsSleeping reports whether the emitter is fully at rest.
func (e *Emitter) IsSleeping() bool { return e.state == EmitterSleeping }

// start transitions Sleeping -> Prespawn (spec.md §4.5 "Start" event).
func (e *Emitter) start() {
	if e.state == EmitterSleeping {
		e.state = EmitterPrespawn
		e.timer = 0
	}
}

// stop transitions any active state to Postspawn.
func (e *Emitter) stop() {
	if e.state != EmitterSleeping {
		e.state = EmitterPostspawn
	}
}

// reset forces Sleeping, clears live particles and reseeds the generator
// from the emitter's original seed (spec.md §4.5 "Reset" event).
func (e *Emitter) reset() {
	e.state = EmitterSleeping
	e.timer = 0
	e.pool.live = 0
	e.spawnAcc = 0
	e.rng.Reseed(e.seed)
}

// advance runs the emitter state machine for one tick, per the transition
// table in spec.md §4.5. It must run before the spawner/simulator so both
// observe the post-transition state and timer for this tick. The
// Postspawn->Sleeping drain transition is intentionally not here: it depends
// on the live count *after* this tick's simulate runs, not before it, so it
// lives in drainPostspawn instead (called after simulate).
func (e *Emitter) advance(dt float32) {
	if e.state == EmitterSleeping {
		return
	}

	e.timer += dt

	switch e.state {
	case EmitterPrespawn:
		if e.timer >= e.proto.StartDelay {
			e.state = EmitterSpawning
		}
	case EmitterSpawning:
		end := e.proto.StartDelay + e.proto.Duration
		if e.timer >= end {
			if e.proto.PlayMode == PlayLoop {
				e.timer -= e.proto.Duration
			} else {
				e.state = EmitterPostspawn
			}
		}
	}
}

// drainPostspawn transitions Postspawn -> Sleeping once the pool has fully
// drained. Called after simulate each tick so a particle dying this tick is
// reflected in this tick's state, not the next one (the original Once/Loop
// scenarios require IsSleeping==true on the same update the pool empties).
func (e *Emitter) drainPostspawn() {
	if e.state == EmitterPostspawn && e.pool.liveCount() == 0 {
		e.state = EmitterSleeping
		e.timer = 0
	}
}

// emitterNormalizedTime returns t_e = timer / duration, clamped to [0,1].
func (e *Emitter) emitterNormalizedTime() float32 {
	if e.proto.Duration <= 0 {
		return 0
	}
	return clamp01(e.timer / e.proto.Duration)
}
