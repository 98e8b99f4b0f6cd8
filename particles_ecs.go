package gekko

import (
	"github.com/particlefx/engine/particle"
)

// Transform2D places an entity in the 2D world. Particle emitters read it
// each tick to drive their owning Instance's world transform.
type Transform2D struct {
	X, Y     float32
	Rotation float32 // radians
	Scale    float32
}

// ParticleEmitterComponent binds an entity to a running particle.Instance.
// Prototype is set by the spawning code; Handle is populated lazily the
// first time the emitter system sees this component.
type ParticleEmitterComponent struct {
	Prototype  *particle.Prototype
	TileSource any
	Handle     particle.Handle
	AutoStart  bool
	started    bool
}

// ParticleRenderBuffer is the resource holding the caller-owned vertex
// buffer particle.Context.Update writes into each tick.
type ParticleRenderBuffer struct {
	Buf     []byte
	Written int
}

// ParticleModule wires a particle.Context into the ECS schedule: one system
// creates/positions instances from ParticleEmitterComponent entities, a
// second advances simulation and writes the vertex buffer.
type ParticleModule struct {
	MaxInstances            int
	MaxParticlesPerContext  int
	MaxRenderedParticles    int
	FetchAnimation          particle.FetchAnimationFunc
}

type particleFetch struct {
	fn particle.FetchAnimationFunc
}

func (m ParticleModule) Install(app *App, cmd *Commands) {
	maxInstances := m.MaxInstances
	if maxInstances <= 0 {
		maxInstances = 256
	}
	maxParticles := m.MaxParticlesPerContext
	if maxParticles <= 0 {
		maxParticles = 65536
	}
	renderCap := m.MaxRenderedParticles
	if renderCap <= 0 {
		renderCap = 8192
	}

	ctx := particle.CreateContext(maxInstances, maxParticles, app.Logger())
	cmd.AddResources(ctx)
	cmd.AddResources(&ParticleRenderBuffer{Buf: make([]byte, particle.VertexBufferSize(renderCap))})
	cmd.AddResources(&particleFetch{fn: m.FetchAnimation})

	app.UseSystem(System(particleBindSystem).InStage(Update).RunAlways())
	app.UseSystem(System(particleSimulateSystem).InStage(PostUpdate).RunAlways())
}

// particleBindSystem creates the backing Instance for any entity whose
// emitter component hasn't been bound yet, then syncs its world transform
// from Transform2D every tick.
func particleBindSystem(cmd *Commands, ctx *particle.Context) {
	MakeQuery2[Transform2D, ParticleEmitterComponent](cmd).Map(func(eid EntityId, tr *Transform2D, em *ParticleEmitterComponent) bool {
		if em.Prototype == nil {
			return true
		}
		if em.Handle == 0 {
			h, err := ctx.CreateInstance(em.Prototype)
			if err != nil {
				return true
			}
			em.Handle = h
		}

		inst := ctx.Instance(em.Handle)
		if inst == nil {
			return true
		}
		inst.SetPosition(tr.X, tr.Y)
		inst.SetRotation(tr.Rotation)
		scale := tr.Scale
		if scale == 0 {
			scale = 1
		}
		inst.SetScale(scale)
		if em.TileSource != nil {
			for i := range em.Prototype.Emitters {
				inst.SetTileSource(i, em.TileSource)
			}
		}
		if em.AutoStart && !em.started {
			inst.Start()
			em.started = true
		}
		return true
	})
}

// particleSimulateSystem advances every live instance by one tick and
// re-fills the shared vertex buffer (spec.md §6 Update).
func particleSimulateSystem(t *Time, ctx *particle.Context, buf *ParticleRenderBuffer, fetch *particleFetch) {
	dt := float32(t.Dt.Seconds())
	if dt <= 0 {
		return
	}
	buf.Written = ctx.Update(dt, buf.Buf, fetch.fn)
}
