// Command particledemo drives one particle.Context through the gekko ECS
// harness: it opens a GLFW/wgpu window, spawns a single emitter entity from
// a YAML prototype, and runs the simulation loop, logging each render batch
// gekko produces instead of drawing it.
package main

import (
	"os"

	"github.com/particlefx/engine/particle"

	gekko "github.com/particlefx/engine"
)

const sparkPrototypeYAML = `
emitters:
  - space: world
    duration: 1.0
    start_delay: 0.0
    play_mode: loop
    max_particle_count: 512
    blend_mode: add
    material_ref: spark_material
    spawn_cone_degrees: 30
    emitter_properties:
      rate:
        constant: 200
      particle_life_time:
        constant: 0.8
        spread: 0.2
      particle_start_speed:
        constant: 3.0
        spread: 0.5
    particle_properties:
      scale:
        spline: true
        keys:
          - {t: 0.0, value: 0.2}
          - {t: 1.0, value: 0.0}
      red:
        constant: 1.0
      green:
        constant: 0.8
      blue:
        constant: 0.2
      alpha:
        spline: true
        keys:
          - {t: 0.0, value: 1.0}
          - {t: 1.0, value: 0.0}
      rotation:
        constant: 0.0
    modifiers:
      - kind: drag
        magnitude:
          constant: 1.5
`

func main() {
	win := createWindow(1280, 720, "particledemo")
	gpu := createGpu(win)
	_ = gpu

	logger := gekko.NewDefaultLogger("particledemo", false)

	proto, err := particle.NewPrototype([]byte(sparkPrototypeYAML), logger)
	if err != nil {
		logger.Errorf("failed to parse prototype: %v", err)
		os.Exit(1)
	}

	builder := gekko.NewAppBuilder()
	builder.UseModule(
		gekko.LoggingModule{Prefix: "particledemo"},
		gekko.TimeModule{},
		gekko.LifecycleModule{},
		gekko.AssetServerModule{},
		gekko.ParticleModule{
			MaxInstances:           64,
			MaxParticlesPerContext: 8192,
			MaxRenderedParticles:   4096,
		},
	)
	app := builder.Build()
	cmd := app.Commands()

	cmd.AddEntity(
		gekko.Transform2D{X: 0, Y: 0, Rotation: 0, Scale: 1},
		&gekko.ParticleEmitterComponent{Prototype: proto, AutoStart: true},
	)

	app.UseSystem(gekko.System(pollWindowSystem).InStage(gekko.PreUpdate).RunAlways())
	app.UseSystem(gekko.System(logRenderBatchesSystem).InStage(gekko.PostUpdate).RunAlways())

	app.Run()
}

func pollWindowSystem() {
	glfwPollEvents()
	if windowShouldClose() {
		os.Exit(0)
	}
}

func logRenderBatchesSystem(ctx *particle.Context, logger *gekko.DefaultLogger) {
	stats := ctx.GetStats()
	_ = stats
	ctx.Render(nil, func(userctx any, material, texture uint64, blend particle.BlendMode, vertexIndex, vertexCount int, constants []particle.RenderConstant) {
		// A real host would issue a draw call here using (material, texture,
		// blend, vertexIndex, vertexCount). This demo logs the batch instead.
		logger.Debugf("render batch: material=%d texture=%d blend=%d vertexIndex=%d vertexCount=%d constants=%d",
			material, texture, blend, vertexIndex, vertexCount, len(constants))
	})
}
