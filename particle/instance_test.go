package particle

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPrototypeDoc() *Prototype {
	p := &Prototype{Emitters: []EmitterPrototype{*testPrototype(), *testPrototype()}, version: 1}
	return p
}

func TestNewInstance_CreatesOneEmitterPerPrototypeEmitter(t *testing.T) {
	proto := testPrototypeDoc()
	inst := newInstance(proto, 42)
	assert.Len(t, inst.emitters, 2)
}

func TestNewInstance_EmittersGetDistinctSeeds(t *testing.T) {
	proto := testPrototypeDoc()
	inst := newInstance(proto, 42)
	assert.NotEqual(t, inst.emitters[0].seed, inst.emitters[1].seed)
}

func TestInstance_StartBeginsAllEmitters(t *testing.T) {
	proto := testPrototypeDoc()
	inst := newInstance(proto, 1)
	inst.Start()
	for _, e := range inst.emitters {
		assert.NotEqual(t, EmitterSleeping, e.state)
	}
}

func TestInstance_StopMovesRunningEmittersToPostspawn(t *testing.T) {
	proto := testPrototypeDoc()
	inst := newInstance(proto, 1)
	inst.Start()
	inst.Stop()
	for _, e := range inst.emitters {
		assert.Equal(t, EmitterPostspawn, e.state)
	}
}

func TestInstance_ResetClearsEveryEmitter(t *testing.T) {
	proto := testPrototypeDoc()
	inst := newInstance(proto, 1)
	inst.Start()
	inst.emitters[0].advance(0)
	inst.emitters[0].spawn(1.0, IdentityTransform(), mgl32.Vec2{})
	require.Greater(t, inst.emitters[0].LiveCount(), 0)

	inst.Reset()
	assert.Equal(t, 0, inst.emitters[0].LiveCount())
	assert.True(t, inst.emitters[0].IsSleeping())
}

func TestHandle_EncodesSlotAndGeneration(t *testing.T) {
	h := makeHandle(7, 3)
	assert.Equal(t, uint16(3), h.slot())
	assert.Equal(t, uint16(7), h.generation())
}

func TestReloadInstance_NoOpWhenVersionUnchanged(t *testing.T) {
	proto := testPrototypeDoc()
	inst := newInstance(proto, 1)
	original := inst.emitters[0]
	ReloadInstance(inst, true)
	assert.Same(t, original, inst.emitters[0])
}

func TestReloadInstance_ReplayPreservesLiveParticlesOfSurvivingEmitters(t *testing.T) {
	proto := testPrototypeDoc()
	inst := newInstance(proto, 1)
	inst.Start()
	inst.emitters[0].advance(0)
	inst.emitters[0].spawn(1.0, IdentityTransform(), mgl32.Vec2{})
	liveBefore := inst.emitters[0].LiveCount()
	require.Greater(t, liveBefore, 0)

	proto.version++ // simulate a reload bump without changing shape
	ReloadInstance(inst, true)

	assert.Equal(t, liveBefore, inst.emitters[0].LiveCount())
}

func TestReloadInstance_NoReplayRebuildsFromScratch(t *testing.T) {
	proto := testPrototypeDoc()
	inst := newInstance(proto, 1)
	inst.Start()
	inst.emitters[0].advance(0)
	inst.emitters[0].spawn(1.0, IdentityTransform(), mgl32.Vec2{})
	require.Greater(t, inst.emitters[0].LiveCount(), 0)

	proto.version++
	ReloadInstance(inst, false)

	assert.Equal(t, 0, inst.emitters[0].LiveCount())
	assert.True(t, inst.emitters[0].IsSleeping())
}

func TestReloadInstance_ReplayAddsNewlyAppendedEmitters(t *testing.T) {
	proto := testPrototypeDoc()
	inst := newInstance(proto, 1)
	require.Len(t, inst.emitters, 2)

	proto.Emitters = append(proto.Emitters, *testPrototype())
	proto.version++
	ReloadInstance(inst, true)

	assert.Len(t, inst.emitters, 3)
}

func TestInstance_VelocitySinceLastUpdateIsZeroOnFirstTick(t *testing.T) {
	proto := testPrototypeDoc()
	inst := newInstance(proto, 1)
	inst.SetPosition(10, 0)
	assert.Equal(t, mgl32.Vec2{0, 0}, inst.velocitySinceLastUpdate(1.0))
}

func TestInstance_VelocitySinceLastUpdateTracksPositionDelta(t *testing.T) {
	proto := testPrototypeDoc()
	inst := newInstance(proto, 1)
	inst.velocitySinceLastUpdate(1.0)
	inst.prevPosition = inst.transform.Position

	inst.SetPosition(10, 0)
	v := inst.velocitySinceLastUpdate(1.0)
	assert.InDelta(t, 10.0, v.X(), 0.001)
}

func TestInstance_SetPositionUpdatesTransform(t *testing.T) {
	proto := testPrototypeDoc()
	inst := newInstance(proto, 1)
	inst.SetPosition(5, 9)
	assert.Equal(t, float32(5), inst.transform.Position.X())
	assert.Equal(t, float32(9), inst.transform.Position.Y())
}

func TestInstance_SetTileSourceIsPerInstanceNotShared(t *testing.T) {
	proto := testPrototypeDoc()
	instA := newInstance(proto, 1)
	instB := newInstance(proto, 2)

	instA.SetTileSource(0, "atlas-a")
	assert.Equal(t, "atlas-a", instA.tileSources[0])
	assert.Nil(t, instB.tileSources[0])
}
