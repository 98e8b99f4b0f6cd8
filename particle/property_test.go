package particle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProperty_Constant(t *testing.T) {
	p := ConstantProperty(2.5, 0)
	rng := NewRng(1)
	assert.Equal(t, float32(2.5), p.Evaluate(0, rng))
	assert.Equal(t, float32(2.5), p.Evaluate(1, rng))
}

func TestProperty_ConstantSpread(t *testing.T) {
	p := ConstantProperty(1.0, 0.5)
	rng := NewRng(42)
	for i := 0; i < 50; i++ {
		v := p.Evaluate(0, rng)
		assert.GreaterOrEqual(t, v, float32(0.5))
		assert.LessOrEqual(t, v, float32(1.5))
	}
}

func TestProperty_SplineEndpoints(t *testing.T) {
	keys := []Key{
		{T: 0, Value: 0},
		{T: 1, Value: 10},
	}
	p := SplineProperty(keys, 0)
	rng := NewRng(7)
	assert.Equal(t, float32(0), p.Evaluate(0, rng))
	assert.Equal(t, float32(10), p.Evaluate(1, rng))
}

func TestProperty_SplineMidpointLinearTangents(t *testing.T) {
	keys := []Key{
		{T: 0, Value: 0, TangentX: 1, TangentY: 10},
		{T: 1, Value: 10, TangentX: 1, TangentY: 10},
	}
	p := SplineProperty(keys, 0)
	rng := NewRng(7)
	v := p.Evaluate(0.5, rng)
	assert.InDelta(t, 5.0, v, 0.001)
}

func TestProperty_SplineClampsOutOfRangeTime(t *testing.T) {
	keys := []Key{
		{T: 0.2, Value: 1},
		{T: 0.8, Value: 2},
	}
	p := SplineProperty(keys, 0)
	rng := NewRng(7)
	assert.Equal(t, float32(1), p.Evaluate(0, rng))
	assert.Equal(t, float32(2), p.Evaluate(1, rng))
}

func TestValidateKeys_RejectsNonMonotonic(t *testing.T) {
	assert.False(t, validateKeys([]Key{{T: 0.5}, {T: 0.4}}))
	assert.False(t, validateKeys([]Key{{T: 0.5}, {T: 0.5}}))
	assert.False(t, validateKeys([]Key{{T: -0.1}}))
	assert.False(t, validateKeys([]Key{{T: 1.1}}))
}

func TestValidateKeys_AcceptsStrictlyIncreasing(t *testing.T) {
	require.True(t, validateKeys([]Key{{T: 0}, {T: 0.5}, {T: 1}}))
}
