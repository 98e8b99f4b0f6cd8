package particle

import "sort"

// PropertyKind selects whether a Property is a flat constant or a Hermite
// spline sampled over normalized time.
type PropertyKind int

const (
	PropertyConstant PropertyKind = iota
	PropertySpline
)

// Key is one spline control point. T must lie in [0,1]; TangentX/TangentY
// express the slope as rise-over-run for one unit of x, per spec.md §4.1.
type Key struct {
	T        float32
	Value    float32
	TangentX float32
	TangentY float32
}

// Property is a constant or spline-evaluated scalar with an optional
// symmetric random spread applied once per sample.
type Property struct {
	Kind     PropertyKind
	Constant float32
	Keys     []Key // ascending T, validated at load time
	Spread   float32
}

// ConstantProperty builds a Property with no curve.
func ConstantProperty(value, spread float32) Property {
	return Property{Kind: PropertyConstant, Constant: value, Spread: spread}
}

// SplineProperty builds a Property driven by keys, already sorted by T.
func SplineProperty(keys []Key, spread float32) Property {
	return Property{Kind: PropertySpline, Keys: keys, Spread: spread}
}

func clamp01(t float32) float32 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// Evaluate samples the property at normalized time t (clamped to [0,1]),
// adding one spread draw from rng. Constant properties skip the curve
// lookup; spline properties locate the enclosing segment by binary search
// and evaluate a cubic Hermite between its two keys.
func (p *Property) Evaluate(t float32, rng *Rng) float32 {
	t = clamp01(t)

	var v float32
	switch p.Kind {
	case PropertyConstant:
		v = p.Constant
	case PropertySpline:
		v = evaluateHermite(p.Keys, t)
	}

	if p.Spread != 0 {
		v += rng.Uniform(-p.Spread, p.Spread)
	}
	return v
}

// evaluateHermite finds the segment containing t and evaluates the cubic
// Hermite curve across it. keys must be sorted ascending by T and contain at
// least one entry; a single key is treated as a constant.
func evaluateHermite(keys []Key, t float32) float32 {
	if len(keys) == 0 {
		return 0
	}
	if len(keys) == 1 {
		return keys[0].Value
	}
	if t <= keys[0].T {
		return keys[0].Value
	}
	last := len(keys) - 1
	if t >= keys[last].T {
		return keys[last].Value
	}

	// Binary search for the first key whose T exceeds t; the segment is
	// [i-1, i].
	i := sort.Search(len(keys), func(i int) bool { return keys[i].T > t })
	k0, k1 := keys[i-1], keys[i]

	span := k1.T - k0.T
	if span <= 0 {
		return k0.Value
	}
	u := (t - k0.T) / span

	m0 := tangentSlope(k0) * span
	m1 := tangentSlope(k1) * span

	u2 := u * u
	u3 := u2 * u
	h00 := 2*u3 - 3*u2 + 1
	h10 := u3 - 2*u2 + u
	h01 := -2*u3 + 3*u2
	h11 := u3 - u2

	return h00*k0.Value + h10*m0 + h01*k1.Value + h11*m1
}

func tangentSlope(k Key) float32 {
	if k.TangentX == 0 {
		return 0
	}
	return k.TangentY / k.TangentX
}

// validateKeys enforces monotonically increasing T within [0,1] (spec.md §4.3).
func validateKeys(keys []Key) bool {
	for _, k := range keys {
		if k.T < 0 || k.T > 1 {
			return false
		}
	}
	for i := 1; i < len(keys); i++ {
		if keys[i].T <= keys[i-1].T {
			return false
		}
	}
	return true
}
