package particle

import (
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// EmitterSpace selects the frame particles live and simulate in.
type EmitterSpace int

const (
	SpaceWorld EmitterSpace = iota
	SpaceEmitter
)

// PlayMode selects whether an emitter stops or loops once its duration ends.
type PlayMode int

const (
	PlayOnce PlayMode = iota
	PlayLoop
)

// BlendMode is forwarded opaquely to the host renderer.
type BlendMode int

const (
	BlendAlpha BlendMode = iota
	BlendAdd
	BlendMultiply
)

// EmitterPropertyKey enumerates the emitter-wide curves sampled against the
// emitter's normalized time t_e (spec.md §3).
type EmitterPropertyKey int

const (
	EmitterPropertySpawnRate EmitterPropertyKey = iota
	EmitterPropertyParticleLifeTime
	EmitterPropertyParticleStartSpeed
	emitterPropertyCount
)

// ParticlePropertyKey enumerates the per-particle curves sampled against a
// particle's normalized age t_p (spec.md §3). They double as the initial
// values assigned at spawn (evaluated once at t_p=0, spec.md §4.6 step 5)
// and as the continuously-animated per-tick values (spec.md §4.7 step 2).
type ParticlePropertyKey int

const (
	ParticlePropertyScale ParticlePropertyKey = iota
	ParticlePropertyRed
	ParticlePropertyGreen
	ParticlePropertyBlue
	ParticlePropertyAlpha
	ParticlePropertyRotation
	particlePropertyCount
)

var emitterPropertyNames = map[string]EmitterPropertyKey{
	"rate":                 EmitterPropertySpawnRate,
	"particle_life_time":   EmitterPropertyParticleLifeTime,
	"particle_start_speed": EmitterPropertyParticleStartSpeed,
}

var particlePropertyNames = map[string]ParticlePropertyKey{
	"scale":    ParticlePropertyScale,
	"red":      ParticlePropertyRed,
	"green":    ParticlePropertyGreen,
	"blue":     ParticlePropertyBlue,
	"alpha":    ParticlePropertyAlpha,
	"rotation": ParticlePropertyRotation,
}

// ModifierKind is a closed set (spec.md §9: avoid virtual dispatch, the set
// of modifier kinds never grows), dispatched via a switch on Kind in
// applyModifiers (modifiers.go) rather than an interface hierarchy.
type ModifierKind int

const (
	ModifierAcceleration ModifierKind = iota
	ModifierDrag
	ModifierRadial
	ModifierVortex
)

// ModifierPrototype is one force-field entry in an emitter's declared,
// ordered modifier list.
type ModifierPrototype struct {
	Kind        ModifierKind
	Space       EmitterSpace
	Anchor      mgl32.Vec2
	Axis        mgl32.Vec2 // forward/side/direction axis; zero means "use default"
	MaxDistance float32    // 0 means unlimited
	Magnitude   Property   // evaluated against t_e
	Directional bool       // Acceleration only: true selects the directional variant
}

// EmitterPrototype is the immutable (outside of reload) description of one
// sub-effect.
type EmitterPrototype struct {
	Space            EmitterSpace
	Duration         float32
	StartDelay       float32
	PlayMode         PlayMode
	MaxParticleCount int
	BlendMode        BlendMode
	MaterialRef      uint64
	TileSourceRef    uint64
	AnimationName    uint64
	SpawnConeDegrees float32
	InheritVelocity  bool

	EmitterProperties  [emitterPropertyCount]Property
	ParticleProperties [particlePropertyCount]Property
	Modifiers          []ModifierPrototype
}

// Prototype is the parsed, hot-reloadable effect description. Instances hold
// a read-only reference to it (spec.md §9); reload mutates it in place under
// mu and bumps version so instances can detect the change at their next
// ReloadInstance call.
type Prototype struct {
	mu          sync.Mutex
	Emitters    []EmitterPrototype
	tileSources map[int]any
	version     uint64
	refs        int
}

// NewPrototype parses and validates a YAML-encoded effect description.
func NewPrototype(buf []byte, logger Logger) (*Prototype, error) {
	if logger == nil {
		logger = NewNopLogger()
	}
	doc, err := parsePrototypeDoc(buf)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrototype, err)
	}
	emitters, err := doc.toEmitters(logger)
	if err != nil {
		return nil, err
	}
	return &Prototype{Emitters: emitters, version: 1}, nil
}

// ReloadPrototype atomically replaces p's content with a re-parsed buffer.
// Existing instances are not touched here — they observe the change only
// when ReloadInstance is called explicitly (spec.md §9).
func ReloadPrototype(p *Prototype, buf []byte, logger Logger) error {
	if logger == nil {
		logger = NewNopLogger()
	}
	doc, err := parsePrototypeDoc(buf)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPrototype, err)
	}
	emitters, err := doc.toEmitters(logger)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.Emitters = emitters
	p.version++
	p.mu.Unlock()
	return nil
}

// Version returns the prototype's reload generation counter.
func (p *Prototype) Version() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.version
}

// DeletePrototype releases p. It is an error to call while any instance
// still references it.
func DeletePrototype(p *Prototype) error {
	if p.refs > 0 {
		return ErrPrototypeInUse
	}
	return nil
}

// SetTileSource associates an opaque tile-source handle with one emitter,
// later passed unchanged to the host's FetchAnimation callback.
func SetTileSource(p *Prototype, emitterIndex int, handle any) {
	if emitterIndex < 0 || emitterIndex >= len(p.Emitters) {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tileSources == nil {
		p.tileSources = make(map[int]any)
	}
	p.tileSources[emitterIndex] = handle
}

// TileSource returns the opaque handle registered for emitterIndex, or nil.
func (p *Prototype) TileSource(emitterIndex int) any {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tileSources[emitterIndex]
}

// --- YAML wire format -------------------------------------------------

type yamlKey struct {
	T        float32 `yaml:"t"`
	Value    float32 `yaml:"value"`
	TangentX float32 `yaml:"tangent_x"`
	TangentY float32 `yaml:"tangent_y"`
}

type yamlProperty struct {
	Constant float32   `yaml:"constant"`
	Spread   float32   `yaml:"spread"`
	Spline   bool      `yaml:"spline"`
	Keys     []yamlKey `yaml:"keys"`
}

func (yp yamlProperty) toProperty() Property {
	if !yp.Spline {
		return ConstantProperty(yp.Constant, yp.Spread)
	}
	keys := make([]Key, len(yp.Keys))
	for i, k := range yp.Keys {
		keys[i] = Key{T: k.T, Value: k.Value, TangentX: k.TangentX, TangentY: k.TangentY}
	}
	return SplineProperty(keys, yp.Spread)
}

type yamlModifier struct {
	Kind        string       `yaml:"kind"`
	Space       string       `yaml:"space"`
	Anchor      [2]float32   `yaml:"anchor"`
	Axis        [2]float32   `yaml:"axis"`
	MaxDistance float32      `yaml:"max_distance"`
	Magnitude   yamlProperty `yaml:"magnitude"`
	Directional bool         `yaml:"directional"`
}

type yamlEmitter struct {
	Space              string                  `yaml:"space"`
	Duration           float32                 `yaml:"duration"`
	StartDelay         float32                 `yaml:"start_delay"`
	PlayMode           string                  `yaml:"play_mode"`
	MaxParticleCount   int                     `yaml:"max_particle_count"`
	BlendMode          string                  `yaml:"blend_mode"`
	MaterialRef        string                  `yaml:"material_ref"`
	TileSourceRef      string                  `yaml:"tile_source_ref"`
	AnimationName      string                  `yaml:"animation_name"`
	SpawnConeDegrees   float32                 `yaml:"spawn_cone_degrees"`
	InheritVelocity    bool                    `yaml:"inherit_velocity"`
	EmitterProperties  map[string]yamlProperty `yaml:"emitter_properties"`
	ParticleProperties map[string]yamlProperty `yaml:"particle_properties"`
	Modifiers          []yamlModifier          `yaml:"modifiers"`
}

type prototypeDoc struct {
	Emitters []yamlEmitter `yaml:"emitters"`
}

func parsePrototypeDoc(buf []byte) (*prototypeDoc, error) {
	var doc prototypeDoc
	if err := yaml.Unmarshal(buf, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func parseSpace(s string) EmitterSpace {
	if s == "emitter" {
		return SpaceEmitter
	}
	return SpaceWorld
}

func parsePlayMode(s string) PlayMode {
	if s == "loop" {
		return PlayLoop
	}
	return PlayOnce
}

func parseBlendMode(s string) BlendMode {
	switch s {
	case "add":
		return BlendAdd
	case "multiply":
		return BlendMultiply
	default:
		return BlendAlpha
	}
}

func parseModifierKind(s string) (ModifierKind, bool) {
	switch s {
	case "acceleration":
		return ModifierAcceleration, true
	case "drag":
		return ModifierDrag, true
	case "radial":
		return ModifierRadial, true
	case "vortex":
		return ModifierVortex, true
	default:
		return 0, false
	}
}

func (doc *prototypeDoc) toEmitters(logger Logger) ([]EmitterPrototype, error) {
	out := make([]EmitterPrototype, 0, len(doc.Emitters))
	for i, ye := range doc.Emitters {
		if ye.MaxParticleCount <= 0 {
			return nil, fmt.Errorf("%w: emitter %d: max_particle_count must be > 0", ErrInvalidPrototype, i)
		}
		if ye.Duration <= 0 {
			return nil, fmt.Errorf("%w: emitter %d: duration must be > 0", ErrInvalidPrototype, i)
		}

		ep := EmitterPrototype{
			Space:            parseSpace(ye.Space),
			Duration:         ye.Duration,
			StartDelay:       ye.StartDelay,
			PlayMode:         parsePlayMode(ye.PlayMode),
			MaxParticleCount: ye.MaxParticleCount,
			BlendMode:        parseBlendMode(ye.BlendMode),
			MaterialRef:      NameHash(ye.MaterialRef),
			TileSourceRef:    NameHash(ye.TileSourceRef),
			AnimationName:    NameHash(ye.AnimationName),
			SpawnConeDegrees: ye.SpawnConeDegrees,
			InheritVelocity:  ye.InheritVelocity,
		}

		for name, yp := range ye.EmitterProperties {
			key, ok := emitterPropertyNames[name]
			if !ok {
				logger.Warnf("particle: emitter %d: dropping unknown emitter property key %q", i, name)
				continue
			}
			if yp.Spline && !validateKeys(keysFromYaml(yp.Keys)) {
				return nil, fmt.Errorf("%w: emitter %d: property %q has non-monotonic keys", ErrInvalidPrototype, i, name)
			}
			ep.EmitterProperties[key] = yp.toProperty()
		}
		for name, yp := range ye.ParticleProperties {
			key, ok := particlePropertyNames[name]
			if !ok {
				logger.Warnf("particle: emitter %d: dropping unknown particle property key %q", i, name)
				continue
			}
			if yp.Spline && !validateKeys(keysFromYaml(yp.Keys)) {
				return nil, fmt.Errorf("%w: emitter %d: property %q has non-monotonic keys", ErrInvalidPrototype, i, name)
			}
			ep.ParticleProperties[key] = yp.toProperty()
		}

		for mi, ym := range ye.Modifiers {
			kind, ok := parseModifierKind(ym.Kind)
			if !ok {
				logger.Warnf("particle: emitter %d: dropping unknown modifier kind %q", i, ym.Kind)
				continue
			}
			if ym.Magnitude.Spline && !validateKeys(keysFromYaml(ym.Magnitude.Keys)) {
				return nil, fmt.Errorf("%w: emitter %d: modifier %d magnitude has non-monotonic keys", ErrInvalidPrototype, i, mi)
			}
			ep.Modifiers = append(ep.Modifiers, ModifierPrototype{
				Kind:        kind,
				Space:       parseSpace(ym.Space),
				Anchor:      mgl32.Vec2{ym.Anchor[0], ym.Anchor[1]},
				Axis:        mgl32.Vec2{ym.Axis[0], ym.Axis[1]},
				MaxDistance: ym.MaxDistance,
				Magnitude:   ym.Magnitude.toProperty(),
				Directional: ym.Directional,
			})
		}

		out = append(out, ep)
	}
	return out, nil
}

func keysFromYaml(ks []yamlKey) []Key {
	keys := make([]Key, len(ks))
	for i, k := range ks {
		keys[i] = Key{T: k.T, Value: k.Value, TangentX: k.TangentX, TangentY: k.TangentY}
	}
	return keys
}
