// Package spectrum animates the circular bar visualizer shown next to the assistant transcript.
//
// An Animator owns one spring-damped bar per angular slot. Every frame Update regenerates target
// heights from the active mode, eases colors toward the mode's palette and integrates the
// springs; Segments turns the result into line geometry for whatever draws it.
//
// Update, Bars and Segments belong to the render loop and must be called from one goroutine.
// SetMode, Mode and TargetPalette may be called from any goroutine.
package spectrum

import (
	"math/rand"
	"sync"
	"time"
)

const (
	// MinLevel and MaxLevel bound every bar's current level. MaxLevel is above 1 on purpose so
	// speaking spikes can overshoot the nominal full height.
	MinLevel = 0.05
	MaxLevel = 1.3

	rotationSpeed = 0.1 // radians per second
	colorEasing   = 0.1 // fraction of remaining color distance covered per frame
)

// Rand is the random source used for target generation. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// Bar is a snapshot of one angular slot.
type Bar struct {
	Level       float64
	Target      float64
	Velocity    float64
	Color       RGB
	TargetColor RGB
}

type bar struct {
	level    float64
	target   float64
	velocity float64
	color    RGB
}

// Animator drives the bars. Create it with New.
type Animator struct {
	mu     sync.Mutex
	mode   Mode
	target Palette

	palettes [modeCount]Palette
	bars     []bar
	center   Point
	geometry Geometry
	rng      Rand

	elapsed  float64
	rotation float64
}

// Option configures an Animator.
type Option func(*Animator)

// WithRand replaces the default time-seeded random source.
func WithRand(r Rand) Option {
	return func(a *Animator) {
		if r != nil {
			a.rng = r
		}
	}
}

// WithGeometry overrides DefaultGeometry.
func WithGeometry(g Geometry) Option {
	return func(a *Animator) {
		a.geometry = g
	}
}

// DefaultBars is used when New is given a non-positive bar count.
const DefaultBars = 90

// New builds an Animator with n bars arranged around center, starting in Idle.
func New(n int, center Point, opts ...Option) *Animator {
	if n < 1 {
		n = DefaultBars
	}
	a := &Animator{
		palettes: buildPalettes(n),
		bars:     make([]bar, n),
		center:   center,
		geometry: DefaultGeometry(),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(a)
	}

	a.mode = Idle
	a.target = a.palettes[Idle]
	for i := range a.bars {
		a.bars[i].color = a.target[i]
	}
	return a
}

// Len returns the number of bars.
func (a *Animator) Len() int { return len(a.bars) }

// SetMode switches the animation profile and the palette colors ease toward.
// Values outside the four known modes are ignored.
func (a *Animator) SetMode(m Mode) {
	if !m.Valid() {
		return
	}
	a.mu.Lock()
	a.mode = m
	a.target = a.palettes[m]
	a.mu.Unlock()
}

// Mode returns the active mode.
func (a *Animator) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

// TargetPalette returns the palette bar colors are currently easing toward.
func (a *Animator) TargetPalette() Palette {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.target
}

// Palette returns the precomputed palette for m, or nil for an unknown mode.
func (a *Animator) Palette(m Mode) Palette {
	if !m.Valid() {
		return nil
	}
	return a.palettes[m]
}

// Elapsed returns the accumulated animation time in seconds.
func (a *Animator) Elapsed() float64 { return a.elapsed }

// Rotation returns the accumulated ring rotation in radians.
func (a *Animator) Rotation() float64 { return a.rotation }

// Bars returns a copy of every bar's state.
func (a *Animator) Bars() []Bar {
	target := a.TargetPalette()
	out := make([]Bar, len(a.bars))
	for i, b := range a.bars {
		out[i] = Bar{
			Level:       b.level,
			Target:      b.target,
			Velocity:    b.velocity,
			Color:       b.color,
			TargetColor: target[i],
		}
	}
	return out
}

// Update advances the animation by dt seconds. A dt of zero (or less) advances neither the
// clock nor the springs, but colors still ease and targets may still refresh.
func (a *Animator) Update(dt float64) {
	if dt < 0 {
		dt = 0
	}

	a.mu.Lock()
	mode, target := a.mode, a.target
	a.mu.Unlock()

	a.elapsed += dt
	a.rotation += dt * rotationSpeed

	for i := range a.bars {
		a.bars[i].color = easeColor(a.bars[i].color, target[i])
	}

	if a.rng.Float64() < refreshChance(mode) {
		a.generateTargets(mode)
	}

	if dt == 0 {
		return
	}

	s := springFor(mode)
	for i := range a.bars {
		b := &a.bars[i]
		diff := b.target - b.level
		b.velocity += diff * s.speed * dt
		b.velocity *= s.damping
		b.level += b.velocity * dt
		b.level = clamp(b.level, MinLevel, MaxLevel)
	}
}

type spring struct {
	speed   float64
	damping float64
}

var (
	// Speaking snaps hard and barely damps so bars overshoot and vibrate.
	speakingSpring = spring{speed: 40, damping: 0.5}
	calmSpring     = spring{speed: 10, damping: 0.85}
)

func springFor(m Mode) spring {
	if m == Speaking {
		return speakingSpring
	}
	return calmSpring
}

// refreshChance is the per-frame probability of regenerating target levels.
func refreshChance(m Mode) float64 {
	if m == Speaking {
		return 1.0
	}
	return 0.3
}

func easeColor(c, t RGB) RGB {
	return RGB{
		R: lerpChannel(c.R, t.R, colorEasing),
		G: lerpChannel(c.G, t.G, colorEasing),
		B: lerpChannel(c.B, t.B, colorEasing),
	}
}
