package spectrum

import "math"

// Focal side of the ring, three quarters of the way round from the top, where amplitude peaks.
const focalFraction = 0.75

// generateTargets rewrites every bar's target level using the rule for m.
func (a *Animator) generateTargets(m Mode) {
	n := len(a.bars)
	t := a.elapsed

	switch m {
	case Idle:
		for i := range a.bars {
			shape := math.Max(0.1, 1-a.focalDistance(i)/(float64(n)*0.35))
			breath := math.Sin(t*2+float64(i)*0.1) * 0.1
			a.bars[i].target = shape*0.5 + breath + a.uniform(0, 0.05)
		}

	case Listening:
		for i := range a.bars {
			a.bars[i].target = 0.3 + math.Sin(t*4+float64(i)*0.2)*0.1
		}

	case Thinking:
		for i := range a.bars {
			angle := float64(i) / float64(n) * 2 * math.Pi
			a.bars[i].target = 0.4 + math.Sin(angle*3+t*8)*0.4
		}

	case Speaking:
		// Shared kick for the first 0.1s of every half second.
		beat := 0.0
		if math.Mod(t, 0.5) < 0.1 {
			beat = a.uniform(0.3, 0.6)
		}
		for i := range a.bars {
			shape := math.Max(0.15, 1-a.focalDistance(i)/(float64(n)*0.45))
			jitter := a.uniform(0, 0.3)
			wave := math.Sin(t*15+float64(i)*0.5) * 0.2
			level := 0.2 + (beat+wave+jitter)*0.8
			a.bars[i].target = clamp(level*shape, MinLevel, MaxLevel)
		}
	}
}

// focalDistance is the circular index distance from bar i to the focal bar.
func (a *Animator) focalDistance(i int) float64 {
	n := len(a.bars)
	focal := int(float64(n) * focalFraction)
	d := float64(i - focal)
	if d < 0 {
		d = -d
	}
	if d > float64(n)/2 {
		d = float64(n) - d
	}
	return d
}

func (a *Animator) uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*a.rng.Float64()
}
