package spectrum

import (
	"math"
	"math/rand"
	"sync"
	"testing"
)

// constRand always returns the same value.
type constRand float64

func (r constRand) Float64() float64 { return float64(r) }

// countingRand wraps a seeded source and counts draws.
type countingRand struct {
	r     *rand.Rand
	draws int
}

func (c *countingRand) Float64() float64 {
	c.draws++
	return c.r.Float64()
}

func newSeeded(n int, seed int64) *Animator {
	return New(n, Point{X: 250, Y: 340}, WithRand(rand.New(rand.NewSource(seed))))
}

func TestNewInitialState(t *testing.T) {
	a := newSeeded(90, 1)

	if a.Len() != 90 {
		t.Fatalf("Len = %d, want 90", a.Len())
	}
	if a.Mode() != Idle {
		t.Errorf("Mode = %v, want idle", a.Mode())
	}
	idle := a.Palette(Idle)
	for i, b := range a.Bars() {
		if b.Level != 0 || b.Target != 0 || b.Velocity != 0 {
			t.Errorf("bar %d: got %+v, want zero levels", i, b)
		}
		if b.Color != idle[i] {
			t.Errorf("bar %d: color %v, want idle palette %v", i, b.Color, idle[i])
		}
	}
}

func TestNewNonPositiveBarsFallsBack(t *testing.T) {
	a := New(0, Point{})
	if a.Len() != DefaultBars {
		t.Errorf("Len = %d, want %d", a.Len(), DefaultBars)
	}
}

func TestLevelsStayClamped(t *testing.T) {
	dts := []float64{0.001, 1.0 / 120, 1.0 / 60, 0.05, 0.1}

	for _, mode := range Modes() {
		t.Run(mode.String(), func(t *testing.T) {
			a := newSeeded(90, 7)
			a.SetMode(mode)
			for frame := 0; frame < 2000; frame++ {
				a.Update(dts[frame%len(dts)])
				for i, b := range a.Bars() {
					if b.Level < MinLevel || b.Level > MaxLevel {
						t.Fatalf("frame %d bar %d: level %v out of [%v, %v]", frame, i, b.Level, MinLevel, MaxLevel)
					}
				}
			}
		})
	}
}

func TestIdleScenarioEightBars(t *testing.T) {
	a := newSeeded(8, 42)
	a.SetMode(Idle)

	for i := 0; i < 100; i++ {
		a.Update(1.0 / 60)
	}

	for i, b := range a.Bars() {
		if b.Level < MinLevel || b.Level > MaxLevel {
			t.Errorf("bar %d: level %v out of range", i, b.Level)
		}
		if b.Level == 0 {
			t.Errorf("bar %d: level still at initial value", i)
		}
	}
}

func TestSetModeSwitchesTargetPalette(t *testing.T) {
	a := newSeeded(90, 1)

	a.SetMode(Listening)
	a.SetMode(Speaking)

	got := a.TargetPalette()
	want := techPalette(90)
	if len(got) != len(want) {
		t.Fatalf("palette len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("color %d = %v, want %v", i, got[i], want[i])
		}
	}
	if a.Mode() != Speaking {
		t.Errorf("Mode = %v, want speaking", a.Mode())
	}
}

func TestSetModeIgnoresUnknown(t *testing.T) {
	a := newSeeded(16, 1)
	a.SetMode(Thinking)

	a.SetMode(Mode(-1))
	a.SetMode(modeCount)
	a.SetMode(Mode(99))

	if a.Mode() != Thinking {
		t.Errorf("Mode = %v, want thinking to be preserved", a.Mode())
	}
	if a.Palette(Mode(99)) != nil {
		t.Error("Palette for unknown mode should be nil")
	}
}

func TestSetModeDoesNotSnapColors(t *testing.T) {
	a := newSeeded(90, 3)
	before := a.Bars()

	a.SetMode(Thinking)
	after := a.Bars()
	for i := range before {
		if after[i].Color != before[i].Color {
			t.Fatalf("bar %d: color changed by SetMode alone", i)
		}
	}
}

func TestColorEasingNeverOvershoots(t *testing.T) {
	a := newSeeded(90, 5)
	a.SetMode(Listening)

	dist := func(c, t uint8) int {
		d := int(c) - int(t)
		if d < 0 {
			return -d
		}
		return d
	}
	// Each step covers at most 10% of the remaining distance (plus truncation).
	maxStep := func(d int) int { return d/10 + 1 }

	prev := a.Bars()
	for frame := 0; frame < 300; frame++ {
		if frame == 150 {
			a.SetMode(Thinking)
		}
		a.Update(1.0 / 60)
		cur := a.Bars()
		for i := range cur {
			tc := cur[i].TargetColor
			pairs := [][3]uint8{
				{prev[i].Color.R, cur[i].Color.R, tc.R},
				{prev[i].Color.G, cur[i].Color.G, tc.G},
				{prev[i].Color.B, cur[i].Color.B, tc.B},
			}
			for _, p := range pairs {
				before, after := dist(p[0], p[2]), dist(p[1], p[2])
				if after > before {
					t.Fatalf("frame %d bar %d: distance grew %d -> %d", frame, i, before, after)
				}
				if jump := dist(p[0], p[1]); jump > maxStep(before) {
					t.Fatalf("frame %d bar %d: channel jumped %d with distance %d", frame, i, jump, before)
				}
				// Never crosses the target.
				if (int(p[0])-int(p[2]))*(int(p[1])-int(p[2])) < 0 {
					t.Fatalf("frame %d bar %d: channel crossed target", frame, i)
				}
			}
		}
		prev = cur
	}
}

func TestEaseColor(t *testing.T) {
	tests := []struct {
		name   string
		c, tgt RGB
		want   RGB
	}{
		{"toward higher", RGB{0, 0, 0}, RGB{100, 200, 255}, RGB{10, 20, 25}},
		{"toward lower", RGB{250, 100, 50}, RGB{0, 0, 0}, RGB{225, 90, 45}},
		{"sub-unit step truncates", RGB{100, 100, 100}, RGB{105, 95, 100}, RGB{100, 99, 100}},
		{"at target", RGB{1, 2, 3}, RGB{1, 2, 3}, RGB{1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := easeColor(tt.c, tt.tgt); got != tt.want {
				t.Errorf("easeColor(%v, %v) = %v, want %v", tt.c, tt.tgt, got, tt.want)
			}
		})
	}
}

func TestSpeakingRefreshesEveryFrame(t *testing.T) {
	// 0.999 never passes the 30% gate but always passes the speaking one.
	a := New(32, Point{}, WithRand(constRand(0.999)))
	a.SetMode(Speaking)

	prev := a.Bars()
	for frame := 0; frame < 200; frame++ {
		a.Update(1.0 / 60)
		cur := a.Bars()
		changed := false
		for i := range cur {
			if cur[i].Target != prev[i].Target {
				changed = true
				break
			}
		}
		if !changed {
			t.Fatalf("frame %d: speaking targets were not refreshed", frame)
		}
		prev = cur
	}
}

func TestCalmModesSkipRefreshAboveThreshold(t *testing.T) {
	for _, mode := range []Mode{Idle, Listening, Thinking} {
		t.Run(mode.String(), func(t *testing.T) {
			a := New(32, Point{}, WithRand(constRand(0.999)))
			a.SetMode(mode)
			for frame := 0; frame < 100; frame++ {
				a.Update(1.0 / 60)
			}
			for i, b := range a.Bars() {
				if b.Target != 0 {
					t.Fatalf("bar %d: target %v, want untouched 0", i, b.Target)
				}
			}
		})
	}
}

func TestCalmRefreshRate(t *testing.T) {
	const frames = 10000

	a := newSeeded(32, 2024)
	a.SetMode(Idle)

	refreshes := 0
	prev := a.Bars()
	for frame := 0; frame < frames; frame++ {
		a.Update(1.0 / 60)
		cur := a.Bars()
		for i := range cur {
			if cur[i].Target != prev[i].Target {
				refreshes++
				break
			}
		}
		prev = cur
	}

	rate := float64(refreshes) / frames
	if math.Abs(rate-0.3) > 0.03 {
		t.Errorf("refresh rate = %.3f, want 0.3 ± 0.03", rate)
	}
}

func TestZeroDtKeepsPhysics(t *testing.T) {
	a := newSeeded(90, 9)
	a.SetMode(Speaking)
	for i := 0; i < 60; i++ {
		a.Update(1.0 / 60)
	}

	before := a.Bars()
	elapsed, rotation := a.Elapsed(), a.Rotation()

	a.Update(0)

	after := a.Bars()
	for i := range before {
		if after[i].Level != before[i].Level {
			t.Errorf("bar %d: level %v -> %v", i, before[i].Level, after[i].Level)
		}
		if after[i].Velocity != before[i].Velocity {
			t.Errorf("bar %d: velocity %v -> %v", i, before[i].Velocity, after[i].Velocity)
		}
	}
	if a.Elapsed() != elapsed || a.Rotation() != rotation {
		t.Errorf("clock moved: elapsed %v -> %v, rotation %v -> %v", elapsed, a.Elapsed(), rotation, a.Rotation())
	}
}

func TestClockAdvances(t *testing.T) {
	a := newSeeded(8, 1)
	for i := 0; i < 10; i++ {
		a.Update(0.05)
	}
	if math.Abs(a.Elapsed()-0.5) > 1e-9 {
		t.Errorf("Elapsed = %v, want 0.5", a.Elapsed())
	}
	if math.Abs(a.Rotation()-0.05) > 1e-9 {
		t.Errorf("Rotation = %v, want 0.05", a.Rotation())
	}

	a.Update(-1)
	if math.Abs(a.Elapsed()-0.5) > 1e-9 {
		t.Errorf("negative dt moved the clock to %v", a.Elapsed())
	}
}

func TestSetModeConcurrentWithUpdate(t *testing.T) {
	a := newSeeded(90, 11)

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			modes := Modes()
			for i := 0; ; i++ {
				select {
				case <-stop:
					return
				default:
					a.SetMode(modes[(i+w)%len(modes)])
				}
			}
		}(w)
	}

	var segs []Segment
	for frame := 0; frame < 500; frame++ {
		a.Update(1.0 / 60)
		segs = a.Segments(segs)
	}
	close(stop)
	wg.Wait()

	for i, b := range a.Bars() {
		if b.Level < MinLevel || b.Level > MaxLevel {
			t.Errorf("bar %d: level %v out of range", i, b.Level)
		}
	}
}

func TestRandDrawsPerFrame(t *testing.T) {
	cr := &countingRand{r: rand.New(rand.NewSource(1))}
	a := New(10, Point{}, WithRand(cr))
	a.SetMode(Listening)

	// Listening targets use no noise, so each frame draws only the refresh roll.
	for i := 0; i < 50; i++ {
		a.Update(1.0 / 60)
	}
	if cr.draws != 50 {
		t.Errorf("draws = %d, want 50", cr.draws)
	}
}
