package spectrum

import (
	"errors"
	"fmt"
	"strings"
)

// Mode is the assistant activity state driving the animation profile.
type Mode int32

const (
	Idle Mode = iota
	Listening
	Thinking
	Speaking

	modeCount
)

// ErrUnknownMode is returned by ParseMode for names that are not a Mode.
var ErrUnknownMode = errors.New("unknown mode")

var modeNames = [modeCount]string{
	Idle:      "idle",
	Listening: "listening",
	Thinking:  "thinking",
	Speaking:  "speaking",
}

// Valid reports whether m is one of the four known modes.
func (m Mode) Valid() bool {
	return m >= 0 && m < modeCount
}

func (m Mode) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Mode(%d)", int32(m))
	}
	return modeNames[m]
}

// ParseMode maps a mode name to its Mode, ignoring case and surrounding space.
func ParseMode(s string) (Mode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for m, n := range modeNames {
		if n == name {
			return Mode(m), nil
		}
	}
	return Idle, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Modes lists every mode in declaration order.
func Modes() []Mode {
	return []Mode{Idle, Listening, Thinking, Speaking}
}
