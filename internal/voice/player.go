// Package voice plays assistant replies and reports how loud they are while they play.
package voice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
)

// ErrUnsupportedFormat is returned for files that are not wav, mp3 or flac.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Decode opens path and decodes it by extension. Closing the returned streamer closes the file.
func Decode(path string) (beep.StreamSeekCloser, beep.Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	var decode func(f *os.File) (beep.StreamSeekCloser, beep.Format, error)
	switch ext {
	case ".wav":
		decode = func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return wav.Decode(f) }
	case ".mp3":
		decode = func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return mp3.Decode(f) }
	case ".flac":
		decode = func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return flac.Decode(f) }
	default:
		return nil, beep.Format{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, err
	}
	streamer, format, err := decode(f)
	if err != nil {
		_ = f.Close()
		return nil, beep.Format{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return streamer, format, nil
}

// ErrInterrupted is returned by a Play that was cut short by a newer Play.
var ErrInterrupted = errors.New("reply interrupted")

// output is the audio sink. speakerOutput is the real one; tests substitute their own.
type output interface {
	init(rate beep.SampleRate, bufferSize int) error
	play(s beep.Streamer)
	clear()
}

type speakerOutput struct{}

func (speakerOutput) init(rate beep.SampleRate, bufferSize int) error {
	return speaker.Init(rate, bufferSize)
}

func (speakerOutput) play(s beep.Streamer) { speaker.Play(s) }

func (speakerOutput) clear() { speaker.Clear() }

// Player plays one reply at a time through the system speaker.
type Player struct {
	ringSize int
	log      *slog.Logger
	out      output

	mu        sync.Mutex
	initDone  bool
	rate      beep.SampleRate
	tap       *Tap
	interrupt chan struct{} // closed when the current reply is preempted
}

// NewPlayer returns a Player whose taps keep ringSize samples.
func NewPlayer(ringSize int, log *slog.Logger) *Player {
	if log == nil {
		log = slog.Default()
	}
	return &Player{ringSize: ringSize, log: log, out: speakerOutput{}}
}

// Play decodes path and blocks until it has finished playing or ctx is done.
// Anything already playing is stopped first and its Play returns ErrInterrupted.
func (p *Player) Play(ctx context.Context, path string) error {
	streamer, format, err := Decode(path)
	if err != nil {
		return err
	}
	defer streamer.Close()

	t := NewTap(streamer, p.ringSize)
	interrupt := make(chan struct{})
	done := make(chan struct{})

	p.mu.Lock()
	if err := p.prepare(format.SampleRate); err != nil {
		p.mu.Unlock()
		return err
	}
	p.tap = t
	p.interrupt = interrupt
	p.log.Info("playing reply", "path", path, "rate", int(format.SampleRate),
		"duration", format.SampleRate.D(streamer.Len()).Round(time.Millisecond))
	p.out.play(beep.Seq(t, beep.Callback(func() {
		close(done)
	})))
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		if p.tap == t {
			p.tap = nil
			p.interrupt = nil
		}
		p.mu.Unlock()
	}()

	select {
	case <-done:
		p.log.Debug("reply finished", "path", path)
		return t.Err()
	case <-interrupt:
		p.log.Debug("reply interrupted", "path", path)
		return ErrInterrupted
	case <-ctx.Done():
		p.mu.Lock()
		if p.tap == t {
			p.out.clear()
		}
		p.mu.Unlock()
		return ctx.Err()
	}
}

// prepare initialises the speaker on first use and again when the sample rate changes,
// otherwise it just stops whatever is playing. A reply still playing is told it was cut off.
// p.mu must be held.
func (p *Player) prepare(rate beep.SampleRate) error {
	if p.interrupt != nil {
		close(p.interrupt)
		p.interrupt = nil
		p.tap = nil
	}

	bufferSize := rate.N(time.Second / 20)
	switch {
	case !p.initDone:
		if err := p.out.init(rate, bufferSize); err != nil {
			return fmt.Errorf("init speaker: %w", err)
		}
		p.initDone = true
	case p.rate != rate:
		p.out.clear()
		if err := p.out.init(rate, bufferSize); err != nil {
			return fmt.Errorf("reinit speaker at %d Hz: %w", rate, err)
		}
	default:
		p.out.clear()
	}
	p.rate = rate
	return nil
}

// Level returns the loudness of what is playing now, or 0 when idle.
func (p *Player) Level(n int) float64 {
	p.mu.Lock()
	t := p.tap
	p.mu.Unlock()
	if t == nil {
		return 0
	}
	return t.Level(n)
}
