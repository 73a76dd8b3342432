package session

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultUtterances are heard in turn by a Scripted with no utterances of its own.
var DefaultUtterances = []string{
	"what time is it",
	"open github",
	"tell me something interesting",
	"play lofi beats",
}

// Scripted stands in for speech recognition and the language model. It hears its utterances
// in order, wrapping around, and logs desktop actions instead of performing them.
type Scripted struct {
	Utterances  []string
	ListenDelay time.Duration
	ThinkDelay  time.Duration
	Log         *slog.Logger

	mu   sync.Mutex
	next int
}

func (s *Scripted) Listen(ctx context.Context) (string, error) {
	if err := sleep(ctx, s.ListenDelay); err != nil {
		return "", err
	}
	lines := s.Utterances
	if lines == nil {
		lines = DefaultUtterances
	}
	if len(lines) == 0 {
		return "", nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	text := lines[s.next%len(lines)]
	s.next++
	return text, nil
}

func (s *Scripted) Think(ctx context.Context, prompt string) (string, error) {
	if err := sleep(ctx, s.ThinkDelay); err != nil {
		return "", err
	}
	return "My AI systems are offline.", nil
}

func (s *Scripted) PlayMedia(ctx context.Context, query string) error {
	s.logger().Info("play media", "query", query)
	return nil
}

func (s *Scripted) OpenURL(ctx context.Context, url string) error {
	s.logger().Info("open url", "url", url)
	return nil
}

func (s *Scripted) logger() *slog.Logger {
	if s.Log == nil {
		return slog.Default()
	}
	return s.Log
}
