package session

import (
	"fmt"
	"strings"
	"time"
)

// Intent is what an utterance asks for.
type Intent int

const (
	IntentChat Intent = iota
	IntentFarewell
	IntentPlay
	IntentTime
	IntentOpen
)

var intentNames = map[Intent]string{
	IntentChat:     "chat",
	IntentFarewell: "farewell",
	IntentPlay:     "play",
	IntentTime:     "time",
	IntentOpen:     "open",
}

func (i Intent) String() string {
	if n, ok := intentNames[i]; ok {
		return n
	}
	return fmt.Sprintf("Intent(%d)", int(i))
}

// Command is a routed utterance. Arg is the media query for IntentPlay and the URL for
// IntentOpen. Reply is empty for IntentChat; the language model supplies it.
type Command struct {
	Intent Intent
	Arg    string
	Reply  string
}

// Site is a name the user can ask to open.
type Site struct {
	Name string
	URL  string
}

// DefaultSites are checked in order; the first name found in the utterance wins.
var DefaultSites = []Site{
	{Name: "youtube", URL: "https://youtube.com"},
	{Name: "google", URL: "https://google.com"},
	{Name: "github", URL: "https://github.com"},
	{Name: "facebook", URL: "https://facebook.com"},
}

var farewellWords = []string{"goodbye", "bye", "exit", "quit"}

// Router maps utterances to commands by keyword.
type Router struct {
	sites []Site
}

// NewRouter uses DefaultSites when sites is nil.
func NewRouter(sites []Site) *Router {
	if sites == nil {
		sites = DefaultSites
	}
	return &Router{sites: sites}
}

// Route classifies text. Keyword checks run in a fixed order: farewell, play, time, open;
// anything else is chat.
func (r *Router) Route(text string, now time.Time) Command {
	text = strings.ToLower(strings.TrimSpace(text))

	if containsAny(text, farewellWords) {
		return Command{Intent: IntentFarewell, Reply: "Goodbye, Sir. It was my pleasure."}
	}

	if strings.Contains(text, "play ") {
		song := strings.TrimSpace(strings.ReplaceAll(text, "play", ""))
		return Command{
			Intent: IntentPlay,
			Arg:    song,
			Reply:  fmt.Sprintf("Playing %s for you, Sir.", song),
		}
	}

	if containsAny(text, []string{"what time", "time is it"}) {
		return Command{
			Intent: IntentTime,
			Reply:  fmt.Sprintf("The time is %s, Sir.", now.Format("03:04 PM")),
		}
	}

	if strings.Contains(text, "open") {
		for _, s := range r.sites {
			if strings.Contains(text, s.Name) {
				return Command{
					Intent: IntentOpen,
					Arg:    s.URL,
					Reply:  fmt.Sprintf("Opening %s for you, Sir.", s.Name),
				}
			}
		}
	}

	return Command{Intent: IntentChat}
}

// Greeting returns the startup line for the time of day.
func Greeting(now time.Time) string {
	var part string
	switch h := now.Hour(); {
	case h < 12:
		part = "morning"
	case h < 18:
		part = "afternoon"
	default:
		part = "evening"
	}
	return fmt.Sprintf("Good %s, Sir. Nero online and ready to assist.", part)
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
