// Package game hosts the assistant window: frame clock, input and drawing.
package game

import (
	"context"
	"errors"
	"image/color"
	"log/slog"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/ncruces/zenity"

	"github.com/iburimskiy/nero/internal/config"
	"github.com/iburimskiy/nero/internal/render"
	"github.com/iburimskiy/nero/internal/session"
	"github.com/iburimskiy/nero/internal/spectrum"
	"github.com/iburimskiy/nero/internal/voice"
)

var modeKeys = map[ebiten.Key]spectrum.Mode{
	ebiten.Key1: spectrum.Idle,
	ebiten.Key2: spectrum.Listening,
	ebiten.Key3: spectrum.Thinking,
	ebiten.Key4: spectrum.Speaking,
}

const (
	// ebitenutil debug font cell
	charWidth  = 6
	lineHeight = 16
)

var (
	titleBarColor  = color.RGBA{R: 15, G: 15, B: 25, A: 255}
	chatBackground = color.RGBA{R: 12, G: 12, B: 20, A: 255}
	titleText      = config.Title + "  Space: talk  O: reply  C: chat  M: min  Q: quit"
)

// Game implements ebiten.Game.
type Game struct {
	ctx     context.Context
	log     *slog.Logger
	anim    *spectrum.Animator
	session *session.Session
	player  *voice.Player

	segs []spectrum.Segment

	// input edge detection
	prevKey map[ebiten.Key]bool

	// borderless window drag
	dragging     bool
	dragX, dragY int

	greeted     bool
	chatVisible bool

	dialogOpen atomic.Bool

	mu        sync.Mutex
	reply     string
	turnStart time.Time
	lastErr   error
}

// New wires the animator, player and session. Turns started from the window stop when ctx is done.
func New(ctx context.Context, cfg config.Config, log *slog.Logger) *Game {
	if log == nil {
		log = slog.Default()
	}

	center := spectrum.Point{
		X: float64(config.VisualizerWidth) / 2,
		Y: float64(config.TitleBarHeight) + float64(config.WindowHeight-config.TitleBarHeight)/2,
	}
	opts := []spectrum.Option{spectrum.WithGeometry(spectrum.Geometry{
		Radius:    config.BarRadius,
		MinHeight: config.BarMinHeight,
		MaxHeight: config.BarMaxHeight,
		Thickness: config.BarThickness,
	})}
	if cfg.Seed != 0 {
		opts = append(opts, spectrum.WithRand(rand.New(rand.NewSource(cfg.Seed))))
	}
	anim := spectrum.New(cfg.Bars, center, opts...)

	player := voice.NewPlayer(config.VisualRingSize, log)
	sess := session.New(session.Config{
		Modes: anim,
		Actions: &session.Scripted{
			Utterances:  cfg.Utterances,
			ListenDelay: cfg.Listen,
			ThinkDelay:  cfg.Think,
			Log:         log,
		},
		Speaker:    player,
		Transcript: session.NewTranscript(config.MaxVisibleMessages, nil),
		SpeakFor:   cfg.Speak,
		Log:        log,
	})

	return &Game{
		ctx:         ctx,
		log:         log,
		anim:        anim,
		session:     sess,
		player:      player,
		prevKey:     map[ebiten.Key]bool{},
		chatVisible: true,
		reply:       cfg.Reply,
	}
}

func (g *Game) Update() error {

	justPressed := func(k ebiten.Key) bool {
		pressed := ebiten.IsKeyPressed(k)
		jp := pressed && !g.prevKey[k]
		g.prevKey[k] = pressed
		return jp
	}

	if !g.greeted {
		g.greeted = true
		g.begin(g.session.StartGreeting, "greeting")
	}
	if g.session.Finished() && !g.session.Busy() {
		return ebiten.Termination
	}

	for k, m := range modeKeys {
		if justPressed(k) {
			g.anim.SetMode(m)
		}
	}
	if justPressed(ebiten.KeySpace) || justPressed(ebiten.KeyL) {
		g.begin(g.session.Start, "turn")
	}
	if justPressed(ebiten.KeyO) {
		g.pickReply()
	}
	if justPressed(ebiten.KeyC) {
		g.toggleChat()
	}
	if justPressed(ebiten.KeyM) {
		ebiten.MinimizeWindow()
	}
	if justPressed(ebiten.KeyEscape) || justPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	if _, dy := ebiten.Wheel(); dy != 0 && g.chatVisible {
		g.session.Transcript().Scroll(-int(dy))
	}
	g.dragWindow()

	g.anim.Update(1.0 / float64(ebiten.TPS()))
	return nil
}

// dragWindow moves the undecorated window while the title bar is held.
func (g *Game) dragWindow() {
	mouseX, mouseY := ebiten.CursorPosition()
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && mouseY < config.TitleBarHeight {
		g.dragging = true
		g.dragX, g.dragY = mouseX, mouseY
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		g.dragging = false
	}
	if !g.dragging {
		return
	}
	// The cursor is window relative, so the offset from the grab point is the window delta.
	dx, dy := mouseX-g.dragX, mouseY-g.dragY
	if dx != 0 || dy != 0 {
		wx, wy := ebiten.WindowPosition()
		ebiten.SetWindowPosition(wx+dx, wy+dy)
	}
}

func (g *Game) toggleChat() {
	g.chatVisible = !g.chatVisible
	w, h := g.Layout(0, 0)
	ebiten.SetWindowSize(w, h)
}

type starter func(ctx context.Context, reply string, done func(error)) error

// begin launches a greeting or turn on the session unless one is already running.
func (g *Game) begin(start starter, what string) {
	if g.session.Busy() {
		return
	}
	reply := g.currentReply()

	g.mu.Lock()
	g.turnStart = time.Now()
	g.lastErr = nil
	g.mu.Unlock()

	err := start(g.ctx, reply, func(err error) {
		if err != nil && !errors.Is(err, context.Canceled) {
			g.setErr(err)
		}
	})
	if err != nil {
		return
	}
	g.log.Info(what+" started", "reply", reply)
}

// pickReply opens the native file dialog off the game loop.
func (g *Game) pickReply() {
	if !g.dialogOpen.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer g.dialogOpen.Store(false)

		filename, err := zenity.SelectFile(
			zenity.Title("Choose reply audio"),
			zenity.FileFilters{{
				Name:     "Audio",
				Patterns: []string{"*.wav", "*.mp3", "*.flac"},
			}},
		)
		if err != nil {
			if errors.Is(err, zenity.ErrCanceled) {
				return
			}
			g.setErr(err)
			return
		}

		g.mu.Lock()
		g.reply = filename
		g.mu.Unlock()
		g.log.Info("reply file selected", "path", filename)
	}()
}

func (g *Game) currentReply() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.reply
}

func (g *Game) setErr(err error) {
	g.mu.Lock()
	g.lastErr = err
	g.mu.Unlock()
}

func (g *Game) Draw(screen *ebiten.Image) {
	canvas := screenCanvas{img: screen}
	w, h := g.Layout(0, 0)

	render.Background(canvas, config.VisualizerWidth, h, g.anim.Elapsed())

	target := g.anim.TargetPalette()
	render.Glow(canvas, g.anim.Center(), config.GlowRadius, config.GlowPulse,
		g.player.Level(config.LevelSamples), target[len(target)*3/4])

	g.segs = g.anim.Segments(g.segs)
	render.Spectrum(canvas, g.segs)

	if g.chatVisible {
		g.drawChat(screen)
	}
	g.drawTitleBar(screen, w)

	g.mu.Lock()
	var busyFor time.Duration
	if g.session.Busy() {
		busyFor = time.Since(g.turnStart)
	}
	status := statusText(g.session.Status(), busyFor, g.reply, g.lastErr)
	g.mu.Unlock()
	ebitenutil.DebugPrintAt(screen, status, 12, h-24)
}

func (g *Game) drawTitleBar(screen *ebiten.Image, width int) {
	vector.DrawFilledRect(screen, 0, 0, float32(width), config.TitleBarHeight, titleBarColor, false)
	ebitenutil.DebugPrintAt(screen, titleText, 12, (config.TitleBarHeight-lineHeight)/2)
}

// drawChat prints the visible transcript window top down, one wrapped block per message.
func (g *Game) drawChat(screen *ebiten.Image) {
	const pad = 10
	x := config.VisualizerWidth
	vector.DrawFilledRect(screen, float32(x), config.TitleBarHeight,
		config.ChatWidth, config.WindowHeight-config.TitleBarHeight, chatBackground, false)

	y := config.TitleBarHeight + pad
	bottom := config.WindowHeight - 2*lineHeight
	for _, line := range transcriptLines(g.session.Transcript().Visible(), (config.ChatWidth-2*pad)/charWidth) {
		if y+lineHeight > bottom {
			break
		}
		ebitenutil.DebugPrintAt(screen, line, x+pad, y)
		y += lineHeight
	}
}

// transcriptLines lays messages out as a "[HH:MM] Who:" header, the wrapped text and a blank line.
func transcriptLines(msgs []session.Message, width int) []string {
	var lines []string
	for _, m := range msgs {
		lines = append(lines, "["+m.Stamp()+"] "+m.Role.String()+":")
		lines = append(lines, wrapText(m.Text, width)...)
		lines = append(lines, "")
	}
	return lines
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.chatVisible {
		return config.WindowWidth, config.WindowHeight
	}
	return config.VisualizerWidth, config.WindowHeight
}
