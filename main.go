package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/lmittmann/tint"
	cli "github.com/spf13/pflag"

	"github.com/iburimskiy/nero/internal/config"
	"github.com/iburimskiy/nero/internal/game"
)

var logLevelMap = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// parseLogLevel maps a --log value to its slog level.
func parseLogLevel(name string) (slog.Level, error) {
	level, ok := logLevelMap[name]
	if !ok {
		return 0, fmt.Errorf("unknown log level %q (want debug, info, warn or error)", name)
	}
	return level, nil
}

func main() {
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	logLevel := cli.StringP("log", "l", "info", "Log level")
	bars := cli.IntP("bars", "b", config.BarCount, "Number of spectrum bars")
	tps := cli.Int("tps", config.TPS, "Frames per second")
	reply := cli.StringP("reply", "r", "", "Audio file played as the assistant reply")
	listen := cli.Duration("listen", config.ListenDuration, "Listening phase length")
	think := cli.Duration("think", config.ThinkDuration, "Thinking phase length")
	speak := cli.Duration("speak", config.SpeakDuration, "Speaking phase length without a reply file")
	seed := cli.Int64("seed", 0, "Animation random seed, 0 for time based")
	say := cli.StringArray("say", nil, "Scripted utterance heard by a turn, repeatable")
	cli.Parse()

	level, err := parseLogLevel(*logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	})))

	if err := config.LoadEnvFile(*envFile); err != nil {
		slog.Error("failed to load env file", "err", err)
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	// Flags win over the environment.
	flags := cli.CommandLine
	if flags.Changed("bars") {
		cfg.Bars = *bars
	}
	if flags.Changed("tps") {
		cfg.TPS = *tps
	}
	if flags.Changed("reply") {
		cfg.Reply = *reply
	}
	if flags.Changed("listen") {
		cfg.Listen = *listen
	}
	if flags.Changed("think") {
		cfg.Think = *think
	}
	if flags.Changed("speak") {
		cfg.Speak = *speak
	}
	if flags.Changed("say") {
		cfg.Utterances = *say
	}
	cfg.Seed = *seed
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid flags", "err", err)
		os.Exit(1)
	}

	slog.Debug("configuration", "bars", cfg.Bars, "tps", cfg.TPS, "reply", cfg.Reply)

	if err := run(cfg); err != nil {
		slog.Error("game loop stopped", "err", err)
		os.Exit(1)
	}
	slog.Info("Goodbye")
}

// run owns the window lifetime. Running turns are cancelled before it returns.
func run(cfg config.Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
	ebiten.SetWindowTitle(config.Title)
	ebiten.SetWindowDecorated(false)
	ebiten.SetTPS(cfg.TPS)

	g := game.New(ctx, cfg, slog.Default())
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
