package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/phanxgames/hanami"
	"github.com/phanxgames/hanami/term"
	"github.com/phanxgames/hanami/wsbridge"
)

var (
	configFile string
	preset     string
	seed       uint64
	fps        int
	debug      bool

	addr       string
	typewriter bool
	samples    int
	headless   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hanami",
		Short: "ambient petal animation with haiku",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging()
		},
		RunE: runWindow,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "preset configuration ("+strings.Join(hanami.PresetNames(), ", ")+")")
	rootCmd.PersistentFlags().Uint64Var(&seed, "seed", 0, "random seed (0 picks one per run)")
	rootCmd.PersistentFlags().IntVar(&fps, "fps", 0, "frame rate override")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "debug logging and stats overlay")

	windowCmd := &cobra.Command{
		Use:   "window",
		Short: "open the animation in a window",
		RunE:  runWindow,
	}

	termCmd := &cobra.Command{
		Use:   "term",
		Short: "animate in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			// the terminal owns stdout; keep logs out of the way
			if !debug {
				hanami.SetLogger(zerolog.Nop())
			}
			return term.Run(cfg)
		},
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "stream frames to browsers over websockets",
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")

	haikuCmd := &cobra.Command{
		Use:   "haiku",
		Short: "print a haiku",
		RunE:  runHaiku,
	}
	haikuCmd.Flags().BoolVar(&typewriter, "typewriter", false, "reveal the haiku line by line")

	curveCmd := &cobra.Command{
		Use:   "curve [timing|rotation|path]",
		Short: "plot a randomly generated curve",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCurve,
	}
	curveCmd.Flags().IntVar(&samples, "samples", 60, "points per curve")

	scriptCmd := &cobra.Command{
		Use:   "script [file]",
		Short: "play a scenario script",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}
	scriptCmd.Flags().BoolVar(&headless, "headless", false, "run without a window and print the report")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage configuration files",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [file]",
		Short: "write the effective configuration to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := hanami.SaveConfig(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(windowCmd, termCmd, serveCmd, haikuCmd, curveCmd, scriptCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	hanami.SetLogger(log.Logger)
}

// loadConfig reads --config (or the defaults) and applies --preset on top.
func loadConfig() (*hanami.Config, error) {
	cfg := hanami.DefaultConfig()
	if configFile != "" {
		c, err := hanami.LoadConfig(configFile)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = c
	}
	if preset != "" {
		if err := cfg.ApplyPreset(preset); err != nil {
			return nil, err
		}
	}
	if seed != 0 {
		cfg.Seed = seed
	}
	if fps > 0 {
		cfg.Window.FPS = fps
	}
	if debug {
		cfg.Debug = true
	}
	return cfg, cfg.Validate()
}

func runWindow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	scene := hanami.NewScene(cfg)
	scene.Start()
	return hanami.Run(scene, runConfig(cfg))
}

func runConfig(cfg *hanami.Config) hanami.RunConfig {
	return hanami.RunConfig{
		Title:  cfg.Window.Title,
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
		FPS:    cfg.Window.FPS,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return wsbridge.NewServer(addr, cfg).Run(ctx)
}

func runHaiku(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	var rng *hanami.Sampler
	if cfg.Seed != 0 {
		rng = hanami.NewSeededSampler(cfg.Seed)
	}
	composer := hanami.NewComposer(hanami.DefaultWords(), rng)
	h := hanami.Compose(composer)
	if !typewriter {
		fmt.Println(h)
		return nil
	}

	// Reveal on a scheduler driven by the wall clock, redrawing the current
	// line in place.
	sched := hanami.NewScheduler(nil)
	printed := make([]int, len(h))
	sink := hanami.TextSinkFunc(func(i int, text string) {
		fmt.Print(text[printed[i]:])
		printed[i] = len(text)
	})
	lineDur := time.Duration(cfg.Haiku.LineMs) * time.Millisecond
	fn, _ := hanami.EaseByName(cfg.Haiku.Ease)
	tw := hanami.NewTypewriter(sched, h, sink, lineDur, hanami.EaseTiming{Fn: fn})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	line := 0
	pump := hanami.TickerPump{FPS: cfg.Window.FPS}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	started := false
	err = pump.Run(ctx, func(now time.Duration) {
		if !started {
			tw.Start(now)
			started = true
		}
		sched.Step(now)
		for line < len(h) && printed[line] == len(h[line]) {
			fmt.Println()
			line++
		}
		if tw.Done() {
			cancel()
		}
	})
	if tw.Done() {
		return nil
	}
	return err
}

func runCurve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	which := "timing"
	if len(args) == 1 {
		which = args[0]
	}
	var rng *hanami.Sampler
	if cfg.Seed != 0 {
		rng = hanami.NewSeededSampler(cfg.Seed)
	}
	vp := hanami.FixedViewport{Width: float64(cfg.Window.Width), Height: float64(cfg.Window.Height)}
	gen := hanami.NewPathGenerator(vp, cfg.Path, rng)
	n := max(samples, 2)

	var data []float64
	var caption string
	switch which {
	case "timing":
		c := gen.Timing()
		data = c.Sample(n)
		caption = fmt.Sprintf("timing %.2f %.2f %.2f %.2f", c[0], c[1], c[2], c[3])
	case "rotation":
		c := gen.Rotation()
		data = c.Sample(n)
		for i := range data {
			data[i] *= 360
		}
		caption = fmt.Sprintf("rotation (degrees) %.2f %.2f %.2f %.2f", c[0], c[1], c[2], c[3])
	case "path":
		p := gen.Path()
		data = make([]float64, n)
		for i := range data {
			// screen y grows downwards; plot height above the floor
			data[i] = vp.Height - p.At(float64(i)/float64(n-1)).Y
		}
		caption = "path height over progress"
	default:
		return fmt.Errorf("unknown curve %q (timing, rotation, path)", which)
	}

	fmt.Println(asciigraph.Plot(data,
		asciigraph.Height(12),
		asciigraph.Width(70),
		asciigraph.Caption(caption),
	))
	return nil
}

func runScript(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	script, err := hanami.LoadScriptFile(args[0])
	if err != nil {
		return err
	}
	if !headless {
		scene := hanami.NewScene(cfg)
		scene.SetScript(script)
		return hanami.Run(scene, runConfig(cfg))
	}

	canvas := term.NewCanvas(cfg.Window.Width, cfg.Window.Height)
	eng := hanami.NewEngine(cfg, canvas, canvas)
	var clock hanami.ManualClock
	report := hanami.NewScriptRunner(script, eng, &clock).Run()
	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
