package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/skidpad/audio"
	"github.com/lixenwraith/skidpad/core"
	"github.com/lixenwraith/skidpad/engine"
	"github.com/lixenwraith/skidpad/input"
	"github.com/lixenwraith/skidpad/log"
	"github.com/lixenwraith/skidpad/parameter"
	"github.com/lixenwraith/skidpad/render"
	"github.com/lixenwraith/skidpad/status"
	"github.com/lixenwraith/skidpad/tuning"
	"github.com/lixenwraith/skidpad/vehicle"
)

type driveOptions struct {
	params  string
	keymap  string
	mute    bool
	noAudio bool
}

func newDriveCmd(cfg *appConfig) *cobra.Command {
	opts := &driveOptions{}
	cmd := &cobra.Command{
		Use:   "drive",
		Short: "Drive the car in the terminal",
		Long: "Drive the car in the terminal. The parameter file is watched and reloaded while driving;\n" +
			"an invalid edit keeps the previous car and shows the error in the HUD.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDrive(cmd.Context(), cfg, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.params, "params", "", "vehicle parameter file, TOML or YAML (built-in car when unset)")
	f.StringVar(&opts.keymap, "keymap", "", "TOML key binding overrides")
	f.BoolVar(&opts.mute, "mute", false, "start with sound muted")
	f.BoolVar(&opts.noAudio, "no-audio", false, "do not open the audio device")
	return cmd
}

func runDrive(ctx context.Context, cfg *appConfig, opts *driveOptions) error {
	// the terminal belongs to the screen, so logs go to a file or nowhere
	logger, err := cfg.logger("")
	if err != nil {
		return err
	}
	defer logger.Sync()

	table, err := loadKeyTable(afero.NewOsFs(), opts.keymap)
	if err != nil {
		return err
	}

	reg := status.NewRegistry()
	params, store, err := openParams(opts.params, logger, reg)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	core.SetCrashHandler(func(any) { screen.Fini() })
	defer func() {
		core.SetCrashHandler(nil)
		screen.Fini()
	}()
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	sound := audio.NewSoundManager(logger)
	if !opts.noAudio {
		// failure is logged by the manager; drive on silently
		if sound.Initialize() == nil {
			defer sound.Cleanup()
		}
	}
	if opts.mute {
		sound.ToggleMute()
	}

	renderer := render.NewRenderer(screen, params)
	sim := engine.NewSimulation(params,
		engine.WithLogger(logger),
		engine.WithRegistry(reg),
		engine.WithSink(renderer),
		engine.WithSink(sound),
	)

	s := &session{
		screen:   screen,
		sim:      sim,
		renderer: renderer,
		sound:    sound,
		keyboard: input.NewKeyboard(table, engine.NewMonotonicTimeProvider()),
		store:    store,
	}
	logger.Info("drive started", log.String("params", opts.params))
	err = s.run(log.AddToContext(ctx, logger))
	logger.Info("drive finished", log.Uint64("ticks", s.ticks))
	return err
}

// loadKeyTable merges the optional keymap file over the default bindings
func loadKeyTable(fsys afero.Fs, path string) (*input.KeyTable, error) {
	table := input.DefaultKeyTable()
	if path == "" {
		return table, nil
	}
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read keymap: %w", err)
	}
	override, err := input.LoadKeyConfig(data)
	if err != nil {
		return nil, fmt.Errorf("keymap %s: %w", path, err)
	}
	return input.MergeKeyTable(table, override), nil
}

// session is one interactive drive: a UI loop, the tick scheduler and the parameter watcher
type session struct {
	screen   tcell.Screen
	sim      *engine.Simulation
	renderer *render.Renderer
	sound    *audio.SoundManager
	keyboard *input.Keyboard
	store    *tuning.Store
	ticked   <-chan struct{}

	ticks uint64
}

func (s *session) run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	if s.store != nil {
		g.Go(guarded(func() error { return s.store.Watch(ctx) }))
	}

	scheduler, ticked := engine.NewScheduler(s.sim, parameter.SimTickInterval)
	s.ticked = ticked
	scheduler.Start()
	defer func() {
		scheduler.Stop()
		s.ticks = scheduler.TickCount()
	}()

	events := make(chan tcell.Event, parameter.EventQueueSize)
	quit := make(chan struct{})
	defer close(quit)
	core.Go(func() { s.screen.ChannelEvents(events, quit) })

	g.Go(guarded(func() error {
		defer cancel()
		return s.loop(ctx, events)
	}))
	return g.Wait()
}

// loop owns the screen: it feeds key events to the keyboard and, at frame rate,
// redraws when the simulation has ticked since the last frame
func (s *session) loop(ctx context.Context, events <-chan tcell.Event) error {
	logger := log.GetFromContext(ctx).Named("ui")
	ticker := time.NewTicker(parameter.FrameUpdateInterval)
	defer ticker.Stop()
	dirty := false

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			intent := s.keyboard.HandleEvent(ev)
			switch intent.Type {
			case input.IntentCommand:
				// a fresh car starts with every control released
				if intent.Command == vehicle.CommandReset {
					s.keyboard.Release()
				}
				s.sim.Send(intent.Command)
			case input.IntentToggleMute:
				logger.Info("sound toggled", log.Bool("muted", s.sound.ToggleMute()))
			case input.IntentResize:
				s.screen.Sync()
			case input.IntentQuit:
				logger.Info("quit requested")
				return nil
			}

		case <-s.ticked:
			dirty = true

		case <-ticker.C:
			s.sim.SetInput(s.keyboard.Input())
			if dirty {
				s.renderer.Draw()
				dirty = false
			}
		}
	}
}

// guarded routes a panic in an errgroup goroutine through the crash handler
func guarded(fn func() error) func() error {
	return func() error {
		defer func() {
			if r := recover(); r != nil {
				core.HandleCrash(r)
			}
		}()
		return fn()
	}
}
