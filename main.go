package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cast"
	"github.com/spf13/pflag"

	"iyftv/internal/adblock"
	"iyftv/internal/classify"
	"iyftv/internal/config"
	"iyftv/internal/eventbus"
	"iyftv/internal/live"
	"iyftv/internal/navigation"
	"iyftv/internal/notify"
	"iyftv/internal/page"
	"iyftv/internal/player"
	"iyftv/internal/ui"
	"iyftv/internal/ui/input"
)

// Length of the stand-in video when driving a saved page
const offlineVideoLength = 45 * time.Minute

// Events the UI reacts to
var uiEvents = []eventbus.EventType{
	eventbus.EventAdsRemoved,
	eventbus.EventRequestBlocked,
	eventbus.EventError,
	eventbus.EventNavigationState,
	eventbus.EventConfigChanged,
	eventbus.EventConfigLoaded,
}

func main() {
	// Parse command line arguments
	flags := newFlagSet(os.Stderr)
	if err := flags.Parse(os.Args[1:]); err != nil {
		os.Exit(flagExitCode(err))
	}
	pagePath, _ := flags.GetString("page")
	configPath, _ := flags.GetString("config")

	// A bare argument is a saved page
	if pagePath == "" && flags.NArg() > 0 {
		pagePath = flags.Arg(0)
	}

	// Set up logging
	logFile, err := os.OpenFile("iyftv.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Could not open log file: %v", err)
	} else {
		defer logFile.Close()
		log.SetOutput(logFile)
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Create event bus
	bus := eventbus.New()
	defer bus.Close()

	// Load configuration with event bus support
	var configSvc config.ConfigService
	if configPath != "" {
		configSvc = config.NewConfigServiceAt(configPath, bus)
	} else {
		configSvc = config.NewConfigServiceWithBus(bus)
	}
	for key, name := range map[string]string{"live.url": "url", "live.devtools_url": "devtools"} {
		if err := configSvc.BindFlag(key, flags.Lookup(name)); err != nil {
			log.Printf("Config: %v", err)
		}
	}
	if _, err := configSvc.Load(); err != nil {
		log.Printf("Error loading config: %v", err)
	}
	configSvc.Watch()

	filter, err := adblock.New(adblock.Options{
		Enabled:     cast.ToBool(configSvc.Read("features.ad_block")),
		TextMarker:  cast.ToString(configSvc.Read("adblock.text_marker")),
		URLPatterns: cast.ToStringSlice(configSvc.Read("adblock.url_patterns")),
	})
	if err != nil {
		fail(err)
	}
	classifier, err := classify.New()
	if err != nil {
		fail(err)
	}

	deps := ui.Deps{
		Bus:    bus,
		Config: configSvc,
		Filter: filter,
	}

	var (
		source    page.Source
		focuser   navigation.Focuser
		activator navigation.Activator
		video     player.Video
		sink      notify.Sink
		overlay   player.OverlaySink
		session   *live.Session
	)

	if pagePath != "" {
		absPath, err := filepath.Abs(pagePath)
		if err != nil {
			fail(fmt.Errorf("failed to resolve %s: %w", pagePath, err))
		}
		hooks := page.NewStaticHooks()
		clock := player.NewMemoryVideo(offlineVideoLength)
		source, focuser, activator, video = page.NewFileSource(absPath), hooks, hooks, clock
		deps.Back = hooks
		deps.Clock = clock
		deps.Source = absPath
	} else {
		url := cast.ToString(configSvc.Read("live.url"))
		session, err = live.Open(ctx, live.Options{
			URL:         url,
			DevToolsURL: cast.ToString(configSvc.Read("live.devtools_url")),
			ChromePath:  cast.ToString(configSvc.Read("live.chrome_path")),
			Headless:    cast.ToBool(configSvc.Read("live.headless")),
			Timeout:     time.Duration(cast.ToInt(configSvc.Read("live.timeout_seconds"))) * time.Second,
			FocusColor:  cast.ToString(configSvc.Read("theme.focus_container_color")),
			Bus:         bus,
		})
		if err != nil {
			fail(err)
		}
		defer session.Close()

		if err := session.BlockRequests(ctx, filter); err != nil {
			log.Printf("Live: %v", err)
		}
		source, focuser, activator, video = session, session, session, session.Video()
		sink, overlay = session, session
		deps.Back = session
		deps.Source = url
		deps.Live = true
		deps.RescanInterval = time.Duration(cast.ToInt(configSvc.Read("live.rescan_interval_ms"))) * time.Millisecond
	}

	scanner := page.NewScanner(source, filter, classifier, bus)
	deps.Scanner = scanner
	deps.Navigator = navigation.NewService(bus, scanner, focuser, activator)
	deps.Navigator.SetEnabled(cast.ToBool(configSvc.Read("features.spatial_navigation")))

	ctl := player.NewController(video, player.Settings{
		Shortcuts:  cast.ToBool(configSvc.Read(player.KeyShortcuts)),
		Speed:      cast.ToFloat64(configSvc.Read(player.KeySpeed)),
		Seek:       cast.ToFloat64(configSvc.Read(player.KeySeek)),
		VolumeStep: cast.ToFloat64(configSvc.Read(player.KeyVolumeStep)),
	}, bus)
	defer ctl.Close()
	deps.Player = ctl
	deps.Overlay = player.NewOverlay(cast.ToBool(configSvc.Read("features.fullscreen_controls")), overlay)
	deps.Notifier = notify.New(bus, sink)

	// Create UI model
	log.Printf("Creating UI model...")
	uiModel := ui.NewModel(deps)
	defer uiModel.Close()

	p := tea.NewProgram(uiModel, tea.WithAltScreen(), tea.WithContext(ctx))
	uiModel.SetProgram(p)

	// Forward domain events to the UI
	for _, t := range uiEvents {
		unsubscribe := bus.Subscribe(t, func(e eventbus.DomainEvent) {
			p.Send(ui.EventMsg{Event: e})
		})
		defer unsubscribe()
	}

	// Forward remote keys pressed inside the browser
	if session != nil {
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case k := <-session.Keys():
					p.Send(ui.DOMKeyMsg{Key: input.DOMKey{Code: k.Code, Target: k.Target}})
				}
			}
		}()
	}

	bus.Publish(eventbus.AppReadyEvent{Live: session != nil})

	// Run the UI
	log.Printf("Starting UI...")
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		log.Printf("Error running program: %v", err)
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
	log.Printf("UI exited normally")
}

// newFlagSet declares the command line flags, writing usage to out
func newFlagSet(out io.Writer) *pflag.FlagSet {
	flags := pflag.NewFlagSet("iyftv", pflag.ContinueOnError)
	flags.SetOutput(out)
	flags.StringP("page", "p", "", "Saved HTML page to drive instead of the live site")
	flags.StringP("url", "u", "", "Site to open in the browser, overrides live.url")
	flags.String("devtools", "", "DevTools websocket URL of a running browser, overrides live.devtools_url")
	flags.StringP("config", "c", "", "Config file (default is the user config directory)")
	flags.Usage = func() {
		fmt.Fprintf(out, "Usage: iyftv [--page FILE | --url URL] [flags]\n\n")
		fmt.Fprintf(out, "Drives a video site with arrow keys and remote-control shortcuts.\n\n")
		flags.PrintDefaults()
	}
	return flags
}

// flagExitCode is the exit status for a failed parse: help is a success
func flagExitCode(err error) int {
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	return 2
}

func fail(err error) {
	log.Printf("Fatal: %v", err)
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
