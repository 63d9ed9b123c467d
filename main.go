// ABOUTME: Entry point for the Aris Music toddler touch toy
// ABOUTME: Parses CLI flags, wires the audio engine and starts the toy
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/arismusic/aris-go/internal/assets"
	"github.com/arismusic/aris-go/internal/config"
	"github.com/arismusic/aris-go/internal/debugtap"
	"github.com/arismusic/aris-go/internal/discovery"
	"github.com/arismusic/aris-go/internal/lifecycle"
	"github.com/arismusic/aris-go/internal/ui"
	"github.com/arismusic/aris-go/internal/version"
	"github.com/arismusic/aris-go/pkg/audio"
	"github.com/arismusic/aris-go/pkg/audio/output"
	"github.com/arismusic/aris-go/pkg/engine"
)

var (
	configFile = flag.String("config", "", "YAML config file (default: built-in resources)")
	backend    = flag.String("backend", "", "Audio backend: oto, malgo, headless, none")
	sampleRate = flag.Int("sample-rate", engine.DefaultSampleRate, "Output sample rate")
	masterGain = flag.Float64("master-gain", engine.DefaultMasterGain, "Master gain 0..1")
	soundsDir  = flag.String("sounds-dir", "", "Root directory for relative sound paths")
	logFile    = flag.String("log-file", "aris.log", "Log file path")
	logLevel   = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	noTUI      = flag.Bool("no-tui", false, "Disable TUI, use streaming logs instead")
	streamLogs = flag.Bool("stream-logs", false, "Alias for -no-tui")
	debugAddr  = flag.String("debug-addr", "", "Serve the audio debug tap on this address (e.g. :7878)")
	advertise  = flag.Bool("mdns", false, "Advertise the debug tap via mDNS")
	name       = flag.String("name", "", "Instance name for mDNS (default: hostname-aris)")
)

func main() {
	flag.Parse()

	useTUI := !(*noTUI || *streamLogs)

	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -log-level: %v\n", err)
		os.Exit(2)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = f.Close() }()

	if useTUI {
		logrus.SetOutput(f)
	} else {
		logrus.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	log := logrus.WithField("component", "main")

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.WithError(err).Fatal("Failed to load config")
	}
	applyFlags(cfg)

	out, err := output.ByName(cfg.Engine.Backend)
	if err != nil {
		log.WithError(err).Fatal("Bad backend")
	}

	loader, err := assets.NewLoader(assets.Options{
		BaseDir: cfg.SoundsDir,
		Logger:  logrus.WithField("component", "assets"),
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to create asset loader")
	}

	engCfg := cfg.EngineConfig()
	engCfg.Backend = out
	engCfg.Fetcher = loader
	engCfg.Logger = logrus.WithField("component", "engine")

	eng, err := engine.New(engCfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to create engine")
	}
	defer func() {
		if err := eng.Close(); err != nil {
			log.WithError(err).Warn("Error closing engine")
		}
	}()

	log.WithFields(logrus.Fields{
		"product": version.Product,
		"version": version.Version,
		"backend": out.Name(),
	}).Info("Starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var notes ui.NoteSource = ui.DirectNotes(eng)
	if *debugAddr != "" {
		hub, err := startDebugTap(ctx, eng, log)
		if err != nil {
			log.WithError(err).Fatal("Failed to start debug tap")
		}
		defer hub.Close()
		notes = hub
	}

	watcher := lifecycle.NewWatcher(eng, logrus.WithField("component", "lifecycle"))
	go watcher.Run(ctx, lifecycle.Notify(ctx))

	if useTUI {
		prog := ui.Run(ui.Options{
			Context:   ctx,
			Engine:    eng,
			Resources: cfg.Resources,
			Notes:     notes,
			Watcher:   watcher,
		})
		if _, err := prog.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			log.WithError(err).Error("TUI exited with error")
		}
		log.Info("Toy stopped")
		return
	}

	if *debugAddr == "" {
		eng.SetDebugCallback(func(note string) { log.Debug(note) })
	}
	runHeadless(ctx, eng, log)
}

// applyFlags lets explicitly set flags override the config file
func applyFlags(cfg *config.Config) {
	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "backend":
			cfg.Engine.Backend = *backend
		case "sample-rate":
			cfg.Engine.SampleRate = *sampleRate
		case "master-gain":
			cfg.Engine.MasterGain = *masterGain
		case "sounds-dir":
			cfg.SoundsDir = *soundsDir
		}
	})
}

func startDebugTap(ctx context.Context, eng *engine.Engine, log *logrus.Entry) (*debugtap.Hub, error) {
	ln, err := net.Listen("tcp", *debugAddr)
	if err != nil {
		return nil, fmt.Errorf("debug tap listen: %w", err)
	}

	hub := debugtap.New(eng, logrus.WithField("component", "debugtap"))
	go func() {
		if err := hub.ServeListener(ctx, ln); err != nil {
			log.WithError(err).Error("Debug tap stopped")
		}
	}()

	if *advertise {
		instance := *name
		if instance == "" {
			hostname, err := os.Hostname()
			if err != nil {
				hostname = "unknown"
			}
			instance = hostname + "-aris"
		}
		disc := discovery.NewManager(discovery.Config{
			Instance: instance,
			Port:     ln.Addr().(*net.TCPAddr).Port,
			Logger:   logrus.WithField("component", "discovery"),
		})
		if err := disc.Advertise(); err != nil {
			log.WithError(err).Warn("mDNS advertisement failed")
		}
		context.AfterFunc(ctx, disc.Stop)
	}
	return hub, nil
}

// runHeadless unlocks the engine and logs stats until shutdown
func runHeadless(ctx context.Context, eng *engine.Engine, log *logrus.Entry) {
	eng.Unlock(ctx)
	eng.PlayTone(523.25, audio.Sine, 300*time.Millisecond)
	log.WithField("state", eng.State().String()).Info("Engine unlocked, waiting for signals")

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Shutdown signal received")
			return
		case <-ticker.C:
			s := eng.Stats()
			log.WithFields(logrus.Fields{
				"state":   eng.State().String(),
				"ambient": s.Ambient,
				"voices":  s.ActiveSources,
				"tones":   s.TonesPlayed,
				"files":   s.FilesPlayed,
			}).Info("Engine stats")
		}
	}
}
