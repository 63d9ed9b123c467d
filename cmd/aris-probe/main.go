// ABOUTME: Probe for the audio engine lifecycle and the remote debug tap
// ABOUTME: Runs a scripted suspend/resume scenario or watches a running toy
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arismusic/aris-go/internal/debugtap"
	"github.com/arismusic/aris-go/internal/discovery"
	"github.com/arismusic/aris-go/pkg/audio"
	"github.com/arismusic/aris-go/pkg/audio/output"
	"github.com/arismusic/aris-go/pkg/engine"
)

var (
	backend  = flag.String("backend", "headless", "Audio backend for the scripted scenario")
	watch    = flag.String("watch", "", "Stream debug notes from a toy at host:port")
	state    = flag.String("state", "", "Print the state snapshot of a toy at host:port")
	find     = flag.Bool("find", false, "Find a toy via mDNS and stream its debug notes")
	findWait = flag.Duration("find-timeout", 10*time.Second, "How long to browse with -find")
)

func main() {
	flag.Parse()

	log.SetFlags(log.Ltime | log.Lmicroseconds)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var err error
	switch {
	case *state != "":
		err = printState(ctx, *state)
	case *watch != "":
		err = watchNotes(ctx, *watch)
	case *find:
		err = findAndWatch(ctx)
	default:
		err = runScenario(ctx)
	}
	if err != nil {
		log.Fatalf("Probe failed: %v", err)
	}
}

func printState(ctx context.Context, addr string) error {
	snap, err := debugtap.FetchSnapshot(ctx, addr)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

func watchNotes(ctx context.Context, addr string) error {
	fmt.Printf("Watching %s (Ctrl-C to stop)\n", addr)
	return debugtap.Watch(ctx, addr, func(ev debugtap.Event) {
		fmt.Printf("%s  %-10s %s\n", ev.Time.Format("15:04:05.000"), ev.State, ev.Note)
	})
}

func findAndWatch(ctx context.Context) error {
	disc := discovery.NewManager(discovery.Config{})
	defer disc.Stop()
	disc.Browse()

	fmt.Printf("Browsing for %s...\n", discovery.ServiceType)
	select {
	case svc := <-disc.Services():
		fmt.Printf("Found %s at %s (version %s)\n", svc.Name, svc.Addr(), svc.Version)
		return watchNotes(ctx, svc.Addr())
	case <-time.After(*findWait):
		return fmt.Errorf("no toy found after %s", *findWait)
	case <-ctx.Done():
		return nil
	}
}

func runScenario(ctx context.Context) error {
	out, err := output.ByName(*backend)
	if err != nil {
		return err
	}

	eng, err := engine.New(engine.Config{Backend: out})
	if err != nil {
		return err
	}
	defer eng.Close()

	eng.SetDebugCallback(func(note string) { log.Println(note) })

	fmt.Println("=== Audio Lifecycle Probe ===")
	fmt.Println("1. Unlock with a gesture and play a tone")
	fmt.Println("2. Suspend as if backgrounded, then resume")
	fmt.Println("3. Check the same output context survived")
	fmt.Println()

	eng.Unlock(ctx)
	if !eng.Ready() {
		return fmt.Errorf("engine not running after unlock (state %s)", eng.State())
	}
	first := eng.ContextID()
	eng.PlayTone(440, audio.Sine, 200*time.Millisecond)

	handle := eng.CreateAmbientTone(220, audio.Triangle, 0.05)
	if handle == engine.InvalidHandle {
		return fmt.Errorf("ambient tone was not created")
	}

	eng.StopAllAmbient()
	eng.Suspend(ctx)
	fmt.Printf("After suspend: %s\n", eng.State())

	eng.Resume(ctx)
	fmt.Printf("After resume:  %s\n", eng.State())
	eng.PlayTone(660, audio.Sine, 200*time.Millisecond)

	if id := eng.ContextID(); id != first {
		return fmt.Errorf("output context was recreated: %s -> %s", first, id)
	}
	fmt.Printf("Context %s reused\n\n", first)

	time.Sleep(300 * time.Millisecond)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(eng.Stats())
}
