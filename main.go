package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/spf13/viper"

	"github.com/soar/padstate/internal/config"
	"github.com/soar/padstate/internal/console"
	"github.com/soar/padstate/internal/feed"
	"github.com/soar/padstate/internal/gamepad"
	"github.com/soar/padstate/internal/hub"
	"github.com/soar/padstate/internal/logger"
	"github.com/soar/padstate/internal/recorder"
	"github.com/soar/padstate/internal/runner"
	"github.com/soar/padstate/internal/server"
	"github.com/soar/padstate/internal/source"
	_ "github.com/soar/padstate/internal/source/sdlsource"
	"github.com/soar/padstate/internal/statsview"
	"github.com/soar/padstate/internal/tray"
)

// Cross-platform signal handling: os.Interrupt is Ctrl+C everywhere and
// SIGINT on Unix.
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

func main() {
	fromConsole := console.IsRunningFromConsole()

	cfg, v, err := config.Load(os.Args[1:])
	if errors.Is(err, config.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.File != "" {
		log.Printf("using config file %s", cfg.File)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, shutdownSignals...)

	consoleShutdown := make(chan struct{})
	reregisterConsole := console.SetupConsoleHandler(consoleShutdown)

	src, err := source.New(cfg.Source, logger.New(cfg.Source))
	if err != nil {
		log.Fatalf("source: %v", err)
	}

	plugin, err := gamepad.NewPlugin(src,
		gamepad.WithCapacity(cfg.Capacity),
		gamepad.WithLogger(logger.New("gamepad")),
		gamepad.WithSettings(cfg.Settings()),
		gamepad.WithRescanAlways(cfg.RescanAlways),
	)
	if err != nil {
		log.Fatalf("gamepad: %v", err)
	}

	session := uuid.NewString()

	events := feed.New(logger.New("feed"))
	go events.Run(ctx)
	listeners := []gamepad.Listeners{events.Listeners()}

	var rec *recorder.Recorder
	if cfg.Record != "" {
		rec, err = recorder.New(cfg.Record, session, logger.New("recorder"))
		if err != nil {
			log.Fatalf("recorder: %v", err)
		}
		listeners = append(listeners, rec.Listeners())
	}
	plugin.SetListeners(gamepad.Combine(listeners...))

	run := runner.New(plugin, src,
		runner.WithFrameRate(cfg.FrameRate),
		runner.WithLogger(logger.New("runner")),
	)

	h := hub.NewHub(logger.New("hub"))
	go h.Run(ctx)

	states := make(chan []gamepad.PadState, 64)
	broadcaster := hub.NewBroadcaster(h, states)
	go broadcaster.Run(ctx)

	srv, err := server.New(h, broadcaster, events, getFrontendFS(), cfg.Addr, logger.New("server"))
	if err != nil {
		log.Fatalf("server: %v", err)
	}
	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
	}()

	stopStats := statsview.Launch(cfg.Statsview, logger.New("statsview"))
	defer stopStats()

	url := browseURL(cfg.Addr)
	log.Printf("padstate started: %s (session %s)", url, session)

	var t *tray.Tray
	trayShutdown := make(chan struct{})
	if runtime.GOOS == "windows" {
		t = tray.New(url, logger.New("tray"), func() {
			close(trayShutdown)
		})
		go t.Run(tray.GetIcon())
	}
	if fromConsole {
		log.Println("Press Ctrl+C to exit")
	}

	go fanOut(ctx, run.States(), states, func(n int) {
		if t != nil {
			t.SetConnected(n)
		}
	})

	if cfg.File != "" {
		watchConfig(ctx, v, run)
	}

	runErrCh := make(chan error, 1)
	go func() {
		runErrCh <- run.Run(ctx)
	}()

	// The SDL backend installs its own console handler when it initializes.
	if err := run.Do(ctx, func(*gamepad.Plugin) { reregisterConsole() }); err != nil {
		log.Printf("console handler: %v", err)
	}

	runnerDone := false
	select {
	case <-sigCh:
		log.Println("Shutting down...")
	case <-consoleShutdown:
		log.Println("Shutting down...")
	case <-trayShutdown:
		log.Println("Shutdown requested from tray")
	case err := <-serverErrCh:
		log.Printf("HTTP server error: %v", err)
	case err := <-runErrCh:
		runnerDone = true
		if err != nil {
			log.Printf("runner error: %v", err)
		}
	}
	cancel()

	if !runnerDone {
		if err := <-runErrCh; err != nil {
			log.Printf("runner error: %v", err)
		}
	}

	if rec != nil {
		if err := rec.Close(); err != nil {
			log.Printf("recorder close error: %v", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	if t != nil {
		t.Quit()
	}

	log.Println("padstate stopped")
}

// fanOut forwards pool states to the broadcaster and reports the connected
// pad count whenever it changes.
func fanOut(ctx context.Context, in <-chan []gamepad.PadState, out chan<- []gamepad.PadState, onCount func(int)) {
	last := -1
	for {
		select {
		case <-ctx.Done():
			return
		case states := <-in:
			select {
			case out <- states:
			default:
			}

			n := 0
			for _, s := range states {
				if s.Connected {
					n++
				}
			}
			if n != last {
				last = n
				onCount(n)
			}
		}
	}
}

// watchConfig pushes dead zone and polling rate edits from the config file
// to the running pool. Other keys need a restart.
func watchConfig(ctx context.Context, v *viper.Viper, run *runner.Runner) {
	v.OnConfigChange(func(e fsnotify.Event) {
		cfg := config.FromViper(v)
		if err := cfg.Validate(); err != nil {
			log.Printf("ignoring config change in %s: %v", e.Name, err)
			return
		}
		settings := cfg.Settings()
		if err := run.Do(ctx, func(p *gamepad.Plugin) { p.SetSettings(settings) }); err != nil {
			return
		}
		log.Printf("config reloaded from %s", e.Name)
	})
	v.WatchConfig()
}

func browseURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return fmt.Sprintf("http://localhost%s", addr)
	}
	return "http://" + addr
}
