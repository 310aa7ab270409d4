package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/ayusman/slidehand/internal/app"
	"github.com/ayusman/slidehand/internal/config"
	"github.com/ayusman/slidehand/internal/server"
	"github.com/ayusman/slidehand/internal/store"
	"github.com/ayusman/slidehand/internal/tray"
)

func main() {
	var (
		configPath = flag.String("config", "", "JSON config file (default <data dir>/config.json)")
		addr       = flag.String("addr", "", "HTTP listen address (overrides config)")
		headless   = flag.Bool("headless", false, "Run without the system tray")
		record     = flag.String("record", "", "Record landmark frames to this file")
		replay     = flag.String("replay", "", "Replay landmark frames from this file instead of the camera")
		loop       = flag.Bool("loop", false, "Loop the replayed recording")
		noCamera   = flag.Bool("no-camera", false, "Serve the API and manual remote without starting detection")
		keepEvents = flag.Duration("keep-events", 30*24*time.Hour, "Drop logged actions older than this at startup (0 keeps all)")
		writeCfg   = flag.Bool("write-config", false, "Write the effective config to the config file and exit")
	)
	flag.Parse()

	fmt.Println("Slidehand - gesture control for presentations")

	path := *configPath
	if path == "" {
		path = filepath.Join(config.Default().Paths.DataDir, "config.json")
	}
	cfg, err := loadConfig(path)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *record != "" {
		cfg.Recording.Path = *record
	}
	if *replay != "" {
		cfg.Recording.Replay = *replay
		cfg.Recording.Loop = *loop
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
	if *writeCfg {
		if err := cfg.Save(path); err != nil {
			log.Fatalf("Failed to write config: %v", err)
		}
		fmt.Printf("Wrote %s\n", path)
		return
	}

	if err := os.MkdirAll(cfg.Paths.DataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}
	st, err := store.New(cfg.DBPath())
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	if *keepEvents > 0 {
		if n, err := st.Events().Prune(time.Now().Add(-*keepEvents)); err != nil {
			log.Printf("Failed to prune events: %v", err)
		} else if n > 0 {
			log.Printf("Pruned %d old events", n)
		}
	}

	a, err := app.New(app.Config{Settings: cfg, Store: st})
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	}()

	if err := a.DiscoverPlugins(); err != nil {
		log.Printf("Plugin discovery failed: %v", err)
	} else {
		log.Printf("Loaded %d plugins from %s", len(a.PluginManager().List()), cfg.PluginDir())
	}

	webDir := findWebDir(cfg)
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}
	srv := server.New(server.Config{StaticDir: webDir, Store: st, App: a})
	defer srv.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var t *tray.Tray
	if !*headless {
		t = tray.New()
		a.OnStatus = t.Update
	}

	if !*noCamera {
		if err := a.Start(); err != nil {
			log.Printf("Detection not started: %v", err)
		}
	}

	serveErr := make(chan error, 1)
	go func() {
		fmt.Printf("Starting server on %s\n", cfg.Server.Addr)
		serveErr <- srv.Run(ctx, cfg.Server.Addr)
	}()

	if *headless {
		select {
		case <-ctx.Done():
		case err := <-serveErr:
			if err != nil {
				log.Printf("Server failed: %v", err)
			}
		}
		return
	}

	t.OnToggle(a.SetEnabled)
	t.OnRemote(func() {
		if err := openBrowser(remoteURL(cfg.Server.Addr)); err != nil {
			log.Printf("Failed to open browser: %v", err)
		}
	})
	t.OnQuit(stop)
	t.Update(a.Status())

	go func() {
		select {
		case <-ctx.Done():
		case err := <-serveErr:
			if err != nil {
				log.Printf("Server failed: %v", err)
			}
		}
		t.Quit()
	}()

	// systray needs the main goroutine.
	t.Run()
	stop()
}

func loadConfig(path string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// findWebDir returns the configured web directory, or the first of "web",
// "../web", "../../web" and <data dir>/web that exists.
func findWebDir(cfg config.Config) string {
	candidates := []string{"web", "../web", "../../web", filepath.Join(cfg.Paths.DataDir, "web")}
	if cfg.Paths.WebDir != "" {
		candidates = []string{cfg.Paths.WebDir}
	}

	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}
	return ""
}

func remoteURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr + "/"
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
