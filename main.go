package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"hangarview/internal/api"
	"hangarview/internal/catalog"
	"hangarview/internal/config"
	"hangarview/internal/eventbus"
	"hangarview/internal/ui"
)

func main() {
	// Parse command line arguments
	var (
		serverURL  string
		configPath string
		demo       bool
		serveAddr  string
	)
	flag.StringVar(&serverURL, "server", "", "Catalog server URL (overrides config)")
	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.BoolVar(&demo, "demo", false, "Run against a seeded in-process catalog")
	flag.StringVar(&serveAddr, "serve", "", "Run the catalog server headless on ADDR and exit on signal")
	flag.Parse()

	// Set up logging
	logFile, err := os.OpenFile("hangarview.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Could not open log file: %v", err)
	} else {
		defer logFile.Close()
		log.SetOutput(logFile)
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	if serveAddr != "" {
		if err := runServer(ctx, serveAddr); err != nil {
			fmt.Printf("Error running server: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Create event bus
	bus := eventbus.New()

	// Load configuration with event bus support
	configSvc := config.NewConfigServiceWithBus(bus)
	cfg := loadConfig(configSvc, configPath)

	if serverURL != "" {
		cfg.ServerURL = serverURL
	}

	// Demo mode runs a seeded catalog on a loopback listener so the UI
	// works without a deployed service
	if demo {
		url, stop, err := startDemoCatalog()
		if err != nil {
			fmt.Printf("Error starting demo catalog: %v\n", err)
			os.Exit(1)
		}
		defer stop()
		cfg.ServerURL = url
		log.Printf("Demo catalog listening on %s", url)
	}

	// Subscribe to config changes to save automatically
	bus.Subscribe(eventbus.EventConfigChanged, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.ConfigChangedEvent); ok {
			cfg.DefaultSort = string(event.DefaultSort)
			cfg.PageSize = event.PageSize
			if !cfg.UISettings.AutosaveOnExit {
				return
			}
			if err := saveConfig(configSvc, cfg, configPath); err != nil {
				log.Printf("Failed to save config: %v", err)
			} else {
				log.Printf("Config saved")
			}
		}
	})

	client := api.NewClient(cfg.ServerURL, cfg.RequestTimeout())

	// Create UI model
	log.Printf("Creating UI model...")
	uiModel := ui.NewModel(ctx, client, bus, cfg)

	p := tea.NewProgram(uiModel, tea.WithAltScreen())
	uiModel.SetProgram(p)

	// Create event channel for UI
	eventChan := make(chan eventbus.DomainEvent, 100)

	forwardEvent := func(e eventbus.DomainEvent) {
		select {
		case eventChan <- e:
		default:
			log.Println("Event channel full, dropping event")
		}
	}

	bus.Subscribe(eventbus.EventItemModerated, forwardEvent)
	bus.Subscribe(eventbus.EventRefreshRequested, forwardEvent)
	bus.Subscribe(eventbus.EventError, forwardEvent)

	// Start forwarding events to UI in background
	go func() {
		for event := range eventChan {
			p.Send(ui.EventMsg{Event: event})
		}
	}()

	// Run the UI
	log.Printf("Starting UI...")
	if _, err := p.Run(); err != nil {
		log.Printf("Error running program: %v", err)
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
	log.Printf("UI exited normally")

	close(eventChan)
	cancel()
}

// loadConfig loads the config from the given path, or the default
// location when no path is set
func loadConfig(configSvc config.ConfigService, path string) *config.Config {
	if path != "" {
		cfg, err := configSvc.LoadFromPath(path)
		if err != nil {
			log.Printf("Failed to load config from %s: %v, using defaults", path, err)
			return config.DefaultConfig()
		}
		return cfg
	}
	cfg, err := configSvc.Load()
	if err != nil {
		log.Printf("Failed to load config: %v, using defaults", err)
		return config.DefaultConfig()
	}
	return cfg
}

func saveConfig(configSvc config.ConfigService, cfg *config.Config, path string) error {
	if path != "" {
		return configSvc.SaveToPath(cfg, path)
	}
	return configSvc.Save(cfg)
}

// startDemoCatalog serves the seeded catalog on an ephemeral loopback
// port. The returned stop function shuts the listener down.
func startDemoCatalog() (url string, stop func(), err error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, fmt.Errorf("failed to listen: %w", err)
	}

	store := catalog.NewStore()
	catalog.Seed(store)

	srv := &http.Server{Handler: catalog.NewRouter(store)}
	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Printf("Demo catalog stopped: %v", err)
		}
	}()

	return "http://" + ln.Addr().String(), func() { _ = srv.Close() }, nil
}

// runServer runs the catalog service without the TUI, for development or
// for pointing several clients at one shared instance
func runServer(ctx context.Context, addr string) error {
	store := catalog.NewStore()
	catalog.Seed(store)

	srv := &http.Server{Addr: addr, Handler: catalog.NewRouter(store)}

	errCh := make(chan error, 1)
	go func() {
		fmt.Printf("hangarview catalog listening on %s\n", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		return srv.Close()
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	}
}
