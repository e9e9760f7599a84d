// Command lumen-cli is an interactive client for a Lumen hub.
//
// It discovers a hub on the local network (or dials a configured
// address), authenticates, mirrors the hub's object tree, and exposes
// it through an interactive command interface.
//
// Usage:
//
//	lumen-cli [flags]
//
// Flags:
//
//	-config string    Configuration file path (YAML)
//	-address string   Hub address as host:port (skips discovery)
//	-serial string    Discover the hub with this serial number
//	-user string      Hub user name (default "admin")
//	-password string  Hub password
//	-capture string   Write a CBOR capture of protocol events to this file
//	-log-level string Log level: debug, info, warn, error (default "info")
//
// Examples:
//
//	# Discover the only hub on the network and connect
//	lumen-cli -user admin -password secret
//
//	# Connect to a known address with a protocol capture
//	lumen-cli -address 192.168.1.77:8080 -password secret -capture session.lcap
//
//	# Load everything from a config file
//	lumen-cli -config ~/.lumen.yaml
//
// Interactive Commands:
//
//	rooms               - List rooms
//	controls [room]     - List controls, optionally filtered by room name
//	scenes <control>    - Show the scene table of a light controller
//	scene <control> <n> - Activate scene n
//	on <control>        - All on (light controller) or switch on
//	off <control>       - All off (light controller) or switch off
//	next <control>      - Step to the next scene
//	prev <control>      - Step to the previous scene
//	state <control>     - Dump a control's state cells
//	watch <control>     - Print state changes until enter is pressed
//	status              - Show connection and hub info
//	quit                - Exit
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	stdlog "log"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lumen-home/lumen-go/cmd/lumen-cli/interactive"
	"github.com/lumen-home/lumen-go/pkg/discovery"
	"github.com/lumen-home/lumen-go/pkg/log"
	"github.com/lumen-home/lumen-go/pkg/model"
	"github.com/lumen-home/lumen-go/pkg/transport"
	"github.com/lumen-home/lumen-go/pkg/wire"
)

// Config holds the CLI configuration. File values fill in whatever the
// flags leave empty.
type Config struct {
	ConfigFile string `yaml:"-"`

	Address  string `yaml:"address"`
	Serial   string `yaml:"serial"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Path     string `yaml:"path"`
	UseTLS   bool   `yaml:"tls"`
	Capture  string `yaml:"capture"`
	LogLevel string `yaml:"log_level"`
}

var config Config

// consoleWriter is the destination for all console log output. It starts
// on stderr and is redirected to the readline session's prompt-safe
// writer once the session exists, so the protocol event adapter built
// before the session follows along.
type consoleWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (c *consoleWriter) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.w.Write(p)
}

func (c *consoleWriter) redirect(w io.Writer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.w = w
}

func init() {
	flag.StringVar(&config.ConfigFile, "config", "", "Configuration file path (YAML)")
	flag.StringVar(&config.Address, "address", "", "Hub address as host:port (skips discovery)")
	flag.StringVar(&config.Serial, "serial", "", "Discover the hub with this serial number")
	flag.StringVar(&config.User, "user", "", "Hub user name")
	flag.StringVar(&config.Password, "password", "", "Hub password")
	flag.StringVar(&config.Capture, "capture", "", "Write a CBOR capture of protocol events to this file")
	flag.StringVar(&config.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
}

func main() {
	flag.Parse()

	if config.ConfigFile != "" {
		if err := loadConfigFile(config.ConfigFile, &config); err != nil {
			stdlog.Fatalf("Failed to load config: %v", err)
		}
	}
	if config.User == "" {
		config.User = "admin"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}

	console := &consoleWriter{w: os.Stderr}
	slogger := slog.New(slog.NewTextHandler(console, &slog.HandlerOptions{
		Level: parseLogLevel(config.LogLevel),
	}))

	logger, closeCapture, err := buildLogger(slogger)
	if err != nil {
		stdlog.Fatalf("Failed to open capture file: %v", err)
	}
	defer closeCapture()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	address := config.Address
	path := config.Path
	useTLS := config.UseTLS
	if address == "" {
		hub, err := discoverHub(ctx)
		if err != nil {
			stdlog.Fatalf("Discovery failed: %v", err)
		}
		address = hub.Addr()
		if path == "" {
			path = hub.Path
		}
		useTLS = useTLS || hub.TLS
		slogger.Info("discovered hub", "serial", hub.SerialNumber, "name", hub.Name, "addr", address)
	}

	client := transport.New(transport.Config{
		Address:       address,
		Path:          path,
		UseTLS:        useTLS,
		User:          config.User,
		Password:      config.Password,
		AutoReconnect: true,
		Logger:        logger,
	})
	defer client.Close()

	hub := model.NewHub(client)

	structures := make(chan struct{}, 1)
	client.OnStructure(func(sf *wire.StructureFile) {
		hub.ApplyStructure(sf)
		select {
		case structures <- struct{}{}:
		default:
		}
	})
	client.OnStateChange(func(old, next transport.State) {
		slogger.Info("connection state", "from", old.String(), "to", next.String())
	})

	slogger.Info("connecting", "addr", address, "user", config.User)
	if err := client.Connect(ctx); err != nil {
		stdlog.Fatalf("Failed to connect: %v", err)
	}

	// The hub pushes the full structure right after authentication.
	select {
	case <-structures:
		slogger.Info("structure received",
			"rooms", len(hub.Rooms()), "controls", len(hub.Controls()))
	case <-time.After(15 * time.Second):
		slogger.Warn("no structure received yet, continuing anyway")
	case <-ctx.Done():
		return
	}

	session, err := interactive.New(hub, client)
	if err != nil {
		stdlog.Fatalf("Failed to create interactive session: %v", err)
	}
	// Route all log output through readline to keep the prompt intact.
	console.redirect(session.Stdout())
	go session.Run(ctx, cancel)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slogger.Info("received signal", "signal", sig.String())
	case <-ctx.Done():
	}

	cancel()
	_ = client.Close()
}

// loadConfigFile fills empty config fields from a YAML file.
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if cfg.Address == "" {
		cfg.Address = file.Address
	}
	if cfg.Serial == "" {
		cfg.Serial = file.Serial
	}
	if cfg.User == "" {
		cfg.User = file.User
	}
	if cfg.Password == "" {
		cfg.Password = file.Password
	}
	if cfg.Path == "" {
		cfg.Path = file.Path
	}
	if cfg.Capture == "" {
		cfg.Capture = file.Capture
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = file.LogLevel
	}
	cfg.UseTLS = cfg.UseTLS || file.UseTLS

	return nil
}

// buildLogger assembles the protocol event logger: always the slog
// adapter, plus a CBOR capture file when configured.
func buildLogger(slogger *slog.Logger) (log.Logger, func(), error) {
	adapter := log.NewSlogAdapter(slogger)
	if config.Capture == "" {
		return adapter, func() {}, nil
	}

	capture, err := log.NewFileLogger(config.Capture)
	if err != nil {
		return nil, nil, err
	}
	return log.NewMultiLogger(adapter, capture), func() { _ = capture.Close() }, nil
}

// discoverHub finds a hub via mDNS, by serial when one is configured.
func discoverHub(ctx context.Context) (*discovery.Hub, error) {
	browser := discovery.NewBrowser(discovery.BrowserConfig{})
	if config.Serial != "" {
		return browser.FindBySerial(ctx, config.Serial)
	}
	return browser.FindFirst(ctx)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
