// Package main provides the Loom client runtime: a headless client that
// connects to an embedding host bridge over a websocket, speaks the
// versioned host protocol, and maintains widget state for a backend script
// session.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/net/websocket"

	appconfig "github.com/loomhq/loom/pkg/config"
	"github.com/loomhq/loom/pkg/hostcomm"
	"github.com/loomhq/loom/pkg/logging"
	"github.com/loomhq/loom/pkg/session"
	"github.com/loomhq/loom/pkg/types"
)

const version = "0.1.0"

// Config holds the application configuration.
type Config struct {
	HostURL     string
	Origin      string
	ManifestURL string
	ConfigPath  string
	ShowVersion bool
}

func main() {
	config := parseFlags()

	if config.ShowVersion {
		fmt.Printf("Loom v%s\n", version)
		return
	}

	if err := config.validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nShutting down gracefully...")
		cancel()
	}()

	if runErr := run(ctx, config); runErr != nil {
		cancel()
		log.Fatalf("Application error: %v", runErr)
	}
}

// parseFlags parses command line flags and environment variables.
func parseFlags() *Config {
	config := &Config{}

	flag.StringVar(&config.HostURL, "host-url", os.Getenv("LOOM_HOST_URL"), "Websocket URL of the host bridge (or set LOOM_HOST_URL env var)")
	flag.StringVar(&config.Origin, "origin", os.Getenv("LOOM_ORIGIN"), "Origin to present when dialing the host bridge")
	flag.StringVar(&config.ManifestURL, "manifest-url", os.Getenv("LOOM_MANIFEST_URL"), "URL of the backend's allowed-origins manifest")
	flag.StringVar(&config.ConfigPath, "config", "", "Path to the config file (default: ~/.loom/config.yaml)")
	flag.BoolVar(&config.ShowVersion, "version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Loom - client runtime for host-embedded app sessions\n\n")
		fmt.Fprintf(os.Stderr, "Usage: loom [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  LOOM_HOST_URL       Websocket URL of the host bridge\n")
		fmt.Fprintf(os.Stderr, "  LOOM_ORIGIN         Origin presented to the host bridge\n")
		fmt.Fprintf(os.Stderr, "  LOOM_MANIFEST_URL   Allowed-origins manifest URL\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  loom -host-url ws://localhost:8501/host -manifest-url http://localhost:8501/origins\n")
	}

	flag.Parse()
	return config
}

// validate checks the configuration for required values.
func (c *Config) validate() error {
	if c.HostURL == "" {
		return fmt.Errorf("host URL is required (use -host-url or LOOM_HOST_URL)")
	}
	if c.ManifestURL == "" {
		return fmt.Errorf("manifest URL is required (use -manifest-url or LOOM_MANIFEST_URL)")
	}
	return nil
}

// logBackend is the backend used when no script runner is attached: it
// records the effects the session drives so host wiring can be exercised
// end to end.
type logBackend struct {
	logger *logging.Logger
}

func (b *logBackend) SendRerun(req types.RerunRequest) {
	b.logger.Infof("rerun requested: %d widget states, page %q", len(req.WidgetStates), req.PageScriptHash)
}

func (b *logBackend) StopScript() {
	b.logger.Infof("stop script requested")
}

func (b *logBackend) ClearCache() {
	b.logger.Infof("clear cache requested")
}

func run(ctx context.Context, config *Config) error {
	if err := appconfig.Initialize(config.ConfigPath); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	logger, err := logging.NewLogger("main")
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	fetchCtx, cancelFetch := context.WithTimeout(ctx, 10*time.Second)
	manifest, err := hostcomm.FetchOriginsManifest(fetchCtx, http.DefaultClient, config.ManifestURL)
	cancelFetch()
	if err != nil {
		return fmt.Errorf("failed to fetch origins manifest: %w", err)
	}

	origin := config.Origin
	if origin == "" {
		origin = "http://localhost"
	}
	conn, err := websocket.Dial(config.HostURL, "", origin)
	if err != nil {
		return fmt.Errorf("failed to dial host bridge: %w", err)
	}

	transport := hostcomm.NewWebsocketTransport(conn)
	defer transport.Close()

	sess := session.New(session.Props{
		Backend:   &logBackend{logger: logger},
		Transport: transport,
		Logger:    logger,
	})

	if err := sess.Open(manifest); err != nil {
		return fmt.Errorf("failed to open host communication: %w", err)
	}

	token, err := sess.ClaimAuthToken(ctx)
	if err != nil {
		return fmt.Errorf("failed to obtain auth token: %w", err)
	}
	if token != nil {
		logger.Infof("received external auth token")
	} else {
		logger.Infof("host requires no external auth token")
	}

	logger.Infof("session open, pumping host messages from %s", config.HostURL)
	sess.Run(ctx)
	return nil
}
