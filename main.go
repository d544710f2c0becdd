// Command triomino runs the Triomino game server and its tooling.
//
// Subcommands:
//  1. "serve" (default) – runs the HTTP server exposing the REST API, WebSocket notifications and an /mcp endpoint
//  2. "mcp" – runs an MCP stdio server backed by an in-process game service
//  3. "simulate" – plays one seeded automated game and prints the result
//  4. "validate" – checks every rule variant in the config directory
//
// Defaults come from the environment (and a .env file when present); flags
// override them. Serving can optionally open an ngrok tunnel for easy
// external access during development.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/triomino-game/api"
	"github.com/wricardo/triomino-game/game/config"
	"github.com/wricardo/triomino-game/game/engine"
	"github.com/wricardo/triomino-game/game/service"
	"github.com/wricardo/triomino-game/game/session"
	"github.com/wricardo/triomino-game/game/simulate"
	"github.com/wricardo/triomino-game/transport/mcp"
	"github.com/wricardo/triomino-game/transport/websocket"
	"github.com/wricardo/triomino-game/validate"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Triomino Game Server"
)

// main loads the environment, then dispatches to the selected subcommand.
func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	} else {
		log.Println("Loaded environment variables from .env file")
	}

	settings, err := config.LoadSettings()
	if err != nil {
		log.Fatalf("Invalid settings: %v", err)
	}

	if err := newRootCommand(settings).Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// newRootCommand builds the command tree. Flag defaults come from settings.
func newRootCommand(settings *config.Settings) *cli.Command {
	return &cli.Command{
		Name:           "triomino",
		Usage:          AppName,
		Version:        Version,
		DefaultCommand: "serve",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config-dir", Value: settings.ConfigDir, Usage: "Directory containing rule variants"},
			&cli.BoolFlag{Name: "debug", Value: settings.Debug, Usage: "Enable debug logging"},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("debug") {
				log.SetFlags(log.LstdFlags | log.Lshortfile)
			} else {
				log.SetFlags(log.LstdFlags)
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Run HTTP server with API, WebSocket, and MCP endpoint",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "host", Value: settings.Host, Usage: "HTTP server host"},
					&cli.IntFlag{Name: "port", Value: settings.Port, Usage: "HTTP server port"},
					&cli.DurationFlag{Name: "session-ttl", Value: settings.SessionTTL, Usage: "Remove sessions idle for longer than this"},
					&cli.DurationFlag{Name: "cleanup-interval", Value: settings.CleanupInterval, Usage: "How often idle sessions are removed"},
					&cli.BoolFlag{Name: "ngrok", Value: settings.NgrokEnabled, Usage: "Enable ngrok tunnel"},
					&cli.StringFlag{Name: "ngrok-auth", Value: settings.NgrokAuthToken, Usage: "Ngrok auth token (or use NGROK_AUTHTOKEN env var)"},
					&cli.StringFlag{Name: "ngrok-domain", Value: settings.NgrokDomain, Usage: "Custom ngrok domain (optional)"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runHTTPServer(ctx, serveOptions{
						configDir:       cmd.String("config-dir"),
						addr:            fmt.Sprintf("%s:%d", cmd.String("host"), cmd.Int("port")),
						sessionTTL:      cmd.Duration("session-ttl"),
						cleanupInterval: cmd.Duration("cleanup-interval"),
						ngrok:           cmd.Bool("ngrok"),
						ngrokAuth:       cmd.String("ngrok-auth"),
						ngrokDomain:     cmd.String("ngrok-domain"),
					})
				},
			},
			{
				Name:  "mcp",
				Usage: "Run MCP stdio server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runStdioMCP(ctx, cmd.String("config-dir"), settings)
				},
			},
			{
				Name:  "simulate",
				Usage: "Play one automated game and print the result",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "config", Value: config.DefaultConfigName, Usage: "Rule variant to play"},
					&cli.Int64Flag{Name: "seed", Usage: "Shuffle seed (random when unset)"},
					&cli.IntFlag{Name: "players", Usage: "Number of players (0 uses the variant minimum)"},
					&cli.IntFlag{Name: "max-turns", Value: simulate.DefaultMaxTurns, Usage: "Stop after this many turns"},
					&cli.BoolFlag{Name: "draw", Value: true, Usage: "Draw from the pool instead of passing when stuck"},
					&cli.BoolFlag{Name: "json", Usage: "Print the full result as JSON"},
					&cli.BoolFlag{Name: "verbose", Usage: "Log every turn"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					seed := cmd.Int64("seed")
					if !cmd.IsSet("seed") {
						seed = time.Now().UnixNano()
					}
					return runSimulation(os.Stdout, cmd.String("config-dir"), cmd.String("config"), seed, cmd.Bool("json"), simulate.Options{
						Players:       cmd.Int("players"),
						MaxTurns:      cmd.Int("max-turns"),
						DrawWhenStuck: cmd.Bool("draw"),
						Verbose:       cmd.Bool("verbose"),
					})
				},
			},
			{
				Name:  "validate",
				Usage: "Validate every rule variant in the config directory",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runValidate(os.Stdout, cmd.String("config-dir"))
				},
			},
		},
	}
}

type serveOptions struct {
	configDir       string
	addr            string
	sessionTTL      time.Duration
	cleanupInterval time.Duration
	ngrok           bool
	ngrokAuth       string
	ngrokDomain     string
}

// runHTTPServer starts the HTTP server with REST API, WebSocket hub, and an /mcp endpoint.
// If ngrok is enabled, it also provisions a public tunnel.
func runHTTPServer(parent context.Context, opts serveOptions) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	hub := websocket.NewHub()
	go hub.Run(ctx)

	// Commands from any transport reach WebSocket viewers through the hub
	gameService, sessions, err := initializeServices(opts.configDir, service.WithEventHandler(hub.PublishCommand))
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	go sessions.RunCleanup(ctx, opts.cleanupInterval, opts.sessionTTL)

	apiServer := api.NewServer(gameService, hub)
	mcpServer := mcp.NewServer(gameService)

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/mcp", mcpServer.HTTPHandler())
	mainRouter.Handle("/", apiServer)

	httpServer := &http.Server{
		Addr:         opts.addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	serveErr := make(chan error, 1)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Printf("Starting %s v%s", AppName, Version)
		log.Printf("HTTP server listening on %s", opts.addr)
		log.Printf("REST API: http://%s/api", opts.addr)
		log.Printf("WebSocket: ws://%s/ws?session=<session_id>", opts.addr)
		log.Printf("MCP endpoint: http://%s/mcp", opts.addr)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	if opts.ngrok {
		wg.Add(1)
		go func() {
			defer wg.Done()
			serveNgrok(ctx, mainRouter, opts.ngrokAuth, opts.ngrokDomain)
		}()
	}

	var runErr error
	select {
	case sig := <-stop:
		log.Printf("Received signal: %v. Shutting down...", sig)
	case <-parent.Done():
		log.Println("Context cancelled. Shutting down...")
	case runErr = <-serveErr:
	}
	cancel()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	wg.Wait()
	log.Println("Server stopped")
	return runErr
}

// serveNgrok exposes handler through an ngrok tunnel until ctx is done
func serveNgrok(ctx context.Context, handler http.Handler, authToken, domain string) {
	if authToken == "" {
		log.Println("WARNING: Ngrok enabled but no auth token provided (use --ngrok-auth or NGROK_AUTHTOKEN env var)")
		return
	}

	log.Println("Starting ngrok tunnel...")

	var tunnel ngrokConfig.Tunnel
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
		log.Printf("Using custom ngrok domain: %s", domain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		log.Printf("Failed to start ngrok tunnel: %v", err)
		return
	}

	// Serve returns once the tunnel is closed
	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Printf("Failed to close ngrok tunnel: %v", err)
		}
	}()

	ngrokURL := tun.URL()
	log.Printf("🚀 Ngrok tunnel established: %s", ngrokURL)
	log.Printf("  REST API (ngrok): %s/api", ngrokURL)
	log.Printf("  MCP endpoint (ngrok): %s/mcp", ngrokURL)

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		log.Printf("Ngrok server error: %v", err)
	}
	log.Println("Ngrok tunnel closed")
}

// initializeServices wires the session and config managers into a game service.
func initializeServices(configDir string, opts ...service.Option) (service.GameService, *session.Manager, error) {
	configManager, err := config.NewManager(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	sessionManager := session.NewManager()
	gameService := service.NewGameService(sessionManager, configManager, opts...)

	return gameService, sessionManager, nil
}

// runStdioMCP serves the MCP tools over stdin/stdout with an in-process game
// service. Logs go to stderr so they never corrupt the protocol stream.
func runStdioMCP(ctx context.Context, configDir string, settings *config.Settings) error {
	gameService, sessions, err := initializeServices(configDir)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go sessions.RunCleanup(ctx, settings.CleanupInterval, settings.SessionTTL)

	log.Println("MCP stdio server ready")
	return mcp.NewServer(gameService).ServeStdio()
}

// runSimulation plays one automated game of the named variant and reports it to w
func runSimulation(w io.Writer, configDir, configName string, seed int64, asJSON bool, opts simulate.Options) error {
	configManager, err := config.NewManager(configDir)
	if err != nil {
		return fmt.Errorf("failed to create config manager: %w", err)
	}
	ruleConfig, err := configManager.LoadConfig(configName)
	if err != nil {
		return fmt.Errorf("config %s: %w", configName, err)
	}

	eng, err := engine.NewEngine(ruleConfig, engine.WithSeed(seed))
	if err != nil {
		return err
	}
	result, err := simulate.Play(eng, opts)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Seed int64 `json:"seed"`
			*simulate.Result
		}{seed, result})
	}

	fmt.Fprintf(w, "Seed: %d\n", seed)
	simulate.WriteSummary(w, result)
	return nil
}

// runValidate checks every variant in dir and fails when any is invalid
func runValidate(w io.Writer, dir string) error {
	results, err := validate.ValidateDir(dir)
	if err != nil {
		return err
	}
	if !validate.WriteReport(w, results) {
		return cli.Exit("some configurations have errors", 1)
	}
	return nil
}
