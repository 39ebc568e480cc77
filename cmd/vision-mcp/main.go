package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ironsheep/vision-tools-mcp/internal/config"
	"github.com/ironsheep/vision-tools-mcp/internal/pipeline"
	"github.com/ironsheep/vision-tools-mcp/internal/server"
	"github.com/ironsheep/vision-tools-mcp/internal/tracking"
	"github.com/ironsheep/vision-tools-mcp/internal/viewer"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func usage() {
	fmt.Println("vision-mcp - MCP server for binary-image analysis and object tracking")
	fmt.Println()
	fmt.Println("Usage: vision-mcp [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --config PATH    YAML configuration file")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  VISION_MCP_CONFIG=PATH          Configuration file (--config wins)")
	fmt.Println("  VISION_MCP_LOG_LEVEL=debug      Enable debug logging")
	fmt.Println()
	fmt.Println("Tracker backends: " + strings.Join(tracking.Available(), ", "))
	fmt.Println()
	fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
}

func main() {
	configPath := os.Getenv("VISION_MCP_CONFIG")

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; {
		case arg == "--version" || arg == "-v" || arg == "version":
			fmt.Printf("vision-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case arg == "--help" || arg == "-h" || arg == "help":
			usage()
			return
		case arg == "--config":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "--config needs a path")
				os.Exit(2)
			}
			i++
			configPath = args[i]
		case strings.HasPrefix(arg, "--config="):
			configPath = strings.TrimPrefix(arg, "--config=")
		default:
			fmt.Fprintf(os.Stderr, "unknown option: %s\n", arg)
			os.Exit(2)
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	debug := os.Getenv("VISION_MCP_LOG_LEVEL") == "debug"
	if debug {
		log.Printf("Vision MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	cfg := config.Defaults()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			log.Fatalf("Config error: %v", err)
		}
		cfg = loaded
		log.Printf("Configuration loaded from %s", configPath)
	}

	opts, err := cfg.EngineOptions()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var engine *pipeline.Engine
	var v *viewer.Viewer
	if cfg.Viewer.Addr != "" {
		v = viewer.New(func() pipeline.Status { return engine.Status() })
		opts.Sink = v
	}
	engine = pipeline.NewEngine(opts)
	if v != nil {
		go func() {
			if err := v.ListenAndServe(ctx, cfg.Viewer.Addr); err != nil {
				log.Printf("Viewer error: %v", err)
			}
		}()
	}

	if cfg.Template.Path != "" {
		if err := engine.LoadTemplate(cfg.Template.Path); err != nil {
			log.Printf("Template not loaded: %v", err)
		}
	}
	if cfg.Audio.Path != "" {
		if _, err := engine.LoadAudio(cfg.Audio.Path); err != nil {
			log.Printf("Audio not loaded: %v", err)
		}
	}

	ticking := make(chan struct{})
	go func() {
		defer close(ticking)
		engine.Run(ctx)
	}()

	srv := server.New(engine)
	srv.SetDebug(debug)
	err = srv.Run()

	// Stdin closed: stop the tick and release any live source.
	cancel()
	<-ticking
	engine.Close()
	if err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
