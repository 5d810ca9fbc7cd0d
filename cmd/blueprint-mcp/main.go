package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/ironsheep/blueprint-tools/internal/config"
	"github.com/ironsheep/blueprint-tools/internal/logging"
	"github.com/ironsheep/blueprint-tools/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("blueprint-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("blueprint-mcp - MCP server for floor plan extraction and rendering")
			fmt.Println()
			fmt.Println("Usage: blueprint-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  BLUEPRINT_LOG_LEVEL=debug|info|warn|error    Log level (default warn)")
			fmt.Println("  BLUEPRINT_CONFIG=/path/config.json           Pipeline configuration")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			return
		}
	}

	// Logging goes to stderr; stdout is for the MCP protocol
	logger := logging.FromEnv(slog.LevelWarn)
	logger.Debug("starting blueprint-mcp", "version", Version, "built", BuildTime, "commit", GitCommit)

	cfg := config.DefaultConfig()
	if path := os.Getenv("BLUEPRINT_CONFIG"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			logger.Error("failed to load config, using defaults", "path", path, "error", err)
		}
	}

	srv := server.New(
		server.WithConfig(cfg),
		server.WithLogger(logger),
		server.WithVersion(Version),
	)
	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
