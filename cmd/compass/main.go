// Package main provides the Compass MCP server binary. Compass persists
// per-workspace goal metadata — goals, plans, dated learnings, and the active
// goal — on disk, and serves it to agents over the Model Context Protocol on
// stdio.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/entrhq/compass/pkg/config"
	"github.com/entrhq/compass/pkg/logging"
	compassmcp "github.com/entrhq/compass/pkg/mcp"
	"github.com/entrhq/compass/pkg/registry"
)

// version of the Compass server.
const version = "0.1.0"

func main() {
	var (
		configPath  = flag.String("config", "", "Path to YAML config file (default: <data-dir>/config.yaml)")
		dataDir     = flag.String("data-dir", "", "Application data directory (default: ~/.compass)")
		showVersion = flag.Bool("version", false, "Show version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("Compass v%s\n", version)
		return
	}

	// The server speaks MCP on stdout, so everything else goes to the log
	// file or stderr.
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	if err := run(ctx, *configPath, *dataDir); err != nil {
		cancel()
		log.Fatalf("compass: %v", err)
	}
	cancel()
}

func run(ctx context.Context, configPath, dataDir string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}

	logger, logErr := logging.New(cfg.LogDir, "server")
	if logErr != nil {
		logger.Warnf("file logging unavailable: %v", logErr)
	}
	defer logger.Close()

	reg := registry.New(cfg.DataDir)
	if err := reg.Init(); err != nil {
		return err
	}
	logger.Infof("workspace registry ready in %s", cfg.DataDir)

	server, err := compassmcp.New(cfg, reg, logger)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}
