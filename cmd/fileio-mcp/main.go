package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/agentfs/fileio-mcp/internal/config"
	"github.com/agentfs/fileio-mcp/internal/fileio"
	"github.com/agentfs/fileio-mcp/internal/logging"
	"github.com/agentfs/fileio-mcp/internal/monitoring"
	"github.com/agentfs/fileio-mcp/internal/registry"
	"github.com/agentfs/fileio-mcp/internal/server"
)

// Version information, overridden at build time via ldflags.
var (
	appVersion = "dev"
	appCommit  = "none"
)

// CLI is the command line interface structure.
type CLI struct {
	Serve   ServeCmd   `cmd:"" default:"withargs" help:"Start the tool server"`
	Tools   ToolsCmd   `cmd:"" help:"List the tool catalog and exit"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

// ServeCmd starts the server in one of the two transport modes.
type ServeCmd struct {
	Mode   string `help:"Transport mode" enum:"stdio,websocket" default:"stdio"`
	Host   string `help:"Bind host (websocket mode)" default:""`
	Port   string `help:"Bind port (websocket mode)" default:""`
	Config string `help:"Path to YAML config file" type:"path"`
	Dev    bool   `help:"Development logging (console encoder, debug level)"`
}

// ToolsCmd prints every registered tool name and description.
type ToolsCmd struct{}

// VersionCmd prints version information.
type VersionCmd struct{}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("fileio-mcp"),
		kong.Description("Filesystem tool server speaking JSON-RPC over stdio or WebSocket"),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	)
	if err := ctx.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "fileio-mcp: %v\n", err)
		os.Exit(1)
	}
}

// Run starts the server and blocks until shutdown.
func (s *ServeCmd) Run() error {
	cfg, err := s.loadConfig()
	if err != nil {
		return err
	}

	logCfg := logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development || s.Dev,
		OutputPaths: []string{"stderr"},
	}
	if s.Dev {
		logCfg.Level = "debug"
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	reg, err := registry.New(logger.Logger, fileio.Tools()...)
	if err != nil {
		return fmt.Errorf("failed to build tool registry: %w", err)
	}
	logger.Info("tool registry ready",
		zap.Int("tools", reg.Len()),
		zap.String("version", appVersion))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch s.Mode {
	case "websocket":
		metrics := monitoring.NewMetrics()
		runner := server.NewRunner(reg, logger.Logger, metrics, cfg, appVersion)
		return server.NewWebSocket(runner).Run(ctx)
	default:
		runner := server.NewRunner(reg, logger.Logger, nil, cfg, appVersion)
		return runner.RunStdio(ctx)
	}
}

func (s *ServeCmd) loadConfig() (*config.Config, error) {
	if s.Config != "" {
		cfg, err := config.LoadFile(s.Config)
		if err != nil {
			return nil, err
		}
		s.applyOverrides(cfg)
		return cfg, nil
	}
	cfg := config.LoadOrDefault()
	s.applyOverrides(cfg)
	return cfg, nil
}

func (s *ServeCmd) applyOverrides(cfg *config.Config) {
	if s.Host != "" {
		cfg.Server.Host = s.Host
	}
	if s.Port != "" {
		cfg.Server.Port = s.Port
	}
}

// Run prints the tool catalog.
func (t *ToolsCmd) Run() error {
	reg, err := registry.New(nil, fileio.Tools()...)
	if err != nil {
		return err
	}
	for _, info := range reg.List() {
		marker := " "
		if info.Annotations != nil && info.Annotations.Dangerous {
			marker = "!"
		}
		fmt.Printf("%s %-32s %s\n", marker, info.Name, info.Description)
	}
	return nil
}

// Run prints version information.
func (v *VersionCmd) Run() error {
	fmt.Printf("fileio-mcp %s (%s)\n", appVersion, appCommit)
	return nil
}
