package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/mirrwin/daymark/internal"
	"github.com/mirrwin/daymark/internal/countdown"
	"github.com/mirrwin/daymark/internal/eventservice"
	"github.com/mirrwin/daymark/internal/lunar"
	"github.com/mirrwin/daymark/internal/mcpserver"
	"github.com/mirrwin/daymark/internal/sharelink"
	"github.com/mirrwin/daymark/internal/store"
	pkgconfig "github.com/mirrwin/daymark/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.Load(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func runMCP(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	db, err := store.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	resolver := countdown.NewResolver(lunar.NewConverter())
	events := eventservice.NewService(db, resolver, nil)
	shares := sharelink.NewManager(db, events).WithDefaultTTL(cfg.Share.DefaultTTLDays)

	// MCP speaks JSON-RPC on stdout; keep logs off it.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.App.LogLevel})))

	srv := mcpserver.New(db, events, shares, cmd.String("user"))
	return srv.ServeStdio()
}

func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file",
		DefaultText: "config/config.yaml",
		Value:       "config/config.yaml",
		Sources:     cli.EnvVars("APP_CONFIG_FILE"),
	}
}

func main() {
	cmd := &cli.Command{
		Name:   "daymark",
		Usage:  "Countdown tracker for birthdays, anniversaries and festivals with lunar calendar support and expiring share links",
		Action: runServe,
		Flags:  []cli.Flag{configFlag()},
		Commands: []*cli.Command{
			{
				Name:   "mcp",
				Usage:  "Serve read-only countdown tools over MCP stdio for one account",
				Action: runMCP,
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:     "user",
						Usage:    "Username whose events the MCP tools expose",
						Required: true,
					},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
