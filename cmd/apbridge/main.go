package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	_ "net/http/pprof"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/carlmjohnson/versioninfo"
	_ "github.com/joho/godotenv/autoload"
	cli "github.com/urfave/cli/v2"
	_ "go.uber.org/automaxprocs"
)

func main() {
	if err := run(os.Args); err != nil {
		slog.Error("exiting", "err", err)
		os.Exit(-1)
	}
}

func run(args []string) error {

	app := cli.App{
		Name:    "apbridge",
		Usage:   "publish local content as ActivityPub objects and activities",
		Version: versioninfo.Short(),
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "database-url",
			Usage:   "database connection string: sqlite://<path> or postgres://<user>:<pass>@<host>/<db>",
			Value:   "sqlite://data/apbridge/apbridge.sqlite",
			EnvVars: []string{"APBRIDGE_DATABASE_URL", "DATABASE_URL"},
		},
		&cli.StringFlag{
			Name:    "base-url",
			Usage:   "public base URL of the site; canonical URLs are built under it",
			Value:   "http://localhost:6700",
			EnvVars: []string{"APBRIDGE_BASE_URL"},
		},
		&cli.StringFlag{
			Name:    "mapping-config",
			Usage:   "path to YAML file mapping content types to ActivityPub objects (default: built-in mapping)",
			EnvVars: []string{"APBRIDGE_MAPPING_CONFIG"},
		},
		&cli.BoolFlag{
			Name:    "flat-tags",
			Usage:   "emit mentions directly as the tag list, instead of nested in a single list element",
			EnvVars: []string{"APBRIDGE_FLAT_TAGS"},
		},
		&cli.StringFlag{
			Name:    "env",
			Usage:   "operating environment (eg, 'prod', 'test')",
			Value:   "dev",
			EnvVars: []string{"ENVIRONMENT"},
		},
		&cli.StringFlag{
			Name:    "otel-exporter-otlp-endpoint",
			Usage:   "OTLP HTTP endpoint to export traces to; tracing is disabled if empty",
			EnvVars: []string{"OTEL_EXPORTER_OTLP_ENDPOINT"},
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "log verbosity level (eg: warn, info, debug)",
			EnvVars: []string{"APBRIDGE_LOG_LEVEL", "GO_LOG_LEVEL", "LOG_LEVEL"},
		},
	}

	app.Commands = []*cli.Command{
		renderCmd,
		resolveCmd,
		checkConfigCmd,
		seedCmd,
		serveCmd,
	}

	return app.Run(args)
}

func configLogger(cctx *cli.Context, writer io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cctx.String("log-level")) {
	case "error":
		level = slog.LevelError
	case "warn":
		level = slog.LevelWarn
	case "info":
		level = slog.LevelInfo
	case "debug":
		level = slog.LevelDebug
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(writer, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return logger
}

var serveCmd = &cli.Command{
	Name:  "serve",
	Usage: "run the apbridge HTTP daemon",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "bind",
			Usage:    "Specify the local IP/port to bind to",
			Required: false,
			Value:    ":6700",
			EnvVars:  []string{"APBRIDGE_BIND"},
		},
		&cli.StringFlag{
			Name:    "metrics-listen",
			Usage:   "IP or address, and port, to listen on for metrics APIs",
			Value:   ":3989",
			EnvVars: []string{"APBRIDGE_METRICS_LISTEN"},
		},
		&cli.IntFlag{
			Name:    "entity-cache-size",
			Usage:   "number of loaded entities to keep in memory",
			Value:   10_000,
			EnvVars: []string{"APBRIDGE_ENTITY_CACHE_SIZE"},
		},
		&cli.DurationFlag{
			Name:    "entity-cache-ttl",
			Usage:   "how long loaded entities are cached",
			Value:   time.Minute * 5,
			EnvVars: []string{"APBRIDGE_ENTITY_CACHE_TTL"},
		},
	},
	Action: func(cctx *cli.Context) error {
		logger := configLogger(cctx, os.Stdout)

		shutdownTracing, err := setupOTEL(cctx)
		if err != nil {
			return fmt.Errorf("failed to set up tracing: %w", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
			defer cancel()
			if err := shutdownTracing(ctx); err != nil {
				slog.Error("failed to shutdown trace exporter", "error", err)
			}
		}()

		app, err := loadApp(cctx, logger)
		if err != nil {
			return err
		}

		srv, err := NewServer(
			Config{
				Logger:    logger,
				App:       app,
				Bind:      cctx.String("bind"),
				CacheSize: cctx.Int("entity-cache-size"),
				CacheTTL:  cctx.Duration("entity-cache-ttl"),
			},
		)
		if err != nil {
			return fmt.Errorf("failed to construct server: %v", err)
		}

		// prometheus HTTP endpoint: /metrics
		go func() {
			runtime.SetBlockProfileRate(10)
			runtime.SetMutexProfileFraction(10)
			if err := srv.RunMetrics(cctx.String("metrics-listen")); err != nil {
				slog.Error("failed to start metrics endpoint", "error", err)
				panic(fmt.Errorf("failed to start metrics endpoint: %w", err))
			}
		}()

		return srv.RunAPI()
	},
}
