package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime/pprof"
	"syscall"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/cheggaaa/pb/v3/termutil"
	"github.com/dustin/go-humanize"
	"github.com/royalcat/islandsupport/batch"
	"github.com/royalcat/islandsupport/internal/telemetry"
	"github.com/royalcat/islandsupport/sampler"
	"github.com/royalcat/islandsupport/server"
	"golang.org/x/exp/mmap"

	_ "net/http/pprof"

	_ "github.com/KimMachineGun/automemlimit"
	"github.com/urfave/cli/v3"
	_ "go.uber.org/automaxprocs"
)

const appName = "islandsupport"

func main() {
	app := &cli.App{
		Name:        appName,
		Description: "Support point sampler for sliced print islands",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "serve a sampling api",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Value: ":8080",
					},
					&cli.StringFlag{
						Name:      "config",
						Aliases:   []string{"c"},
						TakesFile: true,
					},
					&cli.StringFlag{
						Name:  "otel-endpoint",
						Usage: "OTLP/HTTP endpoint for metrics, traces and logs",
					},
				},
				Action: serve,
			},
			{
				Name:    "sample",
				Aliases: []string{"s"},
				Usage:   "samples support points of islands into a geojson file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:      "input",
						Aliases:   []string{"i"},
						Required:  true,
						TakesFile: true,
					},
					&cli.StringFlag{
						Name:      "output",
						Aliases:   []string{"o"},
						Required:  true,
						TakesFile: true,
					},
					&cli.StringFlag{
						Name:      "config",
						Aliases:   []string{"c"},
						TakesFile: true,
					},
					&cli.IntFlag{
						Name:        "threads",
						Aliases:     []string{"t"},
						DefaultText: "max",
					},
					&cli.BoolFlag{
						Name:    "verbose",
						Aliases: []string{"v"},
					},
					&cli.StringFlag{
						Name:  "otel-endpoint",
						Usage: "OTLP/HTTP endpoint for metrics, traces and logs",
					},
					&cli.StringFlag{
						Name:        "pprof.listen",
						DefaultText: "",
					},
					&cli.BoolFlag{
						Name:        "pprof.profile",
						DefaultText: "",
					},
				},
				Action: sample,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func sample(ctx *cli.Context) error {
	runCtx, stop := signal.NotifyContext(ctx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	level := slog.LevelInfo
	if ctx.Bool("verbose") {
		level = slog.LevelDebug
	}
	client, err := telemetry.Setup(runCtx, telemetry.Config{
		AppName:  appName,
		Endpoint: ctx.String("otel-endpoint"),
		Level:    level,
	})
	if err != nil {
		return fmt.Errorf("failed to setup telemetry: %w", err)
	}
	defer shutdownTelemetry(client)
	log := slog.Default()

	if pprofListen := ctx.String("pprof.listen"); pprofListen != "" {
		go func() {
			log.Info("Starting pprof server")
			err := http.ListenAndServe(pprofListen, nil)
			if err != nil {
				log.Error("Error starting pprof server", "error", err)
			}
		}()
	}
	if ctx.Bool("pprof.profile") {
		f, err := os.OpenFile("profile.cpu.pprof", os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			return fmt.Errorf("error creating pprof file: %w", err)
		}
		err = pprof.StartCPUProfile(f)
		if err != nil {
			return fmt.Errorf("error starting pprof: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	cfg, err := sampler.LoadConfig(ctx.String("config"))
	if err != nil {
		return err
	}

	input := ctx.String("input")
	file, err := mmap.Open(input)
	if err != nil {
		return err
	}
	defer file.Close()

	in, err := batch.Decode(io.NewSectionReader(file, 0, int64(file.Len())))
	if err != nil {
		return err
	}
	islands, err := in.Islands()
	if err != nil {
		return err
	}
	log.Info("Islands loaded", "input", input, "islands", len(islands))

	bar := pb.Start64(int64(len(islands)))
	bar.Set("prefix", "sampling islands")
	bar.SetRefreshRate(time.Second)
	if w, err := termutil.TerminalWidth(); w == 0 || err != nil {
		bar.SetTemplateString(`{{with string . "prefix"}}{{.}} {{end}}{{counters . }} {{bar . }} {{percent . }} {{speed . }} {{rtime . "ETA %s"}}{{with string . "suffix"}} {{.}}{{end}}` + "\n")
	}

	runner := batch.Runner{
		Sampler:  sampler.New(cfg, sampler.WithLogger(log)),
		Threads:  ctx.Int("threads"),
		Progress: func() { bar.Increment() },
	}
	results, err := runner.Run(runCtx, islands)
	bar.Finish()
	if err != nil {
		return fmt.Errorf("sampling failed: %w", err)
	}

	output := ctx.String("output")
	out, err := os.Create(output)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := batch.WriteGeoJSON(out, results); err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	points := 0
	for _, r := range results {
		points += len(r.Points)
	}
	var size string
	if stat, err := os.Stat(output); err == nil {
		size = humanize.Bytes(uint64(stat.Size()))
	}
	log.Info("Complete", "output", output, "points", points, "size", size)

	return nil
}

func serve(ctx *cli.Context) error {
	runCtx, stop := signal.NotifyContext(ctx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := telemetry.Setup(runCtx, telemetry.Config{
		AppName:             appName,
		Endpoint:            ctx.String("otel-endpoint"),
		PrometheusNamespace: appName,
		Level:               slog.LevelDebug,
	})
	if err != nil {
		return fmt.Errorf("failed to setup telemetry: %w", err)
	}
	defer shutdownTelemetry(client)

	cfg, err := sampler.LoadConfig(ctx.String("config"))
	if err != nil {
		return err
	}

	return server.Run(runCtx, ctx.String("listen"), sampler.New(cfg))
}

func shutdownTelemetry(client *telemetry.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Flush(ctx); err != nil {
		slog.Error("failed to flush telemetry", "error", err)
	}
	client.Shutdown(ctx)
}
