// Package main is the storey command. It builds the stacked 3D scene of a
// building from one floor-plan drawing per level and prints the floor
// listing, or the whole scene as JSON for an external renderer.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"

	"github.com/chazu/storey/pkg/config"
	"github.com/chazu/storey/pkg/observability"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "building.yaml", "path to configuration file")
	asJSON := flag.Bool("json", false, "write the scene as JSON to stdout")
	hide := flag.String("hide", "", "comma-separated floors to hide")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := NewApp(cfg, logger)
	result := app.Load(ctx)
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			logger.Error("building not loaded", zap.Int("line", e.Line), zap.String("message", e.Message))
		}
		os.Exit(1)
	}

	for _, name := range splitNames(*hide) {
		if err := app.SetFloorVisible(name, false); err != nil {
			logger.Warn("hiding floor", zap.String("floor", name), zap.Error(err))
		}
	}
	if *hide != "" {
		result.Floors = app.Floors()
		result.Meshes = app.Meshes()
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		if err := enc.Encode(result); err != nil {
			logger.Fatal("writing scene", zap.Error(err))
		}
	} else {
		printFloors(os.Stdout, result)
	}

	logger.Info("building loaded",
		zap.String("run_id", result.RunID),
		zap.Int("floors", len(result.Floors)),
		zap.Int("meshes", len(result.Meshes)),
		zap.Duration("elapsed", time.Since(start)),
	)
}

func splitNames(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func printFloors(w io.Writer, result LoadResult) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FLOOR\tELEVATION\tTRIANGLES\tSTATE")
	for _, f := range result.Floors {
		state := "visible"
		switch {
		case !f.Enabled:
			state = "failed (" + f.ErrorKind + "): " + f.Error
		case !f.Visible:
			state = "hidden"
		case len(f.Warnings) > 0:
			state = "visible, " + strings.Join(f.Warnings, "; ")
		}
		fmt.Fprintf(tw, "%s\t%.3f\t%d\t%s\n", f.Name, f.Elevation, f.Triangles, state)
	}
	tw.Flush()
}
