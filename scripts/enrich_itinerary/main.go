package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/FACorreiaa/go-itinerary-enrichment/app/observability/metrics"
	"github.com/FACorreiaa/go-itinerary-enrichment/config"
	"github.com/FACorreiaa/go-itinerary-enrichment/internal/container"
	"github.com/FACorreiaa/go-itinerary-enrichment/internal/types"
)

var (
	file    = flag.String("file", "", "itinerary text file, reads stdin when empty")
	asJSON  = flag.Bool("json", false, "print the full run result as JSON instead of markdown")
	model   = flag.String("model", "", "override the Gemini model, e.g. gemini-2.0-flash")
	verbose = flag.Bool("v", false, "debug logging on stderr")
)

func main() {
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *model != "" {
		cfg.Gemini.Model = *model
	}

	text, err := readInput(*file)
	if err != nil {
		log.Fatalf("Failed to read itinerary: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// no exporter here; instruments just need a provider
	metrics.InitAppMetrics()

	c, err := container.NewContainer(ctx, &cfg, logger)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}

	result := c.Pipeline.Enrich(ctx, text)
	if err := write(os.Stdout, result, *asJSON); err != nil {
		log.Fatalf("Failed to write output: %v", err)
	}
	if result.Status != types.StatusSuccess {
		os.Exit(1)
	}
}

func readInput(path string) (string, error) {
	if path == "" {
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	return string(b), err
}

func write(w io.Writer, result *types.RunResult, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	if result.Status != types.StatusSuccess {
		_, err := fmt.Fprintf(w, "Error: %s\n", result.Error)
		return err
	}
	for _, warning := range result.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", warning)
	}
	_, err := io.WriteString(w, result.FormattedOutput)
	return err
}
