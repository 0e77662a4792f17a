package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/supersafe-ai/guard-agent/internal/batch"
	"github.com/supersafe-ai/guard-agent/internal/setup"
	setuplogger "github.com/supersafe-ai/guard-agent/internal/setup/logger"
)

func main() {
	logger := setuplogger.New(os.Getenv("LOG_LEVEL"))
	log.Logger = logger

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found")
	}

	inputPath := flag.String("input", "", "JSONL file of guard requests")
	outputPath := flag.String("output", "", "output file (default stdout)")
	format := flag.String("format", batch.FormatJSONL, "output format: jsonl or summary")
	workers := flag.Int("workers", 4, "number of concurrent workers")
	continueOnError := flag.Bool("continue-on-error", false, "keep going past malformed records")
	dryRun := flag.Bool("dry-run", false, "parse input without running the guard chain")
	flag.Parse()

	if *inputPath == "" {
		log.Fatal().Msg("missing -input file")
	}

	input, err := os.Open(*inputPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *inputPath).Msg("Failed to open input")
	}
	defer input.Close()

	ctx := context.Background()

	reader := batch.NewReader(input, &logger)

	var records []batch.InputRecord
	malformed := 0
	for record := range reader.ReadAll(ctx) {
		if record.Error != nil {
			malformed++
			if !*continueOnError {
				log.Fatal().Err(record.Error).Msg("Malformed record")
			}
			continue
		}
		records = append(records, record)
	}

	if *dryRun {
		log.Info().
			Int("records", len(records)).
			Int("malformed", malformed).
			Msg("Dry run complete")
		return
	}

	cfg := setup.LoadConfig()
	deps, err := setup.Wire(ctx, cfg, &logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}

	output := os.Stdout
	if *outputPath != "" {
		output, err = os.Create(*outputPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", *outputPath).Msg("Failed to create output")
		}
		defer output.Close()
	}

	writer, err := batch.NewWriter(output, *format, &logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create writer")
	}

	processor := batch.NewProcessor(deps.Pipeline, *workers, &logger)

	start := time.Now()
	written := 0
	blocked := 0
	for result := range processor.Process(ctx, records) {
		if result.Blocked {
			blocked++
		}
		if err := writer.Write(result); err != nil {
			log.Fatal().Err(err).Msg("Failed to write result")
		}
		written++
	}

	if err := writer.Close(); err != nil {
		log.Fatal().Err(err).Msg("Failed to finalize output")
	}

	log.Info().
		Int("processed", written).
		Int("blocked", blocked).
		Int("malformed", malformed).
		Dur("elapsed", time.Since(start)).
		Msg("Batch run complete")
}
