package main

import (
	"flag"

	"github.com/freeeve/chessvideos/internal/artifact"
	"github.com/freeeve/chessvideos/internal/combine"
	"github.com/freeeve/chessvideos/internal/config"
	"github.com/freeeve/chessvideos/internal/eco"
	"github.com/freeeve/chessvideos/internal/logx"
	"github.com/freeeve/chessvideos/internal/recordstore"
)

func main() {
	envFile := config.LoadDotEnv()
	defaults := config.FromEnv()

	var (
		dbDir     = flag.String("db", defaults.DBDir, "Record store directory")
		openings  = flag.String("openings", defaults.Openings, "Opening reference file or directory (.json/.tsv, optionally .zst)")
		outDir    = flag.String("out", defaults.OutDir, "Output directory for generated JSON")
		zstd      = flag.Bool("zstd", false, "Also write zstd-compressed copies of each artifact")
		logLevel  = flag.String("log-level", defaults.LogLevel, "Log level (debug, info, warn, error)")
		logFormat = flag.String("log-format", "console", "Log format (console, json)")
	)
	flag.Parse()

	logger := logx.NewLogger(logx.Options{Level: *logLevel, Format: *logFormat})
	if envFile != "" {
		logger.Debug().Str("file", envFile).Msg("loaded .env")
	}

	store, err := recordstore.Open(*dbDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("open record store")
	}

	ecoDB := eco.NewDatabase()
	if err := ecoDB.Load(*openings); err != nil {
		logger.Fatal().Err(err).Str("openings", *openings).Msg("load opening reference")
	}
	logger.Info().Int("openings", ecoDB.Count()).Msg("opening reference loaded")

	c, err := combine.New(combine.Config{
		Store:    store,
		Openings: ecoDB,
		Logger:   logger.With().Str("component", "combine").Logger(),
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("create combiner")
	}

	w, err := artifact.NewWriter(*outDir, *zstd, logger.With().Str("component", "artifact").Logger())
	if err != nil {
		logger.Fatal().Err(err).Msg("create artifact writer")
	}

	if _, err := c.Run(w); err != nil {
		logger.Fatal().Err(err).Msg("combine failed")
	}
	logger.Info().Str("out", w.Dir()).Msg("artifacts written")
}
