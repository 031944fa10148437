package main

import (
	"context"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/freeeve/chessvideos/internal/artifact"
	"github.com/freeeve/chessvideos/internal/combine"
	"github.com/freeeve/chessvideos/internal/config"
	"github.com/freeeve/chessvideos/internal/eco"
	"github.com/freeeve/chessvideos/internal/httpapi"
	"github.com/freeeve/chessvideos/internal/ingest"
	"github.com/freeeve/chessvideos/internal/logx"
	"github.com/freeeve/chessvideos/internal/recordstore"
)

func main() {
	config.LoadDotEnv()
	defaults := config.FromEnv()

	var (
		dbDir     = flag.String("db", defaults.DBDir, "Record store directory")
		outDir    = flag.String("out", defaults.OutDir, "Directory with generated JSON (empty = disabled)")
		addr      = flag.String("addr", defaults.Addr, "listen address")
		ingestDir = flag.String("ingest", defaults.IngestDir, "Directory to watch for .ndjson record files (empty = disabled)")
		openings  = flag.String("openings", defaults.Openings, "Opening reference used when regenerating after ingest")
		zstd      = flag.Bool("zstd", false, "Also write zstd-compressed artifacts when regenerating")
		logLevel  = flag.String("log-level", defaults.LogLevel, "Log level (debug, info, warn, error)")
		logFormat = flag.String("log-format", "console", "Log format (console, json)")
	)
	flag.Parse()

	logger := logx.NewLogger(logx.Options{Level: *logLevel, Format: *logFormat})

	store, err := recordstore.Open(*dbDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("open record store")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ingestCfg := ingest.Config{
		WatchDir: *ingestDir,
		Logger:   logger.With().Str("component", "ingest").Logger(),
	}
	if *outDir != "" {
		ingestCfg.AfterBatch = func() error {
			return regenerate(logger, store, *openings, *outDir, *zstd)
		}
	}
	worker, err := ingest.NewWorker(ingestCfg, store)
	if err != nil {
		logger.Fatal().Err(err).Msg("create ingest worker")
	}
	if worker != nil {
		go func() {
			if err := worker.Run(ctx); err != nil && err != context.Canceled {
				logger.Error().Err(err).Msg("ingest worker stopped")
			}
		}()
	}

	srv := &http.Server{
		Addr:         *addr,
		Handler:      httpapi.NewRouter(logger.With().Str("component", "http").Logger(), store, *outDir),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Str("db", store.Dir()).Str("out", *outDir).Msg("api listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("api server")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("http server shutdown error")
	}
	logger.Info().Msg("shutdown complete")
}

// regenerate rebuilds every artifact from the current store contents.
func regenerate(logger zerolog.Logger, store recordstore.Reader, openings, outDir string, compress bool) error {
	ecoDB := eco.NewDatabase()
	if err := ecoDB.Load(openings); err != nil {
		logger.Warn().Err(err).Str("openings", openings).Msg("opening reference unavailable, openings.json will be empty")
	}
	c, err := combine.New(combine.Config{
		Store:    store,
		Openings: ecoDB,
		Logger:   logger.With().Str("component", "combine").Logger(),
	})
	if err != nil {
		return err
	}
	w, err := artifact.NewWriter(outDir, compress, logger.With().Str("component", "artifact").Logger())
	if err != nil {
		return err
	}
	_, err = c.Run(w)
	return err
}
