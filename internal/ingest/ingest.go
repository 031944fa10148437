package ingest

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/freeeve/chessvideos/internal/artifact"
	"github.com/freeeve/chessvideos/internal/recordstore"
)

// Config configures the ingest worker.
type Config struct {
	WatchDir     string         // Directory to watch for record files
	ProcessedDir string         // Directory to move imported files to
	FailedDir    string         // Directory to move rejected files to
	PollInterval time.Duration  // How often to check for new files
	Logger       zerolog.Logger // Logger

	// AfterBatch runs once after every batch that imported at least one
	// file, e.g. to regenerate artifacts.
	AfterBatch func() error
}

// Worker watches a folder and imports newline-delimited record files into
// the store. Files are processed one at a time in name order.
type Worker struct {
	cfg   Config
	store recordstore.Writer
	log   zerolog.Logger
}

// NewWorker creates a new ingest worker. It returns nil when WatchDir is empty.
func NewWorker(cfg Config, store recordstore.Writer) (*Worker, error) {
	if cfg.WatchDir == "" {
		return nil, nil // Disabled
	}
	if cfg.ProcessedDir == "" {
		cfg.ProcessedDir = filepath.Join(cfg.WatchDir, "processed")
	}
	if cfg.FailedDir == "" {
		cfg.FailedDir = filepath.Join(cfg.WatchDir, "failed")
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = 10 * time.Second
	}

	for _, dir := range []string{cfg.WatchDir, cfg.ProcessedDir, cfg.FailedDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	return &Worker{
		cfg:   cfg,
		store: store,
		log:   cfg.Logger,
	}, nil
}

// Run polls the watch directory until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	w.log.Info().
		Str("watch_dir", w.cfg.WatchDir).
		Str("processed_dir", w.cfg.ProcessedDir).
		Dur("poll", w.cfg.PollInterval).
		Msg("ingest worker started")

	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.ProcessNewFiles(ctx); err != nil {
				w.log.Warn().Err(err).Msg("process files failed")
			}
		}
	}
}

// ProcessNewFiles imports every pending file and returns how many were
// imported. Rejected files are moved to FailedDir.
func (w *Worker) ProcessNewFiles(ctx context.Context) (int, error) {
	entries, err := os.ReadDir(w.cfg.WatchDir)
	if err != nil {
		return 0, err
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && isRecordFile(e.Name()) {
			files = append(files, e.Name())
		}
	}
	if len(files) == 0 {
		return 0, nil
	}
	sort.Strings(files)
	w.log.Info().Int("files", len(files)).Msg("found record files to import")

	var processed, failed int
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return processed, err
		}

		n, err := w.processFile(filepath.Join(w.cfg.WatchDir, name))
		dest := w.cfg.ProcessedDir
		if err != nil {
			w.log.Error().Err(err).Str("file", name).Int("imported", n).Msg("ingest failed")
			dest = w.cfg.FailedDir
			failed++
		} else {
			w.log.Info().Str("file", name).Int("records", n).Msg("file imported")
			processed++
		}

		if err := os.Rename(filepath.Join(w.cfg.WatchDir, name), filepath.Join(dest, name)); err != nil {
			w.log.Warn().Err(err).Str("file", name).Msg("move file failed")
		}
	}

	w.log.Info().Int("processed", processed).Int("failed", failed).Msg("batch complete")
	if processed > 0 && w.cfg.AfterBatch != nil {
		if err := w.cfg.AfterBatch(); err != nil {
			return processed, err
		}
	}
	return processed, nil
}

func (w *Worker) processFile(path string) (int, error) {
	data, err := artifact.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return recordstore.Import(w.store, bytes.NewReader(data))
}

func isRecordFile(name string) bool {
	return strings.HasSuffix(artifact.TrimZstdExt(name), ".ndjson")
}
