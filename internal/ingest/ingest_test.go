package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog"

	"github.com/freeeve/chessvideos/internal/recordstore"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
}

func TestNewWorkerDisabled(t *testing.T) {
	w, err := NewWorker(Config{}, recordstore.NewMemStore())
	if err != nil || w != nil {
		t.Errorf("NewWorker without WatchDir = (%v, %v), want (nil, nil)", w, err)
	}
}

func TestProcessNewFiles(t *testing.T) {
	dir := t.TempDir()
	store := recordstore.NewMemStore()

	batches := 0
	w, err := NewWorker(Config{
		WatchDir:   dir,
		Logger:     zerolog.Nop(),
		AfterBatch: func() error { batches++; return nil },
	}, store)
	if err != nil {
		t.Fatalf("NewWorker: %v", err)
	}

	writeFile(t, filepath.Join(dir, "a.ndjson"),
		[]byte(`{"namespace":"videoGame","id":"v1","value":{"playerWhite":"Morphy","pgn":"1. e4"}}`+"\n"))

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatal(err)
	}
	compressed := enc.EncodeAll([]byte(`{"namespace":"chessCom","id":"v1","value":{"result":"1-0"}}`+"\n"), nil)
	enc.Close()
	writeFile(t, filepath.Join(dir, "b.ndjson.zst"), compressed)

	writeFile(t, filepath.Join(dir, "c.ndjson"), []byte(`{"namespace":"bogus","id":"v1","value":{}}`+"\n"))
	writeFile(t, filepath.Join(dir, "notes.txt"), []byte("left alone"))

	n, err := w.ProcessNewFiles(context.Background())
	if err != nil {
		t.Fatalf("ProcessNewFiles: %v", err)
	}
	if n != 2 {
		t.Errorf("processed %d files, want 2", n)
	}
	if batches != 1 {
		t.Errorf("AfterBatch ran %d times, want 1", batches)
	}

	rec, err := recordstore.Load(store, "v1")
	if err != nil {
		t.Fatal(err)
	}
	if rec.VideoGame == nil || rec.VideoGame.PlayerWhite != "Morphy" {
		t.Errorf("VideoGame = %+v", rec.VideoGame)
	}
	if rec.ChessCom == nil || rec.ChessCom.Result != "1-0" {
		t.Errorf("ChessCom = %+v", rec.ChessCom)
	}

	for _, p := range []string{
		filepath.Join(dir, "processed", "a.ndjson"),
		filepath.Join(dir, "processed", "b.ndjson.zst"),
		filepath.Join(dir, "failed", "c.ndjson"),
		filepath.Join(dir, "notes.txt"),
	} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("expected %s: %v", p, err)
		}
	}

	// Nothing left to do: no batch hook.
	n, err = w.ProcessNewFiles(context.Background())
	if err != nil || n != 0 {
		t.Errorf("second pass = (%d, %v), want (0, nil)", n, err)
	}
	if batches != 1 {
		t.Errorf("AfterBatch ran %d times after empty pass, want 1", batches)
	}
}

func TestProcessNewFilesCancelled(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWorker(Config{WatchDir: dir, Logger: zerolog.Nop()}, recordstore.NewMemStore())
	if err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "a.ndjson"), []byte(`{"namespace":"videoGame","id":"v1","value":{}}`+"\n"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := w.ProcessNewFiles(ctx); err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "a.ndjson")); err != nil {
		t.Errorf("file should stay in watch dir: %v", err)
	}
}
