// Package artifact writes the generated JSON files and reads optionally
// zstd-compressed inputs.
package artifact

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog"
)

// ZstdExt is the suffix of compressed files.
const ZstdExt = ".zst"

// Writer writes whole-file JSON artifacts into a directory.
type Writer struct {
	dir  string
	zstd bool
	log  zerolog.Logger
}

// NewWriter creates dir if needed. With compress set, every artifact also
// gets a zstd-compressed copy next to it.
func NewWriter(dir string, compress bool, log zerolog.Logger) (*Writer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", dir, err)
	}
	return &Writer{dir: dir, zstd: compress, log: log}, nil
}

// Dir returns the output directory.
func (w *Writer) Dir() string {
	return w.dir
}

// WriteJSON encodes v compactly and overwrites dir/name.
func (w *Writer) WriteJSON(name string, v any) error {
	data, err := Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	ev := w.log.Debug().Str("file", name).Int("bytes", len(data))

	if w.zstd {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
		if err != nil {
			return err
		}
		compressed := enc.EncodeAll(data, nil)
		enc.Close()
		if err := os.WriteFile(path+ZstdExt, compressed, 0644); err != nil {
			return fmt.Errorf("write %s%s: %w", name, ZstdExt, err)
		}
		ev = ev.Int("zstd_bytes", len(compressed))
	}

	ev.Msg("wrote artifact")
	return nil
}

// Marshal encodes v as compact JSON without HTML escaping and without a
// trailing newline.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// ReadFile reads path, decompressing it when the name ends in ".zst".
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ZstdExt) {
		return data, nil
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress %s: %w", path, err)
	}
	return out, nil
}

// TrimZstdExt strips a trailing ".zst" so callers can inspect the inner
// extension.
func TrimZstdExt(name string) string {
	return strings.TrimSuffix(name, ZstdExt)
}
