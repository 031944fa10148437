// Package eco loads the ECO (Encyclopedia of Chess Openings) reference list
// and matches it against game move text.
package eco

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/freeeve/chessvideos/internal/artifact"
)

// Opening is one entry of the reference list.
type Opening struct {
	ECO  string `json:"eco"`
	Name string `json:"name"`
	PGN  string `json:"pgn"`
}

// Slim is the published form of an opening observed in at least one game.
type Slim struct {
	Name  string `json:"name"`
	Moves string `json:"moves"`
}

// Database holds the reference openings in load order.
type Database struct {
	openings []Opening
}

// NewDatabase creates an empty ECO database.
func NewDatabase() *Database {
	return &Database{}
}

// Load loads path with LoadDir when it is a directory and LoadFile otherwise.
func (db *Database) Load(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return db.LoadDir(path)
	}
	return db.LoadFile(path)
}

// LoadDir loads all .json and .tsv files (optionally .zst compressed) from a
// directory in name order.
func (db *Database) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(artifact.TrimZstdExt(e.Name())) {
		case ".json", ".tsv":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		return fmt.Errorf("no .json or .tsv files found in %s", dir)
	}
	sort.Strings(files)

	for _, file := range files {
		if err := db.LoadFile(file); err != nil {
			return fmt.Errorf("load %s: %w", file, err)
		}
	}
	return nil
}

// LoadFile loads a JSON array of {eco, name, pgn} objects, or a TSV file
// with eco, name and pgn columns. A ".zst" suffix is decompressed first.
func (db *Database) LoadFile(path string) error {
	data, err := artifact.ReadFile(path)
	if err != nil {
		return err
	}

	if filepath.Ext(artifact.TrimZstdExt(path)) == ".tsv" {
		return db.loadTSV(data)
	}

	var openings []Opening
	if err := json.Unmarshal(data, &openings); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	db.openings = append(db.openings, openings...)
	return nil
}

func (db *Database) loadTSV(data []byte) error {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		// Skip header
		if lineNum == 1 && strings.HasPrefix(line, "eco\t") {
			continue
		}

		parts := strings.SplitN(line, "\t", 3)
		if len(parts) != 3 {
			continue
		}
		db.openings = append(db.openings, Opening{ECO: parts[0], Name: parts[1], PGN: parts[2]})
	}

	return scanner.Err()
}

// Add appends openings to the database.
func (db *Database) Add(openings ...Opening) {
	db.openings = append(db.openings, openings...)
}

// Openings returns the loaded openings in load order.
func (db *Database) Openings() []Opening {
	return db.openings
}

// Count returns the number of openings loaded.
func (db *Database) Count() int {
	return len(db.openings)
}

// Filter keeps the openings whose move text is a literal prefix of at least
// one of pgns, in load order, renamed to "<eco> - <name>".
func (db *Database) Filter(pgns []string) []Slim {
	out := []Slim{}
	for _, o := range db.openings {
		if !prefixOfAny(o.PGN, pgns) {
			continue
		}
		out = append(out, Slim{
			Name:  o.ECO + " - " + o.Name,
			Moves: o.PGN,
		})
	}
	return out
}

func prefixOfAny(prefix string, texts []string) bool {
	for _, t := range texts {
		if strings.HasPrefix(t, prefix) {
			return true
		}
	}
	return false
}
