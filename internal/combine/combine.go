// Package combine joins the record store into the JSON files read by the
// site: db.json, pgns.json, positions.json, openings-slim.json and b4.json.
package combine

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/freeeve/chessvideos/internal/artifact"
	"github.com/freeeve/chessvideos/internal/eco"
	"github.com/freeeve/chessvideos/internal/movetext"
	"github.com/freeeve/chessvideos/internal/recordstore"
)

// Output file names.
const (
	FileDB        = "db.json"
	FilePGNs      = "pgns.json"
	FilePositions = "positions.json"
	FileOpenings  = "openings-slim.json"
	FileB4        = "b4.json"
)

// Files lists every artifact a run writes.
func Files() []string {
	return []string{FileDB, FilePGNs, FilePositions, FileOpenings, FileB4}
}

// b4Regex matches b4 played as White's move: "12. b4" but not "12... b4".
var b4Regex = regexp.MustCompile(`\d\.\s+b4`)

// Config configures a Combiner.
type Config struct {
	Store    recordstore.Reader // required
	Openings *eco.Database      // nil means no reference openings
	Logger   zerolog.Logger
}

// Combiner builds the artifacts from a record store in one pass.
type Combiner struct {
	store    recordstore.Reader
	openings *eco.Database
	log      zerolog.Logger
}

// New creates a Combiner.
func New(cfg Config) (*Combiner, error) {
	if cfg.Store == nil {
		return nil, errors.New("combine: nil record store")
	}
	openings := cfg.Openings
	if openings == nil {
		openings = eco.NewDatabase()
	}
	return &Combiner{
		store:    cfg.Store,
		openings: openings,
		log:      cfg.Logger,
	}, nil
}

// Stats counts what a run saw.
type Stats struct {
	IDs            int
	Videos         int
	NoSnippet      int
	Games          int
	PGNs           int
	Positions      int
	ParseFailures  int
	DecodeFailures int
	Openings       int
	B4             int
}

// Artifacts is the in-memory result of a run.
type Artifacts struct {
	DB        DB
	PGNs      *PGNMap
	Positions *PositionIndex
	Openings  []eco.Slim
	B4        []string
	Stats     Stats
}

// Run builds the artifacts and writes them with w.
func (c *Combiner) Run(w *artifact.Writer) (*Artifacts, error) {
	a, err := c.Build()
	if err != nil {
		return nil, err
	}
	if err := a.Write(w); err != nil {
		return nil, err
	}
	return a, nil
}

// Build reads every id from the store and assembles the artifacts.
func (c *Combiner) Build() (*Artifacts, error) {
	start := time.Now()
	log := c.log.With().Str("run", uuid.NewString()).Logger()

	ids, err := c.store.IDs()
	if err != nil {
		return nil, err
	}
	log.Info().Int("ids", len(ids)).Msg("combine started")

	players := NewPlayerIndex()
	pgns := newPGNMap()
	var allPGNs []string
	a := &Artifacts{
		DB:    DB{Videos: []VideoEntry{}},
		PGNs:  pgns,
		B4:    []string{},
		Stats: Stats{IDs: len(ids)},
	}

	for _, id := range ids {
		rec, err := recordstore.Load(c.store, id)
		var decodeErr *recordstore.DecodeError
		if errors.As(err, &decodeErr) {
			a.Stats.DecodeFailures++
			log.Warn().Err(err).Str("id", id).Msg("malformed record, skipped")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", id, err)
		}
		game := rec.VideoGame

		if game != nil && b4Regex.MatchString(game.PGN) {
			a.B4 = append(a.B4, id)
		}

		snippet := rec.VideoSnippet
		if snippet == nil {
			a.Stats.NoSnippet++
			log.Debug().Str("id", id).Msg("no video snippet, skipped")
			continue
		}

		a.DB.Videos = append(a.DB.Videos, buildEntry(rec, players))
		if game == nil {
			continue
		}
		a.Stats.Games++

		if game.PGN != "" {
			allPGNs = append(allPGNs, game.PGN)
			if snippet.VideoID != nil {
				pgns.Set(*snippet.VideoID, game.PGN)
			} else {
				log.Warn().Str("id", id).Msg("game has a pgn but the snippet has no video id")
			}
		}
	}
	a.DB.Players = players.Names()

	a.Positions = c.indexPositions(pgns, &a.Stats, log)
	a.Openings = c.openings.Filter(allPGNs)

	a.Stats.Videos = len(a.DB.Videos)
	a.Stats.PGNs = pgns.Len()
	a.Stats.Positions = len(a.Positions.Keys())
	a.Stats.Openings = len(a.Openings)
	a.Stats.B4 = len(a.B4)

	log.Info().
		Int("videos", a.Stats.Videos).
		Int("players", players.Len()).
		Int("no_snippet", a.Stats.NoSnippet).
		Int("games", a.Stats.Games).
		Int("pgns", a.Stats.PGNs).
		Int("positions", a.Stats.Positions).
		Int("parse_failures", a.Stats.ParseFailures).
		Int("decode_failures", a.Stats.DecodeFailures).
		Int("openings", a.Stats.Openings).
		Int("b4", a.Stats.B4).
		Dur("elapsed", time.Since(start)).
		Msg("combine complete")
	return a, nil
}

// buildEntry joins one record into its db.json entry, registering players.
func buildEntry(rec *recordstore.Record, players *PlayerIndex) VideoEntry {
	snippet := rec.VideoSnippet
	entry := VideoEntry{
		D:  publishedSeconds(snippet.PublishedAt),
		T:  snippet.Title,
		ID: snippet.VideoID,
	}

	game := rec.VideoGame
	if game == nil {
		return entry
	}

	g := &GameRef{
		R: normalizeResult(rec.ChessCom, rec.ChesstempoCom),
		Y: normalizeYear(game, rec.ChessCom, rec.ChesstempoCom),
	}
	if game.PlayerWhite != "" {
		w := players.Resolve(game.PlayerWhite)
		g.W = &w
	}
	if game.PlayerBlack != "" {
		b := players.Resolve(game.PlayerBlack)
		g.B = &b
	}
	entry.G = g
	return entry
}

// indexPositions replays every collected game and records the positions
// after plies firstIndexedPly..lastIndexedPly. The final position of a game
// is never indexed. A game that fails to replay keeps its slot in the video
// list but contributes no positions.
func (c *Combiner) indexPositions(pgns *PGNMap, stats *Stats, log zerolog.Logger) *PositionIndex {
	idx := NewPositionIndex()
	for _, videoID := range pgns.IDs() {
		video := idx.AddVideo(videoID)
		text, _ := pgns.Get(videoID)

		plies, err := movetext.ReplayText(text, 0)
		if err != nil {
			stats.ParseFailures++
			log.Warn().Err(err).Str("video", videoID).Msg("unreadable pgn, positions skipped")
			continue
		}

		last := min(len(plies)-1, lastIndexedPly)
		for ply := firstIndexedPly; ply <= last; ply++ {
			idx.Add(movetext.PositionKey(plies[ply-1].FEN), video)
		}
	}
	return idx
}

// Write writes all five artifacts.
func (a *Artifacts) Write(w *artifact.Writer) error {
	files := []struct {
		name string
		v    any
	}{
		{FileDB, a.DB},
		{FilePGNs, a.PGNs},
		{FilePositions, a.Positions},
		{FileOpenings, a.Openings},
		{FileB4, a.B4},
	}
	for _, f := range files {
		if err := w.WriteJSON(f.name, f.v); err != nil {
			return err
		}
	}
	return nil
}
