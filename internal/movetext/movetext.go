// Package movetext reads PGN movetext with the pgn library and replays its
// main line into index-ready positions.
package movetext

import (
	"fmt"
	"strings"

	"github.com/freeeve/pgn/v3"
)

// resultToken terminates the movetext handed to the scanner. Stored PGNs
// usually omit the result, and the scanner stops at the first one it sees.
const resultToken = "1-0"

// Parse scans text as a single PGN game. Tag pairs, comments, variations,
// NAGs, move numbers and annotation glyphs are accepted; only the main line
// is kept. A FEN tag sets the starting position.
func Parse(text string) (*pgn.Game, error) {
	sc := pgn.NewPGNScanner(strings.NewReader(text + " " + resultToken))
	g, err := sc.Scan()
	if err != nil {
		return nil, err
	}
	return g, nil
}

// Ply is the position reached after one half-move.
type Ply struct {
	Number int    // 1-based ply number
	Move   pgn.Mv // move that produced the position
	FEN    string // see FEN
}

// Replay plays the moves of g from its starting position and returns the
// position after each move. With limit > 0 at most limit plies are played.
func Replay(g *pgn.Game, limit int) ([]Ply, error) {
	pos := pgn.NewStartingPosition()
	if fen, ok := g.Tags["FEN"]; ok {
		var err error
		if pos, err = pgn.NewGame(fen); err != nil {
			return nil, fmt.Errorf("fen tag: %w", err)
		}
	}

	n := len(g.Moves)
	if limit > 0 && limit < n {
		n = limit
	}
	plies := make([]Ply, 0, n)
	for i := 0; i < n; i++ {
		mv := g.Moves[i]
		if err := pgn.ApplyMove(pos, mv); err != nil {
			return plies, fmt.Errorf("ply %d %s: %w", i+1, mv, err)
		}
		plies = append(plies, Ply{Number: i + 1, Move: mv, FEN: FEN(pos)})
	}
	return plies, nil
}

// ReplayText parses text and replays its main line.
func ReplayText(text string, limit int) ([]Ply, error) {
	g, err := Parse(text)
	if err != nil {
		return nil, err
	}
	return Replay(g, limit)
}

// FEN renders pos with the en-passant square only when the side to move has
// a pawn beside the double-pushed pawn. pgn records the square after every
// double push; other chess tools drop it when no capture is possible.
func FEN(pos *pgn.GameState) string {
	if pos.EP == pgn.SqNone || epCapturable(pos) {
		return pos.ToFEN()
	}
	cp := pos.Copy()
	cp.EP = pgn.SqNone
	return cp.ToFEN()
}

func epCapturable(pos *pgn.GameState) bool {
	ep := pos.EP
	if ep < 0 || ep > 63 {
		return false
	}
	// The double-pushed pawn sits one rank past the en-passant square.
	pawn, rank := byte('P'), ep.Rank()-1
	if pos.SideToMove == pgn.Black {
		pawn, rank = 'p', ep.Rank()+1
	}
	for _, file := range []int{ep.File() - 1, ep.File() + 1} {
		if sq := pgn.MakeSquare(file, rank); sq != pgn.SqNone && pos.PieceAt(sq) == pawn {
			return true
		}
	}
	return false
}

// PositionKey normalizes a FEN for use as an index key: the halfmove clock
// and fullmove number are dropped, and so is the en-passant field when it is
// "-". Positions that differ only in move counters share a key.
func PositionKey(fen string) string {
	f := strings.Fields(fen)
	if len(f) >= 6 {
		f = f[:4]
	}
	if len(f) == 4 && f[3] == "-" {
		f = f[:3]
	}
	return strings.Join(f, " ")
}
