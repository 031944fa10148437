package combine

import (
	"strconv"
	"strings"
	"time"

	"github.com/freeeve/chessvideos/internal/recordstore"
)

// Game results from White's point of view.
const (
	ResultWhiteWins = 1
	ResultDraw      = 0
	ResultBlackWins = -1
)

// yearUnknown is the chess.com year meaning "not known".
const yearUnknown = "0"

var chessComResults = map[string]int{
	"1-0": ResultWhiteWins,
	"0-1": ResultBlackWins,
	"½-½": ResultDraw,
}

var chesstempoResults = map[string]int{
	"w": ResultWhiteWins,
	"b": ResultBlackWins,
	"d": ResultDraw,
}

// normalizeResult prefers chess.com whenever it carries a result string,
// even an unrecognized one, and falls back to chesstempo otherwise.
func normalizeResult(a *recordstore.ChessComResult, b *recordstore.ChesstempoResult) *int {
	if a != nil && a.Result != "" {
		return lookup(chessComResults, string(a.Result))
	}
	if b != nil {
		return lookup(chesstempoResults, string(b.Result))
	}
	return nil
}

func lookup(table map[string]int, key string) *int {
	if v, ok := table[key]; ok {
		return &v
	}
	return nil
}

// normalizeYear resolves the game year. Games without a white player have
// no trustworthy metadata and get no year.
func normalizeYear(game *recordstore.VideoGame, a *recordstore.ChessComResult, b *recordstore.ChesstempoResult) *int {
	if game == nil || game.PlayerWhite == "" {
		return nil
	}
	if a != nil && a.Year != "" && a.Year != yearUnknown {
		return parseLeadingInt(string(a.Year))
	}
	if b != nil && b.Date != "" {
		date := string(b.Date)
		if len(date) > 4 {
			date = date[:4]
		}
		return parseLeadingInt(date)
	}
	return nil
}

// parseLeadingInt parses the optionally signed run of digits at the start of
// s, after leading spaces. "1958.10.01" yields 1958; "?" yields nil.
func parseLeadingInt(s string) *int {
	s = strings.TrimLeft(s, " \t\n")
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return nil
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return nil
	}
	return &n
}

// publishedSeconds converts a publish timestamp to unix seconds, keeping
// millisecond precision as a fraction.
func publishedSeconds(publishedAt string) *float64 {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
		t, err := time.Parse(layout, publishedAt)
		if err != nil {
			continue
		}
		s := float64(t.UnixMilli()) / 1000
		return &s
	}
	return nil
}
