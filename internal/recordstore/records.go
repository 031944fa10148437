package recordstore

import (
	"bytes"
	"encoding/json"
)

// VideoSnippet is the video metadata stored under NamespaceVideoSnippet.
type VideoSnippet struct {
	PublishedAt string  `json:"publishedAt"`
	Title       *string `json:"title,omitempty"`
	VideoID     *string `json:"videoId,omitempty"`
}

// VideoGame is the game extracted from a video, stored under NamespaceVideoGame.
type VideoGame struct {
	PlayerWhite string `json:"playerWhite,omitempty"`
	PlayerBlack string `json:"playerBlack,omitempty"`
	PGN         string `json:"pgn,omitempty"`
}

// ChessComResult is the chess.com annotation. Result uses "1-0", "0-1" and
// "½-½"; Year is a bare year where "0" means unknown.
type ChessComResult struct {
	Result LooseString `json:"result,omitempty"`
	Year   LooseString `json:"year,omitempty"`
}

// ChesstempoResult is the chesstempo.com annotation. Result uses "w", "b"
// and "d"; Date starts with a four digit year.
type ChesstempoResult struct {
	Result LooseString `json:"result,omitempty"`
	Date   LooseString `json:"date,omitempty"`
}

// LooseString decodes from a JSON string, number or null.
type LooseString string

func (s *LooseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = LooseString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = LooseString(n.String())
	return nil
}

// Record holds every namespace of one id. Missing namespaces are nil.
type Record struct {
	ID            string
	VideoSnippet  *VideoSnippet
	VideoGame     *VideoGame
	ChessCom      *ChessComResult
	ChesstempoCom *ChesstempoResult
}

// Load reads all four namespaces for id.
func Load(r Reader, id string) (*Record, error) {
	rec := &Record{ID: id}

	var snippet VideoSnippet
	ok, err := Get(r, NamespaceVideoSnippet, id, &snippet)
	if err != nil {
		return nil, err
	}
	if ok {
		rec.VideoSnippet = &snippet
	}

	var game VideoGame
	if ok, err = Get(r, NamespaceVideoGame, id, &game); err != nil {
		return nil, err
	}
	if ok {
		rec.VideoGame = &game
	}

	var a ChessComResult
	if ok, err = Get(r, NamespaceChessCom, id, &a); err != nil {
		return nil, err
	}
	if ok {
		rec.ChessCom = &a
	}

	var b ChesstempoResult
	if ok, err = Get(r, NamespaceChesstempoCom, id, &b); err != nil {
		return nil, err
	}
	if ok {
		rec.ChesstempoCom = &b
	}
	return rec, nil
}
