package combine

import (
	"bytes"
	"encoding/json"

	"github.com/freeeve/chessvideos/internal/artifact"
)

// Plies indexed per game. Position i is the one reached after i plies, so
// the first two plies and anything after the 13th are left out.
const (
	firstIndexedPly = 2
	lastIndexedPly  = 13
)

// PGNMap maps source video ids to PGN text, keeping first-insertion order.
// Setting an existing id replaces its text in place.
type PGNMap struct {
	ids  []string
	text map[string]string
}

func newPGNMap() *PGNMap {
	return &PGNMap{text: make(map[string]string)}
}

// Set stores the PGN for videoID.
func (m *PGNMap) Set(videoID, pgn string) {
	if _, ok := m.text[videoID]; !ok {
		m.ids = append(m.ids, videoID)
	}
	m.text[videoID] = pgn
}

// Get returns the PGN for videoID.
func (m *PGNMap) Get(videoID string) (string, bool) {
	pgn, ok := m.text[videoID]
	return pgn, ok
}

// IDs returns the video ids in insertion order.
func (m *PGNMap) IDs() []string {
	return m.ids
}

// Len returns the number of videos with a PGN.
func (m *PGNMap) Len() int {
	return len(m.ids)
}

func (m *PGNMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range m.ids {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeMember(&buf, id, m.text[id]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// PositionIndex maps normalized position keys to indices into its Videos list.
type PositionIndex struct {
	Videos []string
	keys   []string
	occurs map[string][]int
}

// NewPositionIndex returns an empty index.
func NewPositionIndex() *PositionIndex {
	return &PositionIndex{
		Videos: []string{},
		occurs: make(map[string][]int),
	}
}

// AddVideo appends videoID to the video list and returns its index.
func (p *PositionIndex) AddVideo(videoID string) int {
	p.Videos = append(p.Videos, videoID)
	return len(p.Videos) - 1
}

// Add records that video passed through key. Repeats are kept.
func (p *PositionIndex) Add(key string, video int) {
	if _, ok := p.occurs[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.occurs[key] = append(p.occurs[key], video)
}

// Occurrences returns the video indices recorded for key.
func (p *PositionIndex) Occurrences(key string) []int {
	return p.occurs[key]
}

// Keys returns the position keys in first-seen order.
func (p *PositionIndex) Keys() []string {
	return p.keys
}

// MarshalJSON writes {"videos": [...], "<key>": [...], ...}.
func (p *PositionIndex) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if err := writeMember(&buf, "videos", p.Videos); err != nil {
		return nil, err
	}
	for _, key := range p.keys {
		buf.WriteByte(',')
		if err := writeMember(&buf, key, p.occurs[key]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeMember(buf *bytes.Buffer, key string, v any) error {
	k, err := artifact.Marshal(key)
	if err != nil {
		return err
	}
	val, err := artifact.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(val)
	return nil
}

var _ json.Marshaler = (*PositionIndex)(nil)
var _ json.Marshaler = (*PGNMap)(nil)
