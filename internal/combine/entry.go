package combine

// VideoEntry is one video in db.json. Unset fields are omitted.
type VideoEntry struct {
	D  *float64 `json:"d,omitempty"`  // publish time, unix seconds
	T  *string  `json:"t,omitempty"`  // title
	ID *string  `json:"id,omitempty"` // source video id
	G  *GameRef `json:"g,omitempty"`  // absent when the video has no game
}

// GameRef summarizes the game shown in a video.
type GameRef struct {
	W *int `json:"w,omitempty"` // white player index
	B *int `json:"b,omitempty"` // black player index
	R *int `json:"r,omitempty"` // result, see ResultWhiteWins
	Y *int `json:"y,omitempty"` // year
}

// DB is the content of db.json.
type DB struct {
	Players []string     `json:"players"`
	Videos  []VideoEntry `json:"videos"`
}
