// Package recordstore is a file-backed key-value store for per-video
// records.
//
// Each id owns one JSON file, <dir>/<id>.json, holding an object with an
// "_id" key plus one slot per namespace:
//
//	{
//	  "_id": "abc123",
//	  "videoSnippet": {"publishedAt": "...", "title": "...", "videoId": "..."},
//	  "videoGame": {"playerWhite": "...", "playerBlack": "...", "pgn": "..."},
//	  "chessCom": {"result": "1-0", "year": "1958"},
//	  "chesstempoCom": {"result": "w", "date": "1958.10.01"}
//	}
//
// Writes replace a single namespace slot and rewrite the whole file. There is
// no locking: the store assumes one writer process at a time.
package recordstore
