package recordstore

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func openTestStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s
}

func TestWriteReadRoundTrip(t *testing.T) {
	s := openTestStore(t)

	game := VideoGame{PlayerWhite: "Tal", PlayerBlack: "Botvinnik", PGN: "1. e4 e5"}
	if err := s.Write(NamespaceVideoGame, "v1", game); err != nil {
		t.Fatalf("Write: %v", err)
	}

	var got VideoGame
	ok, err := Get(s, NamespaceVideoGame, "v1", &got)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("Get: record not found")
	}
	if got != game {
		t.Errorf("Get = %+v, want %+v", got, game)
	}
}

func TestWritePreservesOtherNamespaces(t *testing.T) {
	s := openTestStore(t)

	if err := s.Write(NamespaceChessCom, "v1", map[string]string{"result": "1-0", "year": "1960"}); err != nil {
		t.Fatalf("Write chessCom: %v", err)
	}
	if err := s.Write(NamespaceVideoGame, "v1", VideoGame{PGN: "1. d4"}); err != nil {
		t.Fatalf("Write videoGame: %v", err)
	}
	if err := s.Write(NamespaceVideoGame, "v1", VideoGame{PGN: "1. c4"}); err != nil {
		t.Fatalf("overwrite videoGame: %v", err)
	}

	var a ChessComResult
	if ok, err := Get(s, NamespaceChessCom, "v1", &a); err != nil || !ok {
		t.Fatalf("Get chessCom: ok=%v err=%v", ok, err)
	}
	if a.Result != "1-0" || a.Year != "1960" {
		t.Errorf("chessCom = %+v, want result 1-0 year 1960", a)
	}

	var g VideoGame
	if ok, err := Get(s, NamespaceVideoGame, "v1", &g); err != nil || !ok {
		t.Fatalf("Get videoGame: ok=%v err=%v", ok, err)
	}
	if g.PGN != "1. c4" {
		t.Errorf("videoGame.pgn = %q, want %q", g.PGN, "1. c4")
	}

	rec, ok, err := s.ReadRecord("v1")
	if err != nil || !ok {
		t.Fatalf("ReadRecord: ok=%v err=%v", ok, err)
	}
	if string(rec["_id"]) != `"v1"` {
		t.Errorf("_id = %s, want \"v1\"", rec["_id"])
	}
}

func TestReadAbsent(t *testing.T) {
	s := openTestStore(t)

	raw, ok, err := s.Read(NamespaceVideoSnippet, "missing")
	if err != nil {
		t.Fatalf("Read missing file: %v", err)
	}
	if ok || raw != nil {
		t.Errorf("Read missing file = (%s, %v), want absent", raw, ok)
	}

	if err := s.Write(NamespaceVideoGame, "v1", VideoGame{PGN: "1. e4"}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	_, ok, err = s.Read(NamespaceChesstempoCom, "v1")
	if err != nil {
		t.Fatalf("Read missing namespace: %v", err)
	}
	if ok {
		t.Error("Read missing namespace: want absent")
	}
}

func TestNamespaceValidation(t *testing.T) {
	stores := map[string]ReadWriter{
		"file": openTestStore(t),
		"mem":  NewMemStore(),
	}
	for name, s := range stores {
		t.Run(name, func(t *testing.T) {
			for _, ns := range []Namespace{"", "lichess", "VideoGame", "_id"} {
				if _, _, err := s.Read(ns, "v1"); !errors.Is(err, ErrInvalidNamespace) {
					t.Errorf("Read(%q) err = %v, want ErrInvalidNamespace", ns, err)
				}
				if err := s.Write(ns, "v1", map[string]int{"x": 1}); !errors.Is(err, ErrInvalidNamespace) {
					t.Errorf("Write(%q) err = %v, want ErrInvalidNamespace", ns, err)
				}
				if err := s.Write(ns, "", nil); !errors.Is(err, ErrInvalidNamespace) {
					t.Errorf("Write(%q, empty id, nil) err = %v, want ErrInvalidNamespace", ns, err)
				}
			}
		})
	}
}

func TestMissingIDAndValue(t *testing.T) {
	stores := map[string]ReadWriter{
		"file": openTestStore(t),
		"mem":  NewMemStore(),
	}
	for name, s := range stores {
		t.Run(name, func(t *testing.T) {
			if _, _, err := s.Read(NamespaceVideoGame, ""); !errors.Is(err, ErrMissingID) {
				t.Errorf("Read empty id err = %v, want ErrMissingID", err)
			}
			if err := s.Write(NamespaceVideoGame, "", VideoGame{}); !errors.Is(err, ErrMissingID) {
				t.Errorf("Write empty id err = %v, want ErrMissingID", err)
			}
			if err := s.Write(NamespaceVideoGame, "v1", nil); !errors.Is(err, ErrMissingValue) {
				t.Errorf("Write nil err = %v, want ErrMissingValue", err)
			}
			var game *VideoGame
			if err := s.Write(NamespaceVideoGame, "v1", game); !errors.Is(err, ErrMissingValue) {
				t.Errorf("Write typed nil err = %v, want ErrMissingValue", err)
			}
			for _, raw := range []string{"null", "null\n", "  null\t", "", " \n"} {
				if err := s.Write(NamespaceVideoGame, "v1", json.RawMessage(raw)); !errors.Is(err, ErrMissingValue) {
					t.Errorf("Write raw %q err = %v, want ErrMissingValue", raw, err)
				}
			}
			if _, ok, err := s.Read(NamespaceVideoGame, "v1"); err != nil || ok {
				t.Errorf("Read after rejected writes = (%v, %v), want absent", ok, err)
			}
			if err := s.Write(NamespaceVideoGame, "../escape", VideoGame{}); !errors.Is(err, ErrInvalidID) {
				t.Errorf("Write path id err = %v, want ErrInvalidID", err)
			}
		})
	}
}

func TestIDs(t *testing.T) {
	s := openTestStore(t)

	for _, id := range []string{"c", "a", "b"} {
		if err := s.Write(NamespaceVideoSnippet, id, VideoSnippet{PublishedAt: "2020-01-01T00:00:00Z"}); err != nil {
			t.Fatalf("Write %s: %v", id, err)
		}
	}
	// Non-record files and directories are ignored.
	if err := os.WriteFile(filepath.Join(s.Dir(), "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(s.Dir(), "sub.json"), 0755); err != nil {
		t.Fatal(err)
	}

	ids, err := s.IDs()
	if err != nil {
		t.Fatalf("IDs: %v", err)
	}
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("IDs = %v, want %v", ids, want)
	}
}

func TestWriteFileFormat(t *testing.T) {
	s := openTestStore(t)

	if err := s.Write(NamespaceChesstempoCom, "v9", map[string]string{"result": "d"}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(s.Dir(), "v9.json"))
	if err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"_id\": \"v9\",\n  \"chesstempoCom\": {\n    \"result\": \"d\"\n  }\n}"
	if string(data) != want {
		t.Errorf("file =\n%s\nwant\n%s", data, want)
	}
}

func TestLoad(t *testing.T) {
	m := NewMemStore().
		Put(NamespaceVideoSnippet, "v1", map[string]any{"publishedAt": "2021-05-01T12:00:00Z", "title": "Immortal", "videoId": "yt1"}).
		Put(NamespaceChessCom, "v1", json.RawMessage(`{"result":"0-1","year":1851}`)).
		Put(NamespaceChesstempoCom, "v1", json.RawMessage(`{"result":"b","date":null}`))

	rec, err := Load(m, "v1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if rec.VideoSnippet == nil || *rec.VideoSnippet.Title != "Immortal" || *rec.VideoSnippet.VideoID != "yt1" {
		t.Errorf("VideoSnippet = %+v", rec.VideoSnippet)
	}
	if rec.VideoGame != nil {
		t.Errorf("VideoGame = %+v, want nil", rec.VideoGame)
	}
	if rec.ChessCom == nil || rec.ChessCom.Year != "1851" {
		t.Errorf("ChessCom = %+v, want numeric year decoded as 1851", rec.ChessCom)
	}
	if rec.ChesstempoCom == nil || rec.ChesstempoCom.Date != "" {
		t.Errorf("ChesstempoCom = %+v, want empty date", rec.ChesstempoCom)
	}
}

func TestLoadDecodeError(t *testing.T) {
	m := NewMemStore().Put(NamespaceVideoGame, "v1", json.RawMessage(`{"pgn": 12}`))

	_, err := Load(m, "v1")
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("Load err = %v, want DecodeError", err)
	}
	if de.Namespace != NamespaceVideoGame || de.ID != "v1" {
		t.Errorf("DecodeError = %+v", de)
	}
}

func TestStoredNullReadsAbsent(t *testing.T) {
	m := NewMemStore()
	m.records["v1"] = map[Namespace]json.RawMessage{NamespaceVideoGame: json.RawMessage("null\n")}

	if _, ok, err := m.Read(NamespaceVideoGame, "v1"); err != nil || ok {
		t.Errorf("MemStore.Read stored null = (%v, %v), want absent", ok, err)
	}
	rec, err := Load(m, "v1")
	if err != nil {
		t.Fatal(err)
	}
	if rec.VideoGame != nil {
		t.Errorf("Load VideoGame = %+v, want nil", rec.VideoGame)
	}

	s := openTestStore(t)
	data := []byte("{\n  \"_id\": \"v1\",\n  \"videoGame\": null\n}")
	if err := os.WriteFile(filepath.Join(s.Dir(), "v1.json"), data, 0644); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := s.Read(NamespaceVideoGame, "v1"); err != nil || ok {
		t.Errorf("FileStore.Read stored null = (%v, %v), want absent", ok, err)
	}
}

func TestWriteTrimsRawValue(t *testing.T) {
	m := NewMemStore()
	if err := m.Write(NamespaceChessCom, "v1", json.RawMessage("{\"result\":\"1-0\"}\n")); err != nil {
		t.Fatal(err)
	}
	raw, ok, err := m.Read(NamespaceChessCom, "v1")
	if err != nil || !ok {
		t.Fatalf("Read = (%v, %v)", ok, err)
	}
	if string(raw) != `{"result":"1-0"}` {
		t.Errorf("stored %q, want trimmed value", raw)
	}
}
