package httpapi

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"path/filepath"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/freeeve/chessvideos/internal/artifact"
	"github.com/freeeve/chessvideos/internal/combine"
	"github.com/freeeve/chessvideos/internal/recordstore"
)

// RecordSource is the store view served by the API.
type RecordSource interface {
	recordstore.Reader
	ReadRecord(id string) (map[string]json.RawMessage, bool, error)
}

// Handler serves store records and generated artifacts.
type Handler struct {
	store  RecordSource
	outDir string
	log    zerolog.Logger
}

// NewRouter creates the read-only HTTP API. outDir is where the combiner
// writes its artifacts; an empty outDir disables /v1/artifacts. Artifacts
// present only as zstd sidecars are served decompressed.
func NewRouter(log zerolog.Logger, store RecordSource, outDir string) http.Handler {
	h := &Handler{
		store:  store,
		outDir: outDir,
		log:    log,
	}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", h.health).Methods(http.MethodGet)
	r.HandleFunc("/readyz", h.health).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/ids", h.ids).Methods(http.MethodGet)
	v1.HandleFunc("/records/{id}", h.record).Methods(http.MethodGet)
	v1.HandleFunc("/records/{namespace}/{id}", h.namespaceRecord).Methods(http.MethodGet)
	v1.HandleFunc("/artifacts/{name}", h.artifact).Methods(http.MethodGet)

	return RequestID(AccessLog(log, r))
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) ids(w http.ResponseWriter, r *http.Request) {
	ids, err := h.store.IDs()
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"ids": ids, "count": len(ids)})
}

func (h *Handler) record(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	rec, ok, err := h.store.ReadRecord(id)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	if !ok {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}
	writeJSON(w, rec)
}

func (h *Handler) namespaceRecord(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	raw, ok, err := h.store.Read(recordstore.Namespace(vars["namespace"]), vars["id"])
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	if !ok {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}
	writeJSON(w, raw)
}

func (h *Handler) artifact(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if h.outDir == "" || !isArtifact(name) {
		http.Error(w, "unknown artifact", http.StatusNotFound)
		return
	}

	path := filepath.Join(h.outDir, name)
	data, err := artifact.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		data, err = artifact.ReadFile(path + artifact.ZstdExt)
	}
	if errors.Is(err, fs.ErrNotExist) {
		http.Error(w, "artifact not generated", http.StatusNotFound)
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

// isArtifact accepts only the combiner's file names.
func isArtifact(name string) bool {
	for _, f := range combine.Files() {
		if name == f {
			return true
		}
	}
	return false
}

// storeError maps validation errors to 400 and everything else to 500.
func (h *Handler) storeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, recordstore.ErrInvalidNamespace),
		errors.Is(err, recordstore.ErrMissingID),
		errors.Is(err, recordstore.ErrInvalidID):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.serverError(w, r, err)
	}
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.log.Error().Err(err).Str("rid", GetRequestID(r.Context())).Str("path", r.URL.Path).Msg("request failed")
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
	// Don't call http.Error after setting headers - it causes "superfluous WriteHeader"
}
