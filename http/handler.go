// Package http exposes the restic REST backend protocol. The dispatcher is
// stateless per request: it parses the resource path, classifies its shape,
// and selects the storage operation from an explicit (method, shape) table
// so the protocol's compatibility matrix stays auditable in one place.
package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/restiva/restiva"
)

// Store performs blob operations for the dispatcher. Config is addressed as
// restiva.TypeConfig with an empty name.
type Store interface {
	List(ctx context.Context, repo string, t restiva.BlobType) ([]restiva.BlobInfo, error)
	Stat(ctx context.Context, repo string, t restiva.BlobType, name string) (int64, error)
	Open(ctx context.Context, repo string, t restiva.BlobType, name string) (io.ReadCloser, int64, error)
	OpenRange(ctx context.Context, repo string, t restiva.BlobType, name string, rng restiva.ByteRange) (io.ReadCloser, error)
	Write(ctx context.Context, repo string, t restiva.BlobType, name string, content io.Reader) error
	Delete(ctx context.Context, repo string, t restiva.BlobType, name string) error
}

// Lifecycle creates and destroys repository scaffolds.
type Lifecycle interface {
	CreateRepository(ctx context.Context, repo string) error
	DeleteRepository(ctx context.Context, repo string) error
}

type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type HandlerConfig struct {
	CORS CORSConfig
}

// Handler serves the protocol over a Store and a Lifecycle.
type Handler struct {
	config HandlerConfig
	store  Store
	repos  Lifecycle
}

// NewHandler creates a Handler with the given configuration and collaborators.
func NewHandler(config *HandlerConfig, store Store, repos Lifecycle) *Handler {
	return &Handler{
		config: *config,
		store:  store,
		repos:  repos,
	}
}

// Router returns the protocol's http.Handler. The resource grammar is
// custom, so every path funnels through a single dispatch entry point; chi
// carries the middleware chain.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(Recoverer)
	r.Use(RequestLogger)

	if h.config.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.config.CORS.AllowedOrigins,
			AllowedMethods:   h.config.CORS.AllowedMethods,
			AllowedHeaders:   h.config.CORS.AllowedHeaders,
			ExposedHeaders:   h.config.CORS.ExposedHeaders,
			AllowCredentials: h.config.CORS.AllowCredentials,
			MaxAge:           h.config.CORS.MaxAge,
		}))
	}

	r.HandleFunc("/*", h.dispatch)
	r.HandleFunc("/", h.dispatch)

	return r
}

type dispatchKey struct {
	method string
	shape  restiva.ResourceShape
}

type operation func(h *Handler, w http.ResponseWriter, r *http.Request, res restiva.Resource)

// operations is the method/resource compatibility matrix. Anything outside
// it answers "Not Implemented".
var operations = map[dispatchKey]operation{
	{http.MethodPost, restiva.ShapeRepo}:   (*Handler).createRepository,
	{http.MethodPost, restiva.ShapeConfig}: (*Handler).setConfig,
	{http.MethodPost, restiva.ShapeBlob}:   (*Handler).writeBlob,

	{http.MethodGet, restiva.ShapeConfig}: (*Handler).getConfig,
	{http.MethodGet, restiva.ShapeType}:   (*Handler).listBlobs,
	{http.MethodGet, restiva.ShapeBlob}:   (*Handler).getBlob,

	{http.MethodDelete, restiva.ShapeRepo}: (*Handler).deleteRepository,
	{http.MethodDelete, restiva.ShapeBlob}: (*Handler).deleteBlob,

	{http.MethodHead, restiva.ShapeConfig}: (*Handler).configExists,
	{http.MethodHead, restiva.ShapeBlob}:   (*Handler).blobExists,
}

func (h *Handler) dispatch(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodHead:
	default:
		writeError(w, msgUnsupportedMethod)
		return
	}

	res, err := restiva.ParseResource(r.URL.Path)
	if err != nil {
		slog.Debug("unparseable resource path", "path", r.URL.Path, "err", err)
		writeError(w, msgNotImplemented)
		return
	}

	op, ok := operations[dispatchKey{method: r.Method, shape: res.Shape()}]
	if !ok {
		writeError(w, msgNotImplemented)
		return
	}

	op(h, w, r, res)
}

// allowMethod is the per-operation guard. The dispatch table already keys
// on the method, so a mismatch here means an operation was invoked directly
// with the wrong verb; it must still fail safely.
func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		writeError(w, msgNotImplemented)
		return false
	}
	return true
}

func (h *Handler) createRepository(w http.ResponseWriter, r *http.Request, res restiva.Resource) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	// POST on a bare repository only means "create" when the query flag
	// carries the literal token "true".
	if !slices.Contains(r.URL.Query()["create"], "true") {
		writeError(w, msgNotImplemented)
		return
	}

	if err := h.repos.CreateRepository(r.Context(), res.Repo); err != nil {
		slog.Error("create repository failed", "repo", res.Repo, "err", err)
		writeError(w, msgCreateFailed)
		return
	}

	writeEmpty(w)
}

func (h *Handler) deleteRepository(w http.ResponseWriter, r *http.Request, res restiva.Resource) {
	if !allowMethod(w, r, http.MethodDelete) {
		return
	}

	if err := h.repos.DeleteRepository(r.Context(), res.Repo); err != nil {
		if errors.Is(err, restiva.ErrNotFound) {
			writeError(w, msgRepoMissing)
			return
		}
		internalError(w, err)
		return
	}

	writeEmpty(w)
}

func (h *Handler) configExists(w http.ResponseWriter, r *http.Request, res restiva.Resource) {
	if !allowMethod(w, r, http.MethodHead) {
		return
	}

	size, err := h.store.Stat(r.Context(), res.Repo, restiva.TypeConfig, "")
	if err != nil {
		if errors.Is(err, restiva.ErrNotFound) {
			writeError(w, msgConfigMissing)
			return
		}
		internalError(w, err)
		return
	}

	w.Header().Set("Content-Type", textContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) getConfig(w http.ResponseWriter, r *http.Request, res restiva.Resource) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	rc, size, err := h.store.Open(r.Context(), res.Repo, restiva.TypeConfig, "")
	if err != nil {
		if errors.Is(err, restiva.ErrNotFound) {
			writeError(w, msgConfigMissing)
			return
		}
		internalError(w, err)
		return
	}
	defer func() { _ = rc.Close() }()

	w.Header().Set("Content-Type", binaryContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, rc); err != nil {
		slog.Debug("config stream aborted", "repo", res.Repo, "err", err)
	}
}

func (h *Handler) setConfig(w http.ResponseWriter, r *http.Request, res restiva.Resource) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	if err := h.store.Write(r.Context(), res.Repo, restiva.TypeConfig, "", r.Body); err != nil {
		internalError(w, err)
		return
	}

	writeEmpty(w)
}

func (h *Handler) listBlobs(w http.ResponseWriter, r *http.Request, res restiva.Resource) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	infos, err := h.store.List(r.Context(), res.Repo, res.Type)
	if err != nil {
		internalError(w, err)
		return
	}

	writeJSON(w, listContentType, infos)
}

func (h *Handler) blobExists(w http.ResponseWriter, r *http.Request, res restiva.Resource) {
	if !allowMethod(w, r, http.MethodHead) {
		return
	}

	size, err := h.store.Stat(r.Context(), res.Repo, res.Type, res.Name)
	if err != nil {
		if errors.Is(err, restiva.ErrNotFound) {
			writeNotFound(w, msgBlobMissing)
			return
		}
		internalError(w, err)
		return
	}

	w.Header().Set("Content-Type", textContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) getBlob(w http.ResponseWriter, r *http.Request, res restiva.Resource) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	size, err := h.store.Stat(r.Context(), res.Repo, res.Type, res.Name)
	if err != nil {
		if errors.Is(err, restiva.ErrNotFound) {
			writeNotFound(w, msgBlobMissing)
			return
		}
		internalError(w, err)
		return
	}

	if rng, ok := restiva.ParseRange(r.Header.Get("Range"), size); ok {
		h.getBlobRange(w, r, res, rng)
		return
	}

	rc, size, err := h.store.Open(r.Context(), res.Repo, res.Type, res.Name)
	if err != nil {
		if errors.Is(err, restiva.ErrNotFound) {
			writeNotFound(w, msgBlobMissing)
			return
		}
		internalError(w, err)
		return
	}
	defer func() { _ = rc.Close() }()

	w.Header().Set("Content-Type", binaryContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, rc); err != nil {
		slog.Debug("blob stream aborted", "repo", res.Repo, "name", res.Name, "err", err)
	}
}

// getBlobRange serves a 206 partial read. The declared Content-Length is
// the parsed range length even when the file is shorter, in which case the
// client receives fewer bytes than declared.
func (h *Handler) getBlobRange(w http.ResponseWriter, r *http.Request, res restiva.Resource, rng restiva.ByteRange) {
	rc, err := h.store.OpenRange(r.Context(), res.Repo, res.Type, res.Name, rng)
	if err != nil {
		if errors.Is(err, restiva.ErrNotFound) {
			writeNotFound(w, msgBlobMissing)
			return
		}
		internalError(w, err)
		return
	}
	defer func() { _ = rc.Close() }()

	w.Header().Set("Content-Type", binaryContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(rng.Length, 10))
	w.Header().Set("Content-Range", rng.ContentRange())
	w.WriteHeader(http.StatusPartialContent)

	if _, err := io.Copy(w, rc); err != nil {
		slog.Debug("blob range stream aborted", "repo", res.Repo, "name", res.Name, "err", err)
	}
}

func (h *Handler) writeBlob(w http.ResponseWriter, r *http.Request, res restiva.Resource) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	if err := h.store.Write(r.Context(), res.Repo, res.Type, res.Name, r.Body); err != nil {
		internalError(w, err)
		return
	}

	writeEmpty(w)
}

func (h *Handler) deleteBlob(w http.ResponseWriter, r *http.Request, res restiva.Resource) {
	if !allowMethod(w, r, http.MethodDelete) {
		return
	}

	if err := h.store.Delete(r.Context(), res.Repo, res.Type, res.Name); err != nil {
		if errors.Is(err, restiva.ErrNotFound) {
			writeError(w, msgDeleteMissing)
			return
		}
		internalError(w, err)
		return
	}

	writeEmpty(w)
}
