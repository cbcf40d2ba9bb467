// Package server exposes stored tables over HTTP so clients can download a
// table instead of generating it, upload tables they generated and append
// benchmark logs.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/cors"
	lru "github.com/hashicorp/golang-lru"
	"github.com/rs/zerolog"

	"github.com/mahdiidarabi/kangaroo/internal/tablestore"
	"github.com/mahdiidarabi/kangaroo/pkg/kangaroo"
	"github.com/mahdiidarabi/kangaroo/pkg/tablefile"
)

const defaultCacheSize = 16

// Config holds the server settings.
type Config struct {
	// LogDir receives the files written by POST /log.
	LogDir string
	// CacheSize is the number of encoded tables kept in memory.
	CacheSize int
}

// DefaultConfig returns the default server configuration.
func DefaultConfig() Config {
	return Config{
		LogDir:    "logs",
		CacheSize: defaultCacheSize,
	}
}

// Server serves tables from a store.
type Server struct {
	store  *tablestore.Store
	cache  *lru.Cache
	config Config
	logger zerolog.Logger
}

// New creates a server backed by store.
func New(store *tablestore.Store, config Config, logger zerolog.Logger) (*Server, error) {
	if config.CacheSize <= 0 {
		config.CacheSize = defaultCacheSize
	}
	cache, err := lru.New(config.CacheSize)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(config.LogDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	return &Server{store: store, cache: cache, config: config, logger: logger}, nil
}

// Router returns the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           300,
	})
	r.Use(corsMiddleware.Handler)
	r.Use(s.logRequests)

	r.Route("/", func(r chi.Router) {
		r.Get("/table", s.getTable)
		r.Get("/tables", s.listTables)
		r.Post("/upload", s.uploadTable)
		r.Post("/log", s.writeLog)
	})
	return r
}

// ListenAndServe serves on addr until the listener fails.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info().Str("addr", addr).Msg("Table server listening")
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("Request")
	})
}

func cacheKey(curve string, p kangaroo.Params) string {
	return tablefile.FileName(curve, p, tablefile.FormatJSON)
}

// tableQuery reads either file_name or curve/w/n/secretSize/r.
func tableQuery(r *http.Request) (string, kangaroo.Params, error) {
	q := r.URL.Query()
	if name := q.Get("file_name"); name != "" {
		curve, p, _, err := tablefile.ParseFileName(name)
		return curve, p, err
	}

	var p kangaroo.Params
	curve := q.Get("curve")
	if curve == "" {
		return "", p, errors.New("missing file_name or curve")
	}
	w, err := strconv.ParseUint(q.Get("w"), 10, 64)
	if err != nil {
		return "", p, fmt.Errorf("invalid w: %w", err)
	}
	p.W = w
	for _, field := range []struct {
		name string
		dst  *int
	}{{"n", &p.N}, {"secretSize", &p.SecretSize}, {"r", &p.R}} {
		v, err := strconv.Atoi(q.Get(field.name))
		if err != nil {
			return "", p, fmt.Errorf("invalid %s: %w", field.name, err)
		}
		*field.dst = v
	}
	return curve, p, nil
}

func (s *Server) getTable(w http.ResponseWriter, r *http.Request) {
	curve, p, err := tableQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	key := cacheKey(curve, p)

	var body []byte
	if cached, ok := s.cache.Get(key); ok {
		body = cached.([]byte)
	} else {
		rec, err := s.store.Get(r.Context(), curve, p)
		if errors.Is(err, tablestore.ErrNotFound) {
			http.Error(w, "Table not found", http.StatusNotFound)
			return
		}
		if err != nil {
			s.logger.Error().Err(err).Str("table", key).Msg("Could not load table")
			http.Error(w, "Could not load table", http.StatusInternalServerError)
			return
		}
		var buf bytes.Buffer
		if err := tablefile.Encode(&buf, rec, tablefile.FormatJSON); err != nil {
			http.Error(w, "Could not encode table", http.StatusInternalServerError)
			return
		}
		body = buf.Bytes()
		s.cache.Add(key, body)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename="+key)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func (s *Server) uploadTable(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	rec, err := tablefile.Decode(r.Body, tablefile.FormatJSON)
	if err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	// Only tables that would load are accepted.
	if _, err := rec.Kangaroo(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	rec.Curve = rec.CurveName()
	if rec.Fingerprint == "" {
		rec.Fingerprint = rec.ComputeFingerprint()
	}
	if err := s.store.Put(r.Context(), rec); err != nil {
		s.logger.Error().Err(err).Msg("Could not store table")
		http.Error(w, "Error storing table", http.StatusInternalServerError)
		return
	}
	s.cache.Remove(cacheKey(rec.Curve, rec.Params()))

	s.logger.Info().Str("curve", rec.Curve).Str("params", rec.Params().String()).Msg("Table uploaded")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("JSON received and written"))
}

func (s *Server) listTables(w http.ResponseWriter, r *http.Request) {
	metas, err := s.store.List(r.Context())
	if err != nil {
		http.Error(w, "Could not list tables", http.StatusInternalServerError)
		return
	}
	if metas == nil {
		metas = []tablestore.Meta{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(metas)
}

// LogRequest is the body of POST /log.
type LogRequest struct {
	Filename string `json:"filename"`
	Text     string `json:"text"`
}

func (s *Server) writeLog(w http.ResponseWriter, r *http.Request) {
	var data LogRequest
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	name := filepath.Base(data.Filename)
	if data.Filename == "" || name != data.Filename || strings.HasPrefix(name, ".") {
		http.Error(w, "Invalid file name", http.StatusBadRequest)
		return
	}

	file, err := os.OpenFile(filepath.Join(s.config.LogDir, name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to open file: %v", err), http.StatusInternalServerError)
		return
	}
	defer file.Close()

	if _, err := file.WriteString(data.Text + "\n"); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write to file: %v", err), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}
