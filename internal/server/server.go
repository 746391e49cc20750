package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/EmpoweredVote/turf-shapes/internal/middleware"
	"github.com/EmpoweredVote/turf-shapes/internal/source"
	"github.com/EmpoweredVote/turf-shapes/internal/turf"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Server exposes a finished export directory read-only.
type Server struct {
	dir      string
	manifest turf.Manifest
	summary  []byte
}

// New loads the manifest and precomputes the summary of dir.
func New(dir string) (*Server, error) {
	m, err := turf.LoadManifest(filepath.Join(dir, turf.ManifestFileName))
	if err != nil {
		return nil, fmt.Errorf("load manifest: %w", err)
	}
	if _, ok := m.Lookup(turf.MasterFileName); !ok {
		return nil, errors.New("manifest has no master file")
	}

	t, err := source.ReadTable(filepath.Join(dir, turf.MasterFileName))
	if err != nil {
		return nil, fmt.Errorf("read master file: %w", err)
	}
	s, err := turf.Summarize(turf.FromExport(t, m.CRS))
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := turf.Render(&buf, s, true); err != nil {
		return nil, err
	}

	return &Server{dir: dir, manifest: m, summary: buf.Bytes()}, nil
}

// Routes mounts the read-only API.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.CORSMiddleware)
	r.Use(middleware.ReadOnly)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprintln(w, "Server is up!")
	})
	r.Get("/manifest", s.handleManifest)
	r.Get("/summary", s.handleSummary)
	r.Get("/regions/{region}", s.handleRegion)
	r.Get("/files/{name}", s.handleFile)
	return r
}

func (s *Server) handleManifest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.manifest)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write(s.summary)
}

// handleRegion lists the region file and its turf files.
func (s *Server) handleRegion(w http.ResponseWriter, r *http.Request) {
	region := chi.URLParam(r, "region")
	var files []turf.ManifestFile
	for _, f := range s.manifest.Files {
		if f.Kind != turf.KindMaster && f.Region == region {
			files = append(files, f)
		}
	}
	if len(files) == 0 {
		http.Error(w, "Region not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, files)
}

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	f, ok := s.manifest.Lookup(name)
	if !ok || filepath.Base(name) != name {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.Name))
	w.Header().Set("X-Turf-Rows", fmt.Sprint(f.Rows))
	w.Header().Set("X-Turf-Checksum", f.Checksum)
	http.ServeFile(w, r, filepath.Join(s.dir, f.Name))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
