package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/sitezip/sitezip"
)

// Server exposes the crawl-to-archive API over HTTP.
type Server struct {
	runner sitezip.Runner
	logger *slog.Logger
	mux    *http.ServeMux
}

// NewServer wires handlers onto an HTTP mux.
func NewServer(runner sitezip.Runner, logger *slog.Logger) *Server {
	s := &Server{
		runner: runner,
		logger: logger,
		mux:    http.NewServeMux(),
	}
	s.routes()
	return s
}

// ServeHTTP satisfies the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	begin := time.Now()
	s.mux.ServeHTTP(w, r)
	s.logger.Info("request",
		"method", r.Method,
		"path", r.URL.Path,
		"duration", time.Since(begin),
	)
}

func (s *Server) routes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/scrape", s.handleScrape)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

// handleScrape runs one crawl and streams the resulting zip archive.
// Depth out of range or a malformed seed is rejected before any crawling;
// a crawl that produced zero documents maps to 504 so callers can tell
// "nothing there" from "system broke".
func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var req sitezip.CrawlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid json payload: %v", err), http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		http.Error(w, sitezip.ErrorMessage(err), http.StatusBadRequest)
		return
	}

	outcome, err := s.runner.Run(r.Context(), &req)
	if err != nil {
		s.logger.Error("crawl failed", "url", req.SeedURL, "err", err)
		switch sitezip.ErrorCode(err) {
		case sitezip.EINVALID:
			http.Error(w, sitezip.ErrorMessage(err), http.StatusBadRequest)
		case sitezip.ENOTFOUND:
			http.Error(w, "fetch timed out or was blocked before any page could be saved", http.StatusGatewayTimeout)
		default:
			http.Error(w, fmt.Sprintf("crawl failed: %s", sitezip.ErrorMessage(err)), http.StatusInternalServerError)
		}
		return
	}
	defer outcome.Close()

	f, err := os.Open(outcome.ArchivePath)
	if err != nil {
		http.Error(w, "archive unavailable", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		http.Error(w, "archive unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="scraped_site.zip"`)
	http.ServeContent(w, r, "scraped_site.zip", info.ModTime(), f)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	for _, m := range allowed {
		w.Header().Add("Allow", m)
	}
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
}
