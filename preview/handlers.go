package preview

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/poiesic/vitrine/surface"
)

type healthResponse struct {
	Status      string `json:"status"`
	Products    int    `json:"products"`
	Fingerprint string `json:"fingerprint,omitempty"`
	LoadedAt    string `json:"loadedAt,omitempty"`
}

type productsResponse struct {
	Query    string                `json:"query,omitempty"`
	Total    int                   `json:"total"`
	Products []surface.ProductView `json:"products"`
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	snap := s.current.Load()
	if snap == nil {
		respond(w, http.StatusOK, healthResponse{Status: surface.StatusUnavailable.String()})
		return
	}
	respond(w, http.StatusOK, healthResponse{
		Status:      surface.StatusOK.String(),
		Products:    snap.engine.Len(),
		Fingerprint: snap.fingerprint,
		LoadedAt:    snap.loadedAt.UTC().Format(time.RFC3339),
	})
}

func (s *Server) catalogBlob(w http.ResponseWriter, r *http.Request) {
	snap := s.current.Load()
	if snap == nil {
		s.fail(w, r, http.StatusServiceUnavailable, ErrNotLoaded.Error())
		return
	}

	etag := `"` + snap.fingerprint + `"`
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")
	if matchesETag(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", strconv.Itoa(len(snap.blob)))
	w.WriteHeader(http.StatusOK)
	w.Write(snap.blob)
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	snap := s.current.Load()
	if snap == nil {
		s.fail(w, r, http.StatusServiceUnavailable, ErrNotLoaded.Error())
		return
	}
	products := snap.engine.All()
	respond(w, http.StatusOK, productsResponse{Total: len(products), Products: products})
}

func (s *Server) searchProducts(w http.ResponseWriter, r *http.Request) {
	snap := s.current.Load()
	if snap == nil {
		s.fail(w, r, http.StatusServiceUnavailable, ErrNotLoaded.Error())
		return
	}

	limit := s.searchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.fail(w, r, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	query := surface.SanitizeQuery(r.URL.Query().Get("q"))
	products := snap.engine.Search(query)
	total := len(products)
	if len(products) > limit {
		products = products[:limit]
	}
	respond(w, http.StatusOK, productsResponse{Query: query, Total: total, Products: products})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, message string) {
	reqID := middleware.GetReqID(r.Context())
	if status >= http.StatusInternalServerError {
		s.logger.Warn("request failed", "path", r.URL.Path, "status", status, "request_id", reqID, "err", message)
	}
	respond(w, status, errorResponse{Error: message, RequestID: reqID})
}

func respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// matchesETag reports whether an If-None-Match header names etag.
func matchesETag(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		candidate = strings.TrimPrefix(candidate, "W/")
		if candidate == "*" || candidate == etag {
			return true
		}
	}
	return false
}
