// Package server exposes the read paths of the store as a small JSON API: a paginated
// record listing, a per-record detail view, and store counts. It is a thin view over
// the store; all semantics (ordering, null handling, not-found) live there.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/cverdb/cverdb/internal/log"
	"github.com/cverdb/cverdb/pkg/cvedb"
)

const (
	defaultPage    = 1
	defaultPerPage = 10
)

type Server struct {
	reader cvedb.StoreReader
}

func New(reader cvedb.StoreReader) *Server {
	return &Server{
		reader: reader,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /cves/list", s.handleList)
	mux.HandleFunc("GET /cves/{cveID}", s.handleDetail)
	mux.HandleFunc("GET /counts", s.handleCounts)
	return mux
}

type listResponse struct {
	Rows     []cvedb.PageRow     `json:"rows"`
	Total    int64               `json:"total"`
	Page     int                 `json:"page"`
	PerPage  int                 `json:"per_page"`
	LastPage int                 `json:"last_page"`
	Sort     cvedb.SortDirection `json:"sort"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	page := intParam(r, "page", defaultPage)
	perPage := intParam(r, "per_page", defaultPerPage)
	if page < 1 {
		page = defaultPage
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}

	sort := cvedb.SortDirection(r.URL.Query().Get("sort"))
	if sort != cvedb.SortAscending {
		sort = cvedb.SortDescending
	}

	total, err := s.reader.TotalCount()
	if err != nil {
		respondError(w, err)
		return
	}

	rows, err := s.reader.Page(perPage, (page-1)*perPage, sort)
	if err != nil {
		respondError(w, err)
		return
	}

	lastPage := int((total + int64(perPage) - 1) / int64(perPage))
	if lastPage < 1 {
		lastPage = 1
	}

	respond(w, http.StatusOK, listResponse{
		Rows:     rows,
		Total:    total,
		Page:     page,
		PerPage:  perPage,
		LastPage: lastPage,
		Sort:     sort,
	})
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	cveID := r.PathValue("cveID")

	record, err := s.reader.GetRecord(cveID)
	if err != nil {
		respondError(w, err)
		return
	}
	if record == nil {
		respond(w, http.StatusNotFound, map[string]string{
			"error":  "record not found",
			"cve_id": cveID,
		})
		return
	}

	respond(w, http.StatusOK, record)
}

func (s *Server) handleCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := s.reader.Counts()
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, counts)
}

// intParam parses a numeric query parameter, falling back to the default on absent or
// malformed values rather than failing the request.
func intParam(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Errorf("unable to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, err error) {
	log.Errorf("request failed: %v", err)
	respond(w, http.StatusInternalServerError, map[string]string{
		"error": fmt.Sprintf("query failed: %v", err),
	})
}
