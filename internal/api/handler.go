package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/pfrederiksen/swim-archive/internal/archive"
	"github.com/pfrederiksen/swim-archive/internal/filter"
	"github.com/pfrederiksen/swim-archive/internal/logger"
	"github.com/pfrederiksen/swim-archive/internal/result"
)

// Service is the archive behaviour the handlers expose.
type Service interface {
	SearchAthlete(ctx context.Context, name, club string) ([]result.Record, error)
	PersonalBests(ctx context.Context, name, club string) ([]result.Record, error)
	ScrapePage(ctx context.Context, rawURL string) ([]result.Record, error)
}

// Handler holds the dependencies of the HTTP handlers.
type Handler struct {
	svc Service
}

// NewHandler creates a Handler backed by svc.
func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type resultsResponse struct {
	Success bool            `json:"success"`
	Count   int             `json:"count"`
	Results []result.Record `json:"results"`
}

type personalBestsResponse struct {
	Success       bool            `json:"success"`
	Count         int             `json:"count"`
	PersonalBests []result.Record `json:"personal_bests"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type scrapeRequest struct {
	URL string `json:"url"`
}

// Health reports that the server is up.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Message: "Swimming Archive API is running"})
}

// Search handles GET /api/search?name=&club=
// Optional distance, stroke, course, from and to parameters narrow the results.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	name, club, f, ok := athleteQuery(w, r)
	if !ok {
		return
	}

	records, err := h.svc.SearchAthlete(r.Context(), name, club)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	records = f.Apply(records)
	writeJSON(w, http.StatusOK, resultsResponse{Success: true, Count: len(records), Results: nonNil(records)})
}

// PersonalBests handles GET /api/personal-bests?name=&club=
func (h *Handler) PersonalBests(w http.ResponseWriter, r *http.Request) {
	name, club, f, ok := athleteQuery(w, r)
	if !ok {
		return
	}

	pbs, err := h.svc.PersonalBests(r.Context(), name, club)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	pbs = f.Apply(pbs)
	writeJSON(w, http.StatusOK, personalBestsResponse{Success: true, Count: len(pbs), PersonalBests: nonNil(pbs)})
}

// ScrapePage handles POST /api/scrape-page with a JSON body {"url": "..."}.
func (h *Handler) ScrapePage(w http.ResponseWriter, r *http.Request) {
	var req scrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	rawURL := strings.TrimSpace(req.URL)
	if rawURL == "" {
		writeError(w, http.StatusBadRequest, "URL is required")
		return
	}

	records, err := h.svc.ScrapePage(r.Context(), rawURL)
	switch {
	case errors.Is(err, archive.ErrFetch):
		logger.Warn("Scrape fetch failed", logger.Fields{"url": rawURL}, err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch page")
		return
	case errors.Is(err, archive.ErrNotFound):
		writeError(w, http.StatusNotFound, "No results table found")
		return
	case err != nil:
		h.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resultsResponse{Success: true, Count: len(records), Results: nonNil(records)})
}

// athleteQuery reads name, club and the record filter, writing a 400 when
// name is blank or a filter value is invalid.
func athleteQuery(w http.ResponseWriter, r *http.Request) (string, string, *filter.Filter, bool) {
	q := r.URL.Query()
	name := strings.TrimSpace(q.Get("name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "Athlete name is required")
		return "", "", nil, false
	}

	f, err := filter.Parse(q["distance"], q["stroke"], q["course"], q.Get("from"), q.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return "", "", nil, false
	}
	return name, strings.TrimSpace(q.Get("club")), f, true
}

func (h *Handler) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, archive.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, archive.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		logger.Error("Request failed", logger.Fields{"path": r.URL.Path}, err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	writeJSON(w, status, errorResponse{Success: false, Error: message})
}

func nonNil(records []result.Record) []result.Record {
	if records == nil {
		return []result.Record{}
	}
	return records
}
