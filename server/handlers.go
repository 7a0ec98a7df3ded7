package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/amonks/genremap/cooccur"
	"github.com/amonks/genremap/mapper"
	"github.com/go-chi/chi/v5"
)

type distanceResponse struct {
	A            string   `json:"a"`
	B            string   `json:"b"`
	Distance     float64  `json:"distance"`
	Relationship string   `json:"relationship"`
	Hops         int      `json:"hops"`
	Path         []string `json:"path,omitempty"`
}

// GET /distance?a=rock&b=hard+rock
func (s *server) distance(w http.ResponseWriter, r *http.Request) {
	a, b := r.URL.Query().Get("a"), r.URL.Query().Get("b")
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		writeError(w, http.StatusBadRequest, "a and b are required")
		return
	}
	m := s.m.Measure(a, b)
	writeJSON(w, http.StatusOK, distanceResponse{
		A:            m.A,
		B:            m.B,
		Distance:     m.Distance,
		Relationship: m.Relationship,
		Hops:         m.Hops,
		Path:         m.Path,
	})
}

// GET /genres/{genre}/related?max=0.5
func (s *server) related(w http.ResponseWriter, r *http.Request) {
	maxDistance, ok := maxParam(w, r)
	if !ok {
		return
	}
	related, err := s.m.GetRelatedGenres(chi.URLParam(r, "genre"), maxDistance)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, related)
}

// GET /artists/{artist}/genres
func (s *server) artistGenres(w http.ResponseWriter, r *http.Request) {
	artist := chi.URLParam(r, "artist")
	writeJSON(w, http.StatusOK, map[string]any{
		"artist": artist,
		"genres": s.m.Cache().Fetch(r.Context(), artist, s.pace),
	})
}

type matchResponse struct {
	mapper.MatchResult
	Info mapper.MatchInfo `json:"info"`
}

// GET /artists/{artist}/match?genre=rock&max=0.5
func (s *server) match(w http.ResponseWriter, r *http.Request) {
	artist, target := chi.URLParam(r, "artist"), r.URL.Query().Get("genre")
	if strings.TrimSpace(target) == "" {
		writeError(w, http.StatusBadRequest, "genre is required")
		return
	}
	maxDistance, ok := maxParam(w, r)
	if !ok {
		return
	}

	// Warm through the pacer so the evaluation below is a cache hit.
	s.m.Cache().Fetch(r.Context(), artist, s.pace)

	res, err := s.m.Evaluate(r.Context(), artist, target, maxDistance)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, matchResponse{
		MatchResult: res,
		Info:        s.m.GetGenreMatchInfo(r.Context(), artist, target),
	})
}

type cooccurrenceRequest struct {
	Artists    []string `json:"artists"`
	SampleSize int      `json:"sample_size"`
}

// POST /cooccurrence {"artists": [...], "sample_size": 100}
func (s *server) cooccurrence(w http.ResponseWriter, r *http.Request) {
	var req cooccurrenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}

	stats, err := s.m.BuildCooccurrenceMatrix(r.Context(), req.Artists, req.SampleSize, s.pace)
	switch {
	case errors.Is(err, cooccur.ErrInvalidSampleSize):
		writeError(w, http.StatusBadRequest, err.Error())
	case err != nil:
		s.log.Error().Err(err).Msg("co-occurrence build failed")
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		writeJSON(w, http.StatusOK, stats)
	}
}

// GET /coverage
func (s *server) coverage(w http.ResponseWriter, r *http.Request) {
	report, err := s.m.Coverage()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func maxParam(w http.ResponseWriter, r *http.Request) (float64, bool) {
	v := r.URL.Query().Get("max")
	if v == "" {
		return DefaultMaxDistance, true
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid max: "+v)
		return 0, false
	}
	return f, true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
