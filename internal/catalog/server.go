package catalog

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"hangarview/internal/domain"
)

const (
	defaultPageLimit = 30
	maxPageLimit     = 100
)

// pageResponse is the wire shape of a search result page
type pageResponse struct {
	Items any `json:"items"`
	Total int `json:"total"`
}

// errorResponse is the wire shape of an error
type errorResponse struct {
	Error string `json:"error"`
}

// NewRouter creates the HTTP router for the catalog service
func NewRouter(store *Store) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(LoggingMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/gear", handleListGear(store))
		r.Get("/batteries", handleListBatteries(store))
		r.Get("/aircraft", handleListAircraft(store))
		r.Post("/gear/{id}/approve", handleModerateGear(store, true))
		r.Post("/gear/{id}/reject", handleModerateGear(store, false))
	})

	return r
}

// LoggingMiddleware logs HTTP requests
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		log.Printf("HTTP %s %s %d %s %s",
			r.Method,
			r.URL.Path,
			ww.Status(),
			time.Since(start),
			middleware.GetReqID(r.Context()),
		)
	})
}

func handleListGear(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, limit, offset, err := parseSearchParams(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		items, total := store.SearchGear(f, limit, offset)
		writeJSON(w, http.StatusOK, pageResponse{Items: items, Total: total})
	}
}

func handleListBatteries(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, limit, offset, err := parseSearchParams(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		items, total := store.SearchBatteries(f, limit, offset)
		writeJSON(w, http.StatusOK, pageResponse{Items: items, Total: total})
	}
}

func handleListAircraft(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, limit, offset, err := parseSearchParams(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		items, total := store.SearchAircraft(f, limit, offset)
		writeJSON(w, http.StatusOK, pageResponse{Items: items, Total: total})
	}
}

func handleModerateGear(store *Store, approve bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		item, err := store.ModerateGear(id, approve)
		if err != nil {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, item)
	}
}

// parseSearchParams extracts filters and the page window from query params
func parseSearchParams(r *http.Request) (domain.SearchFilters, int, int, error) {
	q := r.URL.Query()

	f := domain.SearchFilters{
		Query:    q.Get("q"),
		Category: q.Get("category"),
		Status:   domain.ModerationStatus(q.Get("status")),
		Sort:     domain.SortOrder(q.Get("sort")),
	}

	limit := defaultPageLimit
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return f, 0, 0, &badParamError{name: "limit", value: v}
		}
		if n > maxPageLimit {
			n = maxPageLimit
		}
		limit = n
	}

	offset := 0
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return f, 0, 0, &badParamError{name: "offset", value: v}
		}
		offset = n
	}

	return f, limit, offset, nil
}

type badParamError struct {
	name  string
	value string
}

func (e *badParamError) Error() string {
	return "invalid " + e.name + " parameter: " + e.value
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
