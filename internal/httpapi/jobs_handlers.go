package httpapi

import (
	"encoding/json"
	"net/http"

	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/store"
)

const maxFavoritesBody = 1 << 20

type JobsHandler struct {
	Search Searcher
}

type jobsResponse struct {
	Jobs  []domain.Posting `json:"jobs"`
	Total int              `json:"total"`
}

// Scrape runs a live search. The request blocks until every source settles.
func (h JobsHandler) Scrape(w http.ResponseWriter, r *http.Request) {
	out, err := h.Search.Search(r.Context(), r.URL.Query().Get("keyword"))
	if err != nil {
		writeSearchError(w, r, err)
		return
	}
	writeJSON(w, out)
}

func (h JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var f store.Filter
	if raw := q.Get("source"); raw != "" {
		src, err := domain.ParseSource(raw)
		if err != nil {
			WriteError(w, r, http.StatusBadRequest, "invalid_source", err.Error())
			return
		}
		f.Source = src
	}
	if raw := q.Get("employment_type"); raw != "" {
		et, err := domain.ParseEmploymentType(raw)
		if err != nil {
			WriteError(w, r, http.StatusBadRequest, "invalid_employment_type", err.Error())
			return
		}
		f.EmploymentType = et
	}
	f.Address = q.Get("address")

	jobs := h.Search.ListStored(f)
	writeJSON(w, jobsResponse{Jobs: jobs, Total: len(jobs)})
}

func (h JobsHandler) Favorites(w http.ResponseWriter, r *http.Request) {
	var body struct {
		URLs []string `json:"urls"`
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxFavoritesBody))
	if err := dec.Decode(&body); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	jobs := h.Search.ListFavorites(body.URLs)
	writeJSON(w, jobsResponse{Jobs: jobs, Total: len(jobs)})
}
