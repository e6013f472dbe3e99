package httpapi

import "net/http"

type ScrapeHandler struct {
	Search Searcher
}

func (h ScrapeHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Search.Status())
}
