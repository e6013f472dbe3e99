package httpapi

import (
	"net/http"

	"jobscout-engine/internal/domain"
)

type HealthHandler struct {
	StoreSize func() int
}

func (h HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	sources := make([]map[string]string, 0, len(domain.Sources))
	for _, s := range domain.Sources {
		sources = append(sources, map[string]string{"id": s.String(), "label": s.Label()})
	}
	resp := map[string]any{
		"ok":      true,
		"sources": sources,
	}
	if h.StoreSize != nil {
		resp["stored"] = h.StoreSize()
	}
	writeJSON(w, resp)
}
