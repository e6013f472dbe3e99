package httpapi

import "net/http"

// NewMux returns the raw mux; NewHandler wraps it in the middleware chain.
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	// Search + stored jobs
	jh := JobsHandler{Search: d.Search}
	mux.HandleFunc("/api/scrape", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: jh.Scrape,
	}))
	mux.HandleFunc("/api/jobs", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: jh.List,
	}))
	mux.HandleFunc("/api/jobs/favorites", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: jh.Favorites,
	}))

	// Config
	ch := ConfigHandler{
		CfgVal:      d.CfgVal,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
		OnConfig:    d.OnConfig,
	}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
		http.MethodPut: ch.Put,
	}))
	mux.HandleFunc("/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Path,
	}))
	mux.HandleFunc("/config/validate", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Validate,
	}))

	// Scrape status
	sch := ScrapeHandler{Search: d.Search}
	mux.HandleFunc("/scrape/status", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: sch.Status,
	}))

	// SSE events
	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	hh := HealthHandler{StoreSize: d.StoreSize}
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))

	dh := DBHandler{DB: d.DB}
	mux.HandleFunc("/db/checkpoint", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: dh.Checkpoint,
	}))

	if d.Shutdown != nil {
		mux.HandleFunc("/shutdown", d.Shutdown)
	}

	return mux
}

func NewHandler(d Deps) http.Handler {
	log := d.Log.With().Str("component", "http").Logger()
	return Chain(NewMux(d), Cors, RequestID, AccessLog(log), Recover(log))
}
