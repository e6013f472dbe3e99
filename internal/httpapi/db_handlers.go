package httpapi

import (
	"net"
	"net/http"
)

type DBHandler struct {
	DB Checkpointer
}

func (h DBHandler) Checkpoint(w http.ResponseWriter, r *http.Request) {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if ip := net.ParseIP(host); ip == nil || !ip.IsLoopback() {
		WriteError(w, r, http.StatusForbidden, "forbidden", "loopback only")
		return
	}
	if h.DB == nil {
		WriteError(w, r, http.StatusServiceUnavailable, "persistence_disabled", "store persistence is off")
		return
	}

	if err := h.DB.Checkpoint(r.Context()); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "checkpoint_failed", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
