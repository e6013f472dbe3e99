package main

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net"
	"net/http"
	"os"

	"github.com/rs/zerolog"

	"jobscout-engine/internal/httpapi"
)

func randomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// shutdownToken reads JOBSCOUT_SHUTDOWN_TOKEN or mints one for this run.
func shutdownToken(log zerolog.Logger) string {
	if tok := os.Getenv("JOBSCOUT_SHUTDOWN_TOKEN"); tok != "" {
		return tok
	}
	tok, err := randomToken(16)
	if err != nil {
		log.Fatal().Err(err).Msg("shutdown token")
	}
	log.Info().Str("token", tok).Msg("shutdown token for this run")
	return tok
}

func shutdownHandler(token string, stop func()) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			httpapi.WriteError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "POST only")
			return
		}

		// Local-only guard (covers typical desktop usage)
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		if ip := net.ParseIP(host); ip == nil || !ip.IsLoopback() {
			httpapi.WriteError(w, r, http.StatusForbidden, "forbidden", "loopback only")
			return
		}

		got := r.Header.Get("X-Shutdown-Token")
		if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			httpapi.WriteError(w, r, http.StatusUnauthorized, "unauthorized", "bad shutdown token")
			return
		}

		// Respond immediately; main drains the server once stop fires.
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("shutting down\n"))
		stop()
	}
}
