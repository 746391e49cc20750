package middleware

import (
	"net/http"
)

var allowed = map[string]struct{}{
	"http://localhost:5173":                 {},
	"http://localhost:5174":                 {},
	"https://empoweredvote.github.io":       {},
	"https://essentials-dev.empowered.vote": {},
	"https://essentials.empowered.vote":     {},
	"https://turfs.empowered.vote":          {},
}

// CORSMiddleware echoes allow-listed origins. The turf file server is
// read-only, so only GET, HEAD and OPTIONS are advertised.
func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		// Echo the origin back only if it’s on our allow-list
		if _, ok := allowed[origin]; ok {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin") // important for caches
			w.Header().Set("Access-Control-Allow-Methods", "GET, HEAD, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}

		w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, X-Turf-Rows, X-Turf-Checksum")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ReadOnly rejects anything but GET, HEAD and OPTIONS.
func ReadOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
		default:
			w.Header().Set("Allow", "GET, HEAD, OPTIONS")
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
}
