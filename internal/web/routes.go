package web

import "net/http"

// RegisterAPIV1 registers the public API routes under /api/v1/.
func RegisterAPIV1(mux *http.ServeMux, mh MapHost) {
	mux.Handle("/api/v1/", http.StripPrefix("/api/v1", apiV1Router(mh)))
}

// NewMux builds the standard mux: /api/v1/* for the API, and JSON 404s for
// everything else.
func NewMux(mh MapHost) *http.ServeMux {
	mux := http.NewServeMux()
	RegisterAPIV1(mux, mh)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusNotFound, "not_found", "not found")
	})
	return mux
}
