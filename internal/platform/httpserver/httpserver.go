package httpserver

import (
	"net/http"
	"time"
)

// New builds the HTTP server. Read and write timeouts leave headroom for
// multipart image uploads from slow connections; everything else on this API
// is small JSON.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       2 * time.Minute,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       90 * time.Second,
	}
}
