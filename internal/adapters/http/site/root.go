// Package site serves the embedded dashboard page.
package site

import (
	"context"
	"net/http"
)

// Register serves the dashboard page and its script at the root of mux.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("/", http.FileServer(FS()))
}
