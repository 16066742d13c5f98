package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (c *controller) Mux() http.Handler {
	r := chi.NewRouter()

	r.Use(c.requestIdMw)
	r.Use(c.requestLoggingMw)

	r.HandleFunc("/ws", c.serveWS)

	return r
}
