package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /{$}", handler.Index)
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.HandleFunc("GET /health", handler.Health)
}

func registerGameRoutes(mux *http.ServeMux, handler *Handler, prefix string) {
	mux.HandleFunc("GET "+prefix, handler.ListGames)
	mux.HandleFunc("POST "+prefix, handler.CreateGame)
	mux.HandleFunc("GET "+prefix+"/{gameID}", handler.GetGame)
	mux.HandleFunc("PUT "+prefix+"/{gameID}", handler.UpdateGame)
	mux.HandleFunc("DELETE "+prefix+"/{gameID}", handler.DeleteGame)
}
