package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, metricsHandler http.Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if metricsHandler != nil {
		mux.Handle("GET /metrics", metricsHandler)
	}
}

func registerObserverRoutes(mux *http.ServeMux, observers http.Handler) {
	if observers == nil {
		return
	}
	mux.Handle("GET /v1/ws", observers)
}

func registerPipelineRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/accounts/lookup", handler.LookupAccount)
	mux.HandleFunc("POST /v1/runs", handler.StartRun)
	mux.HandleFunc("GET /v1/runs/active", handler.ListActiveRuns)
	mux.HandleFunc("GET /v1/players/{puuid}/summary/{year}", handler.GetSummary)
	mux.HandleFunc("GET /v1/players/{puuid}/facts/{year}", handler.GetFacts)
}
