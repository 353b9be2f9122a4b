package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const BasePath = "/api/subscriptions"

// NewRouter wires the subscription routes. CORS wraps the router so that
// preflight requests are answered before method matching.
func NewRouter(h *Handler, logger zerolog.Logger, origins []string, docsDir string) http.Handler {
	r := mux.NewRouter()
	r.Use(LogRequest(logger), Metrics)

	for _, base := range []string{BasePath, BasePath + "/"} {
		r.HandleFunc(base, h.CreateSubscription).Methods(http.MethodPost)
		r.HandleFunc(base, h.ListSubscriptions).Methods(http.MethodGet)
	}
	r.HandleFunc(BasePath+"/{id}", h.GetSubscriptionByID).Methods(http.MethodGet)
	r.HandleFunc(BasePath+"/{id}", h.UpdateSubscription).Methods(http.MethodPut)
	r.HandleFunc(BasePath+"/{id}", h.DeleteSubscription).Methods(http.MethodDelete)
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	if docsDir != "" {
		r.PathPrefix("/swagger/").Handler(http.StripPrefix("/swagger/", http.FileServer(http.Dir(docsDir))))
	}

	return CORS(origins)(r)
}
