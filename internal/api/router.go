package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

// NewRouter registers every endpoint. Reads are public; creating, claiming
// and depositing need a bearer token.
func NewRouter(h *HandlerProvider, auth *Authenticator, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/packets/{packetId}", h.GetPacketHandler)
	r.Get("/packets/{packetId}/claims/{identity}", h.HasClaimedHandler)
	r.Get("/packets/{packetId}/events", h.ListEventsHandler)
	r.Get("/wallets/{walletId}/balance", h.GetBalanceHandler)

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware)

		r.Post("/packets", h.CreatePacketHandler)
		r.Post("/packets/{packetId}/claim", h.ClaimPacketHandler)
		r.Post("/wallets/{walletId}/deposit", h.DepositHandler)
	})

	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler(r)
}
