package router

import (
	"net/http"

	"github.com/RoyceAzure/lab/qkart/internal/api"
	m "github.com/RoyceAzure/lab/qkart/internal/api/middleware"
	"github.com/RoyceAzure/lab/qkart/internal/infra/auth/token"
	"github.com/RoyceAzure/lab/qkart/internal/infra/ratelimit"
	"github.com/RoyceAzure/lab/qkart/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

func SetupRouter(server *api.Server, tokenMaker token.Maker, verifier service.IAuthVerifier, loginLimiter ratelimit.ILimiter, logger *zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// 全局中間件
	r.Use(m.RequestIdMiddleware)
	r.Use(middleware.RealIP)
	r.Use(m.AuthPayloadMiddleware(tokenMaker, verifier))
	r.Use(m.LoggerMiddleware(logger))
	r.Use(m.RecoverMiddleware)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", server.AuthHandler.Register)
			r.With(m.RateLimitMiddleware(loginLimiter)).Post("/login", server.AuthHandler.Login)
			r.Post("/refresh-tokens", server.AuthHandler.RefreshTokens)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(m.AuthMiddleware)
			r.Get("/{userId}", server.UserHandler.GetUser)
			r.Put("/{userId}", server.UserHandler.SetAddress)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", server.ProductHandler.ListProducts)
			r.Get("/{productId}", server.ProductHandler.GetProduct)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(m.AuthMiddleware)
			r.Get("/", server.CartHandler.GetCart)
			r.Post("/", server.CartHandler.AddProduct)
			r.Put("/", server.CartHandler.UpdateProduct)
			r.Put("/checkout", server.CartHandler.Checkout)
		})

		r.Get("/health", server.HealthHandler.Health)
	})

	if logger != nil {
		_ = chi.Walk(r, func(method string, route string, handler http.Handler, middlewares ...func(http.Handler) http.Handler) error {
			logger.Debug().Str("method", method).Str("route", route).Msg("route registered")
			return nil
		})
	}
	return r
}
