package api

import "github.com/RoyceAzure/lab/qkart/internal/api/handler"

type Server struct {
	AuthHandler    *handler.AuthHandler
	UserHandler    *handler.UserHandler
	ProductHandler *handler.ProductHandler
	CartHandler    *handler.CartHandler
	HealthHandler  *handler.HealthHandler
}

func NewServer(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	productHandler *handler.ProductHandler,
	cartHandler *handler.CartHandler,
	healthHandler *handler.HealthHandler,
) *Server {
	return &Server{
		AuthHandler:    authHandler,
		UserHandler:    userHandler,
		ProductHandler: productHandler,
		CartHandler:    cartHandler,
		HealthHandler:  healthHandler,
	}
}
