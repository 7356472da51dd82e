package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RoyceAzure/lab/qkart/internal/api"
	"github.com/RoyceAzure/lab/qkart/internal/api/handler"
	"github.com/RoyceAzure/lab/qkart/internal/api/router"
	"github.com/RoyceAzure/lab/qkart/internal/appcontext"
	"github.com/RoyceAzure/lab/qkart/internal/config"
	"github.com/rs/zerolog/log"
)

// @title qkart
// @version 1.0
// @description QKart 電商後端: 帳號, 商品, 購物車與錢包結帳

// @host      localhost:8082
// @BasePath  /v1

// @securityDefinitions.apikey  ApiKeyAuth
// @in                          header
// @name                        Authorization
// @description                 Description for Authorization header: Type "Bearer" followed by a space and the token. Example: "Bearer {token}"

func main() {
	app, err := appcontext.NewApplicationContext(config.GetConfig())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to setup application")
		return
	}

	// 初始化 handler
	server := api.NewServer(
		handler.NewAuthHandler(app.AuthService),
		handler.NewUserHandler(app.UserService),
		handler.NewProductHandler(app.ProductService),
		handler.NewCartHandler(app.CartService),
		handler.NewHealthHandler(app.Store),
	)

	// 設置路由
	r := router.SetupRouter(server, app.TokenMaker, app.AuthVerifier, app.LoginLimiter, &app.Logger)

	// 設定服務器參數
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", app.Cf.ServerPort),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 設置訊號監聽
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	shutDonwCompleted := make(chan struct{}, 1)
	// 監聽退出訊號
	go func() {
		<-sigChan
		app.Logger.Info().Msg("Received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.Logger.Error().Err(err).Msg("Server shutdown error")
		}

		if err := app.Shutdown(shutdownCtx); err != nil {
			app.Logger.Error().Err(err).Msg("Application shutdown error")
		}

		shutDonwCompleted <- struct{}{}
	}()

	// 啟動服務
	app.Logger.Info().Str("addr", srv.Addr).Msg("Server starting")
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		app.Logger.Fatal().Err(err).Msg("server stopped unexpectedly")
	}
	<-shutDonwCompleted
	log.Info().Msg("closed completed")
}
