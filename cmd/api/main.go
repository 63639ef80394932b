package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	httpadapter "todoapp/internal/adapter/http"
	"todoapp/internal/adapter/http/handlers"
	httpmiddleware "todoapp/internal/adapter/http/middleware"
	"todoapp/internal/adapter/store"
	appservice "todoapp/internal/app/service"
	"todoapp/internal/config"
	"todoapp/pkg/translator"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	// Make zap available to packages that log through zap.L().
	zap.ReplaceGlobals(logger)
	defer func() {
		if err := logger.Sync(); err != nil {
			zap.L().Debug("failed to sync logger", zap.Error(err))
		}
	}()

	cfg := config.LoadConfig()

	translator.InitTranslator(translator.Config{
		TranslationFolder:  os.Getenv("TRANSLATION_FOLDER"),
		SupportedLanguages: translator.SupportedLanguages,
	})

	ctx := context.Background()
	todoStore, err := store.Open(ctx, cfg.DatabaseURL, cfg.DbDebug, logger)
	if err != nil {
		logger.Fatal("failed to open record store", zap.String("driver", store.Driver(cfg.DatabaseURL)), zap.Error(err))
	}

	todoService := appservice.NewTodoService(todoStore.Repository)

	r := gin.New()
	r.Use(gin.Recovery(), httpmiddleware.GinZapMiddleware(logger), httpmiddleware.MetricsMiddleware())
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		logger.Fatal("invalid trusted proxies", zap.Strings("proxies", cfg.TrustedProxies), zap.Error(err))
	}
	httpadapter.RegisterRoutes(
		r,
		handlers.NewHealthHandler(todoStore, todoStore.Driver),
		handlers.NewTodoHandler(todoService),
	)

	server := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		logger.Info("starting server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("could not start server", zap.Error(err))
		}
	}()

	serverStopped := make(chan struct{})
	wait := gfshutdown.GracefulShutdown(
		ctx,
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"http-server": func(ctx context.Context) error {
				defer close(serverStopped)
				logger.Info("shutting down http server")
				return server.Shutdown(ctx)
			},
			"store": func(ctx context.Context) error {
				// In-flight requests still need the store until the server drains.
				select {
				case <-serverStopped:
				case <-ctx.Done():
				}
				logger.Info("closing record store", zap.String("driver", todoStore.Driver))
				return todoStore.Close()
			},
		},
	)

	exitCode := <-wait
	logger.Info("server exited", zap.Int("code", exitCode))
	_ = logger.Sync()
	os.Exit(exitCode)
}
