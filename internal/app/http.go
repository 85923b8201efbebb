package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-taskboard/internal/config"
	"github.com/adanyl0v/go-taskboard/internal/delivery/http/v1"
	"github.com/adanyl0v/go-taskboard/internal/services"
)

func MustListenAndServeHTTP() {
	cfg := config.Global()
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := cfg.HTTP

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	registerRoutes(router)

	server := &http.Server{
		Addr:    net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler: router,
	}

	go func() {
		globalLogger.Info().
			Str("host", httpCfg.Host).
			Str("port", httpCfg.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			globalLogger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			panic(err)
		}
	}()

	// Wait for the interrupt signal to gracefully
	// shut down the server with a timeout of 5 seconds.
	quit := make(chan os.Signal, 1)
	// kill (no params) by default sends syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	// kill -9 is syscall.SIGKILL but can't be caught, so don't need to add it
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	globalLogger.Info().
		Msg("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	globalLogger.Info().Msg("shut down http server")
}

func registerRoutes(router gin.IRouter) {
	v1Handler := v1.New(
		globalLogger,
		services.NewTaskService(globalLogger, globalPostgresPool),
		services.NewCategoryService(globalLogger, globalPostgresPool),
		services.NewStatsService(globalLogger, globalPostgresPool),
	)
	router = router.Group("/api/v1", v1Handler.HandleRequestIDMiddleware)

	taskRouter := router.Group("/tasks")
	taskRouter.POST("", v1Handler.HandleCreateTask)
	taskRouter.GET("", v1Handler.HandleGetTasks)
	taskRouter.GET("/:id", v1Handler.HandleGetTask)
	taskRouter.PATCH("/:id", v1Handler.HandleUpdateTask)
	taskRouter.PATCH("/:id/toggle", v1Handler.HandleToggleTask)
	taskRouter.DELETE("/:id", v1Handler.HandleDeleteTask)

	categoryRouter := router.Group("/categories")
	categoryRouter.POST("", v1Handler.HandleCreateCategory)
	categoryRouter.GET("", v1Handler.HandleGetCategories)
	categoryRouter.GET("/:id", v1Handler.HandleGetCategory)
	categoryRouter.PATCH("/:id", v1Handler.HandleUpdateCategory)
	categoryRouter.DELETE("/:id", v1Handler.HandleDeleteCategory)

	router.GET("/stats", v1Handler.HandleGetStats)
}
