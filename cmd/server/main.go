package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nikhil/teamtask/internal/auth"
	"github.com/nikhil/teamtask/internal/config"
	"github.com/nikhil/teamtask/internal/database"
	"github.com/nikhil/teamtask/internal/guard"
	"github.com/nikhil/teamtask/internal/handlers"
	"github.com/nikhil/teamtask/internal/hub"
	"github.com/nikhil/teamtask/internal/logger"
	"github.com/nikhil/teamtask/internal/middleware"
	"github.com/nikhil/teamtask/internal/routes"
	"github.com/nikhil/teamtask/internal/service/dashboard"
	"github.com/nikhil/teamtask/internal/service/message"
	"github.com/nikhil/teamtask/internal/service/task"
	"github.com/nikhil/teamtask/internal/service/team"
	"github.com/nikhil/teamtask/internal/service/user"
	"github.com/nikhil/teamtask/internal/store/mysql"
)

func main() {
	log := logger.NewLogger("server")
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database", "error", err)
	}
	defer db.Close()
	log.Info("Database connected")

	stores := mysql.NewStores(db)
	g := guard.New(stores.Memberships)
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)

	broadcastHub := hub.New()

	authService := auth.NewService(stores.Users, tokens)
	teamService := team.NewService(stores.Users, stores.Teams, stores.Memberships, g)
	taskService := task.NewService(stores.Tasks, g)
	messageService := message.NewService(stores.Messages, stores.Users, g, broadcastHub)
	userService := user.NewService(stores.Users, authService)
	dashboardService := dashboard.NewService(teamService, taskService)
	wsHandler := handlers.NewWebSocketHandler(broadcastHub, messageService)

	router := routes.RegisterAllRoutes(routes.Services{
		Middleware: middleware.New(tokens),
		Users:      userService,
		Teams:      teamService,
		Tasks:      taskService,
		Messages:   messageService,
		Dashboard:  dashboardService,
		WebSocket:  wsHandler,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		broadcastHub.Run(ctx)
		return nil
	})
	group.Go(func() error {
		log.Info("Server is running", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Fatal("Server stopped", "error", err)
	}
	log.Info("Server stopped")
}
