// Package server wires storage, services, handlers and middleware into one
// router and runs the HTTP server.
//
// New is the composition root:
//
//	repository.Store → services → handlers → routes
//
// main.go only picks the storage backend and calls Start.
package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/sakif/cabin-manager/internal/auth"
	"github.com/sakif/cabin-manager/internal/checklist"
	"github.com/sakif/cabin-manager/internal/config"
	"github.com/sakif/cabin-manager/internal/demo"
	"github.com/sakif/cabin-manager/internal/handler"
	"github.com/sakif/cabin-manager/internal/middleware"
	"github.com/sakif/cabin-manager/internal/model"
	"github.com/sakif/cabin-manager/internal/repository"
	"github.com/sakif/cabin-manager/internal/service"
	"github.com/sakif/cabin-manager/web"
)

// Server owns the router and the storage backend. The store is closed when
// Start returns.
type Server struct {
	handler http.Handler
	config  *config.Config
	logger  *slog.Logger
	store   repository.Store
}

// New builds the full handler tree on top of store.
func New(cfg *config.Config, logger *slog.Logger, store repository.Store) (*Server, error) {
	s := &Server{
		config: cfg,
		logger: logger,
		store:  store,
	}

	router, err := s.routes()
	if err != nil {
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	s.handler = cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
	}).Handler(router)

	return s, nil
}

// Handler returns the root handler, CORS included.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// routes builds the router.
//
//	GET    /                              login page
//	GET    /dashboard, /dashboard/*       dashboard pages
//	GET    /static/*                      assets
//	POST   /api/auth/login                credential sign-in
//	POST   /api/auth/logout
//	GET    /api/auth/session
//	GET    /auth/github/login             only when GitHub is configured
//	GET    /auth/github/callback
//	GET    /api/reservation               list
//	POST   /api/reservation               create
//	PATCH  /api/reservation[/{id}]        update
//	DELETE /api/reservation/{id}
//	GET    /api/reservation/stats
//	GET    /api/shopping-list, /api/todo-list          list
//	POST   /api/shopping-list, /api/todo-list          create
//	PATCH  /api/shopping-list/{id}, /api/todo-list/{id}
//	DELETE /api/shopping-list/{id}, /api/todo-list/{id}
//	GET    /api/shopping-list/progress, /api/todo-list/progress
//	GET    /api/checklist
func (s *Server) routes() (*chi.Mux, error) {
	tokens, err := auth.NewTokenService(s.config.JWTSecret, s.config.SessionTTL)
	if err != nil {
		return nil, err
	}

	dataset, err := demo.Load()
	if err != nil {
		return nil, err
	}
	list, err := checklist.Load()
	if err != nil {
		return nil, err
	}

	var github *auth.GitHubProvider
	if s.config.GitHubEnabled() {
		github = auth.NewGitHubProvider(s.config.GitHubClientID, s.config.GitHubClientSecret, s.config.GitHubCallbackURL)
	}

	authHandler := handler.NewAuthHandler(
		service.NewAuthService(s.store.Users(), tokens, auth.NewPasswordService(), s.logger),
		github, s.config.SecureCookies, s.logger,
	)
	reservationHandler := handler.NewReservationHandler(
		service.NewReservationService(s.store.Reservations(), dataset.Reservations, s.logger),
		s.logger,
	)
	shoppingHandler := handler.NewListHandler(
		service.NewListService(service.ShoppingListKind, s.store.ShoppingList(), dataset.ShoppingList, s.logger),
		handler.ShoppingListFields, model.NewShoppingListItem, s.logger,
	)
	todoHandler := handler.NewListHandler(
		service.NewListService(service.TodoListKind, s.store.TodoList(), dataset.TodoList, s.logger),
		handler.TodoListFields, model.NewToDoItem, s.logger,
	)
	checklistHandler := handler.NewChecklistHandler(service.NewChecklistService(list), s.logger)

	pageHandler, err := handler.NewPageHandler(s.assets(s.config.TemplateDir, web.Templates()), authHandler.GitHubEnabled(), s.logger)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(auth.Session(tokens))

	staticFS := s.assets(s.config.StaticDir, web.Static())
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	r.Get("/", pageHandler.HandlePage)
	r.Get("/dashboard", pageHandler.HandlePage)
	r.Get("/dashboard/*", pageHandler.HandlePage)

	if authHandler.GitHubEnabled() {
		r.Get("/auth/github/login", authHandler.HandleGitHubLogin)
		r.Get("/auth/github/callback", authHandler.HandleGitHubCallback)
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.HandleLogin)
			r.Post("/logout", authHandler.HandleLogout)
			r.Get("/session", authHandler.HandleSession)
		})

		r.Route("/reservation", func(r chi.Router) {
			r.Get("/", reservationHandler.HandleList)
			r.Post("/", reservationHandler.HandleCreate)
			r.Patch("/", reservationHandler.HandleUpdate)
			r.Get("/stats", reservationHandler.HandleStats)
			r.Patch("/{id}", reservationHandler.HandleUpdate)
			r.Delete("/{id}", reservationHandler.HandleDelete)
		})

		r.Route("/shopping-list", func(r chi.Router) {
			r.Get("/", shoppingHandler.HandleList)
			r.Post("/", shoppingHandler.HandleCreate)
			r.Get("/progress", shoppingHandler.HandleProgress)
			r.Patch("/{id}", shoppingHandler.HandleUpdate)
			r.Delete("/{id}", shoppingHandler.HandleDelete)
		})

		r.Route("/todo-list", func(r chi.Router) {
			r.Get("/", todoHandler.HandleList)
			r.Post("/", todoHandler.HandleCreate)
			r.Get("/progress", todoHandler.HandleProgress)
			r.Patch("/{id}", todoHandler.HandleUpdate)
			r.Delete("/{id}", todoHandler.HandleDelete)
		})

		r.Get("/checklist", checklistHandler.HandleChecklist)
	})

	return r, nil
}

// assets returns dir on disk when set, otherwise the embedded fallback.
func (s *Server) assets(dir string, embedded fs.FS) fs.FS {
	if dir == "" {
		return embedded
	}
	s.logger.Debug("serving assets from disk", slog.String("dir", dir))
	return os.DirFS(dir)
}

// Start runs the server until SIGINT or SIGTERM, then drains in-flight
// requests for up to 30 seconds and closes the store.
func (s *Server) Start() error {
	defer s.store.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("environment", s.config.Environment),
			slog.Bool("github", s.config.GitHubEnabled()),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
