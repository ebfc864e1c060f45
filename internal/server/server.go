// Package server is the composition root: it wires the store, the
// storage gateway, the services and the handlers together, defines the
// routes, and owns startup and graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/studytrack/internal/auth"
	"github.com/sakif/studytrack/internal/handler"
	"github.com/sakif/studytrack/internal/mailer"
	"github.com/sakif/studytrack/internal/middleware"
	sqliteRepo "github.com/sakif/studytrack/internal/repository/sqlite"
	"github.com/sakif/studytrack/internal/service"
	"github.com/sakif/studytrack/internal/storage"
)

// Config holds everything the server needs from the environment.
type Config struct {
	Port      int
	DBPath    string
	UploadDir string
	JWTSecret string

	// GitHub OAuth is optional: leave the client ID empty and the
	// OAuth routes respond 404 while password login keeps working.
	GitHubClientID     string
	GitHubClientSecret string
	GitHubCallbackURL  string
}

// Server owns the router and the resources that need closing on
// shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency chain. Each layer receives only
// what it needs: services get the store interface, handlers get
// services, the router gets handlers.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}

	gateway, err := storage.New(storage.DefaultConfig(s.config.UploadDir), s.logger)
	if err != nil {
		return fmt.Errorf("creating storage gateway: %w", err)
	}

	var github *auth.GitHubProvider
	if s.config.GitHubClientID != "" {
		github = auth.NewGitHubProvider(
			s.config.GitHubClientID,
			s.config.GitHubClientSecret,
			s.config.GitHubCallbackURL,
		)
	} else {
		s.logger.Warn("GitHub OAuth not configured, social login disabled")
	}

	authSvc := service.NewAuthService(s.db, auth.NewPasswordService(), tokens, s.logger)
	projectSvc := service.NewProjectService(s.db, gateway, s.logger)
	taskSvc := service.NewTaskService(s.db, s.logger)
	noteSvc := service.NewNoteService(s.db, s.logger)
	studySvc := service.NewStudyService(s.db, s.logger)
	courseSvc := service.NewCourseService(s.db, s.logger)
	collabSvc := service.NewCollaborationService(s.db, mailer.NewLogMailer(s.logger), s.logger)
	fileSvc := service.NewFileService(s.db, gateway, s.logger)
	searchSvc := service.NewSearchService(s.db, s.logger)
	activitySvc := service.NewActivityService(s.db, s.logger)

	authHandler := handler.NewAuthHandler(authSvc, github, s.logger)
	projectHandler := handler.NewProjectHandler(projectSvc, taskSvc, noteSvc, studySvc, s.logger)
	collabHandler := handler.NewCollaborationHandler(collabSvc, s.logger)
	fileHandler := handler.NewFileHandler(fileSvc, s.logger)
	extrasHandler := handler.NewExtrasHandler(courseSvc, searchSvc, studySvc, activitySvc, s.logger)

	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)
		r.Post("/logout", authHandler.HandleLogout)
		r.Get("/github/login", authHandler.HandleGitHubLogin)
		r.Get("/github/callback", authHandler.HandleGitHubCallback)
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))

		r.Get("/me", authHandler.HandleMe)

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", projectHandler.HandleList)
			r.Post("/", projectHandler.HandleCreate)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", projectHandler.HandleGet)
				r.Put("/", projectHandler.HandleUpdate)
				r.Delete("/", projectHandler.HandleDelete)

				r.Get("/tasks", projectHandler.HandleListTasks)
				r.Post("/tasks", projectHandler.HandleCreateTask)
				r.Get("/notes", projectHandler.HandleListNotes)
				r.Post("/notes", projectHandler.HandleCreateNote)
				r.Post("/sessions", projectHandler.HandleLogSession)

				r.Get("/collaborators", collabHandler.HandleListCollaborators)
				r.Post("/collaborators", collabHandler.HandleInvite)

				r.Get("/files", fileHandler.HandleList)
				r.Post("/files", fileHandler.HandleUpload)

				r.Get("/activity", extrasHandler.HandleProjectActivity)
			})
		})

		r.Put("/tasks/{taskID}", projectHandler.HandleUpdateTask)
		r.Delete("/tasks/{taskID}", projectHandler.HandleDeleteTask)
		r.Delete("/notes/{noteID}", projectHandler.HandleDeleteNote)

		r.Get("/files/{fileID}", fileHandler.HandleDownload)
		r.Delete("/files/{fileID}", fileHandler.HandleDelete)

		r.Get("/invitations", collabHandler.HandleListInvitations)
		r.Post("/invitations/{id}/accept", collabHandler.HandleAccept)
		r.Post("/invitations/{id}/decline", collabHandler.HandleDecline)

		r.Get("/courses", extrasHandler.HandleListCourses)
		r.Post("/courses", extrasHandler.HandleCreateCourse)
		r.Get("/search", extrasHandler.HandleSearch)
		r.Get("/study/summary", extrasHandler.HandleStudySummary)
		r.Get("/study/sessions", extrasHandler.HandleRecentSessions)
		r.Get("/activity", extrasHandler.HandleUserActivity)
	})

	return nil
}

// Router exposes the configured router, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, let in-flight requests
// finish, close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // downloads can be slow
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
			slog.String("uploads", s.config.UploadDir),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
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
