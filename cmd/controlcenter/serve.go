package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/gorilla/mux"
	"github.com/spf13/cobra"

	"github.com/Dan9191/control-center/internal/handler"
	"github.com/Dan9191/control-center/internal/middleware"
	"github.com/Dan9191/control-center/internal/notifications"
	"github.com/Dan9191/control-center/internal/scheduler"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and the notification scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			loc, _ := cfg.Location()
			sched := scheduler.New(logger, loc)
			schedules := map[string]string{
				notifications.JobOverdueTasks:      cfg.ScheduleOverdue,
				notifications.JobUpcomingReminders: cfg.ScheduleReminders,
				notifications.JobStaleFollowUps:    cfg.ScheduleStale,
			}
			for _, name := range notifications.Jobs {
				if err := sched.AddJob(schedules[name], a.notifier.Job(name, a.repo)); err != nil {
					return err
				}
			}
			sched.Start()
			defer sched.Stop()

			// Setup router
			r := mux.NewRouter()
			r.Use(middleware.RequestID, middleware.Logger(logger), middleware.Recovery(logger))
			handler.NewHandler(a.svc, cfg, logger).RegisterRoutes(r)

			corsHandler := cors.Handler(cors.Options{
				AllowedOrigins: cfg.CORSOrigins,
				AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
				AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
				ExposedHeaders: []string{"X-Request-ID", "Content-Disposition"},
				MaxAge:         300,
			})

			if !cfg.AuthEnabled() {
				logger.Warn("Authentication is disabled; set AUTH_PASSWORD_HASH to require a login")
			}

			addr := fmt.Sprintf(":%s", cfg.Port)
			server := &http.Server{
				Addr:              addr,
				Handler:           corsHandler(r),
				ReadHeaderTimeout: 10 * time.Second,
				ReadTimeout:       30 * time.Second,
				WriteTimeout:      60 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Infof("Starting server on %s", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- fmt.Errorf("server failed: %w", err)
				}
				close(errCh)
			}()

			select {
			case <-ctx.Done():
				logger.Info("Shutting down")
			case err := <-errCh:
				return err
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("failed to shut down server: %w", err)
			}
			return <-errCh
		},
	}
}
