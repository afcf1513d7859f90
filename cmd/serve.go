package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"p9e.in/washreport/config"
	"p9e.in/washreport/handlers"
	"p9e.in/washreport/middleware"
	"p9e.in/washreport/models"
	"p9e.in/washreport/pkg/trello"
	"p9e.in/washreport/pkg/wizard"
	"p9e.in/washreport/routes"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the report form server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := config.ConfigureLogger(cfg); err != nil {
			return fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
		logger := config.GetLogger()

		handler, err := buildHandler(cfg)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.WithField("port", cfg.Port).Info("Server starting")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case err := <-errCh:
			return fmt.Errorf("server failed: %w", err)
		case <-quit:
		}

		logger.Info("Shutting down server...")
		// leave room for an in-flight card creation to finish
		ctx, cancel := context.WithTimeout(context.Background(), cfg.TrelloTimeout+5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		logger.Info("Server exited")
		return nil
	},
}

// buildHandler wires the catalog, Trello client, session store and routes.
func buildHandler(cfg *config.Config) (http.Handler, error) {
	logger := config.GetLogger()

	catalog, err := models.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}

	client := trello.NewClient(cfg.TrelloBaseURL, cfg.TrelloTimeout, trello.WithLogger(logger))
	now := func() time.Time { return time.Now().In(cfg.TimeZone) }
	store := wizard.NewStore(cfg.SessionTTL, func() *wizard.Controller {
		return wizard.NewController(client, now)
	})

	wiz, err := handlers.NewWizardHandler(catalog, logger)
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	return enableCORS(routes.RegisterRoutes(routes.Deps{
		Wizard:          wiz,
		Sessions:        middleware.NewSessions(cfg.SessionSecret, cfg.SessionTTL, store),
		Logger:          logger,
		SubmitRateLimit: cfg.SubmitRateLimit,
		SubmitBurst:     cfg.SubmitBurst,
	})), nil
}

// enableCORS opens the read-only JSON endpoints to other origins. Form posts
// stay same-origin.
func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")

		// Handle preflight (OPTIONS)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
