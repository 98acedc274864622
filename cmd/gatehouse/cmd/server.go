package cmd

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/jmcleod/gatehouse/api"
	"github.com/jmcleod/gatehouse/auth"
	"github.com/jmcleod/gatehouse/internal/redact"
	"github.com/jmcleod/gatehouse/session"
	"github.com/jmcleod/gatehouse/store"
	bboltstore "github.com/jmcleod/gatehouse/store/bbolt"
	"github.com/jmcleod/gatehouse/store/postgres"
)

var (
	port            int
	dataDir         string
	postgresDSN     string
	authType        string
	sessionDuration int
	cookieName      string
	exemptPaths     []string
	logLevel        string
	tlsCert         string
	tlsKey          string
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the authentication service server",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := setupLogger(logLevel)
		if err != nil {
			return err
		}
		slog.SetDefault(logger)

		repo, cleanup, err := openRepository(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		authn, err := buildAuthenticator(repo)
		if err != nil {
			return err
		}

		ttl := time.Duration(sessionDuration) * time.Second
		a := api.New(repo, authn,
			api.WithLogger(logger),
			api.WithCookieName(cookieName),
			api.WithCookieTTL(ttl),
		)

		r := chi.NewRouter()
		r.Use(middleware.Logger)
		r.Use(middleware.Recoverer)

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("OK"))
		})

		r.Mount("/api/v1", a.Router())

		server := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		useTLS := tlsCert != "" && tlsKey != ""
		if useTLS {
			cert, err := tls.LoadX509KeyPair(tlsCert, tlsKey)
			if err != nil {
				return fmt.Errorf("failed to load TLS key pair: %w", err)
			}
			server.TLSConfig = &tls.Config{
				Certificates: []tls.Certificate{cert},
				MinVersion:   tls.VersionTLS12,
			}
		}

		// Graceful shutdown on SIGINT/SIGTERM.
		done := make(chan error, 1)
		go func() {
			var err error
			if useTLS {
				err = server.ListenAndServeTLS("", "")
			} else {
				err = server.ListenAndServe()
			}
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				done <- fmt.Errorf("server failed: %w", err)
				return
			}
			done <- nil
		}()

		printBanner()
		fmt.Printf("Starting server on port %d (auth: %s)...\n", port, authType)

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			fmt.Printf("\nReceived %s, shutting down...\n", sig)
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				return fmt.Errorf("server shutdown failed: %w", err)
			}
			return nil
		case err := <-done:
			return err
		}
	},
}

func setupLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level:       lvl,
		ReplaceAttr: redact.Attrs(),
	})), nil
}

// openRepository picks the user store backend: postgres when a DSN is given,
// bbolt in the data directory otherwise.
func openRepository(ctx context.Context) (store.Repository, func(), error) {
	if postgresDSN != "" {
		repo, err := postgres.NewRepositoryFromDSN(ctx, postgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		return repo, repo.Close, nil
	}

	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	repo, err := bboltstore.NewRepositoryFromFile(dataDir+"/gatehouse.db", nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open user storage: %w", err)
	}
	return repo, func() { repo.Close() }, nil
}

// buildAuthenticator maps the --auth flag to a strategy. Session flavors
// differ only in the store stack behind the shared session authenticator.
func buildAuthenticator(repo store.Repository) (auth.Authenticator, error) {
	opts := []auth.Option{
		auth.WithCookieName(cookieName),
		auth.WithExemptPaths(exemptPaths),
	}
	ttl := time.Duration(sessionDuration) * time.Second

	switch authType {
	case "none":
		return auth.NewNull(), nil
	case "basic":
		return auth.NewBasic(repo, opts...), nil
	case "session":
		return auth.NewSessionAuth(session.NewMemoryStore(), opts...), nil
	case "session-exp":
		s := session.NewExpiringStore(session.NewMemoryStore(), ttl)
		return auth.NewSessionAuth(s, opts...), nil
	case "session-db":
		s := session.NewPersistedStore(session.NewMemoryStore(), repo, ttl)
		return auth.NewSessionAuth(s, opts...), nil
	default:
		return nil, fmt.Errorf("unknown auth type %q", authType)
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)
	serverCmd.Flags().IntVarP(&port, "port", "p", 8080, "Port to listen on")
	serverCmd.Flags().StringVar(&dataDir, "data-dir", "./data", "Directory for persistent data")
	serverCmd.Flags().StringVar(&postgresDSN, "postgres-dsn", "", "PostgreSQL DSN (overrides bbolt storage)")
	serverCmd.Flags().StringVar(&authType, "auth", "session", "Authentication strategy: none, basic, session, session-exp, session-db")
	serverCmd.Flags().IntVar(&sessionDuration, "session-duration", 0, "Session lifetime in seconds (0 = no expiry)")
	serverCmd.Flags().StringVar(&cookieName, "cookie-name", auth.DefaultCookieName, "Name of the session cookie")
	serverCmd.Flags().StringSliceVar(&exemptPaths, "exempt", api.DefaultExemptPaths(), "Paths reachable without authentication")
	serverCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	serverCmd.Flags().StringVar(&tlsCert, "tls-cert", "", "Path to TLS certificate file")
	serverCmd.Flags().StringVar(&tlsKey, "tls-key", "", "Path to TLS key file")
}
