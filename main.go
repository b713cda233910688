package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/samandartukhtayev/user-profile-service/config"
	"github.com/samandartukhtayev/user-profile-service/handlers"
	"github.com/samandartukhtayev/user-profile-service/repository"
	"github.com/samandartukhtayev/user-profile-service/sharding"
)

const shutdownTimeout = 10 * time.Second

var log *logrus.Logger

func init() {
	log = logrus.New()
	log.Formatter = &logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "severity",
			logrus.FieldKeyMsg:   "message",
		},
		TimestampFormat: time.RFC3339Nano,
	}
	log.Out = os.Stdout
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.WithError(err).Fatal("profilesvc failed")
	}
}

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "profilesvc",
		Short:         "User profile CRUD service over YugabyteDB YSQL",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional dotenv file to load before reading the environment")

	loadConfig := func() (*config.Config, error) {
		cfg, err := config.Load(envFile)
		if err != nil {
			return nil, errors.Wrap(err, "invalid configuration")
		}
		level, err := logrus.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, errors.Wrap(err, "invalid LOG_LEVEL")
		}
		log.SetLevel(level)
		return cfg, nil
	}

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Ensure the schema exists and serve the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create the keyspace and profile table on every shard",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			sm, err := provision(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer sm.Close()
			log.Info("schema is up to date")
			return nil
		},
	})

	return root
}

// provision opens every shard and ensures the schema exists on each primary
func provision(ctx context.Context, cfg *config.Config) (*sharding.ShardManager, error) {
	sm, err := sharding.NewShardManager(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database shards")
	}
	log.WithField("shards", sm.NumShards()).Info("connected to all database shards and replicas")

	if err := sm.EnsureSchema(ctx, cfg.Keyspace, cfg.Dialect); err != nil {
		sm.Close()
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"keyspace": cfg.Keyspace,
		"table":    sharding.ProfileTable,
		"dialect":  cfg.Dialect,
	}).Info("schema ready")
	return sm, nil
}

func serve(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sm, err := provision(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := sm.Close(); err != nil {
			log.WithError(err).Warn("failed to close database shards")
		}
	}()

	repo := repository.NewUserProfileRepository(sm, cfg.Keyspace, cfg.Server.QueryTimeout)
	h, err := handlers.New(repo, handlers.WithBodyLimit(cfg.Server.BodyLimitBytes))
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handlers.NewRouter(h, log, cfg.Server.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.Server.Addr).Info("profile service listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "http server failed")
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("gracefully shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
