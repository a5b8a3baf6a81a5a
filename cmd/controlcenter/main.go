package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Dan9191/control-center/internal/config"
	"github.com/Dan9191/control-center/internal/database"
	"github.com/Dan9191/control-center/internal/notifications"
	"github.com/Dan9191/control-center/internal/repository"
	"github.com/Dan9191/control-center/internal/service"
	"github.com/Dan9191/control-center/internal/utils/email"
)

var (
	cfg    *config.Config
	logger *logrus.Logger
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	rootCmd := &cobra.Command{
		Use:           "controlcenter",
		Short:         "Family office control center",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.NewConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			logger = newLogger(cfg)
			return nil
		},
	}

	rootCmd.AddCommand(
		serveCmd(),
		migrateCmd(),
		notifyCmd(),
		testEmailCmd(),
	)
	rootCmd.SetContext(ctx)

	err := rootCmd.Execute()
	stop()
	if err != nil {
		if logger != nil {
			logger.Error(err)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// newLogger builds the logger from LOG_LEVEL and LOG_FORMAT
func newLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.New()
	if strings.EqualFold(cfg.LogFormat, "text") {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

// app is the wired set of layers shared by every subcommand
type app struct {
	db       *sql.DB
	repo     *repository.Repository
	notifier *notifications.Notifier
	svc      *service.Service
}

func newApp(ctx context.Context) (*app, error) {
	db, err := database.Open(ctx, cfg.DBDriver, cfg.DBConn)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx, db, cfg.DBDriver); err != nil {
		db.Close()
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		db.Close()
		return nil, err
	}

	repo := repository.NewRepository(db)
	notifier := notifications.NewNotifier(repo, email.NewSender(logger), logger, loc)
	svc := service.NewService(repo, logger, cfg, notifier)
	return &app{db: db, repo: repo, notifier: notifier, svc: svc}, nil
}

func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		logger.Warnf("Failed to close database: %v", err)
	}
}
