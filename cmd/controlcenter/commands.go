package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Dan9191/control-center/internal/database"
	"github.com/Dan9191/control-center/internal/notifications"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.Open(cmd.Context(), cfg.DBDriver, cfg.DBConn)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := database.Migrate(cmd.Context(), db, cfg.DBDriver); err != nil {
				return err
			}
			logger.Infof("Schema applied to %s database", cfg.DBDriver)
			return nil
		},
	}
}

func notifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "notify <job>",
		Short:     "Run one notification check now",
		Long:      "Run one notification check now. Jobs: " + strings.Join(notifications.Jobs, ", "),
		Args:      cobra.ExactArgs(1),
		ValidArgs: notifications.Jobs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.svc.RunNotification(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			return nil
		},
	}
}

func testEmailCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test-email",
		Short: "Send a test message to the admin address",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			msg, err := a.svc.SendTestEmail(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
}
