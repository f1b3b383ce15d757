package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/signlearn/signlearn-hub/internal/bootstrap"
	"github.com/signlearn/signlearn-hub/internal/infrastructure/persistence/postgres"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(cmd.Context(), func(ctx context.Context, m *postgres.Migrator) error {
					n, err := m.Migrate(ctx)
					if err != nil {
						return err
					}
					color.Green("applied %d migration(s)", n)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the latest migration",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(cmd.Context(), func(ctx context.Context, m *postgres.Migrator) error {
					version, err := m.Rollback(ctx)
					if err != nil {
						return err
					}
					if version == 0 {
						color.Yellow("nothing to roll back")
						return nil
					}
					color.Green("rolled back migration %03d", version)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show applied and pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(cmd.Context(), printStatus)
			},
		},
	)
	return cmd
}

func withMigrator(ctx context.Context, fn func(ctx context.Context, m *postgres.Migrator) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Database.AutoMigrate = false

	log := bootstrap.NewLogger(cfg)
	conn, err := bootstrap.OpenDatabase(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("bootstrap.OpenDatabase() > %w", err)
	}
	defer conn.Close()

	return fn(ctx, postgres.NewMigrator(conn))
}

func printStatus(ctx context.Context, m *postgres.Migrator) error {
	migrations, err := m.Status(ctx)
	if err != nil {
		return err
	}

	applied := color.New(color.FgGreen).SprintFunc()
	pending := color.New(color.FgYellow).SprintFunc()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VERSION\tNAME\tSTATUS\tAPPLIED AT")
	for _, mig := range migrations {
		state, at := pending("pending"), "-"
		if mig.IsApplied {
			state = applied("applied")
			at = mig.AppliedAt.Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(w, "%03d\t%s\t%s\t%s\n", mig.Version, mig.Name, state, at)
	}
	return w.Flush()
}
