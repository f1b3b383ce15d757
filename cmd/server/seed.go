package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/signlearn/signlearn-hub/internal/bootstrap"
	"github.com/signlearn/signlearn-hub/internal/infrastructure/persistence/postgres"
)

func newSeedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load courses, lessons and dictionary signs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return seed(cmd.Context(), file)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML catalog (built-in catalog when empty)")
	return cmd
}

func seed(ctx context.Context, file string) error {
	catalog, err := readCatalog(file)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := bootstrap.NewLogger(cfg)
	conn, err := bootstrap.OpenDatabase(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("bootstrap.OpenDatabase() > %w", err)
	}
	defer conn.Close()

	res, err := postgres.NewSeeder(conn).Seed(ctx, catalog)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	color.Green("seeded %d course(s), %d lesson(s), %d sign(s)", res.Courses, res.Lessons, res.Signs)
	return nil
}

func readCatalog(file string) (*postgres.Catalog, error) {
	if file == "" {
		return postgres.DefaultCatalog()
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return postgres.ParseCatalog(data)
}
