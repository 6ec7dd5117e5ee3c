package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/epoch-io/epoch/internal/config"
	"github.com/epoch-io/epoch/internal/database"
	"github.com/epoch-io/epoch/internal/report"
	"github.com/epoch-io/epoch/internal/repository"
)

var (
	exportEmail string
	exportOut   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a user's weekly report workbook to a local file",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportEmail, "email", "", "Email of the user to export")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output path (default: WeeklyReport-<email>-<date>.xlsx)")
	_ = exportCmd.MarkFlagRequired("email")
}

func runExport(cmd *cobra.Command, args []string) error {
	if err := config.Load(configPath); err != nil {
		return err
	}
	cfg := config.Get()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()

	users := repository.NewSQLUserRepository(db)
	user, err := users.GetByEmail(ctx, exportEmail)
	if err != nil {
		return fmt.Errorf("looking up %s: %w", exportEmail, err)
	}

	entries := repository.NewSQLTimeEntryRepository(db)
	list, err := entries.ListByUser(ctx, user.ID)
	if err != nil {
		return err
	}

	now := time.Now()
	data, err := report.Generate(user.Email, list, now)
	if err != nil {
		return err
	}

	out := exportOut
	if out == "" {
		out = report.Filename(user.Email, now)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return err
	}

	fmt.Printf("Wrote %d entries to %s\n", len(list), out)
	return nil
}
