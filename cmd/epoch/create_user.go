package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/epoch-io/epoch/internal/config"
	"github.com/epoch-io/epoch/internal/database"
	"github.com/epoch-io/epoch/internal/models"
	"github.com/epoch-io/epoch/internal/repository"
)

var (
	createUserEmail    string
	createUserPassword string
)

var createUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Register a user account",
	Args:  cobra.NoArgs,
	RunE:  runCreateUser,
}

func init() {
	createUserCmd.Flags().StringVar(&createUserEmail, "email", "", "Email address of the new user")
	createUserCmd.Flags().StringVar(&createUserPassword, "password", "", "Password of the new user (min 6 characters)")
	_ = createUserCmd.MarkFlagRequired("email")
	_ = createUserCmd.MarkFlagRequired("password")
}

func runCreateUser(cmd *cobra.Command, args []string) error {
	if len(createUserPassword) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}

	if err := config.Load(configPath); err != nil {
		return err
	}
	cfg := config.Get()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.EnsureSchema(db); err != nil {
		return err
	}

	user := &models.User{Email: createUserEmail}
	if err := user.SetPassword(createUserPassword); err != nil {
		return err
	}

	users := repository.NewSQLUserRepository(db)
	if err := users.Create(context.Background(), user); err != nil {
		return err
	}

	fmt.Printf("Created user %s (id %d)\n", user.Email, user.ID)
	return nil
}
