package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"hrpayroll/internal/auth"
	"hrpayroll/internal/domain/user"
	"hrpayroll/internal/platform/config"
	"hrpayroll/internal/platform/db"
)

func main() {
	root := &cobra.Command{
		Use:           "hrpayctl",
		Short:         "Administrative tasks for the HR payroll service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(migrateCmd(), createAdminCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			pool, err := db.Connect(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
				return err
			}
			cmd.Println("migrations applied")
			return nil
		},
	}
}

func createAdminCmd() *cobra.Command {
	var email, username, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an active admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			pool, err := db.Connect(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer pool.Close()

			svc := user.NewService(user.NewStore(pool))
			created, err := svc.Create(ctx, user.CreateInput{
				Email:    email,
				Username: username,
				Password: password,
				Role:     auth.RoleAdmin,
			})
			if err != nil {
				return err
			}
			cmd.Printf("created admin %s (id %d)\n", created.Username, created.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "admin email address")
	cmd.Flags().StringVar(&username, "username", "admin", "admin username")
	cmd.Flags().StringVar(&password, "password", "", "admin password (min 8 characters)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
