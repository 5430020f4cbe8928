package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/billbook/internal/auth"
	"github.com/joseph-ayodele/billbook/internal/logger"
	"github.com/joseph-ayodele/billbook/internal/repository"
	"github.com/joseph-ayodele/billbook/internal/server"
)

var (
	sessionEmail string
	sessionName  string
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage login sessions",
}

var sessionCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Find or create a user by email and print a session token",
	RunE: func(cmd *cobra.Command, _ []string) error {
		log := logger.WithComponent("session")
		db, pool, err := server.ConnectDB(cmd.Context(), cfg.Database, log)
		if err != nil {
			return err
		}
		defer server.CloseDB(db, pool, log)
		if err := repository.Migrate(cmd.Context(), db); err != nil {
			return err
		}

		base := logger.GetLogger()
		svc := auth.NewService(repository.NewUserRepository(db, base), repository.NewSessionRepository(db, base), cfg.Auth.SessionTTL, base)
		u, sess, err := svc.Login(cmd.Context(), sessionEmail, sessionName)
		if err != nil {
			return err
		}
		fmt.Printf("user_id:    %s\n", u.ID)
		fmt.Printf("expires_at: %s\n", sess.ExpiresAt.Format("2006-01-02T15:04:05Z07:00"))
		fmt.Printf("token:      %s\n", sess.Token)
		return nil
	},
}

func init() {
	sessionCreateCmd.Flags().StringVar(&sessionEmail, "email", "", "user email (required)")
	sessionCreateCmd.Flags().StringVar(&sessionName, "name", "", "display name for a new user")
	_ = sessionCreateCmd.MarkFlagRequired("email")
	sessionCmd.AddCommand(sessionCreateCmd)
}
