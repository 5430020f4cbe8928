package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/billbook/constants"
	"github.com/joseph-ayodele/billbook/internal/auth"
	"github.com/joseph-ayodele/billbook/internal/logger"
	"github.com/joseph-ayodele/billbook/internal/repository"
	"github.com/joseph-ayodele/billbook/internal/server"
)

var (
	planEmail string
	planName  string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Manage subscription plans",
}

var planSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Move a user onto the free, pro or business plan",
	RunE: func(cmd *cobra.Command, _ []string) error {
		log := logger.WithComponent("plan")
		db, pool, err := server.ConnectDB(cmd.Context(), cfg.Database, log)
		if err != nil {
			return err
		}
		defer server.CloseDB(db, pool, log)

		base := logger.GetLogger()
		svc := auth.NewService(repository.NewUserRepository(db, base), repository.NewSessionRepository(db, base), cfg.Auth.SessionTTL, base)
		u, err := svc.SetPlan(cmd.Context(), planEmail, constants.Plan(planName))
		if err != nil {
			return err
		}
		fmt.Printf("user_id: %s\n", u.ID)
		fmt.Printf("plan:    %s\n", u.SubscriptionPlan)
		return nil
	},
}

func init() {
	planSetCmd.Flags().StringVar(&planEmail, "email", "", "user email (required)")
	planSetCmd.Flags().StringVar(&planName, "plan", "", "free, pro or business (required)")
	_ = planSetCmd.MarkFlagRequired("email")
	_ = planSetCmd.MarkFlagRequired("plan")
	planCmd.AddCommand(planSetCmd)
}
