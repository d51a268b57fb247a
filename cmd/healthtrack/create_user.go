package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"healthtrack/internal/app"
)

var (
	newUsername string
	newPassword string
)

var createUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Create an account in the configured store",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		st, err := openStore(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer func() { _ = st.close() }()

		auth := app.NewAuthService(st.users, st.sessions, cfg.SessionTTL)
		user, err := auth.CreateUser(cmd.Context(), newUsername, newPassword)
		if err != nil {
			return err
		}
		log.Info("user created", zap.Int64("id", user.ID), zap.String("username", user.Username))
		fmt.Fprintf(cmd.OutOrStdout(), "created user %q (id %d)\n", user.Username, user.ID)
		return nil
	},
}

func init() {
	createUserCmd.Flags().StringVarP(&newUsername, "username", "u", "", "Username")
	createUserCmd.Flags().StringVarP(&newPassword, "password", "p", "", "Password")
	_ = createUserCmd.MarkFlagRequired("username")
	_ = createUserCmd.MarkFlagRequired("password")
}
