package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/healthfirst/homecare/internal/bootstrap"
)

func newCreateAdminCmd(opts *rootOptions) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create the admin account, or promote an existing user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := opts.setup(cmd)
			app, err := bootstrap.New(cmd.Context(), cfg, bootstrap.Options{})
			if err != nil {
				return err
			}
			defer app.Close()

			if email == "" {
				email = cfg.AdminEmail
			}
			if password == "" {
				password = cfg.AdminPassword
			}
			admin, err := app.AuthUC.EnsureAdmin(cmd.Context(), email, password)
			if err != nil {
				return fmt.Errorf("ensure admin: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Tài khoản quản trị: %s (%s)\n", admin.Email, admin.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "admin email (default ADMIN_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "admin password (default ADMIN_PASSWORD)")
	return cmd
}
