package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/gitfolio/internal/server"
)

func newTokenCmd(a *app) *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an access token for a user id (development)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			jwtCfg, err := a.cfg.JWT()
			if err != nil {
				return err
			}
			userID := uuid.New()
			if user != "" {
				userID, err = uuid.Parse(user)
				if err != nil {
					return fmt.Errorf("invalid --user: %w", err)
				}
			}

			token, err := server.NewJWTService(jwtCfg).GenerateToken(userID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			if user == "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "user id: %s\n", userID)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "User id (UUID); a new one is generated when empty")
	return cmd
}
