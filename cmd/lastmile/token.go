package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jengzang/lastmile-backend-go/internal/auth"
)

var tokenSubject string

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token for the protected endpoints",
	Long: `Signs a token with auth.jwt_secret (or JWT_SECRET). The token is accepted by
GET /api/v1/export and POST /api/v1/dataset/reload until it expires.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := auth.NewIssuer(cfg.Auth).Issue(tokenSubject)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "admin", "Token subject")
}
