package main

import (
	"fmt"

	"github.com/Dias221467/SocialGraph/internal/config"
	jwtutil "github.com/Dias221467/SocialGraph/pkg/jwt"
	"github.com/spf13/cobra"
)

var (
	tokenSubject string
	tokenRole    string

	rootCmd = &cobra.Command{
		Use:          "socialgraph",
		Short:        "Authenticated social-graph server",
		SilenceUsage: true,
		RunE:         runServe,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the TCP protocol server and the HTTP surface",
		RunE:  runServe,
	}

	tokenCmd = &cobra.Command{
		Use:   "token",
		Short: "Print a signed token for the admin HTTP endpoints",
		RunE:  runToken,
	}
)

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "admin", "name recorded in the token")
	tokenCmd.Flags().StringVar(&tokenRole, "role", "admin", "role granted by the token")

	rootCmd.AddCommand(serveCmd, tokenCmd)
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg := config.LoadConfig()
	token, err := jwtutil.GenerateToken(tokenSubject, tokenRole, cfg.JWTSecret, cfg.TokenExpiry)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
