package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/creatorhub/engage/internal/auth"
)

func init() {
	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Claim the daily login bonus",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doPostJSON(apiFlag+"/api/engage/login", nil)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	rootCmd.AddCommand(loginCmd)

	var username, bio, avatar string
	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "Update the profile (completion awards credits once)",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]interface{}{}
			if username != "" {
				payload["username"] = username
			}
			if bio != "" {
				payload["bio"] = bio
			}
			if avatar != "" {
				payload["avatar"] = avatar
			}
			data, err := doPutJSON(apiFlag+"/api/profile", payload)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	profileCmd.Flags().StringVarP(&username, "username", "u", "", "Username")
	profileCmd.Flags().StringVarP(&bio, "bio", "b", "", "Bio")
	profileCmd.Flags().StringVar(&avatar, "avatar", "", "Avatar URL")
	rootCmd.AddCommand(profileCmd)

	// Local-dev helper: mint a token with the service's JWT secret so
	// the other subcommands can authenticate against a dev instance.
	var secret, userID, role string
	var ttl time.Duration
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a dev bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := auth.IssueToken(secret, userID, role, ttl)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, token)
			return nil
		},
	}
	tokenCmd.Flags().StringVarP(&secret, "secret", "s", "dev-secret", "JWT signing secret")
	tokenCmd.Flags().StringVarP(&userID, "user", "u", "", "User ID (required)")
	tokenCmd.Flags().StringVarP(&role, "role", "r", "user", "Role: user or admin")
	tokenCmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	_ = tokenCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(tokenCmd)
}
