package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

func init() {
	dashboardCmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show the user dashboard summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet(apiFlag + "/api/dashboard")
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}

	savedCmd := &cobra.Command{
		Use:   "saved",
		Short: "List saved content",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet(apiFlag + "/api/dashboard/saved")
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	dashboardCmd.AddCommand(savedCmd)

	adminCmd := &cobra.Command{
		Use:   "admin",
		Short: "Show the admin overview (admin role required)",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet(apiFlag + "/api/dashboard/admin")
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	dashboardCmd.AddCommand(adminCmd)

	creditsCmd := &cobra.Command{
		Use:   "credits USER_ID AMOUNT",
		Short: "Set a user's credit balance (admin role required)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q", args[1])
			}
			url := fmt.Sprintf("%s/api/dashboard/admin/credits/%s", apiFlag, args[0])
			data, err := doPutJSON(url, map[string]interface{}{"credits": amount})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	dashboardCmd.AddCommand(creditsCmd)

	rootCmd.AddCommand(dashboardCmd)
}
