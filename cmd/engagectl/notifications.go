package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	notificationsCmd := &cobra.Command{Use: "notifications", Short: "Notification operations"}

	var limit int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recent notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			url := apiFlag + "/api/notifications"
			if limit > 0 {
				url = fmt.Sprintf("%s?limit=%d", url, limit)
			}
			data, err := doGet(url)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	listCmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum notifications to return")
	notificationsCmd.AddCommand(listCmd)

	readCmd := &cobra.Command{
		Use:   "read ID [ID...]",
		Short: "Mark notifications as read",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doPutJSON(apiFlag+"/api/notifications/read", map[string]interface{}{"ids": args})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	notificationsCmd.AddCommand(readCmd)

	rootCmd.AddCommand(notificationsCmd)
}
