package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	feedCmd := &cobra.Command{Use: "feed", Short: "Feed operations"}

	getCmd := &cobra.Command{
		Use:   "get",
		Short: "Fetch the aggregated feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet(apiFlag + "/api/feed")
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	feedCmd.AddCommand(getCmd)

	var contentID, source, title, url, description string
	saveCmd := &cobra.Command{
		Use:   "save",
		Short: "Save a feed item",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]interface{}{
				"contentId": contentID, "source": source, "title": title, "url": url,
			}
			if description != "" {
				payload["description"] = description
			}
			data, err := doPostJSON(apiFlag+"/api/feed/save", payload)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	saveCmd.Flags().StringVarP(&contentID, "content", "c", "", "Content ID (required)")
	saveCmd.Flags().StringVarP(&source, "source", "s", "", "Source (required)")
	saveCmd.Flags().StringVar(&title, "title", "", "Title (required)")
	saveCmd.Flags().StringVar(&url, "url", "", "URL (required)")
	saveCmd.Flags().StringVar(&description, "description", "", "Description")
	_ = saveCmd.MarkFlagRequired("content")
	_ = saveCmd.MarkFlagRequired("source")
	_ = saveCmd.MarkFlagRequired("title")
	_ = saveCmd.MarkFlagRequired("url")
	feedCmd.AddCommand(saveCmd)

	var shareContentID, shareSource, shareTitle string
	shareCmd := &cobra.Command{
		Use:   "share",
		Short: "Record a share of a feed item",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doPostJSON(apiFlag+"/api/feed/share", map[string]interface{}{
				"contentId": shareContentID, "source": shareSource, "title": shareTitle,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	shareCmd.Flags().StringVarP(&shareContentID, "content", "c", "", "Content ID (required)")
	shareCmd.Flags().StringVarP(&shareSource, "source", "s", "", "Source (required)")
	shareCmd.Flags().StringVar(&shareTitle, "title", "", "Title (required)")
	_ = shareCmd.MarkFlagRequired("content")
	_ = shareCmd.MarkFlagRequired("source")
	_ = shareCmd.MarkFlagRequired("title")
	feedCmd.AddCommand(shareCmd)

	var reportContentID, reportSource, reason, reportDescription string
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Report a feed item",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]interface{}{
				"contentId": reportContentID, "source": reportSource, "reason": reason,
			}
			if reportDescription != "" {
				payload["description"] = reportDescription
			}
			data, err := doPostJSON(apiFlag+"/api/feed/report", payload)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	reportCmd.Flags().StringVarP(&reportContentID, "content", "c", "", "Content ID (required)")
	reportCmd.Flags().StringVarP(&reportSource, "source", "s", "", "Source (required)")
	reportCmd.Flags().StringVarP(&reason, "reason", "r", "", "Reason: inappropriate, spam, misleading, offensive, other (required)")
	reportCmd.Flags().StringVar(&reportDescription, "description", "", "Description")
	_ = reportCmd.MarkFlagRequired("content")
	_ = reportCmd.MarkFlagRequired("source")
	_ = reportCmd.MarkFlagRequired("reason")
	feedCmd.AddCommand(reportCmd)

	rootCmd.AddCommand(feedCmd)
}
