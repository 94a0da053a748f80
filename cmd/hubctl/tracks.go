package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	tracksCmd := &cobra.Command{Use: "tracks", Short: "Track operations"}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all tracks",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet(apiFlag + "/api/get/music_data")
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	tracksCmd.AddCommand(listCmd)

	var url string
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Import a track from a YouTube URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			if url == "" {
				return fmt.Errorf("--url required")
			}
			data, err := doPostJSON(apiFlag+"/api/upload/youtube/url", map[string]string{"url": url})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	importCmd.Flags().StringVarP(&url, "url", "l", "", "YouTube URL (required)")
	tracksCmd.AddCommand(importCmd)

	rootCmd.AddCommand(tracksCmd)

	// send a test email through the notification queue
	var to, subject, body string
	emailCmd := &cobra.Command{
		Use:   "email",
		Short: "Queue an email notification",
		RunE: func(cmd *cobra.Command, args []string) error {
			if to == "" || subject == "" || body == "" {
				return fmt.Errorf("--to, --subject and --body required")
			}
			data, err := doPostJSON(apiFlag+"/api/send/email", map[string]string{
				"email": to, "subject": subject, "body": body,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	emailCmd.Flags().StringVarP(&to, "to", "t", "", "Recipient (required)")
	emailCmd.Flags().StringVarP(&subject, "subject", "s", "", "Subject (required)")
	emailCmd.Flags().StringVarP(&body, "body", "b", "", "HTML body (required)")
	rootCmd.AddCommand(emailCmd)
}
