package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	usersCmd := &cobra.Command{Use: "users", Short: "User operations"}

	// create
	var username, email, password string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" || email == "" || password == "" {
				return fmt.Errorf("--username, --email and --password required")
			}
			payload := map[string]interface{}{
				"username": username,
				"email":    email,
				"password": password,
			}
			data, err := doPostJSON(apiFlag+"/api/create/user", payload)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	createCmd.Flags().StringVarP(&username, "username", "u", "", "Username (required)")
	createCmd.Flags().StringVarP(&email, "email", "e", "", "Email (required)")
	createCmd.Flags().StringVarP(&password, "password", "p", "", "Password (required)")
	usersCmd.AddCommand(createCmd)

	// list
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all user accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet(apiFlag + "/api/show/user")
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	usersCmd.AddCommand(listCmd)

	// favourites
	var favEmail string
	favCmd := &cobra.Command{
		Use:   "favourites",
		Short: "Show a user's favourite songs",
		RunE: func(cmd *cobra.Command, args []string) error {
			if favEmail == "" {
				return fmt.Errorf("--email required")
			}
			data, err := doGet(apiFlag + "/api/fetch/favourite/user/song?email=" + favEmail)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	favCmd.Flags().StringVarP(&favEmail, "email", "e", "", "Email (required)")
	usersCmd.AddCommand(favCmd)

	rootCmd.AddCommand(usersCmd)
}
