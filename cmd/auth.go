// Package cmd implements the command-line interface for link2vid.
package cmd

import (
	"fmt"

	"github.com/link2vid/link2vid/auth"
	"github.com/link2vid/link2vid/icon"
	"github.com/link2vid/link2vid/style"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(authCmd)
}

// authCmd serves as the parent command for managing stored site credentials.
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage per-site credentials stored in the system keyring",
}

func init() {
	authCmd.AddCommand(authSetCmd)
}

// authSetCmd interactively stores credentials for a host.
var authSetCmd = &cobra.Command{
	Use:   "set [host]",
	Short: "Store credentials for a host in the system keyring",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		host := args[0]

		creds, err := askCredentials(host)
		handleErr(err)

		handleErr(auth.SetCredentials(host, creds))
		fmt.Printf("%s stored credentials for %s\n", icon.Get(icon.Success), style.Bold(host))
	},
}

func init() {
	authCmd.AddCommand(authDeleteCmd)
}

// authDeleteCmd removes the credentials stored for a host.
var authDeleteCmd = &cobra.Command{
	Use:   "delete [host]",
	Short: "Remove the credentials stored for a host",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		host := args[0]

		handleErr(auth.DeleteCredentials(host))
		fmt.Printf("%s removed credentials for %s\n", icon.Get(icon.Success), style.Bold(host))
	},
}
